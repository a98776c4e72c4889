package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

// LinkWriter writes rows of an association table whose identity is a
// composite of (parent, child). It reports how many rows were written and
// never undoes anything itself.
type LinkWriter[T any] struct {
	ParentColumn string
	KeyColumns   []string
	// UpdateColumns are overwritten when a row with the same key exists.
	// Empty means the key columns are rewritten so a conflict still counts
	// as a written row.
	UpdateColumns []string
	Key           func(T) string
}

var OrderLineLinks = LinkWriter[models.OrderLine]{
	ParentColumn:  "order_id",
	KeyColumns:    []string{"order_id", "product_id"},
	UpdateColumns: []string{"quantity", "spec", "color"},
	Key:           func(l models.OrderLine) string { return l.OrderID.String() + "/" + l.ProductID.String() },
}

var ProductTagLinks = LinkWriter[models.ProductTag]{
	ParentColumn: "product_id",
	KeyColumns:   []string{"product_id", "tag_id"},
	Key:          func(l models.ProductTag) string { return l.ProductID.String() + "/" + l.TagID.String() },
}

// Distinct collapses rows sharing a key; the last occurrence wins and keeps
// the position of the first.
func (w LinkWriter[T]) Distinct(rows []T) []T {
	idx := make(map[string]int, len(rows))
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		k := w.Key(r)
		if i, ok := idx[k]; ok {
			out[i] = r
			continue
		}
		idx[k] = len(out)
		out = append(out, r)
	}
	return out
}

// Upsert inserts rows, overwriting existing rows with the same key.
func (w LinkWriter[T]) Upsert(ctx context.Context, db *gorm.DB, rows []T) (int64, error) {
	rows = w.Distinct(rows)
	if len(rows) == 0 {
		return 0, nil
	}

	keys := make([]clause.Column, 0, len(w.KeyColumns))
	for _, c := range w.KeyColumns {
		keys = append(keys, clause.Column{Name: c})
	}
	updates := w.UpdateColumns
	if len(updates) == 0 {
		updates = w.KeyColumns
	}

	res := db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: keys, DoUpdates: clause.AssignmentColumns(updates)}).
		Create(&rows)
	return res.RowsAffected, res.Error
}

// Replace deletes every row of parent and inserts rows.
func (w LinkWriter[T]) Replace(ctx context.Context, db *gorm.DB, parent uuid.UUID, rows []T) (int64, error) {
	if _, err := w.DeleteParent(ctx, db, parent); err != nil {
		return 0, err
	}
	return w.Upsert(ctx, db, rows)
}

func (w LinkWriter[T]) DeleteParent(ctx context.Context, db *gorm.DB, parent uuid.UUID) (int64, error) {
	res := db.WithContext(ctx).Where(w.ParentColumn+" = ?", parent).Delete(new(T))
	return res.RowsAffected, res.Error
}
