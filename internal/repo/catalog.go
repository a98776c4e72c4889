package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

// Named is a soft-deletable table with an id and a name.
type Named interface {
	models.Category | models.Tag
	Ident() (uuid.UUID, string)
}

// NamedRepo serves categories and tags. Every query skips soft-deleted rows.
type NamedRepo[T Named] struct {
	DB *gorm.DB
}

func (r *NamedRepo[T]) Create(ctx context.Context, v *T) (int64, error) {
	res := r.DB.WithContext(ctx).Create(v)
	return res.RowsAffected, res.Error
}

func (r *NamedRepo[T]) List(ctx context.Context, limit, offset int) (int64, []T, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []T
	q := r.DB.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *NamedRepo[T]) Rename(ctx context.Context, id uuid.UUID, name string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(new(T)).Where("id = ?", id).Update("name", name)
	return res.RowsAffected, res.Error
}

func (r *NamedRepo[T]) SoftDelete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	return res.RowsAffected, res.Error
}
