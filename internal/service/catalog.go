package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/validate"
)

// NamedService manages categories or tags; both are a name with soft delete.
type NamedService[T repo.Named] struct {
	Repo   *repo.NamedRepo[T]
	New    func(name string) *T
	Kind   string
	Events events.Publisher

	// OnChange runs after a rename or delete so copies that embed the name
	// can be refreshed.
	OnChange func(ctx context.Context, id uuid.UUID)
}

func NewCategoryService(r *repo.NamedRepo[models.Category], p events.Publisher) *NamedService[models.Category] {
	return &NamedService[models.Category]{
		Repo:   r,
		New:    func(name string) *models.Category { return &models.Category{Name: name} },
		Kind:   "category",
		Events: p,
	}
}

func NewTagService(r *repo.NamedRepo[models.Tag], p events.Publisher) *NamedService[models.Tag] {
	return &NamedService[models.Tag]{
		Repo:   r,
		New:    func(name string) *models.Tag { return &models.Tag{Name: name} },
		Kind:   "tag",
		Events: p,
	}
}

func (s *NamedService[T]) Create(ctx context.Context, req transport.NameRequest) (*transport.NamedItem, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	v := s.New(strings.TrimSpace(*req.Name))
	n, err := s.Repo.Create(ctx, v)
	if err != nil {
		return nil, classifyHeaderError(s.Kind, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s not written", ErrWriteFailed, s.Kind)
	}

	item := toNamedItem(*v)
	s.publish(ctx, "created", item)
	return &item, nil
}

// List returns one page of live rows, or every row when page is 0.
func (s *NamedService[T]) List(ctx context.Context, page int) (*transport.Pagination, []transport.NamedItem, error) {
	limit, offset := 0, 0
	if page > 0 {
		offset, limit = util.Calculate(page, util.DefaultPageSize)
	}

	total, rows, err := s.Repo.List(ctx, limit, offset)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: list %s: %w", ErrStorage, s.Kind, err)
	}

	items := make([]transport.NamedItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, toNamedItem(r))
	}
	if page == 0 {
		return nil, items, nil
	}
	return &transport.Pagination{CurrentPage: page, TotalPage: util.TotalPages(total, limit)}, items, nil
}

func (s *NamedService[T]) Rename(ctx context.Context, id uuid.UUID, req transport.NameRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	name := strings.TrimSpace(*req.Name)
	n, err := s.Repo.Rename(ctx, id, name)
	if err != nil {
		return fmt.Errorf("%w: rename %s: %w", ErrStorage, s.Kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s not updated", ErrWriteFailed, s.Kind, id)
	}

	s.changed(ctx, id)
	s.publish(ctx, "updated", transport.NamedItem{ID: id.String(), Name: name})
	return nil
}

func (s *NamedService[T]) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.Repo.SoftDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrStorage, s.Kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s not deleted", ErrWriteFailed, s.Kind, id)
	}

	s.changed(ctx, id)
	s.publish(ctx, "deleted", transport.NamedItem{ID: id.String()})
	return nil
}

func (s *NamedService[T]) changed(ctx context.Context, id uuid.UUID) {
	if s.OnChange != nil {
		s.OnChange(ctx, id)
	}
}

func (s *NamedService[T]) publish(ctx context.Context, action string, item transport.NamedItem) {
	event := map[string]any{
		"type": s.Kind + "_" + action,
		"id":   item.ID,
	}
	if item.Name != "" {
		event["name"] = item.Name
	}
	events.Publish(ctx, s.Events, item.ID, event)
}

func toNamedItem[T repo.Named](v T) transport.NamedItem {
	id, name := v.Ident()
	return transport.NamedItem{ID: id.String(), Name: name}
}
