package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/validate"
)

// DetailCache is satisfied by *cache.ProductCache.
type DetailCache interface {
	Get(ctx context.Context, id string) (*transport.ProductDetail, bool, error)
	Set(ctx context.Context, d *transport.ProductDetail) error
	Invalidate(ctx context.Context, id string) error
}

// ProductService owns product writes (header plus tag links) and reads.
// Cache, Index and Events are optional.
type ProductService struct {
	Store  repo.ProductStore
	Cache  DetailCache
	Index  search.Index
	Events events.Publisher
}

func (s *ProductService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	p, links, err := productFromRequest(req)
	if err != nil {
		return nil, err
	}
	p.ID = uuid.New()
	for i := range links {
		links[i].ProductID = p.ID
	}

	err = s.Store.Atomic(ctx, func(st repo.ProductStore) error {
		n, err := st.CreateProduct(ctx, p)
		if err != nil {
			return classifyHeaderError("product header", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: product header not written", ErrWriteFailed)
		}

		undo := undoLog{op: "create_product"}
		undo.add("delete_product", func(ctx context.Context) error {
			_, err := st.DeleteProduct(ctx, p.ID)
			return err
		})
		undo.add("delete_product_tags", func(ctx context.Context) error {
			_, err := st.DeleteProductTags(ctx, p.ID)
			return err
		})

		written, err := st.UpsertProductTags(ctx, links)
		if err == nil && written == int64(len(links)) {
			return nil
		}
		return undo.fail(ctx, classifyLinkError("product tags", err, written, len(links)))
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, p.ID, events.ProductCreated)
	return p, nil
}

// UpdateProduct overwrites the header and replaces the tag set. If the new
// tag set cannot be written completely the previous header and tags are put
// back.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req transport.ProductRequest) error {
	p, links, err := productFromRequest(req)
	if err != nil {
		return err
	}
	p.ID = id
	for i := range links {
		links[i].ProductID = id
	}

	err = s.Store.Atomic(ctx, func(st repo.ProductStore) error {
		prev, err := st.GetProduct(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %s not found", ErrWriteFailed, id)
		}
		if err != nil {
			return fmt.Errorf("%w: load product: %w", ErrStorage, err)
		}
		prevTags, err := st.TagIDs(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: load product tags: %w", ErrStorage, err)
		}

		n, err := st.UpdateProduct(ctx, p)
		if err != nil {
			return classifyHeaderError("product header", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: product %s not updated", ErrWriteFailed, id)
		}

		undo := undoLog{op: "update_product"}
		undo.add("restore_product", func(ctx context.Context) error {
			_, err := st.UpdateProduct(ctx, prev)
			return err
		})
		undo.add("restore_product_tags", func(ctx context.Context) error {
			_, err := st.ReplaceProductTags(ctx, id, tagLinks(id, prevTags))
			return err
		})

		written, err := st.ReplaceProductTags(ctx, id, links)
		if err == nil && written == int64(len(links)) {
			return nil
		}
		return undo.fail(ctx, classifyLinkError("product tags", err, written, len(links)))
	})
	if err != nil {
		return err
	}

	s.afterWrite(ctx, id, events.ProductUpdated)
	return nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	n, err := s.Store.SoftDeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: delete product: %w", ErrStorage, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: product %s not deleted", ErrWriteFailed, id)
	}

	l := logging.FromContext(ctx)
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, id.String()); err != nil {
			l.Warn("product_cache_invalidate_error", "product_id", id.String(), "error", err)
		}
	}
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id.String()); err != nil {
			l.Warn("product_unindex_error", "product_id", id.String(), "error", err)
		}
	}
	events.Publish(ctx, s.Events, id.String(), map[string]any{
		"type":      events.ProductDeleted,
		"productID": id.String(),
	})
	return nil
}

// Detail returns the assembled product. Public callers do not see disabled
// products and the enable flag is left out for them.
func (s *ProductService) Detail(ctx context.Context, id uuid.UUID, admin bool) (*transport.ProductDetail, error) {
	d, err := s.detail(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin {
		return d, nil
	}
	if d.Enable != nil && !*d.Enable {
		return nil, fmt.Errorf("%w: product %s disabled", ErrNotFound, id)
	}
	public := *d
	public.Enable = nil
	return &public, nil
}

func (s *ProductService) detail(ctx context.Context, id uuid.UUID) (*transport.ProductDetail, error) {
	l := logging.FromContext(ctx)

	if s.Cache != nil {
		d, hit, err := s.Cache.Get(ctx, id.String())
		if err != nil {
			l.Warn("product_cache_get_error", "product_id", id.String(), "error", err)
		}
		if hit {
			return d, nil
		}
	}

	p, tags, err := s.Store.ProductDetail(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: product detail: %w", ErrStorage, err)
	}

	d := toDetail(p, tags)
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, d); err != nil {
			l.Warn("product_cache_set_error", "product_id", id.String(), "error", err)
		}
	}
	return d, nil
}

// ListPublic lists enabled products, optionally of one category by name.
func (s *ProductService) ListPublic(ctx context.Context, page int, category string) (*transport.ProductPage, error) {
	filter := repo.ProductFilter{OnlyEnabled: true}
	if category != "" {
		c, err := s.Store.CategoryByName(ctx, category)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: category lookup: %w", ErrStorage, err)
		}
		filter.CategoryID = &c.ID
	}
	return s.list(ctx, page, filter, false)
}

func (s *ProductService) ListAdmin(ctx context.Context, page int) (*transport.ProductPage, error) {
	return s.list(ctx, page, repo.ProductFilter{}, true)
}

func (s *ProductService) list(ctx context.Context, page int, f repo.ProductFilter, admin bool) (*transport.ProductPage, error) {
	offset, limit := util.Calculate(page, util.DefaultPageSize)
	total, items, err := s.Store.ListProducts(ctx, f, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %w", ErrStorage, err)
	}

	out := &transport.ProductPage{
		Pagination: transport.Pagination{CurrentPage: page, TotalPage: util.TotalPages(total, limit)},
		Products:   make([]transport.ProductSummary, 0, len(items)),
	}
	for i := range items {
		out.Products = append(out.Products, toSummary(&items[i], admin))
	}
	return out, nil
}

// Search uses the search index when one is configured and falls back to a
// substring match in the database otherwise or when the index fails.
func (s *ProductService) Search(ctx context.Context, q string, page int) (*transport.ProductPage, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%w: empty query", ErrValidation)
	}
	offset, limit := util.Calculate(page, util.DefaultPageSize)
	out := &transport.ProductPage{Pagination: transport.Pagination{CurrentPage: page}}

	if s.Index != nil {
		total, docs, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			out.Pagination.TotalPage = util.TotalPages(total, limit)
			out.Products = make([]transport.ProductSummary, 0, len(docs))
			for _, d := range docs {
				out.Products = append(out.Products, transport.ProductSummary{
					ID:          d.ID,
					Name:        d.Name,
					Category:    d.Category,
					Description: d.Description,
					ImageURL:    d.ImageURL,
					OriginPrice: d.OriginPrice,
					Price:       d.Price,
				})
			}
			return out, nil
		}
		logging.FromContext(ctx).Warn("product_search_index_error", "query", q, "error", err)
	}

	total, items, err := s.Store.SearchProducts(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: search products: %w", ErrStorage, err)
	}
	out.Pagination.TotalPage = util.TotalPages(total, limit)
	out.Products = make([]transport.ProductSummary, 0, len(items))
	for i := range items {
		out.Products = append(out.Products, toSummary(&items[i], false))
	}
	return out, nil
}

// afterWrite refreshes the derived copies of a product once its write has
// committed and publishes the event. Failures are logged only.
func (s *ProductService) afterWrite(ctx context.Context, id uuid.UUID, eventType string) {
	name := s.refresh(ctx, id)

	event := map[string]any{"type": eventType, "productID": id.String()}
	if name != "" {
		event["name"] = name
	}
	events.Publish(ctx, s.Events, id.String(), event)
}

// refresh drops the cached detail and reindexes the product. It returns the
// product name when the product was loaded for indexing.
func (s *ProductService) refresh(ctx context.Context, id uuid.UUID) string {
	l := logging.FromContext(ctx)

	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, id.String()); err != nil {
			l.Warn("product_cache_invalidate_error", "product_id", id.String(), "error", err)
		}
	}
	if s.Index == nil {
		return ""
	}

	p, _, err := s.Store.ProductDetail(ctx, id)
	if err != nil {
		l.Warn("product_index_load_error", "product_id", id.String(), "error", err)
		return ""
	}
	if err := s.Index.IndexProduct(ctx, toDocument(p)); err != nil {
		l.Warn("product_index_error", "product_id", id.String(), "error", err)
	}
	return p.Name
}

// RefreshTag refreshes every product linked to a renamed or deleted tag.
func (s *ProductService) RefreshTag(ctx context.Context, tagID uuid.UUID) {
	s.refreshLinked(ctx, "tag", tagID, s.Store.ProductIDsByTag)
}

// RefreshCategory refreshes every product of a renamed or deleted category.
func (s *ProductService) RefreshCategory(ctx context.Context, categoryID uuid.UUID) {
	s.refreshLinked(ctx, "category", categoryID, s.Store.ProductIDsByCategory)
}

func (s *ProductService) refreshLinked(ctx context.Context, kind string, id uuid.UUID, lookup func(context.Context, uuid.UUID) ([]uuid.UUID, error)) {
	if s.Cache == nil && s.Index == nil {
		return
	}

	ids, err := lookup(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Warn("product_refresh_lookup_error", "kind", kind, "id", id.String(), "error", err)
		return
	}
	for _, pid := range ids {
		s.refresh(ctx, pid)
	}
}

func productFromRequest(req transport.ProductRequest) (*models.Product, []models.ProductTag, error) {
	if err := validate.Struct(req); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	categoryID, err := uuid.Parse(*req.CategoryID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: category_id: %w", ErrValidation, err)
	}

	tagIDs := make([]uuid.UUID, 0, len(req.TagsID))
	for _, raw := range req.TagsID {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: tags_id: %w", ErrValidation, err)
		}
		tagIDs = append(tagIDs, id)
	}

	p := &models.Product{
		CategoryID:  categoryID,
		Name:        strings.TrimSpace(*req.Name),
		Description: strings.TrimSpace(*req.Description),
		ImageURL:    *req.ImageURL,
		Price:       int64(*req.Price),
		OriginPrice: int64(*req.OriginPrice),
		Colors:      trimAll(req.Colors),
		Spec:        trimAll(req.Spec),
		Enable:      *req.Enable,
	}
	return p, repo.ProductTagLinks.Distinct(tagLinks(uuid.Nil, tagIDs)), nil
}

func tagLinks(productID uuid.UUID, tagIDs []uuid.UUID) []models.ProductTag {
	links := make([]models.ProductTag, 0, len(tagIDs))
	for _, t := range tagIDs {
		links = append(links, models.ProductTag{ProductID: productID, TagID: t})
	}
	return links
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func toDetail(p *models.Product, tags []models.Tag) *transport.ProductDetail {
	enable := p.Enable
	d := &transport.ProductDetail{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		OriginPrice: p.OriginPrice,
		Price:       p.Price,
		Enable:      &enable,
		Colors:      append([]string{}, p.Colors...),
		Spec:        append([]string{}, p.Spec...),
		Category:    p.Category.Name,
		Tags:        make([]transport.TagRef, 0, len(tags)),
	}
	for _, t := range tags {
		d.Tags = append(d.Tags, transport.TagRef{ID: t.ID.String(), Name: t.Name})
	}
	return d
}

func toSummary(p *models.Product, admin bool) transport.ProductSummary {
	out := transport.ProductSummary{
		ID:          p.ID.String(),
		Name:        p.Name,
		Category:    p.Category.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		OriginPrice: p.OriginPrice,
		Price:       p.Price,
	}
	if admin {
		enable := p.Enable
		out.Enable = &enable
	}
	return out
}

func toDocument(p *models.Product) search.Document {
	return search.Document{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category.Name,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
		OriginPrice: p.OriginPrice,
		Enable:      p.Enable,
	}
}
