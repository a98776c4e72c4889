package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

type ProductStore interface {
	// Atomic runs fn against a store bound to one transaction.
	Atomic(ctx context.Context, fn func(ProductStore) error) error
	CreateProduct(ctx context.Context, p *models.Product) (int64, error)
	UpdateProduct(ctx context.Context, p *models.Product) (int64, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error)
	SoftDeleteProduct(ctx context.Context, id uuid.UUID) (int64, error)
	TagIDs(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error)
	UpsertProductTags(ctx context.Context, links []models.ProductTag) (int64, error)
	ReplaceProductTags(ctx context.Context, productID uuid.UUID, links []models.ProductTag) (int64, error)
	DeleteProductTags(ctx context.Context, productID uuid.UUID) (int64, error)
	ProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, []models.Tag, error)
	ListProducts(ctx context.Context, f ProductFilter, limit, offset int) (int64, []models.Product, error)
	SearchProducts(ctx context.Context, q string, limit, offset int) (int64, []models.Product, error)
	CategoryByName(ctx context.Context, name string) (*models.Category, error)
	ProductIDsByTag(ctx context.Context, tagID uuid.UUID) ([]uuid.UUID, error)
	ProductIDsByCategory(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error)
}

type ProductFilter struct {
	CategoryID  *uuid.UUID
	OnlyEnabled bool
}

type ProductRepo struct {
	DB *gorm.DB
}

var productColumns = []string{
	"category_id", "name", "description", "image_url",
	"price", "origin_price", "colors", "spec", "enable", "updated_at",
}

func (r *ProductRepo) Atomic(ctx context.Context, fn func(ProductStore) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ProductRepo{DB: tx})
	})
}

func (r *ProductRepo) CreateProduct(ctx context.Context, p *models.Product) (int64, error) {
	res := r.DB.WithContext(ctx).Omit("Category", "Tags").Create(p)
	return res.RowsAffected, res.Error
}

// UpdateProduct overwrites every mutable column of a live product. Zero rows
// means the product does not exist or was deleted.
func (r *ProductRepo) UpdateProduct(ctx context.Context, p *models.Product) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", p.ID).
		Select(productColumns).
		Updates(p)
	return res.RowsAffected, res.Error
}

func (r *ProductRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct removes the row for good; used to undo a failed create.
func (r *ProductRepo) DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

func (r *ProductRepo) SoftDeleteProduct(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

func (r *ProductRepo) TagIDs(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB.WithContext(ctx).
		Model(&models.ProductTag{}).
		Where("product_id = ?", productID).
		Pluck("tag_id", &ids).Error
	return ids, err
}

func (r *ProductRepo) UpsertProductTags(ctx context.Context, links []models.ProductTag) (int64, error) {
	return ProductTagLinks.Upsert(ctx, r.DB, links)
}

func (r *ProductRepo) ReplaceProductTags(ctx context.Context, productID uuid.UUID, links []models.ProductTag) (int64, error) {
	return ProductTagLinks.Replace(ctx, r.DB, productID, links)
}

func (r *ProductRepo) DeleteProductTags(ctx context.Context, productID uuid.UUID) (int64, error) {
	return ProductTagLinks.DeleteParent(ctx, r.DB, productID)
}

// ProductDetail loads a live product with its category (even if that
// category was deleted later) and its active tags.
func (r *ProductRepo) ProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, []models.Tag, error) {
	var p models.Product
	err := r.DB.WithContext(ctx).
		Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, nil, err
	}

	var tags []models.Tag
	err = r.DB.WithContext(ctx).
		Model(&models.Tag{}).
		Joins("JOIN product_tags ON product_tags.tag_id = tags.id").
		Where("product_tags.product_id = ?", id).
		Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, nil, err
	}
	return &p, tags, nil
}

func (r *ProductRepo) ListProducts(ctx context.Context, f ProductFilter, limit, offset int) (int64, []models.Product, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if f.CategoryID != nil {
			db = db.Where("category_id = ?", *f.CategoryID)
		}
		if f.OnlyEnabled {
			db = db.Where("enable = ?", true)
		}
		return db
	}

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Scopes(scope).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Scopes(scope).
		Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// SearchProducts is a case-insensitive substring match over name and
// description of enabled products.
func (r *ProductRepo) SearchProducts(ctx context.Context, q string, limit, offset int) (int64, []models.Product, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("enable = ?", true).
			Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Scopes(scope).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Scopes(scope).
		Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *ProductRepo) CategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ProductIDsByTag lists live products linked to the tag. The tag itself may
// already be soft-deleted.
func (r *ProductRepo) ProductIDsByTag(ctx context.Context, tagID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Joins("JOIN product_tags ON product_tags.product_id = products.id").
		Where("product_tags.tag_id = ?", tagID).
		Pluck("products.id", &ids).Error
	return ids, err
}

func (r *ProductRepo) ProductIDsByCategory(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Pluck("id", &ids).Error
	return ids, err
}
