package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

type OrderStore interface {
	// Atomic runs fn against a store bound to one transaction.
	Atomic(ctx context.Context, fn func(OrderStore) error) error
	CreateOrder(ctx context.Context, order *models.Order) (int64, error)
	UpsertOrderLines(ctx context.Context, lines []models.OrderLine) (int64, error)
	DeleteOrderLines(ctx context.Context, orderID uuid.UUID) (int64, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) (int64, []models.Order, error)
}

type OrderRepo struct {
	DB *gorm.DB
}

func (r *OrderRepo) Atomic(ctx context.Context, fn func(OrderStore) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&OrderRepo{DB: tx})
	})
}

func (r *OrderRepo) CreateOrder(ctx context.Context, order *models.Order) (int64, error) {
	res := r.DB.WithContext(ctx).Omit("User", "Lines").Create(order)
	return res.RowsAffected, res.Error
}

func (r *OrderRepo) UpsertOrderLines(ctx context.Context, lines []models.OrderLine) (int64, error) {
	return OrderLineLinks.Upsert(ctx, r.DB, lines)
}

func (r *OrderRepo) DeleteOrderLines(ctx context.Context, orderID uuid.UUID) (int64, error) {
	return OrderLineLinks.DeleteParent(ctx, r.DB, orderID)
}

func (r *OrderRepo) DeleteOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Where("id = ?", orderID).Delete(&models.Order{})
	return res.RowsAffected, res.Error
}

func (r *OrderRepo) ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Lines").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}
