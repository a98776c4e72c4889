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
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/validate"
)

type OrderService struct {
	Store  repo.OrderStore
	Events events.Publisher
}

// PlaceOrder validates the request, writes the header and then the lines.
// Either everything is written or, after compensation, nothing is.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req transport.CreateOrderRequest) (*models.Order, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          *req.User.Name,
		Tel:           *req.User.Tel,
		Address:       strings.TrimSpace(*req.User.Address),
		IsPaid:        false,
		PaymentMethod: int16(*req.PaymentMethods),
	}

	lines := make([]models.OrderLine, 0, len(req.Orders))
	for _, l := range req.Orders {
		productID, err := uuid.Parse(*l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: products_id: %w", ErrValidation, err)
		}
		lines = append(lines, models.OrderLine{
			OrderID:   order.ID,
			ProductID: productID,
			Quantity:  int(*l.Quantity),
			Spec:      strings.TrimSpace(*l.Spec),
			Color:     strings.TrimSpace(*l.Colors),
		})
	}
	lines = repo.OrderLineLinks.Distinct(lines)

	err := s.Store.Atomic(ctx, func(st repo.OrderStore) error {
		return writeOrder(ctx, st, order, lines)
	})
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	events.Publish(ctx, s.Events, order.ID.String(), map[string]any{
		"type":           events.OrderPlaced,
		"orderID":        order.ID.String(),
		"userID":         userID.String(),
		"lines":          len(lines),
		"payment_method": order.PaymentMethod,
	})
	return order, nil
}

func writeOrder(ctx context.Context, st repo.OrderStore, order *models.Order, lines []models.OrderLine) error {
	n, err := st.CreateOrder(ctx, order)
	if err != nil {
		return classifyHeaderError("order header", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: order header not written", ErrWriteFailed)
	}

	undo := undoLog{op: "place_order"}
	undo.add("delete_order", func(ctx context.Context) error {
		_, err := st.DeleteOrder(ctx, order.ID)
		return err
	})
	undo.add("delete_order_lines", func(ctx context.Context) error {
		_, err := st.DeleteOrderLines(ctx, order.ID)
		return err
	})

	written, err := st.UpsertOrderLines(ctx, lines)
	if err == nil && written == int64(len(lines)) {
		return nil
	}
	return undo.fail(ctx, classifyLinkError("order lines", err, written, len(lines)))
}

// ListOrders pages through the caller's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) (int64, []models.Order, error) {
	total, orders, err := s.Store.ListOrders(ctx, userID, limit, offset)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: list orders: %w", ErrStorage, err)
	}
	return total, orders, nil
}

// A header pointing at a missing parent is a rejected write, anything else
// unexpected is a storage failure.
func classifyHeaderError(what string, err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, what, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, what, err)
}

func classifyLinkError(what string, err error, written int64, expected int) error {
	if err != nil && !errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %s: %w", ErrStorage, what, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPartialWrite, what, err)
	}
	return fmt.Errorf("%w: %s: wrote %d of %d", ErrPartialWrite, what, written, expected)
}
