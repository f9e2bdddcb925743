package order

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront-dietetica/internal/api"
)

// Status values the back office can transition an order to.
const (
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// AdminAPI is the slice of the backend client the back office needs.
type AdminAPI interface {
	Orders(ctx context.Context) ([]api.Order, error)
	ConfirmOrder(ctx context.Context, id int64) error
	CancelOrder(ctx context.Context, id int64) error
}

// Admin drives back-office order management.
type Admin struct {
	API    AdminAPI
	Logger zerolog.Logger
}

// All lists every order.
func (a *Admin) All(ctx context.Context) ([]api.Order, error) {
	orders, err := a.API.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load all orders: %w", err)
	}
	return orders, nil
}

// SetStatus applies a confirm or cancel transition and returns the refreshed
// order list.
func (a *Admin) SetStatus(ctx context.Context, orderID int64, status string) ([]api.Order, error) {
	var err error
	switch status {
	case StatusConfirmed:
		err = a.API.ConfirmOrder(ctx, orderID)
	case StatusCancelled:
		err = a.API.CancelOrder(ctx, orderID)
	default:
		return nil, fmt.Errorf("order: unsupported status transition %q", status)
	}
	if err != nil {
		return nil, fmt.Errorf("update order %d status: %w", orderID, err)
	}
	a.Logger.Info().Int64("order_id", orderID).Str("status", status).Msg("order status updated")
	return a.All(ctx)
}
