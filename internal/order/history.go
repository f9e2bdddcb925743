// Package order tracks purchase-order history and the admin status
// transitions. Order state is never persisted locally; it is refetched on
// demand.
package order

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront-dietetica/internal/api"
)

// ErrNotSignedIn is returned when order history is requested without a session.
var ErrNotSignedIn = errors.New("order: not signed in")

// HistoryAPI is the slice of the backend client the history reads through.
type HistoryAPI interface {
	UserOrders(ctx context.Context, userID int64) ([]api.Order, error)
	Order(ctx context.Context, id int64) (api.Order, error)
}

// History serves the signed-in user's order list and keeps the most recently
// viewed order around for detail display.
type History struct {
	API    HistoryAPI
	Logger zerolog.Logger

	mu      sync.Mutex
	current *api.Order
}

// ForUser lists orders belonging to the given user.
func (h *History) ForUser(ctx context.Context, userID int64) ([]api.Order, error) {
	if userID == 0 {
		return nil, ErrNotSignedIn
	}
	orders, err := h.API.UserOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	return orders, nil
}

// Get fetches one order and records it as the current one.
func (h *History) Get(ctx context.Context, id int64) (api.Order, error) {
	order, err := h.API.Order(ctx, id)
	if err != nil {
		return api.Order{}, fmt.Errorf("load order %d: %w", id, err)
	}
	h.mu.Lock()
	h.current = &order
	h.mu.Unlock()
	return order, nil
}

// Current returns the most recently viewed order.
func (h *History) Current() (api.Order, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return api.Order{}, false
	}
	return *h.current, true
}

// ClearCurrent drops the current order slot.
func (h *History) ClearCurrent() {
	h.mu.Lock()
	h.current = nil
	h.mu.Unlock()
}
