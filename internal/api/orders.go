package api

import (
	"context"
	"fmt"
	"net/http"
)

// CreateOrder submits an order draft.
func (c *Client) CreateOrder(ctx context.Context, draft OrderDraft) (OrderResult, error) {
	var result OrderResult
	if err := c.do(ctx, "create_order", http.MethodPost, "/purchase-orders", draft, &result); err != nil {
		return OrderResult{}, err
	}
	return result, nil
}

// UserOrders lists orders belonging to one user.
func (c *Client) UserOrders(ctx context.Context, userID int64) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, "list_user_orders", http.MethodGet, fmt.Sprintf("/purchase-orders/user/%d", userID), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Order fetches a single order by id.
func (c *Client) Order(ctx context.Context, id int64) (Order, error) {
	var order Order
	if err := c.do(ctx, "get_order", http.MethodGet, fmt.Sprintf("/purchase-orders/%d", id), nil, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// Orders lists every order. Admin only.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, "list_orders", http.MethodGet, "/purchase-orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ConfirmOrder transitions an order to CONFIRMED. Admin only.
func (c *Client) ConfirmOrder(ctx context.Context, id int64) error {
	return c.do(ctx, "confirm_order", http.MethodPut, fmt.Sprintf("/purchase-orders/%d/confirm", id), struct{}{}, nil)
}

// CancelOrder transitions an order to CANCELLED. Admin only.
func (c *Client) CancelOrder(ctx context.Context, id int64) error {
	return c.do(ctx, "cancel_order", http.MethodPut, fmt.Sprintf("/purchase-orders/%d/cancel", id), struct{}{}, nil)
}
