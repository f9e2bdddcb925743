package cart

import "github.com/noah-isme/storefront-dietetica/internal/api"

// Action is a cart mutation. Every state change goes through Reducer.Reduce
// with exactly one of the variants below.
type Action interface {
	name() string
}

// AddItem inserts a new line or merges into an existing one, clamped to the
// product's current stock.
type AddItem struct {
	Product  api.Product
	Quantity int
}

// UpdateQuantity sets a line's quantity, clamped to [1, Stock].
type UpdateQuantity struct {
	ProductID int64
	Quantity  int
	Stock     int
}

// RemoveItem deletes a line unconditionally.
type RemoveItem struct {
	ProductID int64
}

// Clear empties the cart. Used after logout and successful order placement.
type Clear struct{}

// CloseNotification hides the pending add-to-cart notification.
type CloseNotification struct{}

// ClearRemovedProducts resets the removed-products record once the user has
// been told about it.
type ClearRemovedProducts struct{}

// ApplyValidation commits the outcome of a completed validation run: the
// listed lines are removed and the transient validation error is cleared.
type ApplyValidation struct {
	Removed []int64
}

// SetValidationError flags a validation run aborted by a connectivity failure.
type SetValidationError struct {
	Message string
}

func (AddItem) name() string              { return "add_item" }
func (UpdateQuantity) name() string       { return "update_quantity" }
func (RemoveItem) name() string           { return "remove_item" }
func (Clear) name() string                { return "clear" }
func (CloseNotification) name() string    { return "close_notification" }
func (ClearRemovedProducts) name() string { return "clear_removed_products" }
func (ApplyValidation) name() string      { return "apply_validation" }
func (SetValidationError) name() string   { return "set_validation_error" }
