package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront-dietetica/internal/api"
	"github.com/noah-isme/storefront-dietetica/internal/obs"
)

// ErrOutOfStock is returned when the product has no stock left.
var ErrOutOfStock = errors.New("cart: product out of stock")

// ErrProductGone is returned when the product no longer exists on the backend.
var ErrProductGone = errors.New("cart: product no longer available")

// ErrValidationAborted flags a validation run cut short by a connectivity
// failure. The cart keeps whatever was applied before the failure.
var ErrValidationAborted = errors.New("cart: validation aborted, backend unreachable")

// StockError reports an add rejected because fewer units are available than requested.
type StockError struct {
	Available int
}

// Error implements the error interface.
func (e *StockError) Error() string {
	return fmt.Sprintf("cart: only %d units available", e.Available)
}

// ProductSource fetches the authoritative product record. Satisfied by
// *api.Client.
type ProductSource interface {
	Product(ctx context.Context, id int64) (api.Product, error)
}

// Service layers stock-aware operations over the cart store: validated adds
// and the pre-checkout reconciliation against server stock.
type Service struct {
	Products ProductSource
	Store    *Store
	Logger   zerolog.Logger
}

// Add fetches the current product record and adds it to the cart. Unlike raw
// AddItem dispatch, stock shortfalls are rejected with an explanation rather
// than silently clamped.
func (s *Service) Add(ctx context.Context, productID int64, qty int) error {
	if qty < 1 {
		qty = 1
	}
	product, err := s.Products.Product(ctx, productID)
	if err != nil {
		if api.IsNotFound(err) {
			return ErrProductGone
		}
		return fmt.Errorf("fetch product %d: %w", productID, err)
	}
	if product.Stock == 0 {
		return ErrOutOfStock
	}
	if product.Stock < qty {
		return &StockError{Available: product.Stock}
	}
	s.Store.Dispatch(ctx, AddItem{Product: product, Quantity: qty})
	return nil
}

// ValidationResult describes what a validation run changed.
type ValidationResult struct {
	// RemovedProducts lists product ids dropped because they vanished or ran
	// out of stock entirely.
	RemovedProducts []int64
}

// Validate reconciles every cart line against current server stock, one
// sequential request per line.
//
// Lines whose product is gone (not-found/invalid id) or has zero stock are
// removed; lines with some but insufficient stock are clamped down. A
// connectivity failure aborts the run: nothing further is applied, a transient
// error is flagged, and clamps applied before the failure stay (the next
// successful run settles them). Running Validate twice against unchanged stock
// is a no-op the second time.
func (s *Service) Validate(ctx context.Context) (ValidationResult, error) {
	lines := s.Store.Lines()
	if len(lines) == 0 {
		return ValidationResult{}, nil
	}

	var removed []int64
	for _, line := range lines {
		product, err := s.Products.Product(ctx, line.ProductID)
		if err != nil {
			if api.IsConnectivity(err) {
				s.Logger.Warn().Err(err).Int64("product_id", line.ProductID).Msg("cart validation aborted")
				s.Store.Dispatch(ctx, SetValidationError{Message: "unable to validate cart items"})
				obs.ObserveValidation("transient_error", 0)
				return ValidationResult{}, fmt.Errorf("validate product %d: %w", line.ProductID, ErrValidationAborted)
			}
			if api.IsNotFound(err) {
				removed = append(removed, line.ProductID)
			}
			// Anything else (e.g. an auth failure already handled by the API
			// client hook) leaves the line untouched.
			continue
		}
		switch {
		case product.Stock == 0:
			removed = append(removed, line.ProductID)
		case product.Stock < line.Quantity:
			s.Store.Dispatch(ctx, UpdateQuantity{ProductID: line.ProductID, Quantity: product.Stock, Stock: product.Stock})
		}
	}

	s.Store.Dispatch(ctx, ApplyValidation{Removed: removed})
	obs.ObserveValidation("ok", len(removed))
	if len(removed) > 0 {
		s.Logger.Info().Ints64("product_ids", removed).Msg("cart lines removed during validation")
	}
	return ValidationResult{RemovedProducts: removed}, nil
}
