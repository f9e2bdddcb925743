package checkout

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront-dietetica/internal/api"
	"github.com/noah-isme/storefront-dietetica/internal/cart"
	"github.com/noah-isme/storefront-dietetica/internal/obs"
)

// ErrEmptyCart is returned when there is nothing to order.
var ErrEmptyCart = errors.New("checkout: cart is empty")

// ErrNoDefaultAddress is returned when the saved profile address was requested
// but the profile is incomplete.
var ErrNoDefaultAddress = errors.New("checkout: profile has no complete saved address")

// The backend embeds the order number in a human-readable message instead of a
// structured field. Known-fragile upstream contract; the raw message is kept on
// the receipt so callers survive a wording change.
var orderIDPattern = regexp.MustCompile(`Orden de compra número: (\d+)`)

// OrderCreator submits an order draft. Satisfied by *api.Client.
type OrderCreator interface {
	CreateOrder(ctx context.Context, draft api.OrderDraft) (api.OrderResult, error)
}

// Input is everything the user resolved before pressing the order button.
type Input struct {
	Payment PaymentForm
	// UseDefaultAddress selects the saved profile address over the manual form.
	UseDefaultAddress bool
	Profile           api.User
	Address           AddressForm
}

// Receipt is the outcome of a successful submission.
type Receipt struct {
	// OrderID is the identifier extracted from the backend message, empty when
	// the message did not match the expected wording.
	OrderID string
	Message string
}

// Submitter converts cart and form state into a single order-creation request.
type Submitter struct {
	Orders OrderCreator
	Cart   *cart.Store
	Forms  *Forms
	Logger zerolog.Logger
}

// Submit validates preconditions, builds the order draft from current cart
// lines (product id and quantity only), and submits it. On success the cart is
// cleared; on failure it is left intact and the server message surfaces
// verbatim. There is no retry.
func (s *Submitter) Submit(ctx context.Context, in Input) (Receipt, error) {
	lines := s.Cart.Lines()
	if len(lines) == 0 {
		return Receipt{}, ErrEmptyCart
	}
	if err := s.Forms.Payment(in.Payment); err != nil {
		return Receipt{}, err
	}

	shippingAddress := in.Address.Address
	if in.UseDefaultAddress {
		if !HasDefaultAddress(in.Profile) {
			return Receipt{}, ErrNoDefaultAddress
		}
		shippingAddress = in.Profile.Address
	} else if err := s.Forms.Address(in.Address); err != nil {
		return Receipt{}, err
	}

	draft := api.OrderDraft{
		Items:           make([]api.OrderItem, 0, len(lines)),
		ShippingAddress: shippingAddress,
		PaymentMethod: api.PaymentMethod{
			Type:       "CREDIT_CARD",
			CardNumber: in.Payment.Digits(),
			ExpiryDate: in.Payment.Expiry,
		},
	}
	for _, line := range lines {
		draft.Items = append(draft.Items, api.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	result, err := s.Orders.CreateOrder(ctx, draft)
	if err != nil {
		obs.ObserveOrderSubmit("error")
		s.Logger.Warn().Err(err).Int("lines", len(lines)).Msg("order submission failed")
		return Receipt{}, fmt.Errorf("submit order: %w", err)
	}

	receipt := Receipt{OrderID: extractOrderID(result.Message), Message: result.Message}
	s.Cart.Dispatch(ctx, cart.Clear{})
	obs.ObserveOrderSubmit("ok")
	s.Logger.Info().Str("order_id", receipt.OrderID).Msg("order placed")
	return receipt, nil
}

func extractOrderID(message string) string {
	match := orderIDPattern.FindStringSubmatch(message)
	if len(match) == 2 {
		return match[1]
	}
	return ""
}
