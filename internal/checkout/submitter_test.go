package checkout

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront-dietetica/internal/api"
	"github.com/noah-isme/storefront-dietetica/internal/cart"
)

type fakeOrders struct {
	drafts []api.OrderDraft
	result api.OrderResult
	err    error
}

func (f *fakeOrders) CreateOrder(_ context.Context, draft api.OrderDraft) (api.OrderResult, error) {
	f.drafts = append(f.drafts, draft)
	if f.err != nil {
		return api.OrderResult{}, f.err
	}
	return f.result, nil
}

func seededCart(t *testing.T) *cart.Store {
	t.Helper()
	store := cart.NewStore(cart.StoreConfig{})
	ctx := context.Background()
	store.Dispatch(ctx, cart.AddItem{
		Product:  api.Product{ID: 1, Name: "Protein Bar", Price: 100, DiscountPercentage: 10, Stock: 10},
		Quantity: 2,
	})
	store.Dispatch(ctx, cart.AddItem{
		Product:  api.Product{ID: 2, Name: "Granola", Price: 50, Stock: 5},
		Quantity: 1,
	})
	return store
}

func newSubmitter(store *cart.Store, orders *fakeOrders) *Submitter {
	return &Submitter{Orders: orders, Cart: store, Forms: NewForms(), Logger: zerolog.Nop()}
}

func TestSubmitSuccess(t *testing.T) {
	store := seededCart(t)
	orders := &fakeOrders{result: api.OrderResult{Message: "Orden de compra número: 4821 registrada"}}
	sub := newSubmitter(store, orders)

	receipt, err := sub.Submit(context.Background(), Input{
		Payment: validPayment(),
		Address: AddressForm{FirstName: "Ada", LastName: "Lovelace", Address: "Av. Siempre Viva 742"},
	})
	require.NoError(t, err)
	require.Equal(t, "4821", receipt.OrderID)
	require.Equal(t, "Orden de compra número: 4821 registrada", receipt.Message)

	require.Len(t, orders.drafts, 1)
	draft := orders.drafts[0]
	require.Equal(t, "Av. Siempre Viva 742", draft.ShippingAddress)
	require.Equal(t, []api.OrderItem{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}}, draft.Items)
	require.Equal(t, "CREDIT_CARD", draft.PaymentMethod.Type)
	require.Equal(t, "4111111111111111", draft.PaymentMethod.CardNumber)
	require.Equal(t, "12/27", draft.PaymentMethod.ExpiryDate)

	// Success empties the cart.
	require.Empty(t, store.Lines())
}

func TestSubmitUsesDefaultAddress(t *testing.T) {
	store := seededCart(t)
	orders := &fakeOrders{result: api.OrderResult{Message: "ok"}}
	sub := newSubmitter(store, orders)

	receipt, err := sub.Submit(context.Background(), Input{
		Payment:           validPayment(),
		UseDefaultAddress: true,
		Profile:           api.User{FirstName: "Ada", LastName: "Lovelace", Address: "Calle 13, Rosario"},
	})
	require.NoError(t, err)
	require.Equal(t, "Calle 13, Rosario", orders.drafts[0].ShippingAddress)

	// Unexpected wording leaves the id empty but keeps the raw message.
	require.Empty(t, receipt.OrderID)
	require.Equal(t, "ok", receipt.Message)
}

func TestSubmitFailureKeepsCart(t *testing.T) {
	store := seededCart(t)
	orders := &fakeOrders{err: &api.Error{Status: 409, Message: "Stock insuficiente para el producto Granola"}}
	sub := newSubmitter(store, orders)

	_, err := sub.Submit(context.Background(), Input{
		Payment: validPayment(),
		Address: AddressForm{FirstName: "Ada", LastName: "Lovelace", Address: "Av. Siempre Viva 742"},
	})
	require.Error(t, err)
	require.Equal(t, "Stock insuficiente para el producto Granola", api.Message(err))

	// Failure leaves the cart intact and sends exactly one request.
	require.Len(t, store.Lines(), 2)
	require.Equal(t, 3, store.ItemCount())
	require.Len(t, orders.drafts, 1)
}

func TestSubmitPreconditions(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		orders := &fakeOrders{}
		sub := newSubmitter(cart.NewStore(cart.StoreConfig{}), orders)

		_, err := sub.Submit(context.Background(), Input{Payment: validPayment()})
		require.ErrorIs(t, err, ErrEmptyCart)
		require.Empty(t, orders.drafts)
	})

	t.Run("invalid payment form blocks the request", func(t *testing.T) {
		orders := &fakeOrders{}
		sub := newSubmitter(seededCart(t), orders)

		_, err := sub.Submit(context.Background(), Input{Payment: PaymentForm{CardName: "Ada"}})
		var fields FieldErrors
		require.ErrorAs(t, err, &fields)
		require.Empty(t, orders.drafts)
	})

	t.Run("default address requested but profile incomplete", func(t *testing.T) {
		orders := &fakeOrders{}
		sub := newSubmitter(seededCart(t), orders)

		_, err := sub.Submit(context.Background(), Input{
			Payment:           validPayment(),
			UseDefaultAddress: true,
			Profile:           api.User{FirstName: "Ada"},
		})
		require.ErrorIs(t, err, ErrNoDefaultAddress)
		require.Empty(t, orders.drafts)
	})

	t.Run("manual address must be complete", func(t *testing.T) {
		orders := &fakeOrders{}
		sub := newSubmitter(seededCart(t), orders)

		_, err := sub.Submit(context.Background(), Input{
			Payment: validPayment(),
			Address: AddressForm{FirstName: "Ada"},
		})
		var fields FieldErrors
		require.ErrorAs(t, err, &fields)
		require.Empty(t, orders.drafts)
	})
}

func TestExtractOrderID(t *testing.T) {
	require.Equal(t, "17", extractOrderID("Orden de compra número: 17 registrada con éxito"))
	require.Empty(t, extractOrderID("order 17 created"))
	require.Empty(t, extractOrderID(""))
}
