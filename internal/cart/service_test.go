package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront-dietetica/internal/api"
)

type fakeProducts struct {
	products map[int64]api.Product
	errs     map[int64]error
	calls    []int64
}

func (f *fakeProducts) Product(_ context.Context, id int64) (api.Product, error) {
	f.calls = append(f.calls, id)
	if err, ok := f.errs[id]; ok {
		return api.Product{}, err
	}
	p, ok := f.products[id]
	if !ok {
		return api.Product{}, &api.Error{Status: 404, Message: "product not found"}
	}
	return p, nil
}

func newTestService(source *fakeProducts) *Service {
	return &Service{
		Products: source,
		Store:    NewStore(StoreConfig{}),
		Logger:   zerolog.Nop(),
	}
}

func TestServiceAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("adds in-stock product", func(t *testing.T) {
		svc := newTestService(&fakeProducts{products: map[int64]api.Product{1: testProduct(1, 10)}})

		require.NoError(t, svc.Add(ctx, 1, 2))
		require.Equal(t, 2, svc.Store.ItemCount())
	})

	t.Run("rejects vanished product", func(t *testing.T) {
		svc := newTestService(&fakeProducts{})

		err := svc.Add(ctx, 1, 1)
		require.ErrorIs(t, err, ErrProductGone)
		require.Empty(t, svc.Store.Lines())
	})

	t.Run("rejects zero stock", func(t *testing.T) {
		svc := newTestService(&fakeProducts{products: map[int64]api.Product{1: testProduct(1, 0)}})

		require.ErrorIs(t, svc.Add(ctx, 1, 1), ErrOutOfStock)
	})

	t.Run("rejects insufficient stock with available count", func(t *testing.T) {
		svc := newTestService(&fakeProducts{products: map[int64]api.Product{1: testProduct(1, 3)}})

		err := svc.Add(ctx, 1, 5)
		var stockErr *StockError
		require.ErrorAs(t, err, &stockErr)
		require.Equal(t, 3, stockErr.Available)
		require.Empty(t, svc.Store.Lines())
	})

	t.Run("wraps connectivity errors", func(t *testing.T) {
		svc := newTestService(&fakeProducts{errs: map[int64]error{1: api.ErrUnreachable}})

		require.ErrorIs(t, svc.Add(ctx, 1, 1), api.ErrUnreachable)
	})
}

func TestServiceValidate(t *testing.T) {
	ctx := context.Background()

	seed := func(svc *Service, products ...api.Product) {
		for _, p := range products {
			svc.Store.Dispatch(ctx, AddItem{Product: p, Quantity: p.Stock})
		}
	}

	t.Run("clamps lines with reduced stock", func(t *testing.T) {
		source := &fakeProducts{products: map[int64]api.Product{1: testProduct(1, 2)}}
		svc := newTestService(source)
		seed(svc, testProduct(1, 5))

		result, err := svc.Validate(ctx)
		require.NoError(t, err)
		require.Empty(t, result.RemovedProducts)

		line, ok := svc.Store.Snapshot().Find(1)
		require.True(t, ok)
		require.Equal(t, 2, line.Quantity)
	})

	t.Run("removes lines that ran out entirely", func(t *testing.T) {
		source := &fakeProducts{products: map[int64]api.Product{
			1: testProduct(1, 0),
			2: testProduct(2, 10),
		}}
		svc := newTestService(source)
		seed(svc, testProduct(1, 5), testProduct(2, 3))

		result, err := svc.Validate(ctx)
		require.NoError(t, err)
		require.Equal(t, []int64{1}, result.RemovedProducts)
		require.Equal(t, []int64{1}, svc.Store.Snapshot().RemovedProducts)

		_, ok := svc.Store.Snapshot().Find(1)
		require.False(t, ok)
		_, ok = svc.Store.Snapshot().Find(2)
		require.True(t, ok)
	})

	t.Run("removes lines whose product is gone", func(t *testing.T) {
		source := &fakeProducts{products: map[int64]api.Product{2: testProduct(2, 10)}}
		svc := newTestService(source)
		seed(svc, testProduct(1, 5), testProduct(2, 3))

		result, err := svc.Validate(ctx)
		require.NoError(t, err)
		require.Equal(t, []int64{1}, result.RemovedProducts)
	})

	t.Run("connectivity failure aborts and keeps earlier clamps", func(t *testing.T) {
		source := &fakeProducts{
			products: map[int64]api.Product{1: testProduct(1, 2)},
			errs:     map[int64]error{2: api.ErrUnreachable},
		}
		svc := newTestService(source)
		seed(svc, testProduct(1, 5), testProduct(2, 3))

		_, err := svc.Validate(ctx)
		require.ErrorIs(t, err, ErrValidationAborted)

		snapshot := svc.Store.Snapshot()
		require.Len(t, snapshot.Lines, 2)
		require.Equal(t, "unable to validate cart items", snapshot.ValidationError)

		// The clamp applied before the failure stays.
		line, ok := snapshot.Find(1)
		require.True(t, ok)
		require.Equal(t, 2, line.Quantity)

		// The line behind the failure is untouched.
		line, ok = snapshot.Find(2)
		require.True(t, ok)
		require.Equal(t, 3, line.Quantity)

		// No further requests after the failing one.
		require.Equal(t, []int64{1, 2}, source.calls)
	})

	t.Run("server errors count as connectivity", func(t *testing.T) {
		source := &fakeProducts{errs: map[int64]error{1: &api.Error{Status: 503, Message: "unavailable"}}}
		svc := newTestService(source)
		seed(svc, testProduct(1, 5))

		_, err := svc.Validate(ctx)
		require.ErrorIs(t, err, ErrValidationAborted)
		require.Len(t, svc.Store.Lines(), 1)
	})

	t.Run("other per-line errors skip the line", func(t *testing.T) {
		source := &fakeProducts{
			products: map[int64]api.Product{2: testProduct(2, 10)},
			errs:     map[int64]error{1: errors.New("decode response")},
		}
		svc := newTestService(source)
		seed(svc, testProduct(1, 5), testProduct(2, 3))

		result, err := svc.Validate(ctx)
		require.NoError(t, err)
		require.Empty(t, result.RemovedProducts)
		require.Len(t, svc.Store.Lines(), 2)
	})

	t.Run("second run against unchanged stock is a no-op", func(t *testing.T) {
		source := &fakeProducts{products: map[int64]api.Product{
			1: testProduct(1, 2),
			2: testProduct(2, 10),
		}}
		svc := newTestService(source)
		seed(svc, testProduct(1, 5), testProduct(2, 3))

		_, err := svc.Validate(ctx)
		require.NoError(t, err)
		first := svc.Store.Snapshot()

		result, err := svc.Validate(ctx)
		require.NoError(t, err)
		require.Empty(t, result.RemovedProducts)
		require.Equal(t, first.Lines, svc.Store.Snapshot().Lines)
	})

	t.Run("empty cart skips all requests", func(t *testing.T) {
		source := &fakeProducts{}
		svc := newTestService(source)

		result, err := svc.Validate(ctx)
		require.NoError(t, err)
		require.Empty(t, result.RemovedProducts)
		require.Empty(t, source.calls)
	})
}
