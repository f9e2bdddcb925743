package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront-dietetica/internal/api"
)

type fakeCatalogAPI struct {
	products   []api.Product
	categories []api.Category
	calls      map[string]int
}

func (f *fakeCatalogAPI) count(op string) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[op]++
}

func (f *fakeCatalogAPI) Products(context.Context) ([]api.Product, error) {
	f.count("products")
	return f.products, nil
}

func (f *fakeCatalogAPI) Product(_ context.Context, id int64) (api.Product, error) {
	f.count("product")
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return api.Product{}, &api.Error{Status: 404, Message: "product not found"}
}

func (f *fakeCatalogAPI) ProductsByCategory(_ context.Context, categoryID int64) ([]api.Product, error) {
	f.count("by_category")
	var out []api.Product
	for _, p := range f.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalogAPI) Categories(context.Context) ([]api.Category, error) {
	f.count("categories")
	return f.categories, nil
}

func sampleProducts() []api.Product {
	return []api.Product{
		{ID: 1, Name: "Almendras", Price: 120, Stock: 5, CategoryID: 1},
		{ID: 2, Name: "Granola artesanal", Price: 80, DiscountPercentage: 50, Stock: 3, CategoryID: 2},
		{ID: 3, Name: "Barrita de granola", Price: 60, Stock: 9, CategoryID: 2},
	}
}

func newCatalogService(t *testing.T, backend *fakeCatalogAPI) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &Service{API: backend, Cache: NewCache(client, time.Minute), Logger: zerolog.Nop()}
}

func TestServiceProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("serves repeat listings from cache", func(t *testing.T) {
		backend := &fakeCatalogAPI{products: sampleProducts()}
		svc := newCatalogService(t, backend)

		first, err := svc.Products(ctx, Filter{})
		require.NoError(t, err)
		require.Len(t, first, 3)

		_, err = svc.Products(ctx, Filter{})
		require.NoError(t, err)
		require.Equal(t, 1, backend.calls["products"])
	})

	t.Run("category listing hits the category endpoint", func(t *testing.T) {
		backend := &fakeCatalogAPI{products: sampleProducts()}
		svc := newCatalogService(t, backend)

		products, err := svc.Products(ctx, Filter{CategoryID: 2})
		require.NoError(t, err)
		require.Len(t, products, 2)
		require.Equal(t, 1, backend.calls["by_category"])
		require.Zero(t, backend.calls["products"])
	})

	t.Run("filter applies on top of cached data", func(t *testing.T) {
		backend := &fakeCatalogAPI{products: sampleProducts()}
		svc := newCatalogService(t, backend)

		products, err := svc.Products(ctx, Filter{SearchTerm: "granola"})
		require.NoError(t, err)
		require.Len(t, products, 2)
	})
}

func TestServiceProduct(t *testing.T) {
	ctx := context.Background()
	backend := &fakeCatalogAPI{products: sampleProducts()}
	svc := newCatalogService(t, backend)

	p, err := svc.Product(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Almendras", p.Name)

	_, err = svc.Product(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, backend.calls["product"])

	_, err = svc.Product(ctx, 99)
	require.True(t, api.IsNotFound(err))
}

func TestServiceCategories(t *testing.T) {
	ctx := context.Background()
	backend := &fakeCatalogAPI{categories: []api.Category{{ID: 1, Name: "Frutos secos"}}}
	svc := newCatalogService(t, backend)

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)

	_, err = svc.Categories(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, backend.calls["categories"])
}

func TestApply(t *testing.T) {
	products := sampleProducts()

	t.Run("search is case-insensitive substring on name", func(t *testing.T) {
		got := Apply(products, Filter{SearchTerm: "GRANOLA"})
		require.Len(t, got, 2)
	})

	t.Run("default sort is name ascending", func(t *testing.T) {
		got := Apply(products, Filter{})
		require.Equal(t, "Almendras", got[0].Name)
		require.Equal(t, "Barrita de granola", got[1].Name)
	})

	t.Run("price sort uses effective price", func(t *testing.T) {
		got := Apply(products, Filter{SortBy: "price"})
		// Granola artesanal is 80 with a 50% discount, effectively 40.
		require.Equal(t, "Granola artesanal", got[0].Name)
		require.Equal(t, "Barrita de granola", got[1].Name)
		require.Equal(t, "Almendras", got[2].Name)
	})

	t.Run("descending order", func(t *testing.T) {
		got := Apply(products, Filter{SortBy: "price", SortOrder: "desc"})
		require.Equal(t, "Almendras", got[0].Name)
	})

	t.Run("does not mutate the input slice", func(t *testing.T) {
		_ = Apply(products, Filter{SortBy: "price", SortOrder: "desc"})
		require.Equal(t, int64(1), products[0].ID)
	})
}
