// Package catalog exposes read access to the product catalog with client-side
// filtering and a short-lived display cache.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront-dietetica/internal/api"
)

// CatalogAPI is the slice of the backend client the catalog reads through.
type CatalogAPI interface {
	Products(ctx context.Context) ([]api.Product, error)
	Product(ctx context.Context, id int64) (api.Product, error)
	ProductsByCategory(ctx context.Context, categoryID int64) ([]api.Product, error)
	Categories(ctx context.Context) ([]api.Category, error)
}

// Filter narrows and orders a product listing. Applied client-side, matching
// how the storefront filters in memory after fetching.
type Filter struct {
	CategoryID int64
	SearchTerm string
	SortBy     string // "name" or "price"
	SortOrder  string // "asc" or "desc"
}

// Service reads catalog data, preferring the cache for repeat lookups.
type Service struct {
	API    CatalogAPI
	Cache  *Cache
	Logger zerolog.Logger
}

// Products lists the catalog with the filter applied.
func (s *Service) Products(ctx context.Context, filter Filter) ([]api.Product, error) {
	var products []api.Product
	var err error
	if filter.CategoryID != 0 {
		products, err = s.cachedProducts(ctx, categoryKey(filter.CategoryID), func(ctx context.Context) ([]api.Product, error) {
			return s.API.ProductsByCategory(ctx, filter.CategoryID)
		})
	} else {
		products, err = s.cachedProducts(ctx, productsKey(), s.API.Products)
	}
	if err != nil {
		return nil, err
	}
	return Apply(products, filter), nil
}

// Product fetches one product, serving repeat lookups from the cache.
func (s *Service) Product(ctx context.Context, id int64) (api.Product, error) {
	var product api.Product
	if ok, err := s.Cache.GetJSON(ctx, productKey(id), &product); err == nil && ok {
		return product, nil
	} else if err != nil {
		s.Logger.Debug().Err(err).Int64("product_id", id).Msg("catalog cache read failed")
	}
	product, err := s.API.Product(ctx, id)
	if err != nil {
		return api.Product{}, err
	}
	if err := s.Cache.SetJSON(ctx, productKey(id), product); err != nil {
		s.Logger.Debug().Err(err).Int64("product_id", id).Msg("catalog cache write failed")
	}
	return product, nil
}

// Categories lists all categories.
func (s *Service) Categories(ctx context.Context) ([]api.Category, error) {
	var categories []api.Category
	if ok, err := s.Cache.GetJSON(ctx, categoriesKey(), &categories); err == nil && ok {
		return categories, nil
	}
	categories, err := s.API.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.SetJSON(ctx, categoriesKey(), categories); err != nil {
		s.Logger.Debug().Err(err).Msg("catalog cache write failed")
	}
	return categories, nil
}

func (s *Service) cachedProducts(ctx context.Context, key string, fetch func(context.Context) ([]api.Product, error)) ([]api.Product, error) {
	var products []api.Product
	if ok, err := s.Cache.GetJSON(ctx, key, &products); err == nil && ok {
		return products, nil
	}
	products, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.SetJSON(ctx, key, products); err != nil {
		s.Logger.Debug().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
	return products, nil
}

// Apply filters and sorts a product slice in memory.
func Apply(products []api.Product, filter Filter) []api.Product {
	result := make([]api.Product, 0, len(products))
	term := strings.ToLower(strings.TrimSpace(filter.SearchTerm))
	for _, p := range products {
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		result = append(result, p)
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "name"
	}
	descending := strings.EqualFold(filter.SortOrder, "desc")
	sort.SliceStable(result, func(i, j int) bool {
		switch sortBy {
		case "price":
			a, b := result[i].EffectivePrice(), result[j].EffectivePrice()
			if descending {
				return a > b
			}
			return a < b
		default:
			a, b := strings.ToLower(result[i].Name), strings.ToLower(result[j].Name)
			if descending {
				return a > b
			}
			return a < b
		}
	})
	return result
}
