// Package admin drives the back-office catalog and account management flows.
package admin

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront-dietetica/internal/api"
	"github.com/noah-isme/storefront-dietetica/internal/catalog"
)

// API is the slice of the backend client the back office needs.
type API interface {
	CreateProduct(ctx context.Context, product api.Product) (api.Product, error)
	UpdateProduct(ctx context.Context, id int64, product api.Product) (api.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	CreateCategory(ctx context.Context, category api.Category) (api.Category, error)
	UpdateCategory(ctx context.Context, id int64, category api.Category) (api.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	Users(ctx context.Context) ([]api.User, error)
	CreateUser(ctx context.Context, user api.User) (api.User, error)
	UpdateUserRole(ctx context.Context, id int64, user api.User) (api.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Service performs admin writes against the backend and keeps the catalog
// display cache coherent afterwards.
type Service struct {
	API    API
	Cache  *catalog.Cache
	Logger zerolog.Logger
}

// CreateProduct registers a new product.
func (s *Service) CreateProduct(ctx context.Context, product api.Product) (api.Product, error) {
	created, err := s.API.CreateProduct(ctx, product)
	if err != nil {
		return api.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.Cache.Invalidate(ctx, catalog.ListKeys(created.CategoryID)...)
	s.Logger.Info().Int64("product_id", created.ID).Msg("product created")
	return created, nil
}

// UpdateProduct replaces a product record.
func (s *Service) UpdateProduct(ctx context.Context, id int64, product api.Product) (api.Product, error) {
	updated, err := s.API.UpdateProduct(ctx, id, product)
	if err != nil {
		return api.Product{}, fmt.Errorf("update product %d: %w", id, err)
	}
	s.Cache.Invalidate(ctx, catalog.ProductKeys(id, updated.CategoryID)...)
	return updated, nil
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.API.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	s.Cache.Invalidate(ctx, catalog.ProductKeys(id, 0)...)
	s.Logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

// CreateCategory registers a new category.
func (s *Service) CreateCategory(ctx context.Context, category api.Category) (api.Category, error) {
	created, err := s.API.CreateCategory(ctx, category)
	if err != nil {
		return api.Category{}, fmt.Errorf("create category: %w", err)
	}
	s.Cache.Invalidate(ctx, catalog.CategoryListKey())
	return created, nil
}

// UpdateCategory replaces a category.
func (s *Service) UpdateCategory(ctx context.Context, id int64, category api.Category) (api.Category, error) {
	updated, err := s.API.UpdateCategory(ctx, id, category)
	if err != nil {
		return api.Category{}, fmt.Errorf("update category %d: %w", id, err)
	}
	s.Cache.Invalidate(ctx, catalog.CategoryListKey())
	return updated, nil
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.API.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	s.Cache.Invalidate(ctx, catalog.CategoryListKey())
	return nil
}

// Users lists every account.
func (s *Service) Users(ctx context.Context) ([]api.User, error) {
	users, err := s.API.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

// CreateUser registers an account on behalf of someone else.
func (s *Service) CreateUser(ctx context.Context, user api.User) (api.User, error) {
	created, err := s.API.CreateUser(ctx, user)
	if err != nil {
		return api.User{}, fmt.Errorf("create user: %w", err)
	}
	s.Logger.Info().Int64("user_id", created.ID).Msg("user created")
	return created, nil
}

// UpdateUserRole changes an account role.
func (s *Service) UpdateUserRole(ctx context.Context, id int64, user api.User) (api.User, error) {
	updated, err := s.API.UpdateUserRole(ctx, id, user)
	if err != nil {
		return api.User{}, fmt.Errorf("update user %d role: %w", id, err)
	}
	return updated, nil
}

// DeleteUser removes an account.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if err := s.API.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}
