package api

import (
	"context"
	"fmt"
	"net/http"
)

// Products lists the full product catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, "list_products", http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches the current authoritative record for a single product.
func (c *Client) Product(ctx context.Context, id int64) (Product, error) {
	var product Product
	if err := c.do(ctx, "get_product", http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &product); err != nil {
		return Product{}, err
	}
	return product, nil
}

// ProductsByCategory lists products belonging to one category.
func (c *Client) ProductsByCategory(ctx context.Context, categoryID int64) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, "list_products_by_category", http.MethodGet, fmt.Sprintf("/products/category/%d", categoryID), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Categories lists all product categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, "list_categories", http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateProduct registers a new product. Admin only.
func (c *Client) CreateProduct(ctx context.Context, product Product) (Product, error) {
	var created Product
	if err := c.do(ctx, "create_product", http.MethodPost, "/products", product, &created); err != nil {
		return Product{}, err
	}
	return created, nil
}

// UpdateProduct replaces an existing product record. Admin only.
func (c *Client) UpdateProduct(ctx context.Context, id int64, product Product) (Product, error) {
	var updated Product
	if err := c.do(ctx, "update_product", http.MethodPut, fmt.Sprintf("/products/%d", id), product, &updated); err != nil {
		return Product{}, err
	}
	return updated, nil
}

// DeleteProduct removes a product. Admin only.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_product", http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

// CreateCategory registers a new category. Admin only.
func (c *Client) CreateCategory(ctx context.Context, category Category) (Category, error) {
	var created Category
	if err := c.do(ctx, "create_category", http.MethodPost, "/categories", category, &created); err != nil {
		return Category{}, err
	}
	return created, nil
}

// UpdateCategory replaces an existing category. Admin only.
func (c *Client) UpdateCategory(ctx context.Context, id int64, category Category) (Category, error) {
	var updated Category
	if err := c.do(ctx, "update_category", http.MethodPut, fmt.Sprintf("/categories/%d", id), category, &updated); err != nil {
		return Category{}, err
	}
	return updated, nil
}

// DeleteCategory removes a category. Admin only.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_category", http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil)
}
