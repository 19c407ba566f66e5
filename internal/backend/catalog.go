package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"optique-store/internal/model"
)

// ListProducts retrieves published products, newest first. When
// categorySlug is non-empty the category is resolved first and the listing
// restricted to it; an unknown slug yields an empty listing.
func (c *Client) ListProducts(ctx context.Context, categorySlug string) ([]model.Product, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("is_published", "eq.true")
	query.Set("order", "created_at.desc")

	if categorySlug != "" {
		categoryID, err := c.lookupID(ctx, "categories", categorySlug)
		if err != nil {
			return nil, err
		}
		if categoryID == "" {
			return []model.Product{}, nil
		}
		query.Set("category_id", "eq."+categoryID)
	}

	var products []model.Product
	if err := c.selectRows(ctx, "products", query, &products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProductBySlug retrieves a single product by slug, published or not.
// Returns nil when no product matches.
func (c *Client) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("slug", "eq."+slug)
	query.Set("limit", "1")

	var products []model.Product
	if err := c.selectRows(ctx, "products", query, &products); err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}

// ListFeaturedProducts retrieves published featured products, newest first.
func (c *Client) ListFeaturedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("is_published", "eq.true")
	query.Set("is_featured", "eq.true")
	query.Set("order", "created_at.desc")
	query.Set("limit", strconv.Itoa(limit))

	var products []model.Product
	if err := c.selectRows(ctx, "products", query, &products); err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	return products, nil
}

// ListLatestProducts retrieves the most recently added published products.
func (c *Client) ListLatestProducts(ctx context.Context, limit int) ([]model.Product, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("is_published", "eq.true")
	query.Set("order", "created_at.desc")
	query.Set("limit", strconv.Itoa(limit))

	var products []model.Product
	if err := c.selectRows(ctx, "products", query, &products); err != nil {
		return nil, fmt.Errorf("failed to list latest products: %w", err)
	}
	return products, nil
}

// ListBrands retrieves all brands in display order.
func (c *Client) ListBrands(ctx context.Context) ([]model.Brand, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "display_order.asc")

	var brands []model.Brand
	if err := c.selectRows(ctx, "brands", query, &brands); err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

// ListCategories retrieves all categories in display order, organised into
// a two-level hierarchy of main categories with their subcategories.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "display_order.asc")

	var all []model.Category
	if err := c.selectRows(ctx, "categories", query, &all); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	var main []model.Category
	for _, cat := range all {
		if cat.ParentID != nil {
			continue
		}
		for _, sub := range all {
			if sub.ParentID != nil && *sub.ParentID == cat.ID {
				cat.Subcategories = append(cat.Subcategories, sub)
			}
		}
		main = append(main, cat)
	}
	return main, nil
}

// GetSettings retrieves the settings table folded into a key/value map.
func (c *Client) GetSettings(ctx context.Context) (model.Settings, error) {
	query := url.Values{}
	query.Set("select", "key,value")

	var rows []struct {
		Key   string  `json:"key"`
		Value *string `json:"value"`
	}
	if err := c.selectRows(ctx, "settings", query, &rows); err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	settings := make(model.Settings, len(rows))
	for _, row := range rows {
		if row.Value != nil {
			settings[row.Key] = *row.Value
		} else {
			settings[row.Key] = ""
		}
	}
	return settings, nil
}

// GetProductStock reads the current stock level of a product.
func (c *Client) GetProductStock(ctx context.Context, productID string) (int, error) {
	query := url.Values{}
	query.Set("select", "stock")
	query.Set("id", "eq."+productID)
	query.Set("limit", "1")

	var rows []struct {
		Stock int `json:"stock"`
	}
	if err := c.selectRows(ctx, "products", query, &rows); err != nil {
		return 0, fmt.Errorf("failed to read product stock: %w", err)
	}
	if len(rows) == 0 {
		return 0, model.ErrProductNotFound
	}
	return rows[0].Stock, nil
}

// UpdateProductStock writes newStock for a product. The update filters on
// the expected previous value so a concurrent edit cannot be silently
// overwritten; a guard miss is reported as model.ErrStockConflict.
func (c *Client) UpdateProductStock(ctx context.Context, productID string, expectedStock, newStock int) error {
	query := url.Values{}
	query.Set("id", "eq."+productID)
	query.Set("stock", "eq."+strconv.Itoa(expectedStock))

	patch := map[string]any{
		"stock":      newStock,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}

	var rows []struct {
		ID string `json:"id"`
	}
	if err := c.updateReturning(ctx, "products", query, patch, &rows); err != nil {
		return fmt.Errorf("failed to update product stock: %w", err)
	}
	if len(rows) == 0 {
		return model.ErrStockConflict
	}

	c.logger.Debug().
		Str("product_id", productID).
		Int("old_stock", expectedStock).
		Int("new_stock", newStock).
		Msg("product stock updated")

	return nil
}

// lookupID resolves a slug to a row id. Returns "" when no row matches.
func (c *Client) lookupID(ctx context.Context, table, slug string) (string, error) {
	query := url.Values{}
	query.Set("select", "id")
	query.Set("slug", "eq."+slug)
	query.Set("limit", "1")

	var rows []struct {
		ID string `json:"id"`
	}
	if err := c.selectRows(ctx, table, query, &rows); err != nil {
		return "", fmt.Errorf("failed to resolve %s slug: %w", table, err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].ID, nil
}
