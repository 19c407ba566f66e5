package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalogue product as stored by the hosted backend.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *string         `json:"category_id"`
	BrandID     *string         `json:"brand_id"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"images"`
	IsPublished bool            `json:"is_published"`
	IsFeatured  bool            `json:"is_featured"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Brand represents an eyewear brand.
type Brand struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	LogoURL      *string `json:"logo_url"`
	Description  *string `json:"description"`
	DisplayOrder int     `json:"display_order"`
}

// Category represents a product category. Categories form a two-level
// hierarchy; Subcategories is populated for top-level entries only.
type Category struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Description   *string    `json:"description"`
	ImageURL      *string    `json:"image_url"`
	DisplayOrder  int        `json:"display_order"`
	ParentID      *string    `json:"parent_id"`
	Subcategories []Category `json:"subcategories,omitempty"`
}

// Settings is the flattened key/value settings table.
type Settings map[string]string

// DeliveryPriceKey is the settings row holding the home-delivery fee.
const DeliveryPriceKey = "delivery_price"

// Stock levels at or below LowStockThreshold are flagged as low.
const LowStockThreshold = 5

// StockStatus returns a human-readable availability string for a stock level.
func StockStatus(stock int) string {
	switch {
	case stock == 0:
		return "out of stock"
	case stock <= LowStockThreshold:
		return fmt.Sprintf("low stock (%d)", stock)
	default:
		return fmt.Sprintf("%d in stock", stock)
	}
}
