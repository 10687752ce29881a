package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	CategoryID        string          `json:"category_id"`
	Price             decimal.Decimal `json:"price"`
	Images            []string        `json:"images"`
	InitialStock      int64           `json:"initial_stock"`
	LowStockThreshold *int64          `json:"low_stock_threshold,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id (campos opcionales).
type UpdateProductRequest struct {
	Name              *string          `json:"name,omitempty"`
	Description       *string          `json:"description,omitempty"`
	CategoryID        *string          `json:"category_id,omitempty"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	Images            []string         `json:"images,omitempty"`
	LowStockThreshold *int64           `json:"low_stock_threshold,omitempty"`
	Active            *bool            `json:"active,omitempty"`
}

// VariantResponse variante con su stock y clasificación.
type VariantResponse struct {
	ID            string            `json:"id"`
	ProductID     string            `json:"product_id"`
	SKU           string            `json:"sku"`
	Attributes    map[string]string `json:"attributes"`
	PriceDelta    decimal.Decimal   `json:"price_delta"`
	StockQuantity int64             `json:"stock_quantity"`
	StockStatus   string            `json:"stock_status"`
}

// CreateVariantRequest body para POST /api/products/:id/variants.
type CreateVariantRequest struct {
	SKU          string            `json:"sku"`
	Attributes   map[string]string `json:"attributes"`
	PriceDelta   decimal.Decimal   `json:"price_delta"`
	InitialStock int64             `json:"initial_stock"`
}

// UpdateVariantRequest body para PUT /api/products/:id/variants/:variantId.
// El stock NO se edita aquí: solo vía ajustes de inventario.
type UpdateVariantRequest struct {
	SKU        *string           `json:"sku,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	PriceDelta *decimal.Decimal  `json:"price_delta,omitempty"`
}

// ProductResponse producto con clasificación de stock calculada al responder.
type ProductResponse struct {
	ID                string            `json:"id"`
	CategoryID        string            `json:"category_id,omitempty"`
	SKU               string            `json:"sku"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Price             decimal.Decimal   `json:"price"`
	Images            []string          `json:"images"`
	StockQuantity     int64             `json:"stock_quantity"`
	LowStockThreshold *int64            `json:"low_stock_threshold,omitempty"`
	StockStatus       string            `json:"stock_status"`
	Active            bool              `json:"active"`
	Variants          []VariantResponse `json:"variants,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// ProductListResponse listado paginado.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
