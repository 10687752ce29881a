package dto

import "time"

// AdjustStockRequest body para POST /api/inventory/adjustments.
// variant_id vacío = ajuste al stock propio del producto (solo sin variantes).
type AdjustStockRequest struct {
	ProductID    string `json:"product_id"`
	VariantID    string `json:"variant_id,omitempty"`
	ChangeAmount int64  `json:"change_amount"` // firmado, nunca cero
	Reason       string `json:"reason"`        // restock | correction | return | shrinkage | other
	Note         string `json:"note,omitempty"`
}

// InventoryLogEntryResponse entrada del log de auditoría.
type InventoryLogEntryResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	VariantID    *string   `json:"variant_id,omitempty"`
	ChangeAmount int64     `json:"change_amount"`
	FinalStock   int64     `json:"final_stock"`
	Reason       string    `json:"reason"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	CreatedBy    string    `json:"created_by"`
}

// LowStockVariantDTO desglose por variante en el reporte de stock bajo.
type LowStockVariantDTO struct {
	VariantID   string            `json:"variant_id"`
	SKU         string            `json:"sku"`
	Attributes  map[string]string `json:"attributes"`
	Stock       int64             `json:"stock"`
	StockStatus string            `json:"stock_status"`
}

// LowStockItemDTO fila del reporte de stock bajo del panel de administración.
type LowStockItemDTO struct {
	ProductID   string               `json:"product_id"`
	SKU         string               `json:"sku"`
	Name        string               `json:"name"`
	Stock       int64                `json:"stock"`
	Threshold   int64                `json:"threshold"`
	StockStatus string               `json:"stock_status"`
	Variants    []LowStockVariantDTO `json:"variants,omitempty"`
}
