package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de disponibilidad de stock. Se calculan al mostrar, nunca se persisten.
type StockStatus string

const (
	StockStatusOut StockStatus = "out_of_stock" // stock <= 0
	StockStatusLow StockStatus = "low_stock"    // 0 < stock <= umbral
	StockStatusIn  StockStatus = "in_stock"     // stock > umbral
)

// DefaultLowStockThreshold umbral de stock bajo cuando el producto no define el suyo.
const DefaultLowStockThreshold = 10

// ClassifyStock clasifica un nivel de stock contra un umbral. Función pura:
// debe dar el mismo resultado en listado, detalle y panel de administración.
func ClassifyStock(stock int64, threshold int64) StockStatus {
	switch {
	case stock <= 0:
		return StockStatusOut
	case stock <= threshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// Product representa un producto de la tienda.
// StockQuantity es autoritativo solo cuando el producto no tiene variantes;
// con variantes, siempre es la suma de los stocks de variante (recalculada en
// cada alta/baja/ajuste de variante, nunca editada a mano).
type Product struct {
	ID                string
	CategoryID        string
	SKU               string // código único
	Name              string
	Description       string
	Price             decimal.Decimal
	Images            []string
	StockQuantity     int64
	LowStockThreshold *int64 // nil = usar DefaultLowStockThreshold
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Threshold devuelve el umbral de stock bajo efectivo del producto.
func (p *Product) Threshold() int64 {
	if p.LowStockThreshold != nil && *p.LowStockThreshold > 0 {
		return *p.LowStockThreshold
	}
	return DefaultLowStockThreshold
}

// StockStatus clasifica el stock actual del producto.
func (p *Product) StockStatus() StockStatus {
	return ClassifyStock(p.StockQuantity, p.Threshold())
}
