package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant representa una variante de producto (ej. talla/color) con stock propio.
// El stock del producto padre es siempre la suma de sus variantes.
type Variant struct {
	ID            string
	ProductID     string
	SKU           string
	Attributes    map[string]string // {"talla": "M", "color": "negro"}
	PriceDelta    decimal.Decimal   // ajuste sobre el precio base del producto
	StockQuantity int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MatchesSelection compara los atributos de la variante con una selección
// estructuralmente (mismas claves, mismos valores).
func (v *Variant) MatchesSelection(sel map[string]string) bool {
	if len(v.Attributes) != len(sel) {
		return false
	}
	for k, val := range v.Attributes {
		if sel[k] != val {
			return false
		}
	}
	return true
}
