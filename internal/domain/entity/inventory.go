package entity

import "time"

// Motivos de ajuste manual de inventario (conjunto cerrado).
const (
	ReasonRestock    = "restock"    // reposición de mercancía
	ReasonCorrection = "correction" // corrección de conteo
	ReasonReturn     = "return"     // devolución de cliente
	ReasonShrinkage  = "shrinkage"  // merma, daño o pérdida
	ReasonOther      = "other"
)

// ReasonSale lo escriben los flujos de venta (checkout); no es un motivo
// de ajuste manual válido.
const ReasonSale = "sale"

// ValidAdjustmentReason verifica que el motivo pertenezca al conjunto cerrado
// de ajustes manuales.
func ValidAdjustmentReason(reason string) bool {
	switch reason {
	case ReasonRestock, ReasonCorrection, ReasonReturn, ReasonShrinkage, ReasonOther:
		return true
	}
	return false
}

// InventoryLogEntry es el registro inmutable de un cambio de stock.
// FinalStock es un snapshot del stock resultante en el momento del cambio:
// evidencia de auditoría, estable aunque ajustes posteriores muevan el stock.
type InventoryLogEntry struct {
	ID           string
	ProductID    string
	VariantID    *string // nil = el ajuste fue al stock propio del producto
	ChangeAmount int64   // positivo entrada, negativo salida
	FinalStock   int64
	Reason       string
	Note         string
	CreatedAt    time.Time
	CreatedBy    string // UserID del actor
}
