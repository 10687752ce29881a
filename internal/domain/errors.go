package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrEmptyCart          = errors.New("el carrito está vacío")
	ErrProductHasVariants = errors.New("el producto tiene variantes: ajustar stock por variante")
)

// PersistenceError indica que una lectura/escritura contra una estrategia de
// almacenamiento de carrito falló. El llamador debe reintentar la operación
// completa; este paquete no reintenta.
type PersistenceError struct {
	Op  string // operación que falló: "add_item", "load", "clear"...
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistencia de carrito (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// StockAdjustmentError indica que la transacción remota de ajuste de stock falló.
// El llamador no debe asumir aplicación parcial: la transacción es atómica.
type StockAdjustmentError struct {
	ProductID string
	VariantID string // vacío si el ajuste era a nivel de producto
	Err       error
}

func (e *StockAdjustmentError) Error() string {
	if e.VariantID != "" {
		return fmt.Sprintf("ajuste de stock producto=%s variante=%s: %v", e.ProductID, e.VariantID, e.Err)
	}
	return fmt.Sprintf("ajuste de stock producto=%s: %v", e.ProductID, e.Err)
}

func (e *StockAdjustmentError) Unwrap() error { return e.Err }

// MergeConflictError indica que una línea del carrito de invitado no pudo
// replicarse en el carrito autenticado durante el merge de login. El carrito
// de invitado se conserva intacto para permitir el reintento; las líneas ya
// replicadas se aceptan como duplicados (la fusión por identidad los absorbe).
type MergeConflictError struct {
	ProductID string // línea en la que se abortó el replay
	Err       error
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("merge de carrito abortado en producto=%s: %v", e.ProductID, e.Err)
}

func (e *MergeConflictError) Unwrap() error { return e.Err }
