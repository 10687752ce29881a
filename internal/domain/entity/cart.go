package entity

import (
	"sort"
	"strings"
)

// CartLine representa una selección comprable distinta dentro de un carrito.
// La identidad de la línea es ProductID + VariantSelection comparada
// estructuralmente: dos líneas con la misma identidad se fusionan sumando
// cantidades, nunca se duplican.
type CartLine struct {
	ID               string            `json:"id,omitempty"` // asignado por la persistencia remota; vacío en carritos de invitado
	ProductID        string            `json:"product_id"`
	Quantity         int64             `json:"quantity"` // invariante: >= 1; <= 0 implica eliminación
	VariantSelection map[string]string `json:"variant_selection,omitempty"`

	// Product es un snapshot denormalizado adjuntado en sync para mostrar
	// título/precio/stock. Solo lectura, nunca se escribe de vuelta.
	Product *Product `json:"product,omitempty"`
}

// SelectionKey serializa una selección de variante de forma canónica
// (claves ordenadas) para comparación estructural.
func SelectionKey(sel map[string]string) string {
	if len(sel) == 0 {
		return ""
	}
	keys := make([]string, 0, len(sel))
	for k := range sel {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(sel[k])
	}
	return b.String()
}

// IdentityKey devuelve la clave de identidad de la línea (producto + variante).
func (l CartLine) IdentityKey() string {
	return l.ProductID + "|" + SelectionKey(l.VariantSelection)
}

// MergeLine fusiona una línea en un conjunto: si existe una línea con la misma
// identidad suma cantidades, si no la añade al final. Devuelve el conjunto
// resultante y true si hubo fusión con una línea existente.
func MergeLine(lines []CartLine, line CartLine) ([]CartLine, bool) {
	key := line.IdentityKey()
	for i := range lines {
		if lines[i].IdentityKey() == key {
			lines[i].Quantity += line.Quantity
			return lines, true
		}
	}
	return append(lines, line), false
}
