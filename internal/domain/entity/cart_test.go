package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// La clave de identidad es canónica: el orden de claves del mapa no importa.
func TestIdentityKey_EsCanonica(t *testing.T) {
	a := CartLine{ProductID: "p1", VariantSelection: map[string]string{"talla": "M", "color": "azul"}}
	b := CartLine{ProductID: "p1", VariantSelection: map[string]string{"color": "azul", "talla": "M"}}
	c := CartLine{ProductID: "p1", VariantSelection: map[string]string{"color": "rojo", "talla": "M"}}

	assert.Equal(t, a.IdentityKey(), b.IdentityKey())
	assert.NotEqual(t, a.IdentityKey(), c.IdentityKey())
	assert.NotEqual(t, a.IdentityKey(), CartLine{ProductID: "p1"}.IdentityKey(), "sin selección es otra identidad")
}

func TestMergeLine_SumaOAgrega(t *testing.T) {
	lines := []CartLine{{ProductID: "p1", Quantity: 2}}

	lines, merged := MergeLine(lines, CartLine{ProductID: "p1", Quantity: 3})
	assert.True(t, merged)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(5), lines[0].Quantity)

	lines, merged = MergeLine(lines, CartLine{ProductID: "p1", Quantity: 1, VariantSelection: map[string]string{"talla": "S"}})
	assert.False(t, merged)
	assert.Len(t, lines, 2)
}
