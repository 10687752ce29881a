package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Fronteras de clasificación con umbral 10:
// 0 → agotado, 1 → bajo, 10 → bajo (inclusive), 11 → disponible.
func TestClassifyStock_Fronteras(t *testing.T) {
	cases := []struct {
		stock    int64
		expected StockStatus
	}{
		{-3, StockStatusOut},
		{0, StockStatusOut},
		{1, StockStatusLow},
		{10, StockStatusLow},
		{11, StockStatusIn},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, ClassifyStock(c.stock, 10), "stock=%d", c.stock)
	}
}

func TestProduct_ThresholdPorDefecto(t *testing.T) {
	p := &Product{StockQuantity: 10}
	assert.Equal(t, int64(DefaultLowStockThreshold), p.Threshold())
	assert.Equal(t, StockStatusLow, p.StockStatus(), "stock = umbral por defecto es stock bajo")

	custom := int64(3)
	p.LowStockThreshold = &custom
	assert.Equal(t, StockStatusIn, p.StockStatus(), "con umbral propio 3, stock 10 está disponible")
}
