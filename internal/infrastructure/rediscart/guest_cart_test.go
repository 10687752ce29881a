package rediscart

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// newTestClient conecta a un Redis local; si no hay ninguno disponible el
// test se salta (es un test de integración, no de unidad).
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis no disponible: %v", err)
	}
	return client
}

func TestGuestCart_CicloCompleto(t *testing.T) {
	client := newTestClient(t)
	defer client.Close()

	store := NewGuestCartStorage(client, "sesion-test-"+t.Name(), time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Clear(ctx))

	// Agregar dos veces la misma identidad fusiona; otra variante crea línea.
	require.NoError(t, store.AddItem(ctx, entity.CartLine{ProductID: "p1", Quantity: 2}))
	require.NoError(t, store.AddItem(ctx, entity.CartLine{ProductID: "p1", Quantity: 3}))
	require.NoError(t, store.AddItem(ctx, entity.CartLine{
		ProductID: "p1", Quantity: 1, VariantSelection: map[string]string{"talla": "M"},
	}))

	lines, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(5), lines[0].Quantity)

	// UpdateQuantity afecta todas las líneas del producto; <= 0 elimina.
	require.NoError(t, store.UpdateQuantity(ctx, "p1", 7))
	lines, err = store.Load(ctx)
	require.NoError(t, err)
	for _, l := range lines {
		assert.Equal(t, int64(7), l.Quantity)
	}

	require.NoError(t, store.UpdateQuantity(ctx, "p1", 0))
	lines, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestGuestCart_SesionesAisladas(t *testing.T) {
	client := newTestClient(t)
	defer client.Close()

	ctx := context.Background()
	a := NewGuestCartStorage(client, "sesion-a-"+t.Name(), time.Minute)
	b := NewGuestCartStorage(client, "sesion-b-"+t.Name(), time.Minute)
	require.NoError(t, a.Clear(ctx))
	require.NoError(t, b.Clear(ctx))

	require.NoError(t, a.AddItem(ctx, entity.CartLine{ProductID: "p1", Quantity: 1}))

	lines, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	require.NoError(t, a.Clear(ctx))
}
