package cart_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/application/cart"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// memCartLineRepo implementa repository.CartLineRepository en memoria con las
// mismas restricciones que la tabla cart_lines: el ID de línea es clave
// primaria y el insert de un ID ya existente (o vacío, dos veces) falla.
type memCartLineRepo struct {
	byUser map[string][]entity.CartLine
	ids    map[string]struct{}
}

func newMemCartLineRepo() *memCartLineRepo {
	return &memCartLineRepo{
		byUser: make(map[string][]entity.CartLine),
		ids:    make(map[string]struct{}),
	}
}

func (r *memCartLineRepo) ListByUser(userID string) ([]entity.CartLine, error) {
	return append([]entity.CartLine(nil), r.byUser[userID]...), nil
}

func (r *memCartLineRepo) Insert(userID string, line entity.CartLine) error {
	if _, exists := r.ids[line.ID]; exists {
		return fmt.Errorf(`duplicate key value violates unique constraint "cart_lines_pkey"`)
	}
	r.ids[line.ID] = struct{}{}
	r.byUser[userID] = append(r.byUser[userID], line)
	return nil
}

func (r *memCartLineRepo) UpdateQuantity(lineID string, quantity int64) error {
	for userID, lines := range r.byUser {
		for i := range lines {
			if lines[i].ID == lineID {
				r.byUser[userID][i].Quantity = quantity
				return nil
			}
		}
	}
	return fmt.Errorf("línea no encontrada: %s", lineID)
}

func (r *memCartLineRepo) UpdateQuantityByProduct(userID, productID string, quantity int64) error {
	for i := range r.byUser[userID] {
		if r.byUser[userID][i].ProductID == productID {
			r.byUser[userID][i].Quantity = quantity
		}
	}
	return nil
}

func (r *memCartLineRepo) DeleteByProduct(userID, productID string) error {
	kept := r.byUser[userID][:0]
	for _, l := range r.byUser[userID] {
		if l.ProductID == productID {
			delete(r.ids, l.ID)
			continue
		}
		kept = append(kept, l)
	}
	r.byUser[userID] = kept
	return nil
}

func (r *memCartLineRepo) DeleteByUser(userID string) error {
	for _, l := range r.byUser[userID] {
		delete(r.ids, l.ID)
	}
	delete(r.byUser, userID)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// RemoteStorage sobre el puerto de persistencia
// ──────────────────────────────────────────────────────────────────────────────

func TestRemoteStorage_AddItemAsignaIDporLinea(t *testing.T) {
	repo := newMemCartLineRepo()
	storage := cart.NewRemoteStorage(repo, "u1")
	ctx := context.Background()

	// Las líneas llegan de los handlers sin ID; cada inserción debe recibir
	// una clave primaria propia.
	require.NoError(t, storage.AddItem(ctx, entity.CartLine{ProductID: "p1", Quantity: 2}))
	require.NoError(t, storage.AddItem(ctx, entity.CartLine{ProductID: "p2", Quantity: 1}))
	require.NoError(t, storage.AddItem(ctx, entity.CartLine{
		ProductID:        "p1",
		Quantity:         3,
		VariantSelection: map[string]string{"talla": "M"},
	}))

	lines, err := repo.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, lines, 3)
	seen := make(map[string]struct{})
	for _, l := range lines {
		assert.NotEmpty(t, l.ID)
		seen[l.ID] = struct{}{}
	}
	assert.Len(t, seen, 3, "cada línea debe tener un ID distinto")
}

func TestRemoteStorage_AddItemFusionaPorIdentidad(t *testing.T) {
	repo := newMemCartLineRepo()
	storage := cart.NewRemoteStorage(repo, "u1")
	ctx := context.Background()

	require.NoError(t, storage.AddItem(ctx, entity.CartLine{ProductID: "p1", Quantity: 2}))
	require.NoError(t, storage.AddItem(ctx, entity.CartLine{ProductID: "p1", Quantity: 3}))

	lines, err := repo.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, lines, 1, "identidades iguales deben fusionarse, no duplicarse")
	assert.Equal(t, int64(5), lines[0].Quantity)
}

func TestRemoteStorage_UpdateQuantityPorProducto(t *testing.T) {
	repo := newMemCartLineRepo()
	storage := cart.NewRemoteStorage(repo, "u1")
	ctx := context.Background()

	require.NoError(t, storage.AddItem(ctx, entity.CartLine{ProductID: "p1", Quantity: 2}))
	require.NoError(t, storage.AddItem(ctx, entity.CartLine{
		ProductID:        "p1",
		Quantity:         3,
		VariantSelection: map[string]string{"talla": "M"},
	}))

	require.NoError(t, storage.UpdateQuantity(ctx, "p1", 7))
	lines, err := repo.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, int64(7), l.Quantity)
	}

	// Cantidad <= 0 elimina todas las líneas del producto.
	require.NoError(t, storage.UpdateQuantity(ctx, "p1", 0))
	lines, err = repo.ListByUser("u1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRemoteStorage_MergeDesdeInvitadoYReintento(t *testing.T) {
	repo := newMemCartLineRepo()
	ctx := context.Background()

	// El carrito autenticado ya tiene una línea de p1 sin variante.
	remote := cart.NewRemoteStorage(repo, "u1")
	require.NoError(t, remote.AddItem(ctx, entity.CartLine{ProductID: "p1", Quantity: 1}))

	guest := newMemStorage(
		entity.CartLine{ID: "g1", ProductID: "p1", Quantity: 2},
		entity.CartLine{ID: "g2", ProductID: "p2", Quantity: 4},
	)
	r := newReconciler(remote, &entity.Product{ID: "p1", Active: true}, &entity.Product{ID: "p2", Active: true})

	lines, err := r.MergeOnLogin(ctx, guest)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	byProduct := make(map[string]int64)
	for _, l := range lines {
		byProduct[l.ProductID] += l.Quantity
	}
	assert.Equal(t, int64(3), byProduct["p1"])
	assert.Equal(t, int64(4), byProduct["p2"])
	assert.Empty(t, guest.lines, "el carrito de invitado se vacía tras la fusión completa")

	// Un segundo replay de las mismas líneas (reintento tras fallo parcial)
	// se absorbe por la fusión por identidad en vez de violar la clave primaria.
	require.NoError(t, remote.AddItem(ctx, entity.CartLine{ID: "g1", ProductID: "p1", Quantity: 2}))
	lines, err = repo.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
}
