package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/application/cart"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// memStorage implementa cart.Storage en memoria con el mismo contrato que las
// estrategias reales (fusión por identidad, operaciones por producto).
type memStorage struct {
	lines   []entity.CartLine
	failOn  string // nombre de operación que debe fallar ("" = nunca)
	failErr error
}

func newMemStorage(lines ...entity.CartLine) *memStorage {
	return &memStorage{lines: lines}
}

func (s *memStorage) fail(op string) error {
	if s.failOn == op {
		if s.failErr != nil {
			return s.failErr
		}
		return &domain.PersistenceError{Op: op, Err: errors.New("fallo simulado")}
	}
	return nil
}

func (s *memStorage) AddItem(_ context.Context, line entity.CartLine) error {
	if err := s.fail("add_item"); err != nil {
		return err
	}
	s.lines, _ = entity.MergeLine(s.lines, line)
	return nil
}

func (s *memStorage) RemoveItem(_ context.Context, productID string) error {
	if err := s.fail("remove_item"); err != nil {
		return err
	}
	kept := s.lines[:0]
	for _, l := range s.lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	s.lines = kept
	return nil
}

func (s *memStorage) UpdateQuantity(ctx context.Context, productID string, quantity int64) error {
	if err := s.fail("update_quantity"); err != nil {
		return err
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
		}
	}
	return nil
}

func (s *memStorage) Clear(_ context.Context) error {
	if err := s.fail("clear"); err != nil {
		return err
	}
	s.lines = nil
	return nil
}

func (s *memStorage) Load(_ context.Context) ([]entity.CartLine, error) {
	if err := s.fail("load"); err != nil {
		return nil, err
	}
	out := make([]entity.CartLine, len(s.lines))
	copy(out, s.lines)
	return out, nil
}

// memLookup resuelve snapshots desde un mapa fijo.
type memLookup struct {
	products map[string]*entity.Product
}

func (l *memLookup) FetchByIDs(_ context.Context, ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := l.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func newReconciler(storage cart.Storage, products ...*entity.Product) *cart.Reconciler {
	byID := make(map[string]*entity.Product)
	for _, p := range products {
		byID[p.ID] = p
	}
	return cart.NewReconciler(storage, &memLookup{products: byID}, zerolog.Nop())
}

func lineFor(lines []entity.CartLine, key string) *entity.CartLine {
	for i := range lines {
		if lines[i].IdentityKey() == key {
			return &lines[i]
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fusión por identidad
// ──────────────────────────────────────────────────────────────────────────────

// Dos AddItem con la misma identidad (producto + selección estructuralmente
// igual) deben quedar en UNA sola línea con las cantidades sumadas.
func TestAddItem_FusionaPorIdentidad(t *testing.T) {
	r := newReconciler(newMemStorage())
	ctx := context.Background()

	_, err := r.AddItem(ctx, entity.CartLine{ProductID: "p1", Quantity: 2, VariantSelection: map[string]string{"talla": "M", "color": "negro"}})
	require.NoError(t, err)
	// Mismo contenido, distinto orden de claves en el literal: igualdad estructural.
	lines, err := r.AddItem(ctx, entity.CartLine{ProductID: "p1", Quantity: 3, VariantSelection: map[string]string{"color": "negro", "talla": "M"}})
	require.NoError(t, err)

	require.Len(t, lines, 1, "misma identidad nunca duplica línea")
	assert.Equal(t, int64(5), lines[0].Quantity, "las cantidades deben sumarse")
}

// Selecciones distintas del mismo producto son líneas distintas.
func TestAddItem_VariantesDistintasNoSeFusionan(t *testing.T) {
	r := newReconciler(newMemStorage())
	ctx := context.Background()

	_, err := r.AddItem(ctx, entity.CartLine{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	lines, err := r.AddItem(ctx, entity.CartLine{ProductID: "p1", Quantity: 3, VariantSelection: map[string]string{"talla": "M"}})
	require.NoError(t, err)

	assert.Len(t, lines, 2, "selección distinta = identidad distinta")
}

func TestAddItem_CantidadInvalida(t *testing.T) {
	r := newReconciler(newMemStorage())
	_, err := r.AddItem(context.Background(), entity.CartLine{ProductID: "p1", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Frontera de cantidad y semántica por producto
// ──────────────────────────────────────────────────────────────────────────────

// UpdateQuantity con 0 o negativo equivale exactamente a RemoveItem.
func TestUpdateQuantity_CeroYNegativoEliminan(t *testing.T) {
	for _, qty := range []int64{0, -5} {
		r := newReconciler(newMemStorage(entity.CartLine{ProductID: "p1", Quantity: 4}))
		lines, err := r.UpdateQuantity(context.Background(), "p1", qty)
		require.NoError(t, err)
		assert.Empty(t, lines, "cantidad %d debe eliminar la línea", qty)
	}
}

// Comportamiento observado (y deliberadamente preservado): RemoveItem y
// UpdateQuantity afectan TODAS las líneas del producto, incluidas todas sus
// variantes. Si el producto tiene varias líneas de variante en el carrito al
// mismo tiempo, caen todas juntas. Ambigüedad conocida: podría ser una
// simplificación no intencional; se documenta aquí en lugar de corregirse.
func TestRemoveItem_EliminaTodasLasVariantesDelProducto(t *testing.T) {
	r := newReconciler(newMemStorage(
		entity.CartLine{ProductID: "p1", Quantity: 1, VariantSelection: map[string]string{"talla": "S"}},
		entity.CartLine{ProductID: "p1", Quantity: 2, VariantSelection: map[string]string{"talla": "M"}},
		entity.CartLine{ProductID: "p2", Quantity: 1},
	))

	lines, err := r.RemoveItem(context.Background(), "p1")
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].ProductID)
}

func TestUpdateQuantity_AfectaTodasLasVariantesDelProducto(t *testing.T) {
	r := newReconciler(newMemStorage(
		entity.CartLine{ProductID: "p1", Quantity: 1, VariantSelection: map[string]string{"talla": "S"}},
		entity.CartLine{ProductID: "p1", Quantity: 2, VariantSelection: map[string]string{"talla": "M"}},
	))

	lines, err := r.UpdateQuantity(context.Background(), "p1", 7)
	require.NoError(t, err)

	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, int64(7), l.Quantity)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Sync e hidratación
// ──────────────────────────────────────────────────────────────────────────────

// Las líneas cuyo producto ya no resuelve se conservan con snapshot nil.
func TestSync_ProductoNoResolubleConservaLinea(t *testing.T) {
	p1 := &entity.Product{ID: "p1", Name: "Café", StockQuantity: 3}
	r := newReconciler(newMemStorage(
		entity.CartLine{ProductID: "p1", Quantity: 1},
		entity.CartLine{ProductID: "p-borrado", Quantity: 2},
	), p1)

	lines, err := r.Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 2)

	resolved := lineFor(lines, entity.CartLine{ProductID: "p1"}.IdentityKey())
	require.NotNil(t, resolved)
	require.NotNil(t, resolved.Product, "producto existente debe hidratarse")
	assert.Equal(t, "Café", resolved.Product.Name)

	orphan := lineFor(lines, entity.CartLine{ProductID: "p-borrado"}.IdentityKey())
	require.NotNil(t, orphan, "la línea huérfana no se descarta")
	assert.Nil(t, orphan.Product)
}

// El fallo de escritura se propaga como PersistenceError y no toca el estado.
func TestAddItem_FalloDePersistenciaPropaga(t *testing.T) {
	st := newMemStorage(entity.CartLine{ProductID: "p1", Quantity: 2})
	st.failOn = "add_item"
	r := newReconciler(st)

	_, err := r.AddItem(context.Background(), entity.CartLine{ProductID: "p2", Quantity: 1})
	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)

	st.failOn = ""
	lines, err := r.Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1, "el estado persistido no debe cambiar tras un fallo")
	assert.Equal(t, "p1", lines[0].ProductID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Protocolo de merge (login)
// ──────────────────────────────────────────────────────────────────────────────

// El merge preserva la cantidad total por clave de identidad presente en la
// unión de ambos carritos.
func TestMergeOnLogin_PreservaCantidadesTotales(t *testing.T) {
	guest := newMemStorage(
		entity.CartLine{ProductID: "p1", Quantity: 2},
		entity.CartLine{ProductID: "p2", Quantity: 1, VariantSelection: map[string]string{"color": "rojo"}},
	)
	remote := newMemStorage(
		entity.CartLine{ProductID: "p1", Quantity: 3}, // identidad compartida con el invitado
		entity.CartLine{ProductID: "p3", Quantity: 4}, // solo en el remoto
	)
	r := newReconciler(remote)

	lines, err := r.MergeOnLogin(context.Background(), guest)
	require.NoError(t, err)

	require.Len(t, lines, 3)
	assert.Equal(t, int64(5), lineFor(lines, entity.CartLine{ProductID: "p1"}.IdentityKey()).Quantity, "2 del invitado + 3 del remoto")
	assert.Equal(t, int64(1), lineFor(lines, entity.CartLine{ProductID: "p2", VariantSelection: map[string]string{"color": "rojo"}}.IdentityKey()).Quantity)
	assert.Equal(t, int64(4), lineFor(lines, entity.CartLine{ProductID: "p3"}.IdentityKey()).Quantity)

	assert.Empty(t, guest.lines, "tras merge exitoso el carrito de invitado se vacía")
}

// Carrito de invitado vacío: solo resincroniza el remoto, sin replays.
func TestMergeOnLogin_InvitadoVacioSoloResincroniza(t *testing.T) {
	guest := newMemStorage()
	remote := newMemStorage(entity.CartLine{ProductID: "p1", Quantity: 3})
	r := newReconciler(remote)

	lines, err := r.MergeOnLogin(context.Background(), guest)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(3), lines[0].Quantity)
}

// Si un replay falla, se aborta, se devuelve MergeConflictError y el carrito
// de invitado conserva TODAS sus líneas originales (ninguna se limpia).
func TestMergeOnLogin_FalloPreservaCarritoInvitado(t *testing.T) {
	guest := newMemStorage(
		entity.CartLine{ProductID: "p1", Quantity: 2},
		entity.CartLine{ProductID: "p2", Quantity: 1},
	)
	remote := newMemStorage()
	remote.failOn = "add_item"
	r := newReconciler(remote)

	_, err := r.MergeOnLogin(context.Background(), guest)
	var merr *domain.MergeConflictError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "p1", merr.ProductID, "debe indicar la línea en la que abortó")

	assert.Len(t, guest.lines, 2, "el carrito de invitado no debe tocarse tras un fallo")
}

// Reintento tras fallo parcial: los replays ya aplicados quedan como duplicados
// que la fusión por identidad absorbe (el reintento no duplica líneas, aunque
// sí puede duplicar cantidades; decisión de producto pendiente documentada).
func TestMergeOnLogin_ReintentoNoDuplicaLineas(t *testing.T) {
	guest := newMemStorage(entity.CartLine{ProductID: "p1", Quantity: 2})
	remote := newMemStorage(entity.CartLine{ProductID: "p1", Quantity: 2}) // ya replicada en un intento previo
	r := newReconciler(remote)

	lines, err := r.MergeOnLogin(context.Background(), guest)
	require.NoError(t, err)

	require.Len(t, lines, 1, "la identidad compartida no genera línea nueva")
	assert.Equal(t, int64(4), lines[0].Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario extremo a extremo (invitado → login → merge)
// ──────────────────────────────────────────────────────────────────────────────

func TestEscenarioCompleto_InvitadoLoginMerge(t *testing.T) {
	ctx := context.Background()
	guest := newMemStorage()
	guestRec := newReconciler(guest)

	// Carrito anónimo: p1 sin variante (2) + p1 talla M (3) = dos líneas distintas.
	_, err := guestRec.AddItem(ctx, entity.CartLine{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	lines, err := guestRec.AddItem(ctx, entity.CartLine{ProductID: "p1", Quantity: 3, VariantSelection: map[string]string{"size": "M"}})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// Login: el carrito remoto ya tiene p1 sin variante con cantidad 1.
	remote := newMemStorage(entity.CartLine{ProductID: "p1", Quantity: 1})
	authRec := newReconciler(remote)

	merged, err := authRec.MergeOnLogin(ctx, guest)
	require.NoError(t, err)

	require.Len(t, merged, 2)
	bare := lineFor(merged, entity.CartLine{ProductID: "p1"}.IdentityKey())
	sizeM := lineFor(merged, entity.CartLine{ProductID: "p1", VariantSelection: map[string]string{"size": "M"}}.IdentityKey())
	require.NotNil(t, bare)
	require.NotNil(t, sizeM)
	assert.Equal(t, int64(3), bare.Quantity, "2 del invitado + 1 del remoto")
	assert.Equal(t, int64(3), sizeM.Quantity)
	assert.Empty(t, guest.lines)
}
