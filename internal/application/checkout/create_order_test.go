package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// world estado compartido en memoria; clone permite simular rollback.
type world struct {
	products map[string]*entity.Product
	variants map[string]*entity.Variant
	carts    map[string][]entity.CartLine
	orders   map[string]*entity.Order
	logs     []*entity.InventoryLogEntry
}

func newWorld() *world {
	return &world{
		products: map[string]*entity.Product{},
		variants: map[string]*entity.Variant{},
		carts:    map[string][]entity.CartLine{},
		orders:   map[string]*entity.Order{},
	}
}

func (w *world) clone() *world {
	c := newWorld()
	for id, p := range w.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, v := range w.variants {
		cv := *v
		c.variants[id] = &cv
	}
	for uid, lines := range w.carts {
		c.carts[uid] = append([]entity.CartLine(nil), lines...)
	}
	for id, o := range w.orders {
		co := *o
		co.Items = append([]entity.OrderItem(nil), o.Items...)
		c.orders[id] = &co
	}
	c.logs = append(c.logs, w.logs...)
	return c
}

type fakeProductRepo struct{ w *world }

func (r *fakeProductRepo) Create(p *entity.Product) error { r.w.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.w.products[id], nil
}
func (r *fakeProductRepo) GetBySKU(string) (*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.w.products[id], nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error { r.w.products[p.ID] = p; return nil }
func (r *fakeProductRepo) UpdateStock(id string, qty int64) error {
	p, ok := r.w.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = qty
	return nil
}
func (r *fakeProductRepo) List(repository.ProductFilter) ([]*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) ListByIDs([]string) ([]*entity.Product, error)       { return nil, nil }
func (r *fakeProductRepo) ListLowStock(int64, int) ([]*entity.Product, error)  { return nil, nil }
func (r *fakeProductRepo) Delete(id string) error                              { delete(r.w.products, id); return nil }

type fakeVariantRepo struct{ w *world }

func (r *fakeVariantRepo) Create(v *entity.Variant) error { r.w.variants[v.ID] = v; return nil }
func (r *fakeVariantRepo) GetByID(id string) (*entity.Variant, error) {
	return r.w.variants[id], nil
}
func (r *fakeVariantRepo) GetForUpdate(id string) (*entity.Variant, error) {
	return r.w.variants[id], nil
}
func (r *fakeVariantRepo) ListByProduct(productID string) ([]*entity.Variant, error) {
	var out []*entity.Variant
	for _, v := range r.w.variants {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}
func (r *fakeVariantRepo) Update(v *entity.Variant) error { r.w.variants[v.ID] = v; return nil }
func (r *fakeVariantRepo) UpdateStock(id string, qty int64) error {
	v, ok := r.w.variants[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.StockQuantity = qty
	return nil
}
func (r *fakeVariantRepo) SumStockByProduct(productID string) (int64, error) {
	var total int64
	for _, v := range r.w.variants {
		if v.ProductID == productID {
			total += v.StockQuantity
		}
	}
	return total, nil
}
func (r *fakeVariantRepo) CountByProduct(productID string) (int, error) {
	count := 0
	for _, v := range r.w.variants {
		if v.ProductID == productID {
			count++
		}
	}
	return count, nil
}
func (r *fakeVariantRepo) Delete(id string) error { delete(r.w.variants, id); return nil }

type fakeCartRepo struct{ w *world }

func (r *fakeCartRepo) ListByUser(userID string) ([]entity.CartLine, error) {
	return append([]entity.CartLine(nil), r.w.carts[userID]...), nil
}
func (r *fakeCartRepo) Insert(userID string, line entity.CartLine) error {
	r.w.carts[userID] = append(r.w.carts[userID], line)
	return nil
}
func (r *fakeCartRepo) UpdateQuantity(string, int64) error                  { return nil }
func (r *fakeCartRepo) UpdateQuantityByProduct(string, string, int64) error { return nil }
func (r *fakeCartRepo) DeleteByProduct(string, string) error                { return nil }
func (r *fakeCartRepo) DeleteByUser(userID string) error {
	delete(r.w.carts, userID)
	return nil
}

type fakeOrderRepo struct{ w *world }

func (r *fakeOrderRepo) Create(o *entity.Order) error { r.w.orders[o.ID] = o; return nil }
func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	return r.w.orders[id], nil
}
func (r *fakeOrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.w.orders[id], nil
}
func (r *fakeOrderRepo) ListByUser(userID string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.w.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}
func (r *fakeOrderRepo) ListByStatus(status string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.w.orders {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}
func (r *fakeOrderRepo) UpdateStatus(orderID, status string) error {
	o, ok := r.w.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

type fakeLogRepo struct {
	w    *world
	fail bool
}

func (r *fakeLogRepo) Create(e *entity.InventoryLogEntry) error {
	if r.fail {
		return errors.New("insert fallido")
	}
	r.w.logs = append(r.w.logs, e)
	return nil
}
func (r *fakeLogRepo) ListByProduct(string, *time.Time, *time.Time, int, int) ([]*entity.InventoryLogEntry, error) {
	return nil, nil
}
func (r *fakeLogRepo) List(*time.Time, *time.Time, int, int) ([]*entity.InventoryLogEntry, error) {
	return nil, nil
}

// fakeTxRunner ejecuta fn sobre el estado y lo restaura ante error.
type fakeTxRunner struct {
	w       *world
	failLog bool
}

func (t *fakeTxRunner) RunCheckout(ctx context.Context, fn TxFunc) error {
	snapshot := t.w.clone()
	err := fn(
		&fakeOrderRepo{w: t.w},
		&fakeCartRepo{w: t.w},
		&fakeProductRepo{w: t.w},
		&fakeVariantRepo{w: t.w},
		&fakeLogRepo{w: t.w, fail: t.failLog},
	)
	if err != nil {
		*t.w = *snapshot
	}
	return err
}

func fixtureWorld() *world {
	w := newWorld()
	w.products["p1"] = &entity.Product{
		ID: "p1", SKU: "CAM-001", Name: "Camiseta básica",
		Price: decimal.NewFromInt(30), StockQuantity: 10, Active: true,
	}
	w.products["p2"] = &entity.Product{
		ID: "p2", SKU: "ZAP-001", Name: "Zapatilla urbana",
		Price: decimal.NewFromInt(120), StockQuantity: 8, Active: true,
	}
	w.variants["v1"] = &entity.Variant{
		ID: "v1", ProductID: "p2", SKU: "ZAP-001-40",
		Attributes: map[string]string{"talla": "40"}, PriceDelta: decimal.NewFromInt(5), StockQuantity: 5,
	}
	w.variants["v2"] = &entity.Variant{
		ID: "v2", ProductID: "p2", SKU: "ZAP-001-42",
		Attributes: map[string]string{"talla": "42"}, PriceDelta: decimal.Zero, StockQuantity: 3,
	}
	return w
}

func TestCheckout_CreaPedidoYVaciaCarrito(t *testing.T) {
	w := fixtureWorld()
	w.carts["u1"] = []entity.CartLine{
		{ID: "l1", ProductID: "p1", Quantity: 2},
		{ID: "l2", ProductID: "p2", Quantity: 3, VariantSelection: map[string]string{"talla": "40"}},
	}
	uc := NewCreateOrderUseCase(&fakeTxRunner{w: w}, nil, zerolog.Nop())

	order, err := uc.Create(context.Background(), CreateInput{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)

	assert.Equal(t, entity.OrderStatusPending, order.Status)
	// 2 * 30 + 3 * (120 + 5) = 435
	assert.True(t, order.Total.Equal(decimal.NewFromInt(435)), "total = %s", order.Total)

	// Stock descontado y agregado del padre recalculado.
	assert.Equal(t, int64(8), w.products["p1"].StockQuantity)
	assert.Equal(t, int64(2), w.variants["v1"].StockQuantity)
	assert.Equal(t, int64(5), w.products["p2"].StockQuantity) // 2 + 3

	// Una entrada de auditoría "sale" por línea, con stock final.
	require.Len(t, w.logs, 2)
	for _, entry := range w.logs {
		assert.Equal(t, entity.ReasonSale, entry.Reason)
		assert.Equal(t, "u1", entry.CreatedBy)
	}

	// Carrito vacío tras confirmar.
	assert.Empty(t, w.carts["u1"])
}

func TestCheckout_CarritoVacio(t *testing.T) {
	w := fixtureWorld()
	uc := NewCreateOrderUseCase(&fakeTxRunner{w: w}, nil, zerolog.Nop())

	_, err := uc.Create(context.Background(), CreateInput{UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCheckout_StockInsuficienteRevierteTodo(t *testing.T) {
	w := fixtureWorld()
	w.carts["u1"] = []entity.CartLine{
		{ID: "l1", ProductID: "p1", Quantity: 2},
		{ID: "l2", ProductID: "p2", Quantity: 6, VariantSelection: map[string]string{"talla": "40"}}, // solo hay 5
	}
	uc := NewCreateOrderUseCase(&fakeTxRunner{w: w}, nil, zerolog.Nop())

	_, err := uc.Create(context.Background(), CreateInput{UserID: "u1"})
	var stockErr *domain.StockAdjustmentError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "p2", stockErr.ProductID)

	// El descuento de la primera línea también se revirtió y el carrito sigue intacto.
	assert.Equal(t, int64(10), w.products["p1"].StockQuantity)
	assert.Equal(t, int64(5), w.variants["v1"].StockQuantity)
	assert.Len(t, w.carts["u1"], 2)
	assert.Empty(t, w.orders)
	assert.Empty(t, w.logs)
}

func TestCheckout_ProductoConVariantesSinSeleccion(t *testing.T) {
	w := fixtureWorld()
	w.carts["u1"] = []entity.CartLine{{ID: "l1", ProductID: "p2", Quantity: 1}}
	uc := NewCreateOrderUseCase(&fakeTxRunner{w: w}, nil, zerolog.Nop())

	_, err := uc.Create(context.Background(), CreateInput{UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheckout_FalloDeAuditoriaRevierteTodo(t *testing.T) {
	w := fixtureWorld()
	w.carts["u1"] = []entity.CartLine{{ID: "l1", ProductID: "p1", Quantity: 2}}
	uc := NewCreateOrderUseCase(&fakeTxRunner{w: w, failLog: true}, nil, zerolog.Nop())

	_, err := uc.Create(context.Background(), CreateInput{UserID: "u1"})
	var persistErr *domain.PersistenceError
	require.ErrorAs(t, err, &persistErr)

	assert.Equal(t, int64(10), w.products["p1"].StockQuantity)
	assert.Len(t, w.carts["u1"], 1)
	assert.Empty(t, w.orders)
}

func TestCancelacion_RestituyeStockConAuditoria(t *testing.T) {
	w := fixtureWorld()
	w.carts["u1"] = []entity.CartLine{
		{ID: "l1", ProductID: "p2", Quantity: 3, VariantSelection: map[string]string{"talla": "40"}},
	}
	creator := NewCreateOrderUseCase(&fakeTxRunner{w: w}, nil, zerolog.Nop())
	order, err := creator.Create(context.Background(), CreateInput{UserID: "u1"})
	require.NoError(t, err)
	require.Equal(t, int64(2), w.variants["v1"].StockQuantity)

	uc := NewOrderUseCase(&fakeOrderRepo{w: w}, nil, &fakeTxRunner{w: w}, nil, nil, zerolog.Nop())
	cancelled, err := uc.Cancel(context.Background(), order.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)

	// Stock restituido y agregado recalculado.
	assert.Equal(t, int64(5), w.variants["v1"].StockQuantity)
	assert.Equal(t, int64(8), w.products["p2"].StockQuantity)

	// Segunda entrada de auditoría con motivo "return".
	require.Len(t, w.logs, 2)
	assert.Equal(t, entity.ReasonReturn, w.logs[1].Reason)
	assert.Equal(t, int64(3), w.logs[1].ChangeAmount)
	assert.Equal(t, int64(5), w.logs[1].FinalStock)
}

func TestCancelacion_PedidoAjeno(t *testing.T) {
	w := fixtureWorld()
	w.orders["o1"] = &entity.Order{ID: "o1", UserID: "u1", Status: entity.OrderStatusPending}
	uc := NewOrderUseCase(&fakeOrderRepo{w: w}, nil, &fakeTxRunner{w: w}, nil, nil, zerolog.Nop())

	_, err := uc.Cancel(context.Background(), "o1", "u2")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateStatus_TransicionInvalida(t *testing.T) {
	w := fixtureWorld()
	w.orders["o1"] = &entity.Order{ID: "o1", UserID: "u1", Status: entity.OrderStatusDelivered}
	uc := NewOrderUseCase(&fakeOrderRepo{w: w}, nil, &fakeTxRunner{w: w}, nil, nil, zerolog.Nop())

	_, err := uc.UpdateStatus(context.Background(), "o1", entity.OrderStatusCancelled, "admin")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateStatus_FlujoCompleto(t *testing.T) {
	w := fixtureWorld()
	w.orders["o1"] = &entity.Order{ID: "o1", UserID: "u1", Status: entity.OrderStatusPending}
	uc := NewOrderUseCase(&fakeOrderRepo{w: w}, nil, &fakeTxRunner{w: w}, nil, nil, zerolog.Nop())

	for _, status := range []string{entity.OrderStatusPaid, entity.OrderStatusShipped, entity.OrderStatusDelivered} {
		updated, err := uc.UpdateStatus(context.Background(), "o1", status, "admin")
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}
}
