package cart

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// Reconciler presenta una única abstracción de carrito a la UI sin importar si
// el comprador está autenticado. Cada mutación completa su escritura en la
// estrategia activa y después refresca con Sync; no hay estado optimista ni
// reintentos automáticos. Llamadas concurrentes rápidas no se serializan:
// se acepta last-write-wins sobre el conjunto de líneas persistido.
type Reconciler struct {
	storage Storage
	lookup  ProductLookup
	log     zerolog.Logger
}

// NewReconciler construye el reconciliador sobre la estrategia activa de la identidad actual.
func NewReconciler(storage Storage, lookup ProductLookup, log zerolog.Logger) *Reconciler {
	return &Reconciler{storage: storage, lookup: lookup, log: log}
}

// AddItem agrega una línea (fusionando por identidad en la estrategia) y resincroniza.
func (r *Reconciler) AddItem(ctx context.Context, line entity.CartLine) ([]entity.CartLine, error) {
	if line.ProductID == "" || line.Quantity < 1 {
		return nil, domain.ErrInvalidInput
	}
	if err := r.storage.AddItem(ctx, line); err != nil {
		return nil, err
	}
	return r.Sync(ctx)
}

// RemoveItem elimina todas las líneas del producto y resincroniza.
func (r *Reconciler) RemoveItem(ctx context.Context, productID string) ([]entity.CartLine, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := r.storage.RemoveItem(ctx, productID); err != nil {
		return nil, err
	}
	return r.Sync(ctx)
}

// UpdateQuantity fija la cantidad en todas las líneas del producto; cantidad <= 0 elimina.
func (r *Reconciler) UpdateQuantity(ctx context.Context, productID string, quantity int64) ([]entity.CartLine, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := r.storage.UpdateQuantity(ctx, productID, quantity); err != nil {
		return nil, err
	}
	return r.Sync(ctx)
}

// Clear elimina todas las líneas de la identidad actual y resincroniza.
func (r *Reconciler) Clear(ctx context.Context) ([]entity.CartLine, error) {
	if err := r.storage.Clear(ctx); err != nil {
		return nil, err
	}
	return r.Sync(ctx)
}

// Sync relee las líneas persistidas y adjunta el snapshot de producto por lote.
// Las líneas cuyo producto ya no resuelve se devuelven con snapshot nil en vez
// de descartarse: tolerancia deliberada a consistencia eventual del backend.
func (r *Reconciler) Sync(ctx context.Context) ([]entity.CartLine, error) {
	lines, err := r.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return []entity.CartLine{}, nil
	}

	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; !ok {
			seen[l.ProductID] = struct{}{}
			ids = append(ids, l.ProductID)
		}
	}

	products, err := r.lookup.FetchByIDs(ctx, ids)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "sync", Err: err}
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for i := range lines {
		if p, ok := byID[lines[i].ProductID]; ok {
			lines[i].Product = p
		} else {
			r.log.Warn().Str("product_id", lines[i].ProductID).Msg("producto de línea de carrito no resuelve; se conserva la línea sin snapshot")
		}
	}
	return lines, nil
}

// MergeOnLogin ejecuta el protocolo de fusión cuando una sesión anónima pasa a
// autenticada: replica cada línea del carrito de invitado, en orden y de forma
// estrictamente secuencial, contra la estrategia autenticada (la fusión por
// identidad suma cantidades con las líneas ya existentes). Solo si TODOS los
// replays tienen éxito se vacía el carrito de invitado. Ante el primer fallo
// se aborta: el carrito de invitado queda intacto para reintentar y los
// replays ya aplicados se aceptan como duplicados absorbibles por la fusión.
func (r *Reconciler) MergeOnLogin(ctx context.Context, guest Storage) ([]entity.CartLine, error) {
	guestLines, err := guest.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(guestLines) == 0 {
		return r.Sync(ctx)
	}

	// Secuencial a propósito: cada replay debe observar el efecto acumulado
	// de los anteriores para que la suma de cantidades sea determinista.
	for _, line := range guestLines {
		if err := r.storage.AddItem(ctx, line); err != nil {
			r.log.Error().Err(err).Str("product_id", line.ProductID).Msg("replay de línea falló; carrito de invitado preservado")
			return nil, &domain.MergeConflictError{ProductID: line.ProductID, Err: err}
		}
	}

	if err := guest.Clear(ctx); err != nil {
		// El merge ya quedó aplicado; un fallo limpiando el carrito de invitado
		// solo deja duplicados potenciales que la fusión por identidad absorbe.
		return nil, err
	}
	return r.Sync(ctx)
}
