package cart

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ Storage = (*RemoteStorage)(nil)

// RemoteStorage es la estrategia de carrito persistido por usuario autenticado.
// Adapta el puerto CartLineRepository a la interfaz Storage, aplicando la
// fusión por identidad en AddItem.
type RemoteStorage struct {
	repo   repository.CartLineRepository
	userID string
}

// NewRemoteStorage ata la estrategia remota a un usuario.
func NewRemoteStorage(repo repository.CartLineRepository, userID string) *RemoteStorage {
	return &RemoteStorage{repo: repo, userID: userID}
}

// AddItem busca una línea con la misma identidad; si existe suma cantidades,
// si no inserta una línea nueva con ID propio.
func (s *RemoteStorage) AddItem(_ context.Context, line entity.CartLine) error {
	lines, err := s.repo.ListByUser(s.userID)
	if err != nil {
		return &domain.PersistenceError{Op: "add_item", Err: err}
	}
	key := line.IdentityKey()
	for _, existing := range lines {
		if existing.IdentityKey() == key {
			if err := s.repo.UpdateQuantity(existing.ID, existing.Quantity+line.Quantity); err != nil {
				return &domain.PersistenceError{Op: "add_item", Err: err}
			}
			return nil
		}
	}
	// Las líneas que llegan de handlers o de un replay de fusión pueden venir
	// sin ID; la clave primaria de cart_lines exige uno por línea.
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	if err := s.repo.Insert(s.userID, line); err != nil {
		return &domain.PersistenceError{Op: "add_item", Err: err}
	}
	return nil
}

// RemoveItem elimina todas las líneas del producto.
func (s *RemoteStorage) RemoveItem(_ context.Context, productID string) error {
	if err := s.repo.DeleteByProduct(s.userID, productID); err != nil {
		return &domain.PersistenceError{Op: "remove_item", Err: err}
	}
	return nil
}

// UpdateQuantity fija la cantidad en todas las líneas del producto; <= 0 elimina.
func (s *RemoteStorage) UpdateQuantity(ctx context.Context, productID string, quantity int64) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}
	if err := s.repo.UpdateQuantityByProduct(s.userID, productID, quantity); err != nil {
		return &domain.PersistenceError{Op: "update_quantity", Err: err}
	}
	return nil
}

// Clear elimina todas las líneas del usuario.
func (s *RemoteStorage) Clear(_ context.Context) error {
	if err := s.repo.DeleteByUser(s.userID); err != nil {
		return &domain.PersistenceError{Op: "clear", Err: err}
	}
	return nil
}

// Load devuelve las líneas persistidas del usuario.
func (s *RemoteStorage) Load(_ context.Context) ([]entity.CartLine, error) {
	lines, err := s.repo.ListByUser(s.userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load", Err: err}
	}
	return lines, nil
}
