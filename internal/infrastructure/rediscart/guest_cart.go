package rediscart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/jhoicas/tienda-api/internal/application/cart"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

var _ cart.Storage = (*GuestCartStorage)(nil)

const keyPrefix = "cart:guest:"

// GuestCartStorage guarda el carrito de una sesión anónima en Redis como
// documento JSON con TTL deslizante: cada escritura renueva la expiración.
// El carrito de invitado es efímero por diseño; si expira, el cliente
// simplemente arranca vacío.
type GuestCartStorage struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
}

// NewGuestCartStorage construye el almacenamiento para una sesión concreta.
func NewGuestCartStorage(client *redis.Client, sessionID string, ttl time.Duration) *GuestCartStorage {
	return &GuestCartStorage{client: client, sessionID: sessionID, ttl: ttl}
}

func (s *GuestCartStorage) key() string {
	return keyPrefix + s.sessionID
}

// Load lee todas las líneas; sesión sin carrito devuelve vacío, no error.
func (s *GuestCartStorage) Load(ctx context.Context) ([]entity.CartLine, error) {
	raw, err := s.client.Get(ctx, s.key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, &domain.PersistenceError{Op: "load", Err: err}
	}
	var lines []entity.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, &domain.PersistenceError{Op: "load", Err: err}
	}
	return lines, nil
}

func (s *GuestCartStorage) save(ctx context.Context, op string, lines []entity.CartLine) error {
	if len(lines) == 0 {
		if err := s.client.Del(ctx, s.key()).Err(); err != nil {
			return &domain.PersistenceError{Op: op, Err: err}
		}
		return nil
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return &domain.PersistenceError{Op: op, Err: err}
	}
	if err := s.client.Set(ctx, s.key(), raw, s.ttl).Err(); err != nil {
		return &domain.PersistenceError{Op: op, Err: err}
	}
	return nil
}

// AddItem fusiona por identidad: misma selección de variante suma cantidades,
// selección distinta crea línea nueva.
func (s *GuestCartStorage) AddItem(ctx context.Context, line entity.CartLine) error {
	lines, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	merged, _ := entity.MergeLine(lines, line)
	return s.save(ctx, "add_item", merged)
}

// RemoveItem elimina todas las líneas del producto.
func (s *GuestCartStorage) RemoveItem(ctx context.Context, productID string) error {
	lines, err := s.Load(ctx)
	if err != nil {
		return err
	}
	kept := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	return s.save(ctx, "remove_item", kept)
}

// UpdateQuantity fija la cantidad en todas las líneas del producto;
// cantidad <= 0 equivale a RemoveItem.
func (s *GuestCartStorage) UpdateQuantity(ctx context.Context, productID string, quantity int64) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}
	lines, err := s.Load(ctx)
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
		}
	}
	return s.save(ctx, "update_quantity", lines)
}

// Clear vacía el carrito de la sesión.
func (s *GuestCartStorage) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return &domain.PersistenceError{Op: "clear", Err: err}
	}
	return nil
}
