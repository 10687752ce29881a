package http

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-api/internal/application/cart"
	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/internal/infrastructure/rediscart"
)

// CartHandler maneja el carrito unificado: invitados (X-Session-ID, Redis) y
// usuarios autenticados (JWT, PostgreSQL) pasan por la misma superficie. La
// estrategia de persistencia se resuelve una vez por petición según la
// identidad presente; nunca se mezclan a mitad de operación.
type CartHandler struct {
	cartRepo repository.CartLineRepository
	lookup   cart.ProductLookup
	redis    *redis.Client
	guestTTL time.Duration
	log      zerolog.Logger
}

// NewCartHandler construye el handler.
func NewCartHandler(
	cartRepo repository.CartLineRepository,
	lookup cart.ProductLookup,
	redisClient *redis.Client,
	guestTTL time.Duration,
	log zerolog.Logger,
) *CartHandler {
	return &CartHandler{
		cartRepo: cartRepo,
		lookup:   lookup,
		redis:    redisClient,
		guestTTL: guestTTL,
		log:      log,
	}
}

// reconciler arma el reconciliador para la identidad de la petición.
// Devuelve nil si no hay ni JWT ni X-Session-ID.
func (h *CartHandler) reconciler(c *fiber.Ctx) *cart.Reconciler {
	if userID := GetUserID(c); userID != "" {
		return cart.NewReconciler(cart.NewRemoteStorage(h.cartRepo, userID), h.lookup, h.log)
	}
	if sessionID := c.Get(HeaderSessionID); sessionID != "" {
		storage := rediscart.NewGuestCartStorage(h.redis, sessionID, h.guestTTL)
		return cart.NewReconciler(storage, h.lookup, h.log)
	}
	return nil
}

func missingIdentity(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    "MISSING_IDENTITY",
		Message: "se requiere token de autenticación o header " + HeaderSessionID,
	})
}

// Get godoc
// @Summary      Ver carrito (invitado o autenticado)
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Sesión anónima (si no hay JWT)"
// @Success      200  {object}  dto.CartResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	r := h.reconciler(c)
	if r == nil {
		return missingIdentity(c)
	}
	lines, err := r.Sync(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CartToResponse(lines))
}

// AddItem godoc
// @Summary      Agregar línea al carrito (fusiona por identidad de variante)
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Sesión anónima (si no hay JWT)"
// @Param        body  body  dto.AddCartItemRequest  true  "Línea a agregar"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	r := h.reconciler(c)
	if r == nil {
		return missingIdentity(c)
	}
	var in dto.AddCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines, err := r.AddItem(c.Context(), entity.CartLine{
		ProductID:        in.ProductID,
		Quantity:         in.Quantity,
		VariantSelection: in.VariantSelection,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CartToResponse(lines))
}

// UpdateItem godoc
// @Summary      Fijar cantidad de un producto (<= 0 elimina sus líneas)
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Sesión anónima (si no hay JWT)"
// @Param        productId  path  string  true  "ID del producto"
// @Param        body       body  dto.UpdateCartItemRequest  true  "Nueva cantidad"
// @Success      200  {object}  dto.CartResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cart/items/{productId} [put]
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	r := h.reconciler(c)
	if r == nil {
		return missingIdentity(c)
	}
	var in dto.UpdateCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines, err := r.UpdateQuantity(c.Context(), c.Params("productId"), in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CartToResponse(lines))
}

// RemoveItem godoc
// @Summary      Eliminar todas las líneas de un producto
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Sesión anónima (si no hay JWT)"
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.CartResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	r := h.reconciler(c)
	if r == nil {
		return missingIdentity(c)
	}
	lines, err := r.RemoveItem(c.Context(), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CartToResponse(lines))
}

// Clear godoc
// @Summary      Vaciar carrito
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Sesión anónima (si no hay JWT)"
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	r := h.reconciler(c)
	if r == nil {
		return missingIdentity(c)
	}
	lines, err := r.Clear(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CartToResponse(lines))
}

// Merge godoc
// @Summary      Fusionar carrito de invitado tras el login
// @Description  Replica las líneas de la sesión anónima en el carrito del
// @Description  usuario autenticado (sumando cantidades por identidad) y vacía
// @Description  la sesión de invitado solo si todo el replay tuvo éxito.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MergeCartRequest  true  "Sesión anónima a fusionar"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/merge [post]
func (h *CartHandler) Merge(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "la fusión requiere sesión autenticada"})
	}
	var in dto.MergeCartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.SessionID == "" {
		in.SessionID = c.Get(HeaderSessionID)
	}
	if in.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "session_id es requerido"})
	}

	r := cart.NewReconciler(cart.NewRemoteStorage(h.cartRepo, userID), h.lookup, h.log)
	guest := rediscart.NewGuestCartStorage(h.redis, in.SessionID, h.guestTTL)
	lines, err := r.MergeOnLogin(c.Context(), guest)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CartToResponse(lines))
}
