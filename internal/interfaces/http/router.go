package http

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/cart"
	"github.com/jhoicas/tienda-api/internal/application/checkout"
	"github.com/jhoicas/tienda-api/internal/application/inventory"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	ProductUC   *usecase.ProductUseCase
	BranchUC    *usecase.BranchUseCase
	UserUC      *usecase.UserUseCase
	AdjustStock *inventory.AdjustStockUseCase
	History     *inventory.HistoryUseCase
	LowStock    *inventory.LowStockUseCase
	CreateOrder *checkout.CreateOrderUseCase
	Orders      *checkout.OrderUseCase

	CartRepo      repository.CartLineRepository
	ProductLookup cart.ProductLookup
	Redis         *redis.Client
	GuestCartTTL  time.Duration

	JWTSecret string
	Log       zerolog.Logger
}

// Router registra las rutas de la API.
//
// Visibilidad por grupo:
//   - público:   catálogo, categorías, auth
//   - carrito:   invitado (X-Session-ID) o autenticado (OptionalAuth)
//   - cliente:   pedidos propios, merge de carrito
//   - personal:  inventario, pedidos de todos (admin + vendedor)
//   - admin:     sucursales, staff, escritura de catálogo
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Catálogo (lectura pública; con token el personal ve también inactivos)
	productHandler := NewProductHandler(deps.ProductUC)
	api.Get("/products", OptionalAuth(deps.JWTSecret), productHandler.List)
	api.Get("/products/:id", OptionalAuth(deps.JWTSecret), productHandler.GetByID)
	api.Get("/categories", productHandler.ListCategories)

	// Carrito (invitado con X-Session-ID o autenticado con JWT)
	cartHandler := NewCartHandler(deps.CartRepo, deps.ProductLookup, deps.Redis, deps.GuestCartTTL, deps.Log)
	cartGroup := api.Group("/cart", OptionalAuth(deps.JWTSecret))
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Delete("/", cartHandler.Clear)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Put("/items/:productId", cartHandler.UpdateItem)
	cartGroup.Delete("/items/:productId", cartHandler.RemoveItem)
	cartGroup.Post("/merge", cartHandler.Merge)

	// Rutas autenticadas (cualquier rol)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Pedidos (cliente sobre los propios; personal sobre todos)
	orderHandler := NewOrderHandler(deps.CreateOrder, deps.Orders)
	orders := protected.Group("/orders")
	orders.Post("/", orderHandler.Checkout)
	orders.Get("/", orderHandler.ListMine)
	orders.Get("/all", RequireRole(entity.RoleAdmin, entity.RoleVendedor), orderHandler.ListAll)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/receipt", orderHandler.Receipt)
	orders.Post("/:id/cancel", orderHandler.Cancel)
	orders.Patch("/:id/status", RequireRole(entity.RoleAdmin, entity.RoleVendedor), orderHandler.UpdateStatus)

	// Personal: inventario
	staffOnly := protected.Group("/", RequireRole(entity.RoleAdmin, entity.RoleVendedor))
	inventoryHandler := NewInventoryHandler(deps.AdjustStock, deps.History, deps.LowStock)
	invGroup := staffOnly.Group("/inventory")
	invGroup.Post("/adjustments", inventoryHandler.Adjust)
	invGroup.Get("/log", inventoryHandler.History)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	staffOnly.Get("/products/:id/inventory-log", inventoryHandler.ProductHistory)

	// Personal: escritura de catálogo
	staffOnly.Post("/products", productHandler.Create)
	staffOnly.Put("/products/:id", productHandler.Update)
	staffOnly.Delete("/products/:id", productHandler.Delete)
	staffOnly.Post("/products/:id/variants", productHandler.CreateVariant)
	staffOnly.Put("/products/:id/variants/:variantId", productHandler.UpdateVariant)
	staffOnly.Delete("/products/:id/variants/:variantId", productHandler.DeleteVariant)

	// Admin: categorías, sucursales, staff
	adminOnly := protected.Group("/", RequireRole(entity.RoleAdmin))
	adminOnly.Post("/categories", productHandler.CreateCategory)
	adminOnly.Delete("/categories/:id", productHandler.DeleteCategory)

	branchHandler := NewBranchHandler(deps.BranchUC)
	branches := adminOnly.Group("/branches")
	branches.Post("/", branchHandler.Create)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.GetByID)
	branches.Put("/:id", branchHandler.Update)
	branches.Delete("/:id", branchHandler.Delete)

	staffHandler := NewStaffHandler(deps.UserUC)
	staff := adminOnly.Group("/staff")
	staff.Get("/", staffHandler.List)
	staff.Get("/:id", staffHandler.GetByID)
	staff.Patch("/:id", staffHandler.Update)
}
