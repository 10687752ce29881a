package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/cart"
	"github.com/jhoicas/tienda-api/internal/application/checkout"
	"github.com/jhoicas/tienda-api/internal/application/inventory"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/infrastructure/events"
	infrapdf "github.com/jhoicas/tienda-api/internal/infrastructure/pdf"
	"github.com/jhoicas/tienda-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/tienda-api/internal/interfaces/http"
	"github.com/jhoicas/tienda-api/pkg/config"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	variantRepo := postgres.NewVariantRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	cartRepo := postgres.NewCartLineRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	logRepo := postgres.NewInventoryLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Redis: carritos de invitados (TTL deslizante por sesión)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis no disponible; los carritos de invitados fallarán")
	}
	defer redisClient.Close()

	// Kafka: eventos de dominio. Con KAFKA_BROKERS vacío el productor es no-op.
	producer := events.NewProducer(cfg.Kafka.BrokerList(), cfg.Kafka.Topic, log.Zerolog())
	defer producer.Close()

	receiptGen := infrapdf.NewReceiptGenerator(cfg.App.Name)

	authUC := auth.NewUseCase(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration, log.Zerolog())
	productUC := usecase.NewProductUseCase(productRepo, variantRepo, categoryRepo, txRunner, log.Zerolog())
	branchUC := usecase.NewBranchUseCase(branchRepo, log.Zerolog())
	userUC := usecase.NewUserUseCase(userRepo, branchRepo, log.Zerolog())
	adjustUC := inventory.NewAdjustStockUseCase(txRunner, producer, log.Zerolog())
	historyUC := inventory.NewHistoryUseCase(logRepo)
	lowStockUC := inventory.NewLowStockUseCase(productRepo, variantRepo, int64(cfg.Inventory.LowStockThreshold))
	createOrderUC := checkout.NewCreateOrderUseCase(txRunner, producer, log.Zerolog())
	orderUC := checkout.NewOrderUseCase(orderRepo, userRepo, txRunner, producer, receiptGen, log.Zerolog())

	productLookup := cart.NewRepositoryLookup(productRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tienda API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		BranchUC:    branchUC,
		UserUC:      userUC,
		AdjustStock: adjustUC,
		History:     historyUC,
		LowStock:    lowStockUC,
		CreateOrder: createOrderUC,
		Orders:      orderUC,

		CartRepo:      cartRepo,
		ProductLookup: productLookup,
		Redis:         redisClient,
		GuestCartTTL:  time.Duration(cfg.Redis.CartTTLHours) * time.Hour,

		JWTSecret: cfg.JWT.Secret,
		Log:       log.Zerolog(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
