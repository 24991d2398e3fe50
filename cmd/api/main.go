package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/farmacia-pro/internal/application/auth"
	"github.com/tu-usuario/farmacia-pro/internal/application/ledger"
	"github.com/tu-usuario/farmacia-pro/internal/application/usecase"
	"github.com/tu-usuario/farmacia-pro/internal/cache"
	"github.com/tu-usuario/farmacia-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/farmacia-pro/internal/interfaces/http"
	"github.com/tu-usuario/farmacia-pro/pkg/config"
	"github.com/tu-usuario/farmacia-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	pedidoRepo := postgres.NewPedidoRepository(pool)
	recetaRepo := postgres.NewRecetaRepository(pool)
	kitRepo := postgres.NewKitRepository(pool)
	devolucionRepo := postgres.NewDevolucionRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ldg := ledger.New(txRunner)

	// Caché de reportes: Redis si está habilitado, noop si no.
	var reportCache cache.ReportCache = cache.NoopReportCache{}
	if cfg.Redis.Enabled {
		cacheLog := log.Component("cache")
		redisCache := cache.NewRedisReportCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			cacheLog.Warn().Err(err).Msg("Redis no disponible, tablero sin caché")
		} else {
			defer redisCache.Close()
			reportCache = redisCache
			cacheLog.Info().Str("addr", cfg.Redis.Addr).Msg("caché Redis conectada")
		}
	}

	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, ldg)
	movementUC := usecase.NewMovementUseCase(ldg, movementRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	pedidoUC := usecase.NewPedidoUseCase(txRunner, ldg, pedidoRepo, productRepo, supplierRepo)
	recetaUC := usecase.NewRecetaUseCase(txRunner, ldg, recetaRepo, productRepo)
	kitUC := usecase.NewKitUseCase(ldg, kitRepo, productRepo)
	devolucionUC := usecase.NewDevolucionUseCase(txRunner, ldg, devolucionRepo, supplierRepo)
	importUC := usecase.NewImportUseCase(ldg, productRepo, categoryRepo, supplierRepo)
	dashboardUC := usecase.NewDashboardUseCase(dashboardRepo, movementRepo, reportCache)
	authUC := auth.NewAuthUseCase(employeeRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Farmacia Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:    productUC,
		MovementUC:   movementUC,
		CategoryUC:   categoryUC,
		SupplierUC:   supplierUC,
		PedidoUC:     pedidoUC,
		RecetaUC:     recetaUC,
		KitUC:        kitUC,
		DevolucionUC: devolucionUC,
		ImportUC:     importUC,
		DashboardUC:  dashboardUC,
		AuthUC:       authUC,
		JWTSecret:    cfg.JWT.Secret,
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
