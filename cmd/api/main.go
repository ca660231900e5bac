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
	"github.com/jhoicas/celutaller-api/internal/application/dto"
	"github.com/jhoicas/celutaller-api/internal/application/returncase"
	"github.com/jhoicas/celutaller-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/celutaller-api/internal/infrastructure/pdf"
	"github.com/jhoicas/celutaller-api/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/celutaller-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/celutaller-api/internal/interfaces/http"
	"github.com/jhoicas/celutaller-api/pkg/config"
	"github.com/jhoicas/celutaller-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.Auth.AdminAPIKey == "" {
		log.Warn().Msg("ADMIN_API_KEY vacía: las rutas protegidas responderán 500")
	}

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	returnRepo := postgres.NewReturnCaseRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	inventoryRepo := postgres.NewInventoryItemRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// PDF: acta de devolución; XLSX: reporte en hoja de cálculo
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	reportWriter := infraxlsx.NewReportWriter()

	returnUC := returncase.NewUseCase(returnRepo, txRunner, pdfGenerator, reportWriter, cfg.App.ShopName, log)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	clientUC := usecase.NewClientUseCase(clientRepo)
	inventoryUC := usecase.NewInventoryItemUseCase(inventoryRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CeluTaller API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Service: cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ReturnUC:    returnUC,
		SupplierUC:  supplierUC,
		ClientUC:    clientUC,
		InventoryUC: inventoryUC,
		Auth: httpRouter.AdminAuth{
			APIKey:    cfg.Auth.AdminAPIKey,
			JWTSecret: cfg.JWT.Secret,
		},
		Tokens: httpRouter.TokenConfig{
			Secret:     cfg.JWT.Secret,
			Issuer:     cfg.JWT.Issuer,
			Expiration: cfg.JWT.Expiration,
		},
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
