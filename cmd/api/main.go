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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/application/sales"
	"github.com/jhoicas/concesionario-api/internal/domain/financing"
	infrapdf "github.com/jhoicas/concesionario-api/internal/infrastructure/pdf"
	"github.com/jhoicas/concesionario-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/concesionario-api/internal/interfaces/http"
	"github.com/jhoicas/concesionario-api/pkg/config"
	"github.com/jhoicas/concesionario-api/pkg/logger"
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

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	salesCfg, err := salesConfig(cfg.Sales)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de ventas")
	}

	customerRepo := postgres.NewCustomerRepository(pool)
	guarantorRepo := postgres.NewGuarantorRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	draftRepo := postgres.NewDraftRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)

	// PDF: plan de pagos que firma el cliente
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	saleUC, err := sales.NewSaleUseCase(
		customerRepo, guarantorRepo, inventoryRepo, draftRepo, saleRepo,
		pdfGenerator, salesCfg, log,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("flujo de venta")
	}
	financingUC := sales.NewFinancingUseCase(salesCfg)
	catalogUC := sales.NewCatalogUseCase(customerRepo, inventoryRepo)

	// Expulsión de sesiones inactivas
	go saleUC.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.App.SwaggerFile != "" {
		if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.App.SwaggerFile,
				Path:     "docs",
				Title:    "Concesionario API",
			}))
		} else {
			log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SaleUC:      saleUC,
		FinancingUC: financingUC,
		CatalogUC:   catalogUC,
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
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

	// Último borrador de las ventas abiertas antes de cerrar el pool.
	saleUC.Shutdown(shutdownCtx)
	stop()

	log.Info().Msg("aplicación detenida")
}

// salesConfig traduce la configuración de entorno a la del módulo de ventas.
func salesConfig(c config.SalesConfig) (sales.Config, error) {
	conv, err := financing.ParseRateConvention(c.RateConvention)
	if err != nil {
		return sales.Config{}, err
	}
	maxRate := decimal.Zero
	if c.MaxInterestRate != "" {
		maxRate, err = decimal.NewFromString(c.MaxInterestRate)
		if err != nil {
			return sales.Config{}, err
		}
	}
	out := sales.DefaultConfig()
	if c.DealerName != "" {
		out.DealerName = c.DealerName
	}
	out.RateConvention = conv
	out.MaxInterestRate = maxRate
	out.AutosaveInterval = c.AutosaveInterval
	out.SessionTTL = c.SessionTTL
	out.RequireChassis = c.RequireChassis
	return out, nil
}
