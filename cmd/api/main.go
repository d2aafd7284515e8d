package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	appanalytics "github.com/willowtrellis/farmstand-api/internal/application/analytics"
	"github.com/willowtrellis/farmstand-api/internal/application/auth"
	"github.com/willowtrellis/farmstand-api/internal/application/catalog"
	"github.com/willowtrellis/farmstand-api/internal/application/notification"
	"github.com/willowtrellis/farmstand-api/internal/application/order"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	infracache "github.com/willowtrellis/farmstand-api/internal/infrastructure/cache"
	infraemail "github.com/willowtrellis/farmstand-api/internal/infrastructure/email"
	infrapdf "github.com/willowtrellis/farmstand-api/internal/infrastructure/pdf"
	"github.com/willowtrellis/farmstand-api/internal/infrastructure/postgres"
	"github.com/willowtrellis/farmstand-api/internal/infrastructure/postgres/migrate"
	infrasheets "github.com/willowtrellis/farmstand-api/internal/infrastructure/sheets"
	infrasms "github.com/willowtrellis/farmstand-api/internal/infrastructure/sms"
	httpRouter "github.com/willowtrellis/farmstand-api/internal/interfaces/http"
	"github.com/willowtrellis/farmstand-api/pkg/config"
	"github.com/willowtrellis/farmstand-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	// prices and totals go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)

	// Catalog: sheet reader -> freshness cache -> reconciler
	sheetsClient, err := infrasheets.NewClient(ctx, cfg.Sheets)
	if err != nil {
		log.Fatal().Err(err).Msg("google sheets client")
	}
	if !cfg.Sheets.Configured() {
		log.Warn().Msg("google sheets credentials missing, catalog served from the database only")
	}

	var store func() catalog.SnapshotStore
	switch cfg.Cache.Backend {
	case "redis":
		rdb, err := infracache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to Redis")
		}
		defer rdb.Close()
		shared := infracache.NewRedisSnapshotStore(rdb, "catalog")
		store = func() catalog.SnapshotStore { return shared }
	default:
		store = func() catalog.SnapshotStore { return catalog.NewMemoryStore() }
	}

	produceCache := catalog.NewFreshnessCache(entity.KindProduce,
		catalog.NewSheetReader(sheetsClient, cfg.Sheets.ProduceRange), store(), cfg.Catalog.CacheTTL, log)
	seedCache := catalog.NewFreshnessCache(entity.KindSeed,
		catalog.NewSheetReader(sheetsClient, cfg.Sheets.SeedsRange), store(), cfg.Catalog.CacheTTL, log)
	reconciler := catalog.NewReconciler(postgres.NewTxRunner(pool), log)
	catalogUC := catalog.NewUseCase(reconciler, productRepo, log, produceCache, seedCache)

	// Notifications: nil channels are reported per recipient, never fatal
	var mailer notification.Mailer
	if cfg.Email.Configured() {
		mailer = infraemail.NewSMTPMailer(cfg.Email)
	} else {
		log.Warn().Msg("SMTP not configured, emails disabled")
	}
	var sms notification.SMSSender
	if cfg.SMS.Configured() {
		sms = infrasms.NewTwilioSender(cfg.SMS)
	} else {
		log.Warn().Msg("Twilio not configured, SMS disabled")
	}
	dispatcher := notification.NewDispatcher(mailer, sms, cfg.Email.AdminEmail, cfg.App.PublicURL, cfg.Farm, log)
	notificationUC := notification.NewUseCase(userRepo, notificationRepo, mailer, sms, cfg.Farm, log)

	orderUC := order.NewUseCase(
		postgres.NewOrderTxRunner(pool), orderRepo, dispatcher,
		infrapdf.NewMarotoReceiptGenerator(cfg.Farm), log,
	)
	authUC := auth.NewAuthUseCase(userRepo, orderRepo, dispatcher, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo, catalogUC)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farmstand API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/ready", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:       catalogUC,
		OrderUC:         orderUC,
		AuthUC:          authUC,
		NotificationUC:  notificationUC,
		DashboardUC:     dashboardUC,
		JWTSecret:       cfg.JWT.Secret,
		RevalidateToken: cfg.HTTP.RevalidateToken,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	dispatcher.Wait()

	log.Info().Msg("application stopped")
}
