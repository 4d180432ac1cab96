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

	"github.com/jhoicas/seller-catalog-api/internal/application/catalog"
	"github.com/jhoicas/seller-catalog-api/internal/application/events"
	"github.com/jhoicas/seller-catalog-api/internal/domain/repository"
	"github.com/jhoicas/seller-catalog-api/internal/infrastructure/cache"
	"github.com/jhoicas/seller-catalog-api/internal/infrastructure/kafka"
	"github.com/jhoicas/seller-catalog-api/internal/infrastructure/migration"
	infrapdf "github.com/jhoicas/seller-catalog-api/internal/infrastructure/pdf"
	"github.com/jhoicas/seller-catalog-api/internal/infrastructure/postgres"
	"github.com/jhoicas/seller-catalog-api/internal/infrastructure/telemetry"
	httpRouter "github.com/jhoicas/seller-catalog-api/internal/interfaces/http"
	"github.com/jhoicas/seller-catalog-api/pkg/config"
	"github.com/jhoicas/seller-catalog-api/pkg/logger"
)

var version = "dev"

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
		Str("version", version).
		Msg("iniciando aplicación")

	ctx := context.Background()

	tp, shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Telemetry, version)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	if cfg.DB.AutoMigrate {
		m, err := migration.New(cfg.DB.ConnectionString(), log)
		if err != nil {
			log.Fatal().Err(err).Msg("preparar migraciones")
		}
		if err := m.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		_ = m.Close()
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	coordinator := catalog.NewTransactionCoordinator(
		txRunner, catalog.NewLedgerWriter(), log.Component("catalog"), tp.Tracer("github.com/jhoicas/seller-catalog-api/catalog"),
	)
	store := catalog.NewInventoryStore(postgres.NewProductRepository(pool))
	ledger := catalog.NewLedgerReader(postgres.NewPurchaseRepository(pool))
	receipts := catalog.NewReceiptUseCase(ledger, infrapdf.NewReceiptGenerator(cfg.App.Name))

	// Idempotency-Key solo si hay Redis configurado.
	var idem repository.IdempotencyStore
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		idem = cache.NewRedisIdempotencyStore(client, "")
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: Idempotency-Key deshabilitado")
	}

	// Relay de outbox hacia Kafka solo si hay brokers.
	var relay *events.OutboxRelay
	var publisher *kafka.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		writer, err := kafka.NewWriter(cfg.Kafka, cfg.App.Name, tp)
		if err != nil {
			log.Fatal().Err(err).Msg("writer de Kafka")
		}
		publisher = kafka.NewPublisher(writer)
		relay = events.NewOutboxRelay(txRunner, publisher, events.RelayConfig{
			BatchSize:    cfg.Outbox.BatchSize,
			PollInterval: cfg.Outbox.PollInterval,
		}, log.Component("outbox_relay"))
		relay.Start(ctx)
	} else {
		log.Warn().Msg("KAFKA_BROKERS vacío: los eventos quedan pendientes en outbox_events")
	}

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
		Title:    "Seller Catalog API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Coordinator:    coordinator,
		Store:          store,
		Ledger:         ledger,
		Receipts:       receipts,
		Idempotency:    idem,
		IdempotencyTTL: cfg.Idempotency.TTL,
		JWTSecret:      cfg.JWT.Secret,
		Logger:         log.Component("http"),
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
	if relay != nil {
		if err := relay.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("apagado del relay de outbox")
		}
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar writer de Kafka")
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("vaciar trazas")
	}

	log.Info().Msg("aplicación detenida")
}
