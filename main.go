package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcart "github.com/Zhima-Mochi/minishop-checkout/app/internal/application/cart"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/application/checkout"
	appinv "github.com/Zhima-Mochi/minishop-checkout/app/internal/application/inventory"
	appinvoice "github.com/Zhima-Mochi/minishop-checkout/app/internal/application/invoice"
	apporder "github.com/Zhima-Mochi/minishop-checkout/app/internal/application/order"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/config"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/identity"
	dominv "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/inventory"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/uow"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/id"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/memory"
	infraobs "github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/outbox"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/postgres"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/redisledger"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/snsforward"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/stripegw"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	httppresentation "github.com/Zhima-Mochi/minishop-checkout/app/internal/presentation/http"
	workerpresentation "github.com/Zhima-Mochi/minishop-checkout/app/internal/presentation/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; zap's example logger keeps the line structured.
		zap.NewExample().Fatal("config_invalid", zap.Error(err))
	}

	baseLogger, err := zaplogger.New(zaplogger.Options{Level: cfg.LogLevel, LogFile: cfg.LogFile},
		observability.F("service", cfg.ServiceName),
		observability.F("env", cfg.Env),
	)
	if err != nil {
		zap.NewExample().Fatal("logger_init_failed", zap.Error(err))
	}
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger.Zap())

	systemLogger := baseLogger.With(observability.F("component", "system"))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	oteltrace.InstallPropagator()
	tel, err := infraobs.NewPrometheus(oteltrace.New(cfg.ServiceName), baseLogger, prometrics.New(reg, "", ""))
	if err != nil {
		systemLogger.Error("metrics_init_failed", observability.F("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage: Postgres when configured, otherwise a seeded in-memory store.
	var (
		store    uow.UnitOfWork
		products catalog.Store
		users    identity.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			systemLogger.Error("database_open_failed", observability.F("error", err))
			os.Exit(1)
		}
		defer func() { _ = postgres.Close(db) }()
		if cfg.DBAutoMigrate {
			if err := postgres.Migrate(db); err != nil {
				systemLogger.Error("database_migrate_failed", observability.F("error", err))
				os.Exit(1)
			}
		}
		store, products, users = postgres.NewStore(db), postgres.NewCatalog(db), postgres.NewDirectory(db)
		systemLogger.Info("storage_ready", observability.F("driver", "postgres"))
	} else {
		mem := memory.NewStore()
		memCatalog, memUsers := seedDemo(mem)
		store, products, users = mem, memCatalog, memUsers
		systemLogger.Warn("storage_ready", observability.F("driver", "memory"))
	}

	gateway, err := stripegw.New(stripegw.Config{
		SecretKey:     cfg.StripeAPIKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		Currency:      cfg.PaymentCurrency,
		Timeout:       cfg.GatewayTimeout,
	})
	if err != nil {
		systemLogger.Error("payment_gateway_init_failed", observability.F("error", err))
		os.Exit(1)
	}

	var ledger checkout.EventLedger
	if cfg.RedisURL != "" {
		rdb, err := redisledger.Dial(ctx, cfg.RedisURL)
		if err != nil {
			// The invoice state guard keeps redeliveries safe without the ledger.
			systemLogger.Warn("webhook_ledger_disabled", observability.F("error", err))
		} else {
			defer func() { _ = rdb.Close() }()
			ledger = redisledger.New(rdb, cfg.WebhookDedupeTTL)
		}
	}

	// In-memory event bus: events are published after their unit of work commits.
	bus := outbox.NewBus(tel, outbox.Options{})
	bus.Start(context.Background())
	defer bus.Stop(context.Background())
	subscriber := workerpresentation.NewSubscriber(bus, tel, "checkout-workers")

	appinv.NewWorker(subscriber, appinv.NewShortfallAlertUseCase(tel), tel).Start()

	if cfg.SNSTopicARN != "" {
		client, err := snsforward.NewClient(ctx)
		if err != nil {
			systemLogger.Warn("event_forwarding_disabled", observability.F("error", err))
		} else {
			snsforward.New(client, cfg.SNSTopicARN, cfg.ServiceName, tel).Register(subscriber, snsforward.Forwarded...)
		}
	}

	ids := id.NewUUIDGenerator()
	coordinator := checkout.New(checkout.Dependencies{
		UnitOfWork:  store,
		Gateway:     gateway,
		Users:       users,
		Catalog:     products,
		Publisher:   bus,
		Ledger:      ledger,
		IDs:         ids,
		Decrementer: appinv.NewDecrementer(baseLogger),
		Config: checkout.Config{
			PublicBaseURL:  cfg.PublicBaseURL,
			GatewayTimeout: cfg.GatewayTimeout,
		},
		Telemetry: tel,
	})

	handler := httppresentation.NewHandler(httppresentation.Services{
		Carts:    appcart.NewService(store, users, products, ids, tel),
		Orders:   apporder.NewService(store, tel),
		Invoices: appinvoice.NewService(store, tel),
		Checkout: coordinator,
	}, tel, httppresentation.Options{
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		RateLimit:      httppresentation.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 0),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		systemLogger.Info("http_server_start", observability.F("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			systemLogger.Error("http_server_error", observability.F("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error", observability.F("error", err))
	} else {
		systemLogger.Info("http_server_stopped")
	}
}

// seedDemo fills the in-memory store with a small catalog so the service is
// usable without a database.
func seedDemo(store *memory.Store) (*memory.Catalog, *memory.Directory) {
	products := memory.NewCatalog(
		catalog.Product{ID: "prod-lamp", Name: "Desk lamp", Brand: "Lumen", Category: "Home", Price: decimal.RequireFromString("24.90"), Active: true},
		catalog.Product{ID: "prod-bulb", Name: "LED bulb", Brand: "Lumen", Category: "Home", Price: decimal.RequireFromString("4.50"), Active: true},
		catalog.Product{ID: "prod-mug", Name: "Coffee mug", Category: "Kitchen", Price: decimal.RequireFromString("9.00"), Active: true},
	)
	users := memory.NewDirectory(
		identity.User{ID: "user-demo", Username: "demo", Email: "demo@example.com", Active: true},
	)
	for productID, qty := range map[string]int{"prod-lamp": 20, "prod-bulb": 100, "prod-mug": 0} {
		if s, err := dominv.NewStock(productID, qty, "main"); err == nil {
			store.PutStock(s)
		}
	}
	return products, users
}
