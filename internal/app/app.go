package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/varun0122/Restaurant-Management/internal/domain/billing"
	"github.com/varun0122/Restaurant-Management/internal/domain/order"
	"github.com/varun0122/Restaurant-Management/internal/events"
	"github.com/varun0122/Restaurant-Management/internal/handler"
	"github.com/varun0122/Restaurant-Management/internal/repository"
	"github.com/varun0122/Restaurant-Management/pkg/health"
	"github.com/varun0122/Restaurant-Management/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	taxRate := decimal.Decimal{}
	if cfg.TaxRate != "" {
		var err error
		taxRate, err = decimal.NewFromString(cfg.TaxRate)
		if err != nil {
			return errors.Wrap(err, "parse tax rate")
		}
	}

	// PostgreSQL pool + migrations.
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	// Repositories.
	dishRepo := repository.NewDishRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	billRepo := repository.NewBillRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	ingredientRepo := repository.NewIngredientRepository(pool)
	tableRepo := repository.NewTableRepository(pool)
	apikeyRepo := repository.NewAPIKeyRepository(pool)

	// Discount lookups go through a bloom pre-filter so made-up codes
	// never reach the database.
	discountRepo, err := repository.NewFilteredDiscountRepository(ctx, repository.NewDiscountRepository(pool))
	if err != nil {
		return errors.Wrap(err, "seed discount code filter")
	}

	bg, bgCtx := errgroup.WithContext(ctx)
	bg.Go(func() error {
		return discountRepo.RefreshEvery(bgCtx, cfg.CodeRefresh)
	})

	// Order update fanout. Local subscribers always get deltas through the
	// in-process bus; with a broker configured, updates also cross server
	// instances. A local delta can loop back through the broker, so
	// subscribers must tolerate duplicate deltas.
	bus := events.NewBus()
	var publisher order.EventPublisher = bus
	if cfg.AmqpURL != "" {
		amqpBus, err := events.DialAMQP(cfg.AmqpURL)
		if err != nil {
			return errors.Wrap(err, "dial amqp")
		}
		defer amqpBus.Close()

		healthSvc.AddReadinessCheck("rabbitmq", 5*time.Second, func(context.Context) error {
			return amqpBus.Ping()
		})
		publisher = events.Fanout{bus, events.BestEffort{AMQP: amqpBus}}
		bg.Go(func() error {
			return amqpBus.Consume(bgCtx, bus)
		})
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Domain services.
	billingService := billing.NewService(billRepo, discountRepo, customerRepo, taxRate)
	orderService := order.NewService(dishRepo, orderRepo, billRepo, publisher)

	// HTTP handlers.
	h := handler.NewHandler(handler.Deps{
		Menu:      dishRepo,
		Orders:    orderService,
		Billing:   billingService,
		Discounts: discountRepo,
		Customers: customerRepo,
		Staff:     staffRepo,
		Inventory: ingredientRepo,
		Tables:    tableRepo,
		Bus:       bus,
		APIKeys:   apikeyRepo,
		Pepper:    []byte(cfg.APIKeyPepper),
	})

	// Mux: health endpoints + API routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", h.Routes())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		// Write timeout would cut off long-lived SSE streams; the handler
		// bounds each write itself.
		WriteTimeout:   0,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
		Addr:           cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization", "api_key"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("resto-api",
				otelhttp.WithTracerProvider(m.TracerProvider()),
				otelhttp.WithMeterProvider(m.MeterProvider()),
			),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone

	if err := bg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		lg.Warn("Background worker error", zap.Error(err))
	}
	return nil
}
