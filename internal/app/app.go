package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/utafrali/RestaurantGo/internal/api"
	"github.com/utafrali/RestaurantGo/internal/config"
	"github.com/utafrali/RestaurantGo/internal/event"
	handler "github.com/utafrali/RestaurantGo/internal/handler/http"
	"github.com/utafrali/RestaurantGo/internal/service"
	"github.com/utafrali/RestaurantGo/internal/storage"
	"github.com/utafrali/RestaurantGo/internal/storage/memory"
	redisstore "github.com/utafrali/RestaurantGo/internal/storage/redis"
	"github.com/utafrali/RestaurantGo/internal/storage/sqlite"
	"github.com/utafrali/RestaurantGo/pkg/database"
	"github.com/utafrali/RestaurantGo/pkg/health"
	"github.com/utafrali/RestaurantGo/pkg/httpclient"
	pkgkafka "github.com/utafrali/RestaurantGo/pkg/kafka"
	"github.com/utafrali/RestaurantGo/pkg/middleware"
	"github.com/utafrali/RestaurantGo/pkg/slug"
	"github.com/utafrali/RestaurantGo/pkg/tracing"
)

const (
	serviceName = "restaurant-client"

	// sessionCheckInterval is how often the access token expiry is checked.
	sessionCheckInterval = time.Minute
	// refreshAhead refreshes tokens that expire within this window.
	refreshAhead = 5 * time.Minute
	// slowStorageOp is the threshold for slow device storage warnings.
	slowStorageOp = 100 * time.Millisecond
)

// App wires together all dependencies and runs the companion process.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	store        storage.Store
	closeStore   func() error
	producer     *pkgkafka.Producer
	analytics    *event.Analytics
	rateLimiter  *middleware.RateLimiter
	services     handler.Services
	httpServer   *http.Server
	stopTracing  func(context.Context) error
	backgroundWG sync.WaitGroup
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing.
	tcfg := tracing.DefaultConfig(serviceName)
	tcfg.Environment = cfg.Environment
	tcfg.DeviceID = cfg.DeviceID
	tcfg.OTLPEndpoint = cfg.OTELEndpoint
	tcfg.SampleRate = cfg.OTELSampleRate
	tcfg.Enabled = cfg.OTELEnabled
	stopTracing, err := tracing.Setup(ctx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Device storage.
	database.SetSlowOperationLogging(slowStorageOp, logger)
	store, closeStore, err := openStore(ctx, cfg, reg, logger)
	if err != nil {
		_ = stopTracing(context.Background())
		return nil, err
	}

	// Kafka analytics.
	var producer *pkgkafka.Producer
	var publisher event.Publisher
	if cfg.AnalyticsEnabled() {
		if err := pkgkafka.RegisterMetrics(reg); err != nil {
			_ = closeStore()
			_ = stopTracing(context.Background())
			return nil, fmt.Errorf("register kafka metrics: %w", err)
		}
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = producer
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("analytics disabled, no kafka brokers configured")
	}

	cookies := service.NewCookieConsentService(store, logger)
	analytics := event.NewAnalytics(publisher, cookies, event.Config{
		Topic:    cfg.AnalyticsTopic,
		Source:   cfg.AnalyticsSource,
		DeviceID: cfg.DeviceID,
	}, logger)

	// Backend client: retrying HTTP client behind a circuit breaker.
	httpClient := httpclient.New(httpclient.Config{
		Timeout:           cfg.APITimeout,
		MaxRetries:        cfg.APIMaxRetries,
		RetryWaitMin:      cfg.APIRetryWaitMin,
		RetryWaitMax:      cfg.APIRetryWaitMax,
		MaxConnsPerHost:   httpclient.DefaultConfig().MaxConnsPerHost,
		RequestsPerSecond: cfg.APIRateLimitRPS,
		Burst:             cfg.APIRateBurst,
	})
	breaker := httpclient.NewCircuitBreakerClient(httpClient, httpclient.CircuitBreakerConfig{
		Name:         "restaurant-backend",
		MaxRequests:  cfg.CBMaxRequests,
		Interval:     time.Duration(cfg.CBInterval) * time.Second,
		Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
		FailureRatio: cfg.CBFailureRatio,
		MinRequests:  cfg.CBMinRequests,
	}, logger)
	if err := httpclient.RegisterBreakerMetrics(reg); err != nil {
		_ = closeStore()
		_ = stopTracing(context.Background())
		return nil, fmt.Errorf("register breaker metrics: %w", err)
	}

	deviceLocale := service.DetectDeviceLocale(cfg.DeviceLocale)
	language := service.NewLanguageService(store, deviceLocale, analytics, logger)

	client := api.New(cfg.APIBaseURL, breaker,
		api.WithTokenSource(api.StorageTokenSource(store)),
		api.WithLanguage(language.AcceptLanguage),
		api.WithLogger(logger),
		api.WithMetrics(api.NewMetrics(reg)),
	)

	// Build the dependency graph.
	session := service.NewSessionService(client, store, logger)
	cart := service.NewCartService(store, analytics, logger)
	services := handler.Services{
		Session:       session,
		Menu:          service.NewMenuService(client, language, analytics, logger, service.DefaultMenuTTL),
		Cart:          cart,
		Favorites:     service.NewFavoritesService(client, session, analytics, logger),
		Cookies:       cookies,
		Privacy:       service.NewPrivacyConsentService(client, session),
		Language:      language,
		Orders:        service.NewOrderService(client, cart, session, analytics, logger),
		Tracking:      service.NewTrackingService(client, session, cfg.TrackingPollInterval, logger),
		Addresses:     service.NewAddressService(client, session),
		Payments:      service.NewPaymentService(client, session, cart, logger),
		Notifications: service.NewNotificationService(client, session, analytics, logger),
		Loyalty:       service.NewLoyaltyService(client, session, logger),
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("storage", store.Ping)
	healthHandler.RegisterNonCritical("backend", func(ctx context.Context) error {
		if breaker.State() == gobreaker.StateOpen {
			return errors.New("circuit breaker open")
		}
		return nil
	})
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", producer.Ping)
	}

	// HTTP router.
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)

	router := handler.NewRouter(services, handler.RouterConfig{
		Health:      healthHandler,
		Metrics:     middleware.NewHTTPMetrics(reg),
		Gatherer:    reg,
		RateLimiter: rateLimiter,
		CORS:        corsCfg,
		Logger:      logger,
	})

	// WriteTimeout stays zero: the tracking stream is long-lived and the
	// other routes are bounded by the router's request timeout.
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &App{
		cfg:         cfg,
		logger:      logger,
		store:       store,
		closeStore:  closeStore,
		producer:    producer,
		analytics:   analytics,
		rateLimiter: rateLimiter,
		services:    services,
		httpServer:  httpServer,
		stopTracing: stopTracing,
	}, nil
}

// openStore opens the configured device storage and returns it with its
// close function.
func openStore(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, logger *slog.Logger) (storage.Store, func() error, error) {
	switch cfg.StorageDriver {
	case config.StorageRedis:
		rcfg := database.DefaultRedisConfig()
		rcfg.Host = cfg.RedisHost
		rcfg.Port = cfg.RedisPort
		rcfg.Password = cfg.RedisPassword
		rcfg.DB = cfg.RedisDB
		rdb, err := database.NewRedisClient(ctx, rcfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		if err := database.RegisterRedisPoolMetrics(reg, rdb, "device_storage"); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("register redis metrics: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", rcfg.Addr()),
			slog.Int("db", rcfg.DB),
		)
		return redisstore.New(rdb, slug.Namespace(cfg.DeviceID, "default")), closeRedis(rdb), nil

	case config.StorageSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		db, err := store.DB()
		if err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("sqlite handle: %w", err)
		}
		if err := database.RegisterSQLStats(reg, db, "device_storage"); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("register sqlite metrics: %w", err)
		}
		logger.Info("opened SQLite storage", slog.String("path", cfg.SQLitePath))
		return store, store.Close, nil

	default:
		logger.Warn("using in-memory storage, state is lost on exit")
		return memory.New(), func() error { return nil }, nil
	}
}

func closeRedis(rdb *redis.Client) func() error {
	return func() error { return rdb.Close() }
}

// Run restores persisted state, starts the background workers and the HTTP
// server, and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	a.restore(ctx)

	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()

	a.services.Favorites.Follow(bgCtx, a.services.Session)
	a.goBackground(func() { a.analytics.Run(bgCtx) })
	a.goBackground(func() { a.rateLimiter.Run(bgCtx) })
	a.goBackground(func() { a.refreshSession(bgCtx) })

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-errCh:
	}

	stopBackground()
	if err := a.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// restore loads every persisted store. A store that cannot be read starts
// from its defaults.
func (a *App) restore(ctx context.Context) {
	if err := a.services.Session.Load(ctx); err != nil {
		a.logger.Error("failed to restore session", slog.String("error", err.Error()))
	}
	if err := a.services.Cart.Load(ctx); err != nil {
		a.logger.Error("failed to restore cart", slog.String("error", err.Error()))
	}
	if err := a.services.Cookies.Load(ctx); err != nil {
		a.logger.Error("failed to restore cookie consent", slog.String("error", err.Error()))
	}
	lang := a.services.Language.Load(ctx)
	a.logger.Info("stores restored",
		slog.String("session", string(a.services.Session.State())),
		slog.Int("cart_items", a.services.Cart.Count()),
		slog.String("language", lang),
	)
}

// refreshSession renews the access token shortly before it expires.
func (a *App) refreshSession(ctx context.Context) {
	ticker := time.NewTicker(sessionCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.services.Session.NeedsRefresh(refreshAhead) {
				continue
			}
			if err := a.services.Session.RefreshToken(ctx); err != nil {
				a.logger.WarnContext(ctx, "token refresh failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (a *App) goBackground(fn func()) {
	a.backgroundWG.Add(1)
	go func() {
		defer a.backgroundWG.Done()
		fn()
	}()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.backgroundWG.Wait()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if err := a.closeStore(); err != nil {
		a.logger.Error("storage close error", slog.String("error", err.Error()))
	}

	if err := a.stopTracing(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
