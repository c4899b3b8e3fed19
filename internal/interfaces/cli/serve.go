package cli

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/titleorder/internal/application/order"
	"github.com/turtacn/titleorder/internal/config"
	"github.com/turtacn/titleorder/internal/infrastructure/database/postgres"
	"github.com/turtacn/titleorder/internal/infrastructure/database/redis"
	"github.com/turtacn/titleorder/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/titleorder/internal/infrastructure/storage/minio"
	apihttp "github.com/turtacn/titleorder/internal/interfaces/http"
	"github.com/turtacn/titleorder/internal/interfaces/http/handlers"
	"github.com/turtacn/titleorder/internal/interfaces/http/middleware"
	"github.com/turtacn/titleorder/pkg/client"
)

const (
	sweepInterval        = time.Minute
	sessionGaugeInterval = 15 * time.Second
)

// NewServeCmd runs the order API.
func NewServeCmd(serve func(ctx context.Context, cliCtx *CLIContext) error) *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the order session HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cliCtx.Config.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cliCtx.Config.Server.Port = port
			}
			return serve(cmd.Context(), cliCtx)
		},
	}
	cmd.Flags().StringVar(&host, "host", config.DefaultServerHost, "listen host (overrides server.host)")
	cmd.Flags().IntVar(&port, "port", config.DefaultServerPort, "listen port (overrides server.port)")
	return cmd
}

// runServer builds the application, serves it until SIGINT/SIGTERM and
// shuts down gracefully.
func runServer(ctx context.Context, cliCtx *CLIContext) error {
	cfg := cliCtx.Config
	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if cliCtx.ConfigPath != "" {
		if err := config.Watch(cliCtx.ConfigPath, a.reload, func(err error) {
			logger.Warn("config reload rejected", logging.Err(err))
		}); err != nil {
			logger.Warn("config watch unavailable", logging.Err(err))
		}
	}

	go a.registry.Run(ctx, sweepInterval)
	if a.metrics != nil {
		go a.reportSessions(ctx, sessionGaugeInterval)
	}

	srv := apihttp.NewServer(cfg.Server, a.handler, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	logger.Info("titleorder started",
		logging.String("version", Version),
		logging.String("addr", cfg.Server.Addr()),
		logging.String("provider", cfg.Provider.BaseURL))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := srv.Stop(context.Background()); err != nil {
		logger.Error("graceful shutdown failed", logging.Err(err))
		return err
	}
	return <-errCh
}

// ─── application assembly ────────────────────────────────────────────────────

// serverInfrastructure holds the optional backends.  Disabled backends stay
// nil.
type serverInfrastructure struct {
	redis    *redis.Client
	pg       *postgres.Connection
	producer *kafka.Producer
	minio    *minio.Client
}

func (i *serverInfrastructure) Close() {
	if i.producer != nil {
		i.producer.Close()
	}
	if i.redis != nil {
		i.redis.Close()
	}
	if i.pg != nil {
		i.pg.Close()
	}
	if i.minio != nil {
		i.minio.Close()
	}
}

// ensureTopic creates the placement topic if missing. Failures are logged
// only.
func ensureTopic(cfg config.KafkaConfig, logger logging.Logger) {
	tm, err := kafka.NewTopicManager(cfg.Brokers, logger)
	if err != nil {
		logger.Warn("topic check skipped", logging.Err(err))
		return
	}
	defer tm.Close()
	if err := tm.EnsureTopic(cfg.Topic, 3, 1); err != nil {
		logger.Warn("topic not ensured", logging.String("topic", cfg.Topic), logging.Err(err))
	}
}

func initServerInfrastructure(ctx context.Context, cfg *config.Config, logger logging.Logger) (*serverInfrastructure, error) {
	infra := &serverInfrastructure{}

	if cfg.Redis.Enabled {
		c, err := redis.NewClient(cfg.Redis, logger.Named("redis"))
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		infra.redis = c
	}

	if cfg.Database.Enabled {
		pg, err := postgres.NewConnection(cfg.Database, logger.Named("postgres"))
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("postgres: %w", err)
		}
		infra.pg = pg
		if cfg.Database.AutoMigrate {
			if err := pg.Migrate(); err != nil {
				infra.Close()
				return nil, fmt.Errorf("postgres migrate: %w", err)
			}
		}
	}

	if cfg.Kafka.Enabled {
		p, err := kafka.NewProducer(cfg.Kafka, logger.Named("kafka"))
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("kafka: %w", err)
		}
		infra.producer = p
		ensureTopic(cfg.Kafka, logger.Named("kafka"))
	}

	if cfg.MinIO.Enabled {
		m, err := minio.NewClient(ctx, cfg.MinIO, logger.Named("minio"))
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("minio: %w", err)
		}
		infra.minio = m
	}

	logger.Info("server infrastructure initialized",
		logging.Bool("redis", infra.redis != nil),
		logging.Bool("postgres", infra.pg != nil),
		logging.Bool("kafka", infra.producer != nil),
		logging.Bool("minio", infra.minio != nil))
	return infra, nil
}

// app is the assembled order API.
type app struct {
	infra    *serverInfrastructure
	registry *order.Registry
	metrics  *prometheus.AppMetrics
	prices   atomic.Pointer[config.PricingConfig]
	logger   logging.Logger
	handler  http.Handler
}

func (a *app) Close() { a.infra.Close() }

// reload applies the runtime-safe settings of a changed config file.
func (a *app) reload(cfg *config.Config) {
	if err := logging.SetLevel(cfg.Log.Level); err != nil {
		a.logger.Warn("log level not changed", logging.Err(err))
	}
	pricing := cfg.Pricing
	a.prices.Store(&pricing)
	a.logger.Info("config reloaded", logging.String("log_level", logging.CurrentLevel()))
}

func (a *app) reportSessions(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		a.metrics.SetActiveSessions(a.registry.Len())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func buildApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*app, error) {
	infra, err := initServerInfrastructure(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &app{infra: infra, logger: logger}
	pricing := cfg.Pricing
	a.prices.Store(&pricing)

	var collector prometheus.MetricsCollector
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger.Named("metrics"))
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("metrics: %w", err)
		}
		a.metrics = prometheus.NewAppMetrics(collector)
	}

	provider, err := client.NewClient(cfg.Provider.BaseURL, cfg.Provider.APIKey,
		client.WithTimeout(cfg.Provider.Timeout),
		client.WithUserAgent(cfg.Provider.UserAgent),
		client.WithLogger(logging.NewPrintf(logger.Named("provider"))))
	if err != nil {
		infra.Close()
		return nil, fmt.Errorf("provider client: %w", err)
	}

	var transport order.Transport = provider
	if infra.redis != nil {
		cacheOpts := []redis.CacheOption{redis.WithTTL(cfg.Redis.SearchTTL), redis.WithPrefix(cfg.Redis.KeyPrefix)}
		if a.metrics != nil {
			cacheOpts = append(cacheOpts, redis.WithHitRecorder(a.metrics.RecordCacheAccess))
		}
		transport = redis.NewCachingTransport(provider, infra.redis, logger.Named("cache"), cacheOpts...)
	}

	opts := []order.Option{
		order.WithLogger(logger),
		order.WithPriceBook(order.PriceBookFunc(func(code string) float64 {
			return a.prices.Load().PriceFor(code)
		})),
	}
	if a.metrics != nil {
		opts = append(opts, order.WithMetrics(a.metrics))
	}
	var ledger *postgres.Ledger
	if infra.pg != nil {
		ledger = postgres.NewLedger(infra.pg, logger.Named("ledger"))
		opts = append(opts, order.WithLedger(ledger))
	}
	if infra.producer != nil {
		opts = append(opts, order.WithEventPublisher(kafka.NewLinePlacedPublisher(infra.producer, cfg.Kafka.Topic, logger.Named("events"))))
	}
	if infra.minio != nil {
		opts = append(opts, order.WithPayloadArchive(minio.NewPayloadArchive(infra.minio)))
	}
	a.registry = order.NewRegistry(transport, cfg.Server.SessionTTL, opts...)

	var checkers []handlers.HealthChecker
	if infra.redis != nil {
		checkers = append(checkers, handlers.CheckFunc{Component: "redis", Fn: infra.redis.Ping})
	}
	if infra.pg != nil {
		checkers = append(checkers, handlers.CheckFunc{Component: "postgres", Fn: infra.pg.HealthCheck})
	}
	if infra.minio != nil {
		checkers = append(checkers, handlers.CheckFunc{Component: "minio", Fn: infra.minio.HealthCheck})
	}

	logCfg := middleware.DefaultLoggingConfig()
	routerCfg := apihttp.RouterConfig{
		SessionHandler: handlers.NewSessionHandler(a.registry, logger),
		CatalogHandler: handlers.NewCatalogHandler(nil, nil, logger),
		HealthHandler:  handlers.NewHealthHandler(Version, a.registry.Len, checkers...),
		Logger:         logger,
		MaxBodySize:    cfg.Server.MaxBodySize,
	}
	if ledger != nil {
		routerCfg.PlacementHandler = handlers.NewPlacementHandler(ledger, logger)
	}
	if a.metrics != nil {
		logCfg.Recorder = a.metrics
		routerCfg.MetricsCollector = collector
		routerCfg.MetricsPath = cfg.Metrics.Path
		logCfg.SkipPaths = append(logCfg.SkipPaths, cfg.Metrics.Path)
	}
	routerCfg.Logging = logCfg
	a.handler = apihttp.NewRouter(routerCfg)
	return a, nil
}
