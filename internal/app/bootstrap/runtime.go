package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	cacheadapter "github.com/caretrack/strokeregistry/internal/adapters/cache"
	eventadapter "github.com/caretrack/strokeregistry/internal/adapters/events"
	httpadapter "github.com/caretrack/strokeregistry/internal/adapters/http"
	"github.com/caretrack/strokeregistry/internal/adapters/memory"
	mongoadapter "github.com/caretrack/strokeregistry/internal/adapters/mongo"
	"github.com/caretrack/strokeregistry/internal/adapters/postgres"
	"github.com/caretrack/strokeregistry/internal/adapters/security"
	"github.com/caretrack/strokeregistry/internal/application"
	"github.com/caretrack/strokeregistry/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	dispatcher *eventadapter.Dispatcher
	archiver   *eventadapter.Archiver
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping stroke registry service", "http_port", cfg.HTTPPort, "grpc_port", cfg.GRPCPort)

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := pool.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	mongoDB, err := mongoadapter.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := mongoadapter.EnsureIndexes(ctx, mongoDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure mongo indexes: %w", err)
	}

	cleanup := func(ctx context.Context) {
		_ = mongoDB.Client().Disconnect(ctx)
		_ = sqlDB.Close()
	}

	var sessions ports.SessionStore
	if cfg.RedisURL != "" {
		redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			cleanup(ctx)
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		sessions = cacheadapter.NewRedisSessionStore(redisClient, cfg.SessionIdleTimeout)
		prev := cleanup
		cleanup = func(ctx context.Context) {
			_ = redisClient.Close()
			prev(ctx)
		}
	} else {
		logger.Warn("redis not configured; using in-process session store")
		sessions = memory.NewSessionStore()
	}

	var publisher ports.AuditPublisher
	var consumer *eventadapter.KafkaConsumer
	if cfg.AuditPublisher == "kafka" {
		kafkaPublisher, err := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			cleanup(ctx)
			return nil, fmt.Errorf("init kafka publisher: %w", err)
		}
		consumer, err = eventadapter.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.AuditTopic)
		if err != nil {
			cleanup(ctx)
			return nil, fmt.Errorf("init kafka consumer: %w", err)
		}
		publisher = kafkaPublisher
		prev := cleanup
		cleanup = func(ctx context.Context) {
			_ = kafkaPublisher.Close()
			_ = consumer.Close()
			prev(ctx)
		}
	} else {
		publisher = eventadapter.NewLogPublisher(logger)
	}
	dispatcher := eventadapter.NewDispatcher(logger, publisher, cfg.AuditBuffer)

	repos := postgres.NewRepositories(pool)
	patients := mongoadapter.NewPatientRepository(mongoDB)

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			IdleTimeout:      cfg.SessionIdleTimeout,
			AbsoluteLifetime: cfg.SessionAbsoluteLifetime,
			StorageTimeout:   cfg.StorageTimeout,
			PageSize:         cfg.PageSize,
		},
		Users:         repos.Users,
		LoginAttempts: repos.LoginAttempts,
		Patients:      patients,
		Sessions:      sessions,
		Limiter:       memory.NewAttemptLimiter(cfg.AttemptLimit, cfg.AttemptWindow),
		Hasher:        security.NewBcryptHasher(cfg.BcryptCost),
		Tokens:        security.NewRandomTokenSource(),
		Audit:         dispatcher,
	})

	if cfg.BootstrapAdminUsername != "" && cfg.BootstrapAdminPassword != "" {
		if err := svc.BootstrapAdmin(ctx, cfg.BootstrapAdminUsername, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
			logger.Error("bootstrap admin seeding failed", "error", err)
		}
	}

	handler := httpadapter.NewHandler(svc)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		cleanup(ctx)
		return nil, fmt.Errorf("listen gRPC: %w", err)
	}

	var archiver *eventadapter.Archiver
	if consumer != nil {
		archiver = eventadapter.NewArchiver(logger, consumer, mongoadapter.NewAuditArchive(mongoDB))
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		dispatcher: dispatcher,
		archiver:   archiver,
		cleanupFn:  cleanup,
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		r.logger.Info("grpc server started", "addr", r.grpcLis.Addr().String())
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.dispatcher.Close()
	r.cleanupFn(shutdownCtx)
	return nil
}

// RunWorker consumes published audit events and archives them to the
// document store. Requires the kafka audit pipeline.
func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if r.archiver == nil {
		return fmt.Errorf("audit archiver requires the kafka audit publisher")
	}

	r.logger.Info("audit archiver started")
	err := r.archiver.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.dispatcher.Close()
	r.cleanupFn(shutdownCtx)
	return nil
}
