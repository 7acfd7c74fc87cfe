package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitpool/internal/auth"
	"github.com/mmynk/splitpool/internal/config"
	"github.com/mmynk/splitpool/internal/events"
	"github.com/mmynk/splitpool/internal/metrics"
	"github.com/mmynk/splitpool/internal/middleware"
	"github.com/mmynk/splitpool/internal/service"
	"github.com/mmynk/splitpool/internal/storage"
	"github.com/mmynk/splitpool/internal/storage/jsonfile"
	"github.com/mmynk/splitpool/internal/storage/sqlite"
	"github.com/mmynk/splitpool/pkg/api"
	"github.com/mmynk/splitpool/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.SetupWith(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	publisher, err := openPublisher(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	m := metrics.New()

	// The first interceptor is the outermost, so auth runs before logging
	// and logging sees the token subject.
	var interceptors []connect.Interceptor
	if cfg.AuthEnabled() {
		interceptors = append(interceptors, middleware.RequireAuth(auth.NewJWTManager(cfg.AuthSecret, cfg.TokenDuration)))
		slog.Info("Bearer token authentication enabled")
	}
	interceptors = append(interceptors,
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(m),
	)

	svc := service.NewLedgerService(store,
		service.WithPublisher(publisher),
		service.WithMetrics(m),
	)

	mux := http.NewServeMux()
	path, handler := api.NewLedgerServiceHandler(svc, connect.WithInterceptors(interceptors...))
	mux.Handle(path, handler)

	// h2c serves HTTP/2 without TLS, which gRPC clients need.
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           h2c.NewHandler(middleware.CORS(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", m.Handler())
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddress,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", cfg.ServerAddress, "service", api.LedgerServiceName)
		return serve(server)
	})
	g.Go(func() error {
		slog.Info("Metrics server starting", "address", cfg.MetricsAddress)
		return serve(metricsServer)
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(
			server.Shutdown(shutdownCtx),
			metricsServer.Shutdown(shutdownCtx),
		)
	})

	return g.Wait()
}

func serve(s *http.Server) error {
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", s.Addr, err)
	}
	return nil
}

func openStore(cfg config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendJSON:
		store, err := jsonfile.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize storage: %w", err)
		}
		slog.Info("Storage initialized", "backend", cfg.StorageBackend, "dir", cfg.DataDir)
		return store, nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize storage: %w", err)
		}
		slog.Info("Storage initialized", "backend", cfg.StorageBackend, "database", cfg.DBPath)
		return store, nil
	}
}

func openPublisher(cfg config.Config) (events.Publisher, error) {
	if !cfg.EventsEnabled() {
		return events.Nop{}, nil
	}
	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	slog.Info("Publishing ledger events", "exchange", cfg.AMQPExchange)
	return p, nil
}
