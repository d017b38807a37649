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

	"rxdelivery/cmd"
	"rxdelivery/internal/adapters/out/gormstore"
	"rxdelivery/internal/adapters/out/rabbitmq"
	"rxdelivery/internal/adapters/out/rediscache"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/sync/errgroup"
)

const serviceName = "rxdelivery"

func main() {
	cfg, err := cmd.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		log.Fatal(err)
	}
}

func newLogger(cfg cmd.Config) *slog.Logger {
	level, _ := cfg.SlogLevel()
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With("service", serviceName)
}

func run(ctx context.Context, cfg cmd.Config, logger *slog.Logger) error {
	db, err := gormstore.Open(cfg.Database())
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := gormstore.Migrate(db); err != nil {
		return err
	}

	meterProvider, err := newMeterProvider(cfg.Metrics)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = meterProvider.Shutdown(shutdownCtx)
	}()
	otel.SetMeterProvider(meterProvider)

	opts := []cmd.RootOption{cmd.WithMeter(meterProvider.Meter(serviceName))}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		opts = append(opts, cmd.WithBoardCache(rediscache.NewBoardCache(client, cfg.Redis.Key, cfg.Redis.TTL)))
	}

	if cfg.RabbitMQ.Host != "" {
		conn, err := rabbitmq.Connect(ctx, cfg.Broker())
		if err != nil {
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}
		defer conn.Close()
		opts = append(opts, cmd.WithListeners(
			rabbitmq.NewStatusPublisher(conn.Channel(), cfg.RabbitMQ.Exchange, logger)))
	}

	app := cmd.NewCompositionRoot(cfg, db, logger, opts...)
	if err := app.Bootstrap(ctx); err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	return startWebServer(ctx, app, cfg, logger, meterProvider)
}

func newMeterProvider(cfg cmd.MetricsConfig) (*sdkmetric.MeterProvider, error) {
	if !cfg.Stdout {
		return sdkmetric.NewMeterProvider(), nil
	}

	exporter, err := stdoutmetric.New()
	if err != nil {
		return nil, fmt.Errorf("create metrics exporter: %w", err)
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.Interval))),
	), nil
}

func startWebServer(
	ctx context.Context,
	app *cmd.CompositionRoot,
	cfg cmd.Config,
	logger *slog.Logger,
	meterProvider *sdkmetric.MeterProvider,
) error {
	e, err := app.CreateHTTPHandler(ctx)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort),
		Handler:           otelhttp.NewHandler(e, serviceName, otelhttp.WithMeterProvider(meterProvider)),
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		logger.Info("Shutting down server", "timeout", cfg.Graceful.ShutdownTimeout.String())
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		return nil
	})

	return g.Wait()
}
