package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"marketplace/api"
	"marketplace/cmd"
	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/realtime"
	"marketplace/internal/adapters/out/rules"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("Error loading .env file, using process environment: %v", err)
	}
	configs, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(configs.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if configs.JaegerEndpoint != "" {
		tp, err := tracing.InitTracerProvider("marketplace", configs.JaegerEndpoint)
		if err != nil {
			log.Fatalf("Failed to init tracing: %v", err)
		}
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	gormDB := mustConnectDB(configs)
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	hub := realtime.NewHub(logger)
	var publisher ports.RealtimePublisher = hub
	var bridge *realtime.RedisBridge
	if configs.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: configs.RedisAddr})
		defer client.Close()
		bridge = realtime.NewRedisBridge(client, hub, logger)
		publisher = bridge
	}

	senders, err := cmd.BuildSenders(configs, logger)
	if err != nil {
		log.Fatalf("Failed to configure notification channels: %v", err)
	}
	defer senders.Close()

	evaluator, err := rules.NewCELEvaluator()
	if err != nil {
		log.Fatalf("Failed to build promo rule evaluator: %v", err)
	}

	notifier := cmd.NewNotifier(publisher, gormDB, logger, senders.Senders...)
	app := cmd.NewCompositionRoot(configs, gormDB, notifier, evaluator, logger)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	e := mustBuildRouter(ctx, &app, hub, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	if bridge != nil {
		g.Go(func() error { return bridge.Run(gctx) })
	}
	g.Go(func() error {
		return startWebServer(e, configs.HTTPPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err = g.Wait(); err != nil {
		logger.Error("marketplace stopped with error", "error", err)
		return
	}
	logger.Info("marketplace stopped")
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func mustBuildRouter(ctx context.Context, app *cmd.CompositionRoot, hub *realtime.Hub, logger *slog.Logger) *echo.Echo {
	doc, err := httpin.LoadContract(ctx, api.OpenAPI)
	if err != nil {
		log.Fatalf("Failed to load API contract: %v", err)
	}
	server := httpin.NewServer(app.HTTPHandlers(), logger)
	e, err := httpin.NewRouter(server, doc, hub, logger)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}
	return e
}

func startWebServer(e *echo.Echo, port string) error {
	err := e.Start(fmt.Sprintf("0.0.0.0:%s", port))
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
