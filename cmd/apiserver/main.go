// API server entry point for docketcalc.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bginsber/docketcalc/internal/application/docket"
	"github.com/bginsber/docketcalc/internal/config"
	"github.com/bginsber/docketcalc/internal/domain/rulepack"
	"github.com/bginsber/docketcalc/internal/infrastructure/database/postgres"
	"github.com/bginsber/docketcalc/internal/infrastructure/database/postgres/repositories"
	"github.com/bginsber/docketcalc/internal/infrastructure/database/redis"
	"github.com/bginsber/docketcalc/internal/infrastructure/messaging/kafka"
	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/metrics"
	"github.com/bginsber/docketcalc/internal/infrastructure/storage/minio"
	httpserver "github.com/bginsber/docketcalc/internal/interfaces/http"
	"github.com/bginsber/docketcalc/internal/interfaces/http/handlers"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: outputPaths(cfg.Log.Output),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("starting docketcalc API server",
		logging.Int("port", cfg.Server.Port),
		logging.String("rules_source", cfg.Rules.Source),
	)

	m := metrics.New("docketcalc")

	// Rule pack source.
	var source rulepack.Source
	switch cfg.Rules.Source {
	case "minio":
		objSource, err := minio.NewObjectSource(cfg.MinIO, logger)
		if err != nil {
			return err
		}
		source = objSource
	default:
		source = rulepack.NewFSSource(cfg.Rules.Dir)
	}

	loader := rulepack.NewLoader(source, logger)
	engine, err := docket.BuildEngine(ctx, loader, cfg.Rules.CalendarDir)
	if err != nil {
		return err
	}

	opts := []docket.Option{docket.WithMetrics(m)}
	checkers := map[string]handlers.HealthChecker{}

	// Result cache.
	if cfg.Cache.Enabled {
		client, err := redis.NewClient(cfg.Redis, logger)
		if err != nil {
			return err
		}
		defer client.Close()
		checkers["redis"] = client
		opts = append(opts, docket.WithCache(
			redis.NewResultCache(client, cfg.Redis.KeyPrefix, cfg.Cache.TTL, logger)))
	}

	// Audit trail.
	var auditHandler *handlers.AuditHandler
	if cfg.Audit.Enabled {
		conn, err := postgres.NewConnection(cfg.Database, logger)
		if err != nil {
			return err
		}
		defer conn.Close()
		if err := conn.RunMigrations(cfg.Database.MigrationPath); err != nil {
			return err
		}
		checkers["postgres"] = conn
		repo := repositories.NewPostgresAuditRepo(conn, logger)
		opts = append(opts, docket.WithAudit(repo))
		auditHandler = handlers.NewAuditHandler(repo)
	}

	// Calculation events.
	var producer *kafka.Producer
	if cfg.Events.Enabled {
		producer = kafka.NewProducer(cfg.Kafka, "docketcalc-apiserver", logger)
		defer producer.Close()
		opts = append(opts, docket.WithEvents(producer))
	}

	service := docket.NewService(engine, logger, opts...)

	// Hot reload of the pack directory.
	if cfg.Rules.Watch {
		var publisher docket.EventPublisher
		if producer != nil {
			publisher = producer
		}
		reloader, err := docket.NewReloader(service, loader,
			cfg.Rules.Dir, cfg.Rules.CalendarDir, cfg.Rules.WatchDebounce,
			publisher, m, logger)
		if err != nil {
			return err
		}
		defer reloader.Close()
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		DeadlineHandler: handlers.NewDeadlineHandler(service),
		RulePackHandler: handlers.NewRulePackHandler(service),
		AuditHandler:    auditHandler,
		HealthHandler:   handlers.NewHealthHandler(service, checkers),
		Logger:          logger,
		Metrics:         m,
		Mode:            cfg.Server.Mode,
	})
	server := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// loadConfig reads the config file when present and falls back to
// environment-only configuration otherwise.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func outputPaths(output string) []string {
	if output == "" {
		return nil
	}
	return []string{output}
}
