// Archive worker entry point: consumes calculation events from Kafka and
// persists each envelope to object storage for long-term retention.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bginsber/docketcalc/internal/config"
	"github.com/bginsber/docketcalc/internal/infrastructure/messaging/kafka"
	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
	"github.com/bginsber/docketcalc/internal/infrastructure/storage/minio"
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
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("worker exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting docketcalc archive worker",
		logging.String("topic", cfg.Kafka.Topic),
		logging.String("group_id", cfg.Kafka.GroupID),
	)

	archive, err := minio.NewResultArchive(cfg.MinIO, logger)
	if err != nil {
		return err
	}

	consumer := kafka.NewConsumer(cfg.Kafka, logger)
	defer consumer.Close()

	return consumer.Run(ctx, func(ctx context.Context, env kafka.EventEnvelope) error {
		data, err := json.Marshal(env)
		if err != nil {
			return err
		}
		return archive.Store(ctx, archiveKey(env), data)
	})
}

// archiveKey lays envelopes out by event type and day so retention policies
// can operate on prefixes.
func archiveKey(env kafka.EventEnvelope) string {
	day := env.Timestamp.UTC().Format("2006/01/02")
	if env.Timestamp.IsZero() {
		day = time.Now().UTC().Format("2006/01/02")
	}
	return fmt.Sprintf("%s/%s/%s.json", env.EventType, day, env.EventID)
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}
