package docket

import (
	"context"
	"time"

	"github.com/bginsber/docketcalc/internal/domain/deadline"
	"github.com/bginsber/docketcalc/internal/domain/holiday"
	"github.com/bginsber/docketcalc/internal/domain/rulepack"
	"github.com/bginsber/docketcalc/internal/infrastructure/messaging/kafka"
	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/metrics"
)

// BuildEngine loads every rule pack and holiday calendar and assembles an
// immutable engine.  Any load failure aborts the build; a half-loaded engine
// is never returned.
func BuildEngine(ctx context.Context, loader *rulepack.Loader, calendarDir string) (*deadline.Engine, error) {
	packs, err := loader.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	providers := map[string]holiday.Provider{}
	if calendarDir != "" {
		providers, err = holiday.LoadDir(calendarDir)
		if err != nil {
			return nil, err
		}
	}

	return deadline.NewEngine(packs, providers), nil
}

// Reloader rebuilds the engine when the pack directory changes and swaps it
// into the service.  A failed rebuild keeps the current engine serving.
type Reloader struct {
	service     *Service
	loader      *rulepack.Loader
	calendarDir string
	watcher     *rulepack.Watcher
	publisher   EventPublisher
	metrics     *metrics.Metrics
	logger      logging.Logger
}

// NewReloader starts watching dir and returns the running reloader.
func NewReloader(
	service *Service,
	loader *rulepack.Loader,
	dir, calendarDir string,
	debounce time.Duration,
	publisher EventPublisher,
	m *metrics.Metrics,
	log logging.Logger,
) (*Reloader, error) {
	r := &Reloader{
		service:     service,
		loader:      loader,
		calendarDir: calendarDir,
		publisher:   publisher,
		metrics:     m,
		logger:      log.Named("reloader"),
	}

	w, err := rulepack.NewWatcher(dir, debounce, r.reload, log)
	if err != nil {
		return nil, err
	}
	r.watcher = w
	return r, nil
}

// Close stops the directory watcher.
func (r *Reloader) Close() error {
	return r.watcher.Close()
}

func (r *Reloader) reload() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	engine, err := BuildEngine(ctx, r.loader, r.calendarDir)
	if err != nil {
		r.logger.Error("rule pack reload failed, keeping current engine", logging.Err(err))
		if r.metrics != nil {
			r.metrics.PackReloadsTotal.WithLabelValues("failure").Inc()
		}
		return
	}

	r.service.SwapEngine(engine)
	if r.metrics != nil {
		r.metrics.PackReloadsTotal.WithLabelValues("success").Inc()
	}

	if r.publisher != nil {
		payload := kafka.PackReloadedPayload{
			Jurisdictions: engine.Jurisdictions(),
			ReloadedAt:    time.Now().UTC(),
		}
		if err := r.publisher.Publish(ctx, kafka.TopicPackReloaded, "rulepacks", payload); err != nil {
			r.logger.Warn("pack reload event publish failed", logging.Err(err))
		}
	}
}
