// Package docket is the application layer: it owns the active calculation
// engine, serves calculations through the result cache, and fans successful
// results out to the audit trail and the event stream.
package docket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bginsber/docketcalc/internal/domain/audit"
	"github.com/bginsber/docketcalc/internal/domain/deadline"
	"github.com/bginsber/docketcalc/internal/domain/rulepack"
	"github.com/bginsber/docketcalc/internal/infrastructure/messaging/kafka"
	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/metrics"
	"github.com/bginsber/docketcalc/pkg/errors"
)

// ResultCache is the subset of the redis cache the service consumes.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte) error
}

// EventPublisher is the subset of the kafka producer the service consumes.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
}

// Service coordinates calculations.  The engine reference is swapped
// atomically on hot reload; in-flight calculations keep the engine they
// started with.
type Service struct {
	engine     atomic.Pointer[deadline.Engine]
	generation atomic.Uint64

	cache     ResultCache
	sf        singleflight.Group
	auditRepo audit.Repository
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    logging.Logger
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithCache enables the calculation result cache.
func WithCache(c ResultCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithAudit enables the persisted audit trail.
func WithAudit(repo audit.Repository) Option {
	return func(s *Service) { s.auditRepo = repo }
}

// WithEvents enables calculation event publication.
func WithEvents(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics enables instrument recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs a Service over an initial engine.
func NewService(engine *deadline.Engine, log logging.Logger, opts ...Option) *Service {
	s := &Service{logger: log.Named("docket")}
	s.engine.Store(engine)
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics != nil {
		s.metrics.LoadedJurisdictions.Set(float64(len(engine.Jurisdictions())))
	}
	return s
}

// SwapEngine installs a freshly built engine.  The generation counter is
// baked into every cache key, so entries computed against the old engine are
// never served again.
func (s *Service) SwapEngine(engine *deadline.Engine) {
	s.engine.Store(engine)
	s.generation.Add(1)
	if s.metrics != nil {
		s.metrics.LoadedJurisdictions.Set(float64(len(engine.Jurisdictions())))
	}
	s.logger.Info("calculation engine swapped",
		logging.Int("jurisdictions", len(engine.Jurisdictions())),
		logging.Int64("generation", int64(s.generation.Load())),
	)
}

// Jurisdictions lists the jurisdiction codes of the active engine.
func (s *Service) Jurisdictions() []string {
	return s.engine.Load().Jurisdictions()
}

// Pack returns the active pack record for one jurisdiction.
func (s *Service) Pack(jurisdiction string) (*rulepack.Record, error) {
	return s.engine.Load().Pack(jurisdiction)
}

// Calculate runs one deadline calculation through the cache, then records
// the audit entry and publishes the computed event.  Audit and event
// failures never fail the calculation; they are logged and counted.
func (s *Service) Calculate(ctx context.Context, req deadline.Request) (*deadline.Result, error) {
	start := time.Now()
	engine := s.engine.Load()
	key := s.cacheKey(req)

	if s.cache != nil {
		if data, ok := s.cache.Get(ctx, key); ok {
			res := &deadline.Result{}
			if err := json.Unmarshal(data, res); err == nil {
				if s.metrics != nil {
					s.metrics.CacheHitsTotal.Inc()
					s.metrics.CalculationDuration.WithLabelValues(req.Jurisdiction).
						Observe(time.Since(start).Seconds())
				}
				return res, nil
			}
			s.logger.Warn("discarding undecodable cache entry", logging.String("key", key))
		}
		if s.metrics != nil {
			s.metrics.CacheMissesTotal.Inc()
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		return engine.Calculate(req)
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.CalculationErrors.WithLabelValues(string(errors.GetCode(err))).Inc()
		}
		return nil, err
	}
	res := v.(*deadline.Result)

	payload, err := json.Marshal(res)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to serialize calculation result")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, payload); err != nil {
			s.logger.Warn("result cache write failed", logging.Err(err))
		}
	}

	auditID := s.recordAudit(ctx, req, res, payload)
	s.publishComputed(ctx, req, res, auditID)

	if s.metrics != nil {
		s.metrics.CalculationsTotal.WithLabelValues(req.Jurisdiction, string(req.ServiceMethod)).Inc()
		s.metrics.CalculationDuration.WithLabelValues(req.Jurisdiction).
			Observe(time.Since(start).Seconds())
	}
	return res, nil
}

// cacheKey fingerprints a request against the current engine generation.
func (s *Service) cacheKey(req deadline.Request) string {
	return fmt.Sprintf("calc:%d:%s:%s:%s:%s:%t",
		s.generation.Load(),
		req.Jurisdiction,
		req.Event,
		req.BaseDate.Format("2006-01-02"),
		req.ServiceMethod,
		req.Explain,
	)
}

func (s *Service) recordAudit(ctx context.Context, req deadline.Request, res *deadline.Result, payload []byte) string {
	if s.auditRepo == nil {
		return ""
	}
	rec := &audit.Record{
		Jurisdiction:  res.Jurisdiction,
		Event:         res.Event,
		BaseDate:      res.BaseDate,
		ServiceMethod: string(req.ServiceMethod),
		SchemaVersion: res.SchemaVersion,
		PackPath:      res.Metadata.PackPath,
		ResultJSON:    payload,
	}
	if err := s.auditRepo.Save(ctx, rec); err != nil {
		s.logger.Error("audit trail write failed", logging.Err(err))
		if s.metrics != nil {
			s.metrics.AuditWriteFailures.Inc()
		}
		return ""
	}
	return rec.ID
}

func (s *Service) publishComputed(ctx context.Context, req deadline.Request, res *deadline.Result, auditID string) {
	if s.publisher == nil {
		return
	}
	payload := kafka.DeadlineComputedPayload{
		AuditID:       auditID,
		Jurisdiction:  res.Jurisdiction,
		Event:         res.Event,
		BaseDate:      res.BaseDate,
		ServiceMethod: string(req.ServiceMethod),
		DeadlineCount: len(res.Deadlines),
		ComputedAt:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, kafka.TopicDeadlineComputed, res.Jurisdiction, payload); err != nil {
		s.logger.Error("calculation event publish failed", logging.Err(err))
		if s.metrics != nil {
			s.metrics.EventPublishFailures.Inc()
		}
	}
}
