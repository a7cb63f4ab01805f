package rulepack

import (
	"context"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
	"github.com/bginsber/docketcalc/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Loader
// ─────────────────────────────────────────────────────────────────────────────

// Loader reads rule-pack documents from a Source and produces validated,
// immutable Records.  There is no partial or degraded load: any failure for a
// document aborts that jurisdiction entirely, and LoadAll aborts the whole
// set, so an engine can never start over a known-bad pack.
type Loader struct {
	source Source
	logger logging.Logger
}

// NewLoader constructs a Loader over the given source.
func NewLoader(source Source, log logging.Logger) *Loader {
	return &Loader{source: source, logger: log.Named("rulepack")}
}

// Load reads, parses, and validates a single named pack document.
//
// Failure modes map onto the loader error taxonomy:
//   - source missing               → ErrCodePackNotFound (carries path)
//   - empty or unparseable source  → ErrCodePackMalformed (carries path)
//   - schema violation             → ErrCodePackInvalid (carries path + field)
func (l *Loader) Load(ctx context.Context, name string) (*Record, error) {
	data, path, err := l.source.Read(ctx, name)
	if err != nil {
		return nil, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New(errors.ErrCodePackMalformed, "rule pack source is empty").
			WithDetail("path=" + path)
	}

	pack := &RulePack{}
	if err := yaml.Unmarshal(data, pack); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePackMalformed, "rule pack source is not a structured document").
			WithDetail("path=" + path)
	}

	if err := pack.Validate(); err != nil {
		var ae *errors.AppError
		if e, ok := err.(*errors.AppError); ok {
			ae = e.WithDetail("path=" + path)
		} else {
			ae = errors.Wrap(err, errors.ErrCodePackInvalid, "rule pack violates schema").
				WithDetail("path=" + path)
		}
		return nil, ae
	}

	l.logger.Info("rule pack loaded",
		logging.String("jurisdiction", pack.State),
		logging.String("schema_version", pack.SchemaVersion),
		logging.Int("events", len(pack.Events)),
		logging.String("path", path),
	)

	return &Record{Pack: pack, SourcePath: path}, nil
}

// LoadAll loads every document the source lists and returns the records
// keyed by jurisdiction code.  The first failure aborts the entire load; two
// packs claiming the same jurisdiction are rejected as a conflict.
func (l *Loader) LoadAll(ctx context.Context) (map[string]*Record, error) {
	names, err := l.source.List(ctx)
	if err != nil {
		return nil, err
	}

	records := make(map[string]*Record, len(names))
	for _, name := range names {
		rec, err := l.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		if prev, ok := records[rec.Pack.State]; ok {
			return nil, errors.Newf(errors.ErrCodePackInvalid,
				"jurisdiction %s defined by both %s and %s",
				rec.Pack.State, prev.SourcePath, rec.SourcePath)
		}
		records[rec.Pack.State] = rec
	}
	return records, nil
}
