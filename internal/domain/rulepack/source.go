package rulepack

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bginsber/docketcalc/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Rules-source location resolver
// ─────────────────────────────────────────────────────────────────────────────

// Source supplies raw rule-pack documents by name.  The default
// implementation reads a filesystem directory; an object-storage
// implementation lives in internal/infrastructure/storage/minio.
type Source interface {
	// Read returns the raw bytes of the named pack document together with
	// the resolved location string used in error messages and audit output.
	// A missing document must be reported as ErrCodePackNotFound.
	Read(ctx context.Context, name string) ([]byte, string, error)

	// List returns the names of every pack document the source holds,
	// sorted, so engine construction order is deterministic.
	List(ctx context.Context) ([]string, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// Filesystem implementation
// ─────────────────────────────────────────────────────────────────────────────

// FSSource resolves pack names against a single directory.
type FSSource struct {
	dir string
}

// NewFSSource returns a Source rooted at dir.
func NewFSSource(dir string) *FSSource {
	return &FSSource{dir: dir}
}

// Dir returns the root directory this source reads from.
func (s *FSSource) Dir() string { return s.dir }

// Read implements Source.
func (s *FSSource) Read(_ context.Context, name string) ([]byte, string, error) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, path, errors.New(errors.ErrCodePackNotFound, "rule pack source not found").
				WithDetail("path=" + path)
		}
		return nil, path, errors.Wrap(err, errors.ErrCodePackNotFound, "rule pack source unreadable").
			WithDetail("path=" + path)
	}
	return data, path, nil
}

// List implements Source.  Only .yaml, .yml, and .json entries are returned;
// anything else in the directory is ignored.
func (s *FSSource) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePackNotFound, "rule pack directory unreadable").
			WithDetail("path=" + s.dir)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
