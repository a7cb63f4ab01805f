package rulepack

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
	"github.com/bginsber/docketcalc/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Rule-pack directory change notification
// ─────────────────────────────────────────────────────────────────────────────

// Watcher monitors a rule-pack directory and invokes a callback when any pack
// document is created, modified, or removed.  Loaded packs are never mutated
// in place: the callback is expected to run a full fresh load and atomically
// swap in a new engine, so readers always see either the old complete state
// or the new complete state.
//
// Events are debounced: editors commonly emit several write events per save,
// and a rename-into-place emits a create/rename pair.
type Watcher struct {
	fs       *fsnotify.Watcher
	logger   logging.Logger
	debounce time.Duration
	done     chan struct{}
}

// NewWatcher starts watching dir.  onChange runs on the watcher goroutine;
// it must not block for long.
func NewWatcher(dir string, debounce time.Duration, onChange func(), log logging.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create fsnotify watcher")
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to watch rule pack directory").
			WithDetail("path=" + dir)
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	w := &Watcher{
		fs:       fs,
		logger:   log.Named("rulepack.watch"),
		debounce: debounce,
		done:     make(chan struct{}),
	}
	go w.run(onChange)
	return w, nil
}

// Close stops the watcher.  It is safe to call once.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) run(onChange func()) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !isPackDocument(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("rule pack change observed",
				logging.String("path", ev.Name),
				logging.String("op", ev.Op.String()),
			)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			w.logger.Info("rule pack directory changed; triggering reload")
			onChange()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("rule pack watcher error", logging.Err(err))
		}
	}
}

func isPackDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
