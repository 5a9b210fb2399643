// Package reload watches zone definition files and hands fresh
// definitions to the simulation.
package reload

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zeusync/forcezone/internal/core/observability/log"
	"github.com/zeusync/forcezone/internal/core/zone"
)

const DefaultDebounce = 100 * time.Millisecond

var ErrNoPaths = errors.New("no zone files to watch")

// Reloader accepts a full set of zone definitions.
// *systems.ZoneSystem satisfies it.
type Reloader interface {
	QueueReload(defs []zone.Definition)
}

// Watcher reloads every zone file whenever one of them changes. Parent
// directories are watched so editors that replace files on save are
// still seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	paths    []string
	tracked  map[string]struct{}
	target   Reloader
	logger   log.Log
	debounce time.Duration
}

func NewWatcher(target Reloader, logger log.Log, paths ...string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}
	if logger == nil {
		logger = log.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		tracked:  make(map[string]struct{}, len(paths)),
		target:   target,
		logger:   logger.With(log.String("component", "zone-watcher")),
		debounce: DefaultDebounce,
	}
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			return nil, err
		}
		w.paths = append(w.paths, abs)
		w.tracked[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// SetDebounce changes how long the watcher waits for writes to settle.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Run blocks until ctx is done. Load failures are logged and the previous
// definitions stay in effect.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if _, ok := w.tracked[filepath.Clean(event.Name)]; !ok {
				continue
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("zone watcher error", log.Error(err))
		case <-timer.C:
			pending = false
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	defs, err := zone.LoadFiles(ctx, w.paths...)
	if err != nil {
		w.logger.Error("zone files rejected", log.Error(err))
		return
	}
	w.logger.Info("zone files changed", log.Int("zones", len(defs)))
	w.target.QueueReload(defs)
}
