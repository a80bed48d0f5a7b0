package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"carousel/internal/eventbus"
)

// Watcher publishes a ConfigChangedEvent whenever the config file is written.
// The parent directory is watched because editors usually replace files
// instead of writing them in place.
type Watcher struct {
	path    string
	bus     eventbus.EventBus
	logger  *zap.Logger
	fs      *fsnotify.Watcher
	changed chan string
}

// NewWatcher starts watching the directory containing path
func NewWatcher(path string, bus eventbus.EventBus, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:    abs,
		bus:     bus,
		logger:  logger.Named("config-watcher"),
		fs:      fw,
		changed: make(chan string, 1),
	}, nil
}

// Changes delivers the path each time the file changes. Bursts collapse into one pending value.
func (w *Watcher) Changes() <-chan string {
	return w.changed
}

// Run forwards file events until ctx is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("config file changed", zap.String("op", ev.Op.String()))
			if w.bus != nil {
				w.bus.Publish(eventbus.ConfigChangedEvent{Path: w.path})
			}
			select {
			case w.changed <- w.path:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// Close stops the underlying watcher
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
