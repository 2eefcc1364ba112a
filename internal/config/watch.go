package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchDebounce coalesces the event bursts editors emit on save.
const watchDebounce = 200 * time.Millisecond

// Watcher reloads the config file whenever it changes on disk. Reloaded
// configs keep the usual priority order, so flag overrides survive a reload.
type Watcher struct {
	path string
	fw   *fsnotify.Watcher
	ch   chan *Config
	done chan struct{}
	log  *zap.Logger
}

// Watch starts watching path for changes. The parent directory is watched
// rather than the file itself so that editors which replace the file on
// save are still seen.
func Watch(path string, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path: abs,
		fw:   fw,
		ch:   make(chan *Config, 1),
		done: make(chan struct{}),
		log:  log,
	}
	go w.loop()
	return w, nil
}

// Changes delivers each successfully reloaded config. Only the most recent
// unconsumed config is kept.
func (w *Watcher) Changes() <-chan *Config {
	return w.ch
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) loop() {
	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(watchDebounce)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("Config watcher error", zap.Error(err))

		case <-debounce.C:
			w.reload()

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg := Default()
	if err := loadFromFile(cfg, w.path); err != nil {
		w.log.Warn("Config reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		w.log.Warn("Reloaded config rejected", zap.String("path", w.path), zap.Error(err))
		return
	}

	// Replace any unconsumed config so the reader always gets the latest.
	select {
	case <-w.ch:
	default:
	}
	w.ch <- cfg
	w.log.Info("Config reloaded", zap.String("path", w.path))
}
