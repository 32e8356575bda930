// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// DefaultDebounce is how long the watcher waits for writes to settle before
// reloading.
const DefaultDebounce = 150 * time.Millisecond

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// Watcher reloads a config file when it changes on disk and publishes each
// valid result on Updates. Invalid edits are logged and skipped.
type Watcher struct {
	fs       afero.Fs
	path     string
	debounce time.Duration
	log      *logrus.Entry

	watcher *fsnotify.Watcher
	updates chan *Config

	mu      sync.Mutex
	pending time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	done    chan struct{}
}

// NewWatcher watches path on the OS filesystem. Config contents are read
// through fs so tests can substitute a layered filesystem.
func NewWatcher(fs afero.Fs, path string, log *logrus.Entry) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		fs:       fs,
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		log:      log.WithField("component", "config-watcher"),
		watcher:  fw,
		updates:  make(chan *Config, 1),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}, nil
}

// Updates delivers reloaded configurations. Only the newest pending one is
// kept when the consumer falls behind.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Watch starts watching. The parent directory is watched rather than the
// file itself, so editors that replace the file by rename are still seen.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.started = true
	go w.processEvents()
	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	if w.started {
		<-w.done
	}
	return err
}

func (w *Watcher) processEvents() {
	defer close(w.done)

	ticker := time.NewTicker(w.debounce / 3)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("watch error")

		case now := <-ticker.C:
			w.mu.Lock()
			ready := !w.pending.IsZero() && now.Sub(w.pending) >= w.debounce
			if ready {
				w.pending = time.Time{}
			}
			w.mu.Unlock()
			if ready {
				w.reload()
			}
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.fs, w.path)
	if err != nil {
		w.log.WithError(err).Warn("config change ignored")
		return
	}
	w.log.WithField("path", w.path).Info("config reloaded")

	// Replace any update the consumer has not taken yet.
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
}
