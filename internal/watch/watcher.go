// Package watch re-runs a verification whenever the watched local file
// changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const debounceDelay = 500 * time.Millisecond

// Func is invoked for each (re)verification of the watched file.
type Func func(ctx context.Context) error

// Watcher follows one file and triggers a verification after each write,
// debounced so editors that write in bursts trigger a single run.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	run     Func
}

func New(path string, run Func) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		watcher: watcher,
		path:    absPath,
		run:     run,
	}, nil
}

// Watch blocks until ctx is cancelled, re-running the verification after
// each write to the file. The parent directory is watched because editors
// often replace the file instead of writing it in place.
func (w *Watcher) Watch(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to add watch path: %w", err)
	}

	log.Info().Str("path", w.path).Msg("watching file")

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				log.Debug().Str("op", event.Op.String()).Msg("file changed")
				pending = time.After(debounceDelay)
			}

		case <-pending:
			pending = nil
			if err := w.run(ctx); err != nil {
				log.Error().Err(err).Msg("verification failed")
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
