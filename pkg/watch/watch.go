// Package watch reports changes to a single file, coalescing bursts of
// filesystem activity such as an editor's write-rename-chmod sequence.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultDelay is how long a burst of events is collected before one change
// is reported.
const DefaultDelay = 100 * time.Millisecond

// File streams one notification per burst of changes to path until ctx is
// cancelled. The parent directory is watched so files replaced by rename are
// still seen. The channel is closed once ctx is done or the watcher fails.
func File(ctx context.Context, path string, delay time.Duration) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch: %s: %w", filepath.Dir(abs), err)
	}

	changes := make(chan struct{}, 1)
	send := func() {
		select {
		case changes <- struct{}{}:
		default:
			// one pending notification is enough; the consumer re-reads the file
		}
	}

	go func() {
		defer close(changes)
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Warn().Err(err).Msg("[WATCH] close")
			}
		}()

		t := newThrottle(delay)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Debug().Err(err).Msg("[WATCH] watcher error")
				t.Enqueue(send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != abs {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				t.Enqueue(send)
			}
		}
	}()

	return changes, nil
}

// throttle fires send once per delay window no matter how many times it is
// enqueued.
type throttle struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

func newThrottle(delay time.Duration) *throttle {
	return &throttle{delay: delay}
}

func (t *throttle) Enqueue(send func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		return
	}
	t.timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		t.timer = nil
		t.mu.Unlock()
		send()
	})
}

func (t *throttle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
