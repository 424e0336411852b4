// Package watcher reports debounced batches of changed project files.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/mvp-joe/codelens/internal/logging"
)

// DefaultDebounce is the quiet period before a batch is delivered.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a directory tree and calls back with the files that
// changed once events stop arriving for the debounce period.
type Watcher struct {
	fs        *fsnotify.Watcher
	root      string
	debounce  time.Duration
	ignoreDir func(name string) bool
	eligible  func(name string) bool
	logger    logrus.FieldLogger

	callback func(files []string)
	cancel   context.CancelFunc
	pending  map[string]bool // guarded by mu
	mu       sync.Mutex
	timer    *time.Timer // guarded by timerMu
	timerMu  sync.Mutex
	stopOnce sync.Once
	doneCh   chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithIgnoreDir prunes directories whose base name matches.
func WithIgnoreDir(fn func(name string) bool) Option {
	return func(w *Watcher) { w.ignoreDir = fn }
}

// WithFileFilter limits reported files to those whose base name matches.
func WithFileFilter(fn func(name string) bool) Option {
	return func(w *Watcher) { w.eligible = fn }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates a watcher on root and every non-ignored directory below it.
func New(root string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		fs:        fsw,
		root:      root,
		debounce:  DefaultDebounce,
		ignoreDir: func(string) bool { return false },
		eligible:  func(string) bool { return true },
		logger:    logging.Discard(),
		pending:   make(map[string]bool),
		doneCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if _, err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Start begins delivering batches to callback. Batches are sorted and
// delivered one at a time from the watch goroutine.
func (w *Watcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return fmt.Errorf("watcher callback is nil")
	}
	w.callback = callback

	ctx, w.cancel = context.WithCancel(ctx)
	go w.watch(ctx)
	return nil
}

// Stop ends watching and waits for the watch goroutine. It is safe to call
// more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		} else {
			close(w.doneCh)
		}
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if w.ignoreDir(filepath.Base(event.Name)) {
						continue
					}
					files, err := w.addTree(event.Name)
					if err != nil {
						w.logger.WithError(err).WithField("dir", event.Name).Warn("failed to watch new directory")
					}
					// A directory moved or checked out into place arrives
					// with its files already present.
					if len(files) > 0 {
						w.mu.Lock()
						for _, f := range files {
							w.pending[f] = true
						}
						w.mu.Unlock()
						w.resetTimer(fire)
					}
					continue
				}
			}

			if !w.relevant(event) {
				continue
			}

			w.mu.Lock()
			w.pending[event.Name] = true
			w.mu.Unlock()
			w.resetTimer(fire)

		case <-fire:
			w.flush()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("file watcher error")
		}
	}
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	files := make([]string, 0, len(w.pending))
	for f := range w.pending {
		files = append(files, f)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	sort.Strings(files)
	w.callback(files)
}

func (w *Watcher) resetTimer(fire chan struct{}) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// relevant keeps writes, creates, removes and renames of eligible files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return w.eligible(filepath.Base(event.Name))
}

// addTree adds dir and its non-ignored subdirectories and returns the
// eligible files already inside them. Only a failure on dir itself is
// returned as an error.
func (w *Watcher) addTree(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			w.logger.WithError(err).WithField("path", path).Warn("cannot watch path")
			return nil
		}
		if !d.IsDir() {
			if w.eligible(d.Name()) {
				files = append(files, path)
			}
			return nil
		}
		if path != dir && w.ignoreDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			w.logger.WithError(err).WithField("dir", path).Warn("failed to watch directory")
		}
		return nil
	})
	return files, err
}
