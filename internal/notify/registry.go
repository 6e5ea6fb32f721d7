package notify

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// leaseBuffer bounds how many undelivered file names a lease holds before
// further names are dropped for that lease.
const leaseBuffer = 16

// Registry hands out reference-counted leases on directory watches.
type Registry struct {
	mu       sync.Mutex
	dirs     map[string]*dirWatch
	recorder Recorder
}

type dirWatch struct {
	dir     string
	watcher *fsnotify.Watcher
	refs    int
	done    chan struct{}

	mu     sync.Mutex
	leases map[*Lease]struct{}
}

// Lease is one holder's interest in a directory watch. Names of changed
// entries in the directory arrive on Events until Release is called.
type Lease struct {
	registry *Registry
	watch    *dirWatch
	events   chan string
	once     sync.Once
}

func NewRegistry(recorder Recorder) *Registry {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Registry{
		dirs:     make(map[string]*dirWatch),
		recorder: recorder,
	}
}

// Acquire returns a lease on dir, starting a watcher if none is active.
func (r *Registry) Acquire(dir string) (*Lease, error) {
	dir = filepath.Clean(dir)

	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.dirs[dir]
	if !ok {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("failed to create watcher: %w", err)
		}
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}

		w = &dirWatch{
			dir:     dir,
			watcher: watcher,
			done:    make(chan struct{}),
			leases:  make(map[*Lease]struct{}),
		}
		r.dirs[dir] = w
		go w.run()

		r.recorder.WatchedDirectories(len(r.dirs))
		slog.Debug("Directory watch started", "dir", dir)
	}

	lease := &Lease{
		registry: r,
		watch:    w,
		events:   make(chan string, leaseBuffer),
	}

	w.mu.Lock()
	w.leases[lease] = struct{}{}
	w.mu.Unlock()
	w.refs++

	return lease, nil
}

// Refs reports how many leases are held on dir.
func (r *Registry) Refs(dir string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.dirs[filepath.Clean(dir)]; ok {
		return w.refs
	}
	return 0
}

// Len reports how many directories are being watched.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dirs)
}

func (r *Registry) release(l *Lease) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := l.watch
	w.mu.Lock()
	delete(w.leases, l)
	close(l.events)
	w.mu.Unlock()

	w.refs--
	if w.refs > 0 {
		return
	}

	delete(r.dirs, w.dir)
	if err := w.watcher.Close(); err != nil {
		slog.Warn("Failed to close directory watch", "dir", w.dir, "error", err)
	}
	<-w.done

	r.recorder.WatchedDirectories(len(r.dirs))
	slog.Debug("Directory watch stopped", "dir", w.dir)
}

func (l *Lease) Events() <-chan string {
	return l.events
}

// Dir is the watched directory.
func (l *Lease) Dir() string {
	return l.watch.dir
}

// Release gives up the lease. It is safe to call more than once; the watcher
// is closed when the last lease on its directory is released.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.registry.release(l)
	})
}

func (w *dirWatch) run() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			w.dispatch(filepath.Base(event.Name))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Directory watch error", "dir", w.dir, "error", err)
		}
	}
}

func (w *dirWatch) dispatch(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for l := range w.leases {
		select {
		case l.events <- name:
		default:
			slog.Debug("Dropping change for slow subscriber", "dir", w.dir, "name", name)
		}
	}
}
