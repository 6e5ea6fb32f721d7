package notify

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/smaas/internal/platform/logging"
	"github.com/pscheid92/smaas/internal/platform/retry"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultDebounce  = 300 * time.Millisecond
	DefaultKeepAlive = 5 * time.Second
)

// ErrNotifierClosed is returned by Subscribe after Shutdown, and by Run for
// subscriptions ended by Shutdown.
var ErrNotifierClosed = errors.New("notifier closed")

// Notifier creates subscriptions backed by a shared Registry.
type Notifier struct {
	registry  *Registry
	clock     clockwork.Clock
	debounce  time.Duration
	keepAlive time.Duration
	recorder  Recorder
	reads     singleflight.Group

	mu     sync.Mutex
	closed bool
	stop   chan struct{}
	active sync.WaitGroup
}

type Option func(*Notifier)

func WithClock(clock clockwork.Clock) Option {
	return func(n *Notifier) { n.clock = clock }
}

func WithDebounce(d time.Duration) Option {
	return func(n *Notifier) { n.debounce = d }
}

func WithKeepAlive(d time.Duration) Option {
	return func(n *Notifier) { n.keepAlive = d }
}

func WithRecorder(r Recorder) Option {
	return func(n *Notifier) {
		if r != nil {
			n.recorder = r
		}
	}
}

func NewNotifier(registry *Registry, opts ...Option) *Notifier {
	n := &Notifier{
		registry:  registry,
		clock:     clockwork.NewRealClock(),
		debounce:  DefaultDebounce,
		keepAlive: DefaultKeepAlive,
		recorder:  nopRecorder{},
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Subscribe leases a watch on the parent directory of path. Only changes
// made after Subscribe returns are delivered. Callers must Run or Close the
// returned subscription.
func (n *Notifier) Subscribe(path string) (*Subscription, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil, ErrNotifierClosed
	}
	n.active.Add(1)
	n.mu.Unlock()

	lease, err := n.registry.Acquire(filepath.Dir(abs))
	if err != nil {
		n.active.Done()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", abs, err)
	}

	release := func() {
		lease.Release()
		n.active.Done()
	}
	return n.newSubscription(abs, lease.Events(), release), nil
}

// Shutdown ends every running subscription and refuses new ones. It returns
// once all subscriptions have released their watches, or with ctx's error if
// that takes longer.
func (n *Notifier) Shutdown(ctx context.Context) error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.stop)
	}
	n.mu.Unlock()

	released := make(chan struct{})
	go func() {
		n.active.Wait()
		close(released)
	}()

	select {
	case <-released:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("subscriptions still open: %w", ctx.Err())
	}
}

func (n *Notifier) newSubscription(path string, events <-chan string, release func()) *Subscription {
	id := uuid.NewString()
	sub := &Subscription{
		ID:        id,
		Path:      path,
		base:      filepath.Base(path),
		events:    events,
		release:   release,
		stop:      n.stop,
		read:      n.readFile,
		clock:     n.clock,
		debounce:  n.debounce,
		keepAlive: n.keepAlive,
		recorder:  n.recorder,
		logger:    logging.WithSubscription(id, path),
	}

	n.recorder.SubscriptionOpened()
	sub.logger.Debug("Subscription opened")
	return sub
}

// readPolicy covers editors that save by deleting and recreating the file,
// which leaves a short window where it does not exist.
var readPolicy = retry.Policy{
	MaxAttempts:    3,
	InitialBackoff: 20 * time.Millisecond,
}

func classifyRead(err error) retry.Action {
	if errors.Is(err, fs.ErrNotExist) {
		return retry.Retry
	}
	return retry.Stop
}

// readFile collapses concurrent reads of the same file, so one change fanned
// out to many subscribers costs a single read.
func (n *Notifier) readFile(ctx context.Context, path string) ([]byte, error) {
	return retry.Do(ctx, readPolicy, classifyRead, func() ([]byte, error) {
		v, err, _ := n.reads.Do(path, func() (any, error) {
			return os.ReadFile(path)
		})
		if err != nil {
			return nil, err
		}
		return v.([]byte), nil
	})
}
