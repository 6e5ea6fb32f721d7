package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrWatchClosed is returned by Run when the underlying lease ends before
// the subscriber goes away.
var ErrWatchClosed = errors.New("watch closed")

// Subscription delivers the contents of one file each time it changes.
// It is driven by a single Run call.
type Subscription struct {
	ID   string
	Path string

	base    string
	events  <-chan string
	release func()
	stop    <-chan struct{}
	read    func(ctx context.Context, path string) ([]byte, error)

	clock     clockwork.Clock
	debounce  time.Duration
	keepAlive time.Duration
	recorder  Recorder
	logger    *slog.Logger

	lastDelivered time.Time
	closeOnce     sync.Once
}

// Run emits frames until ctx is done, emit fails, the watch ends or the
// notifier shuts down. The subscription is closed when Run returns.
func (s *Subscription) Run(ctx context.Context, emit func(Frame) error) error {
	defer s.Close()

	ticker := s.clock.NewTicker(s.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-s.stop:
			return ErrNotifierClosed

		case name, ok := <-s.events:
			if !ok {
				return ErrWatchClosed
			}
			if name != s.base {
				continue
			}

			frame, ok := s.deliver(ctx)
			if !ok {
				continue
			}
			if err := emit(frame); err != nil {
				return fmt.Errorf("failed to emit change: %w", err)
			}

		case <-ticker.Chan():
			if err := emit(keepAliveFrame); err != nil {
				return fmt.Errorf("failed to emit keep-alive: %w", err)
			}
			s.recorder.KeepAliveSent()
		}
	}
}

// deliver applies the debounce window and reads the file. The window is
// measured from the previous delivery, so the first change of a burst wins
// and later ones inside the window are dropped.
func (s *Subscription) deliver(ctx context.Context) (Frame, bool) {
	now := s.clock.Now()
	if !s.lastDelivered.IsZero() && now.Sub(s.lastDelivered) < s.debounce {
		s.recorder.Suppressed()
		s.logger.Debug("Change suppressed", "since_last", now.Sub(s.lastDelivered))
		return Frame{}, false
	}

	data, err := s.read(ctx, s.Path)
	if err != nil {
		s.logger.Warn("Failed to read changed file", "error", err)
		return Frame{}, false
	}

	s.lastDelivered = now
	s.recorder.Delivered()
	return Frame{Data: string(data)}, true
}

// Close releases the directory watch. It is safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.release()
		s.recorder.SubscriptionClosed()
		s.logger.Debug("Subscription closed")
	})
}
