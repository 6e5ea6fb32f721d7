package notify

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const frameWait = 2 * time.Second

type countingRecorder struct {
	opened, closed, delivered, suppressed, keepAlives atomic.Int32
	watched                                          atomic.Int32
}

func (r *countingRecorder) SubscriptionOpened()      { r.opened.Add(1) }
func (r *countingRecorder) SubscriptionClosed()      { r.closed.Add(1) }
func (r *countingRecorder) WatchedDirectories(n int) { r.watched.Store(int32(n)) }
func (r *countingRecorder) Delivered()               { r.delivered.Add(1) }
func (r *countingRecorder) Suppressed()              { r.suppressed.Add(1) }
func (r *countingRecorder) KeepAliveSent()           { r.keepAlives.Add(1) }

// writeAtomic replaces path via rename so a watcher never observes a
// half-written file.
func writeAtomic(t *testing.T, path, content string) {
	t.Helper()
	tmp := filepath.Join(filepath.Dir(path), ".tmp-"+filepath.Base(path))
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o644))
	require.NoError(t, os.Rename(tmp, path))
}

// runSubscription drives sub in the background and collects its frames.
func runSubscription(t *testing.T, ctx context.Context, sub *Subscription) (<-chan Frame, <-chan error) {
	t.Helper()
	frames := make(chan Frame, 64)
	done := make(chan error, 1)
	go func() {
		done <- sub.Run(ctx, func(f Frame) error {
			frames <- f
			return nil
		})
	}()
	return frames, done
}

func nextFrame(t *testing.T, frames <-chan Frame) Frame {
	t.Helper()
	select {
	case f := <-frames:
		return f
	case <-time.After(frameWait):
		t.Fatal("timed out waiting for frame")
		return Frame{}
	}
}

func requireNoFrame(t *testing.T, frames <-chan Frame, wait time.Duration) {
	t.Helper()
	select {
	case f := <-frames:
		t.Fatalf("unexpected frame: %+v", f)
	case <-time.After(wait):
	}
}
