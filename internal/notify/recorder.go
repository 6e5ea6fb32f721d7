package notify

// Recorder receives notifier lifecycle counts, typically for metrics.
type Recorder interface {
	SubscriptionOpened()
	SubscriptionClosed()
	WatchedDirectories(n int)
	Delivered()
	Suppressed()
	KeepAliveSent()
}

type nopRecorder struct{}

func (nopRecorder) SubscriptionOpened()    {}
func (nopRecorder) SubscriptionClosed()    {}
func (nopRecorder) WatchedDirectories(int) {}
func (nopRecorder) Delivered()             {}
func (nopRecorder) Suppressed()            {}
func (nopRecorder) KeepAliveSent()         {}
