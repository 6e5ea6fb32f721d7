// Package notify streams the contents of a file to subscribers whenever it
// changes on disk.
//
// Watches are placed on the file's parent directory, because editors often
// replace files by rename rather than writing in place. A Registry shares one
// fsnotify watcher per directory between all subscriptions and closes it when
// the last lease is released. Each Subscription filters events to its own file,
// suppresses deliveries closer than the debounce window to the previous one,
// and emits a keep-alive frame on a fixed interval.
package notify
