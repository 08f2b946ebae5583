package watcher

import "context"

// Watcher monitors a folder for new screenshots.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is a function that handles file events
type EventHandler func(ctx context.Context, filePath string) error

// FileFilter reports whether a created file should be handled.
type FileFilter func(path string) bool
