package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/chat-transcript/internal/logger"
)

// Options tune the watcher. Zero values pick defaults.
type Options struct {
	MaxConcurrent int
	// SettleDelay waits for the writer to finish before handling a file.
	SettleDelay time.Duration
	Filter      FileFilter
}

// New creates a new Watcher instance with concurrency control
func New(inputDir string, handler EventHandler, log logger.Logger, opt Options) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// Default to 2 concurrent if not specified
	if opt.MaxConcurrent <= 0 {
		opt.MaxConcurrent = 2
	}
	if opt.SettleDelay <= 0 {
		opt.SettleDelay = 500 * time.Millisecond
	}
	if opt.Filter == nil {
		opt.Filter = func(string) bool { return true }
	}

	return &implWatcher{
		inputDir:      inputDir,
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: opt.MaxConcurrent,
		settleDelay:   opt.SettleDelay,
		filter:        opt.Filter,
		semaphore:     make(chan struct{}, opt.MaxConcurrent),
	}, nil
}
