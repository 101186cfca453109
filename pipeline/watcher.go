package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/semdoc/identity"
)

const (
	// eventChannelBuffer is the size of the watch event channel.
	eventChannelBuffer = 500
)

// WatchConfig configures document file watching.
type WatchConfig struct {
	// DebounceDelay is how long to wait for more changes before
	// processing.
	DebounceDelay time.Duration

	// FileExtensions lists file extensions to watch (e.g. [".md", ".txt"]).
	FileExtensions []string

	// ExcludeDirs lists directory names to skip.
	ExcludeDirs []string
}

// DefaultWatchConfig returns default watch configuration.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		DebounceDelay:  500 * time.Millisecond,
		FileExtensions: []string{".md", ".txt"},
		ExcludeDirs:    []string{".git", "node_modules", "vendor"},
	}
}

func (c WatchConfig) debounce() time.Duration {
	if c.DebounceDelay <= 0 {
		return 500 * time.Millisecond
	}
	return c.DebounceDelay
}

// WatchEvent is one document file to (re)process.
type WatchEvent struct {
	// Path is the file path relative to the watched directory.
	Path string

	// AbsPath is the absolute file path.
	AbsPath string
}

// Watcher watches a directory tree for document changes and emits
// events after debouncing. Content hashes suppress events for writes
// that did not change the text, so editors that rewrite files on save
// do not trigger reprocessing.
type Watcher struct {
	config  WatchConfig
	dir     string
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	extensions map[string]bool
	excludes   map[string]bool

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.RWMutex
	hashes map[string]string

	events chan WatchEvent

	droppedEvents atomic.Int64
}

// NewWatcher creates a watcher over dir.
func NewWatcher(config WatchConfig, dir string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	extensions := make(map[string]bool)
	for _, ext := range config.FileExtensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[strings.ToLower(ext)] = true
	}
	if len(extensions) == 0 {
		extensions[".md"] = true
		extensions[".txt"] = true
	}

	excludes := make(map[string]bool)
	for _, d := range config.ExcludeDirs {
		excludes[d] = true
	}
	if len(excludes) == 0 {
		excludes[".git"] = true
		excludes["node_modules"] = true
		excludes["vendor"] = true
	}

	return &Watcher{
		config:     config,
		dir:        dir,
		watcher:    fsw,
		logger:     logger,
		extensions: extensions,
		excludes:   excludes,
		pending:    make(map[string]fsnotify.Op),
		hashes:     make(map[string]string),
		events:     make(chan WatchEvent, eventChannelBuffer),
	}, nil
}

// Events returns the channel of watch events. It closes when the
// watcher stops.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start begins watching. The directory is created when absent.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	if err := w.addWatchesRecursive(w.dir); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("document watcher started",
		"dir", w.dir,
		"debounce", w.config.debounce(),
		"extensions", w.config.FileExtensions)
	return nil
}

// Stop stops the watcher. The events channel closes once the event
// goroutine drains.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// DroppedEvents returns the number of events dropped due to channel
// overflow.
func (w *Watcher) DroppedEvents() int64 {
	return w.droppedEvents.Load()
}

// addWatchesRecursive adds watches to all non-excluded directories.
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if w.excludes[base] || (strings.HasPrefix(base, ".") && path != root) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// processEvents handles fsnotify events with debouncing.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.config.debounce())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent records a single fsnotify event for the next flush.
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	ext := strings.ToLower(filepath.Ext(path))
	if !w.extensions[ext] {
		// New directories need their own watch.
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.handleNewDirectory(path)
			}
		}
		return
	}

	relPath, _ := filepath.Rel(w.dir, path)
	for excludeDir := range w.excludes {
		if strings.Contains(relPath, excludeDir+string(filepath.Separator)) {
			return
		}
	}

	w.pendingMu.Lock()
	w.pending[path] = event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("document change detected", "path", relPath, "op", event.Op.String())
}

// handleNewDirectory adds a watch to a newly created directory.
func (w *Watcher) handleNewDirectory(path string) {
	base := filepath.Base(path)
	if w.excludes[base] || strings.HasPrefix(base, ".") {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("failed to watch new directory", "path", path, "error", err)
	}
}

// flushPending turns accumulated changes into events. Deletions only
// clear the hash cache; the graph keeps what it already learned.
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		relPath, _ := filepath.Rel(w.dir, path)

		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			w.hashMu.Lock()
			delete(w.hashes, relPath)
			w.hashMu.Unlock()
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			w.logger.Warn("failed to read changed file", "path", relPath, "error", err)
			continue
		}

		newHash := identity.DocumentID(string(content), "")
		w.hashMu.RLock()
		oldHash, hadHash := w.hashes[relPath]
		w.hashMu.RUnlock()
		if hadHash && oldHash == newHash {
			continue
		}
		w.hashMu.Lock()
		w.hashes[relPath] = newHash
		w.hashMu.Unlock()

		w.sendEvent(WatchEvent{Path: relPath, AbsPath: path})
	}
}

// sendEvent sends without blocking; overflow drops the event.
func (w *Watcher) sendEvent(event WatchEvent) {
	select {
	case w.events <- event:
	default:
		dropped := w.droppedEvents.Add(1)
		w.logger.Warn("event channel full, dropping event",
			"path", event.Path,
			"total_dropped", dropped)
	}
}

// Watch runs the watcher over dir and processes every emitted document
// until the context ends.
func (p *Processor) Watch(ctx context.Context, dir string, config WatchConfig) error {
	watcher, err := NewWatcher(config, dir, p.logger)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			if _, err := p.ProcessFile(ctx, event.AbsPath); err != nil {
				p.logger.Error("processing watched file failed",
					"path", event.Path,
					"error", err)
			}
		}
	}
}
