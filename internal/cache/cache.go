// Package cache wraps the catalog, bracket policy tables, combo list and
// curated theme pool with a short TTL and mtime-change invalidation
// (spec.md §5: "cached with a short TTL (60s) and rebuilt on underlying
// file mtime change"), generalizing the teacher's
// internal/mtga/cards/refresh.StalenessTracker (age-threshold staleness)
// and scheduler (background refresh loop) into a single explicit struct
// with a refresh() method, per spec.md §9 Design Notes.
package cache

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultTTL is the staleness threshold spec.md §5 names.
const DefaultTTL = 60 * time.Second

// Loader builds a fresh value of T from the file at path.
type Loader[T any] func(path string) (T, error)

// Cache holds one file-backed value, refreshed when its TTL elapses or the
// underlying file's mtime changes, whichever comes first.
type Cache[T any] struct {
	path   string
	ttl    time.Duration
	load   Loader[T]
	logger *slog.Logger

	mu       sync.Mutex
	value    T
	loaded   bool
	loadedAt time.Time
	mtime    time.Time

	watcher *fsnotify.Watcher
	dirty   atomicBool
}

// New builds a cache for path, loaded lazily on first Get.
func New[T any](path string, load Loader[T], logger *slog.Logger) *Cache[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache[T]{path: path, ttl: DefaultTTL, load: load, logger: logger}
}

// WithTTL overrides the default 60s TTL.
func (c *Cache[T]) WithTTL(ttl time.Duration) *Cache[T] {
	c.ttl = ttl
	return c
}

// Watch starts an fsnotify watcher on the cache's file, marking the cache
// dirty on any write so the next Get forces a reload regardless of TTL.
// Callers that don't need sub-TTL responsiveness can skip this.
func (c *Cache[T]) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(c.path); err != nil {
		w.Close()
		return err
	}
	c.watcher = w

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					c.dirty.set(true)
					c.logger.Debug("cache invalidated by fs event", "path", c.path, "op", ev.Op.String())
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}

// Close stops the fsnotify watcher, if any.
func (c *Cache[T]) Close() error {
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

// Get returns the cached value, reloading it if the TTL has elapsed, the
// file's mtime has advanced, or a watched fs event marked it dirty.
func (c *Cache[T]) Get() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && !c.stale() {
		return c.value, nil
	}
	return c.refresh()
}

// Invalidate forces the next Get to reload regardless of TTL or mtime.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
}

func (c *Cache[T]) stale() bool {
	if c.dirty.get() {
		return true
	}
	if time.Since(c.loadedAt) >= c.ttl {
		return true
	}
	if info, err := os.Stat(c.path); err == nil {
		if info.ModTime().After(c.mtime) {
			return true
		}
	}
	return false
}

func (c *Cache[T]) refresh() (T, error) {
	v, err := c.load(c.path)
	if err != nil {
		var zero T
		return zero, err
	}

	c.value = v
	c.loaded = true
	c.loadedAt = time.Now()
	c.dirty.set(false)
	if info, statErr := os.Stat(c.path); statErr == nil {
		c.mtime = info.ModTime()
	}
	c.logger.Debug("cache refreshed", "path", c.path)
	return v, nil
}

// atomicBool is a dirty flag set from the fsnotify goroutine and read by
// Get/refresh: a plain bool guarded by its own mutex, which avoids pulling
// in sync/atomic for one flag.
type atomicBool struct {
	mu sync.Mutex
	v  bool
}

func (b *atomicBool) set(v bool) {
	b.mu.Lock()
	b.v = v
	b.mu.Unlock()
}

func (b *atomicBool) get() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.v
}
