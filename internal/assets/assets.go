// Package assets loads and caches source images.
package assets

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/ripple/internal/engine/texture"
	"github.com/Faultbox/ripple/pkg/ripple"
)

// Manager resolves image paths against a set of search directories and keeps
// decoded images in memory.
type Manager struct {
	dirs  []string
	cache *Cache
	log   *zap.Logger
	mu    sync.RWMutex
}

// NewManager creates a new asset manager. A nil logger discards output.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		cache: NewCache(),
		log:   log,
	}
}

// AddDir adds a search directory.
// Directories are searched in reverse order (last added = highest priority).
func (m *Manager) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding asset dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding asset dir %s: not a directory", dir)
	}

	m.mu.Lock()
	m.dirs = append(m.dirs, dir)
	m.mu.Unlock()
	return nil
}

// Resolve returns the file path for name. Absolute paths and paths that exist
// relative to the working directory win over search directories.
func (m *Manager) Resolve(name string) (string, error) {
	if _, err := os.Stat(name); err == nil || filepath.IsAbs(name) {
		return name, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.dirs) - 1; i >= 0; i-- {
		path := filepath.Join(m.dirs[i], name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("image not found: %s", name)
}

// Image loads and decodes an image, returning the cached copy when present.
func (m *Manager) Image(name string) (image.Image, error) {
	if !texture.Supported(name) {
		return nil, fmt.Errorf("unsupported image type: %s (want one of %v)", name, texture.Extensions())
	}
	path, err := m.Resolve(name)
	if err != nil {
		return nil, err
	}
	if img, ok := m.cache.Get(path); ok {
		return img, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	img, format, err := texture.Decode(data, path)
	if err != nil {
		return nil, err
	}
	m.cache.Set(path, img)

	b := img.Bounds()
	m.log.Info("image loaded",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
	)
	return img, nil
}

// Source returns a ripple.Source that loads name through the manager.
func (m *Manager) Source(name string) ripple.Source {
	return ripple.SourceFunc(func(ctx context.Context) (image.Image, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return m.Image(name)
	})
}

// Close drops the search directories and cached images.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	hits, misses := m.cache.Stats()
	m.log.Debug("asset cache closed",
		zap.Int("images", m.cache.Len()),
		zap.Int("hits", hits),
		zap.Int("misses", misses),
	)
	m.dirs = nil
	m.cache.Clear()
}

// Cache is a simple in-memory cache for decoded images.
type Cache struct {
	data map[string]image.Image
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]image.Image),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	img, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return img, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = img
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]image.Image)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
