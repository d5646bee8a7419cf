package texture

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/glview/internal/engine/gpu"
	"github.com/Faultbox/glview/internal/logger"
)

// LoadError reports a texture that could not be read, decoded or uploaded.
// It is never fatal: the slot is skipped and loading continues.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("texture %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Cache uploads each distinct texture path at most once and owns the
// resulting GPU handles. It belongs to a single model and is not safe for
// concurrent use.
type Cache struct {
	dir       string
	dev       gpu.Device
	flip      bool
	canonical bool
	readFile  func(string) ([]byte, error)

	entries map[string]gpu.Texture
	order   []string // insertion order, used by Release
	failed  map[string]*LoadError

	hits   int
	misses int
	errs   []error
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithFlipVertically flips decoded images so row 0 is the bottom row.
func WithFlipVertically(flip bool) CacheOption {
	return func(c *Cache) { c.flip = flip }
}

// WithCanonicalKeys makes differently spelled paths to the same file share
// one entry: keys are made absolute, symlinks resolved, and case folded on
// case-insensitive platforms.
func WithCanonicalKeys() CacheOption {
	return func(c *Cache) { c.canonical = true }
}

// WithReadFile replaces os.ReadFile for texture files.
func WithReadFile(fn func(string) ([]byte, error)) CacheOption {
	return func(c *Cache) { c.readFile = fn }
}

// NewCache creates a cache resolving relative texture paths against dir.
func NewCache(dir string, dev gpu.Device, opts ...CacheOption) *Cache {
	c := &Cache{
		dir:      dir,
		dev:      dev,
		readFile: os.ReadFile,
		entries:  make(map[string]gpu.Texture),
		failed:   make(map[string]*LoadError),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve returns one Ref per loadable slot of the given kind, in slot order.
// Slots that fail to load are logged and left out.
func (c *Cache) Resolve(src Source, kind Kind) []Ref {
	if src == nil {
		return nil
	}

	var refs []Ref
	for _, slot := range src.Slots(kind) {
		key := c.Key(slot)
		if h, ok := c.entries[key]; ok {
			c.hits++
			refs = append(refs, Ref{Handle: h, Kind: kind, Path: key})
			continue
		}
		if _, ok := c.failed[key]; ok {
			// Already reported once.
			continue
		}

		c.misses++
		h, err := c.load(key, slot)
		if err != nil {
			lerr := &LoadError{Path: key, Err: err}
			c.failed[key] = lerr
			c.errs = append(c.errs, lerr)
			logger.Named("texture").Warn("texture skipped",
				zap.String("path", key),
				zap.Stringer("kind", kind),
				zap.Error(err),
			)
			continue
		}

		c.entries[key] = h
		c.order = append(c.order, key)
		refs = append(refs, Ref{Handle: h, Kind: kind, Path: key})
	}
	return refs
}

// Key returns the lookup key of a slot.
func (c *Cache) Key(slot Slot) string {
	if slot.Embedded() {
		return slot.Path
	}
	p := filepath.FromSlash(slot.Path)
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.dir, p)
	}
	if c.canonical {
		p = canonicalPath(p)
	}
	return p
}

func (c *Cache) load(key string, slot Slot) (gpu.Texture, error) {
	data := slot.Data
	if data == nil {
		var err error
		data, err = c.readFile(key)
		if err != nil {
			return 0, err
		}
	}

	px, err := Decode(key, data)
	if err != nil {
		return 0, fmt.Errorf("decode: %w", err)
	}
	if c.flip {
		px.FlipVertical()
	}

	h, err := c.dev.CreateTexture(px.Width, px.Height, px.Channels, px.Data)
	if err != nil {
		return 0, fmt.Errorf("upload: %w", err)
	}

	logger.Named("texture").Debug("texture uploaded",
		zap.String("path", key),
		zap.Int("width", px.Width),
		zap.Int("height", px.Height),
		zap.Int("channels", px.Channels),
	)
	return h, nil
}

// Len returns the number of uploaded textures.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Stats returns cache hits and misses since creation.
func (c *Cache) Stats() (hits, misses int) {
	return c.hits, c.misses
}

// Errors returns every LoadError reported so far.
func (c *Cache) Errors() []error {
	return c.errs
}

// Release deletes every uploaded texture exactly once and empties the cache.
func (c *Cache) Release() {
	for _, key := range c.order {
		c.dev.DeleteTexture(c.entries[key])
	}
	c.entries = make(map[string]gpu.Texture)
	c.failed = make(map[string]*LoadError)
	c.order = nil
}

// canonicalPath makes p absolute, resolves symlinks when the file exists,
// and folds case where the file system usually ignores it.
func canonicalPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		p = strings.ToLower(p)
	}
	return p
}
