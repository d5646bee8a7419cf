package model

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/glview/internal/engine/gpu"
	"github.com/Faultbox/glview/internal/engine/importer"
	"github.com/Faultbox/glview/internal/engine/texture"
	"github.com/Faultbox/glview/internal/logger"
)

// LoadOptions configures Load.
type LoadOptions struct {
	Import importer.Options

	// FlipTextures flips decoded images vertically before upload.
	FlipTextures bool
	// CanonicalPaths deduplicates textures by resolved absolute path
	// instead of by the joined path string.
	CanonicalPaths bool
}

// DefaultLoadOptions triangulates, flips UVs and flips textures.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Import:       importer.DefaultOptions(),
		FlipTextures: true,
	}
}

// Model owns a flat list of meshes and the texture cache they share.
type Model struct {
	path   string
	dir    string
	dev    gpu.Device
	meshes []*Mesh
	cache  *texture.Cache
	bounds Bounds

	fallback  gpu.Texture
	destroyed bool
}

// Load imports the scene at path, builds one mesh per node mesh reference in
// pre-order and uploads everything through dev. Meshes without vertices are
// skipped. On error no Model is
// returned and anything already uploaded is released.
func Load(path string, dev gpu.Device, opts LoadOptions) (*Model, error) {
	start := time.Now()

	sc, err := importer.Import(path, opts.Import)
	if err != nil {
		return nil, err
	}

	cacheOpts := []texture.CacheOption{texture.WithFlipVertically(opts.FlipTextures)}
	if opts.CanonicalPaths {
		cacheOpts = append(cacheOpts, texture.WithCanonicalKeys())
	}

	m := &Model{
		path:   path,
		dir:    sc.Dir,
		dev:    dev,
		cache:  texture.NewCache(sc.Dir, dev, cacheOpts...),
		bounds: emptyBounds(),
	}

	for _, idx := range importer.MeshOrder(sc.Root) {
		src := sc.Meshes[idx]
		if len(src.Positions) == 0 {
			logger.Named("model").Warn("empty mesh skipped", zap.String("mesh", src.Name))
			continue
		}
		mesh := BuildMesh(src, sc.MaterialFor(src), m.cache)

		buffers, err := dev.CreateMesh(mesh.interleave(), mesh.Indices)
		if err != nil {
			m.Destroy()
			return nil, fmt.Errorf("upload mesh %q: %w", mesh.Name, err)
		}
		mesh.buffers = buffers

		mergeBounds(&m.bounds, mesh.Bounds())
		m.meshes = append(m.meshes, mesh)
	}

	hits, misses := m.cache.Stats()
	logger.Named("model").Info("model loaded",
		zap.String("path", path),
		zap.Int("meshes", len(m.meshes)),
		zap.Int("textures", m.cache.Len()),
		zap.Int("texture_hits", hits),
		zap.Int("texture_misses", misses),
		zap.Int("texture_errors", len(m.cache.Errors())),
		zap.Duration("took", time.Since(start)),
	)
	return m, nil
}

// SetFallbackTexture sets a texture Draw binds for material kinds a mesh
// has no texture of. The caller keeps ownership of t. Zero disables it.
func (m *Model) SetFallbackTexture(t gpu.Texture) {
	m.fallback = t
}

// Draw submits every mesh in order. Each mesh binds its textures to
// consecutive units starting at 0 and points the sampler uniform
// texture_<kind><n> at the unit, n counting from 1 per kind.
// The caller activates the shader.
func (m *Model) Draw(sh Shader) {
	if m.destroyed {
		return
	}

	counts := make(map[texture.Kind]int, len(texture.MaterialKinds))
	for _, mesh := range m.meshes {
		clear(counts)
		unit := 0
		for _, ref := range mesh.Textures {
			counts[ref.Kind]++
			m.bind(sh, unit, ref.Kind.Uniform(counts[ref.Kind]), ref.Handle)
			unit++
		}
		if m.fallback != 0 {
			for _, kind := range texture.MaterialKinds {
				if counts[kind] == 0 {
					m.bind(sh, unit, kind.Uniform(1), m.fallback)
					unit++
				}
			}
		}
		m.dev.DrawMesh(mesh.buffers)
	}
}

func (m *Model) bind(sh Shader, unit int, uniform string, t gpu.Texture) {
	sh.SetInt(uniform, int32(unit))
	m.dev.BindTexture(unit, t)
}

// Destroy releases mesh buffers and cached textures. Calling it again does
// nothing.
func (m *Model) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true

	for _, mesh := range m.meshes {
		if mesh.buffers.Valid() {
			m.dev.DeleteMesh(mesh.buffers)
			mesh.buffers = gpu.Buffers{}
		}
	}
	m.cache.Release()

	logger.Named("model").Debug("model destroyed", zap.String("path", m.path))
}

// Meshes returns the meshes in draw order.
func (m *Model) Meshes() []*Mesh {
	return m.meshes
}

// Bounds returns the bounding box of all meshes.
func (m *Model) Bounds() Bounds {
	return m.bounds
}

// Dir returns the directory texture paths are resolved against.
func (m *Model) Dir() string {
	return m.dir
}

// TextureCount returns the number of distinct uploaded textures.
func (m *Model) TextureCount() int {
	return m.cache.Len()
}

// TextureErrors returns the texture load failures seen during Load.
func (m *Model) TextureErrors() []error {
	return m.cache.Errors()
}
