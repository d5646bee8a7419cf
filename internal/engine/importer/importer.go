// Package importer reads 3D scene files into a small library-neutral scene
// description: a node tree referencing flat mesh and material tables.
//
// Formats are provided by Readers registered per file extension; glTF 2.0
// (.gltf, .glb) is built in.
package importer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/glview/internal/engine/texture"
	"github.com/Faultbox/glview/internal/logger"
)

// Scene is an imported scene file.
type Scene struct {
	Path       string
	Dir        string // directory of Path; texture paths are relative to it
	Root       *Node
	Meshes     []*SourceMesh
	Materials  []*SourceMaterial
	Incomplete bool
}

// Node is one node of the scene tree. Meshes holds indices into Scene.Meshes.
type Node struct {
	Name     string
	Meshes   []int
	Children []*Node
}

// SourceMesh is one mesh as stored in the scene file.
type SourceMesh struct {
	Name      string
	Positions [][3]float32
	Normals   [][3]float32 // nil when the file has none
	TexCoords [][2]float32 // UV channel 0; nil when absent
	Faces     [][]uint32
	Material  int // index into Scene.Materials, -1 for none
}

// SourceMaterial lists a material's texture slots by kind.
type SourceMaterial struct {
	Name     string
	Textures map[texture.Kind][]texture.Slot
}

// Slots implements texture.Source.
func (m *SourceMaterial) Slots(kind texture.Kind) []texture.Slot {
	if m == nil {
		return nil
	}
	return m.Textures[kind]
}

// AddSlot appends a texture slot of the given kind.
func (m *SourceMaterial) AddSlot(kind texture.Kind, slot texture.Slot) {
	if m.Textures == nil {
		m.Textures = make(map[texture.Kind][]texture.Slot)
	}
	m.Textures[kind] = append(m.Textures[kind], slot)
}

// MaterialFor returns the material of mesh m, or nil when it has none or
// the index is out of range.
func (s *Scene) MaterialFor(m *SourceMesh) *SourceMaterial {
	if m.Material < 0 || m.Material >= len(s.Materials) {
		return nil
	}
	return s.Materials[m.Material]
}

// Options are the post-processing steps requested from a Reader.
type Options struct {
	// Triangulate converts strips and fans into independent triangles.
	Triangulate bool
	// FlipUVs maps v to 1-v.
	FlipUVs bool
}

// DefaultOptions enables triangulation and UV flipping.
func DefaultOptions() Options {
	return Options{Triangulate: true, FlipUVs: true}
}

// ImportError reports a scene that could not be imported. No scene is
// returned alongside it.
type ImportError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("import %s: %s", e.Path, e.Reason)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Reader parses one file format.
type Reader func(path string, opts Options) (*Scene, error)

var readers = map[string]Reader{
	".gltf": readGLTF,
	".glb":  readGLTF,
}

// Register adds or replaces the Reader for a file extension such as ".obj".
func Register(ext string, r Reader) {
	readers[strings.ToLower(ext)] = r
}

// Import reads and validates the scene at path.
func Import(path string, opts Options) (*Scene, error) {
	start := time.Now()

	ext := strings.ToLower(filepath.Ext(path))
	read, ok := readers[ext]
	if !ok {
		return nil, &ImportError{Path: path, Reason: fmt.Sprintf("unsupported format %q", ext)}
	}

	sc, err := read(path, opts)
	if err != nil {
		return nil, &ImportError{Path: path, Reason: "read failed", Err: err}
	}
	if err := validate(sc); err != nil {
		return nil, &ImportError{Path: path, Reason: err.Error()}
	}

	sc.Path = path
	sc.Dir = filepath.Dir(path)

	logger.Named("importer").Debug("scene imported",
		zap.String("path", path),
		zap.Int("meshes", len(sc.Meshes)),
		zap.Int("materials", len(sc.Materials)),
		zap.Duration("took", time.Since(start)),
	)
	return sc, nil
}

func validate(sc *Scene) error {
	if sc == nil {
		return fmt.Errorf("no scene")
	}
	if sc.Incomplete {
		return fmt.Errorf("scene is incomplete")
	}
	if sc.Root == nil {
		return fmt.Errorf("scene has no root node")
	}
	for i, m := range sc.Meshes {
		if m == nil {
			return fmt.Errorf("mesh %d is nil", i)
		}
		for _, face := range m.Faces {
			for _, v := range face {
				if int(v) >= len(m.Positions) {
					return fmt.Errorf("mesh %q: index %d out of range for %d vertices", m.Name, v, len(m.Positions))
				}
			}
		}
	}
	return Walk(sc.Root, func(n *Node) error {
		for _, mi := range n.Meshes {
			if mi < 0 || mi >= len(sc.Meshes) {
				return fmt.Errorf("node %q references missing mesh %d", n.Name, mi)
			}
		}
		return nil
	})
}
