// Package gpu defines the graphics-device contract the model pipeline talks to.
//
// The OpenGL implementation lives in the renderer package; tests use a
// counting fake so no GL context is needed.
package gpu

import "fmt"

// Texture is an opaque texture handle. Zero is never a valid handle.
type Texture uint32

// VertexStride is the number of float32 values per interleaved vertex:
// position (3), normal (3), texture coordinate (2).
const VertexStride = 8

// Buffers identifies the vertex array and buffers backing one mesh.
type Buffers struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// Valid reports whether the buffers were created.
func (b Buffers) Valid() bool {
	return b.VAO != 0
}

// Format is the upload pixel format chosen from the image channel count.
type Format int

const (
	FormatRed Format = iota + 1
	FormatRGB
	FormatRGBA
)

func (f Format) String() string {
	switch f {
	case FormatRed:
		return "RED"
	case FormatRGB:
		return "RGB"
	case FormatRGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatForChannels maps 1, 3 and 4 channels to an upload format.
func FormatForChannels(channels int) (Format, error) {
	switch channels {
	case 1:
		return FormatRed, nil
	case 3:
		return FormatRGB, nil
	case 4:
		return FormatRGBA, nil
	default:
		return 0, fmt.Errorf("unsupported channel count %d", channels)
	}
}

// Device creates, binds and releases GPU resources.
// All methods must be called on the thread that owns the GL context.
type Device interface {
	// CreateTexture uploads tightly packed 8-bit pixels and generates mipmaps.
	CreateTexture(width, height, channels int, pix []byte) (Texture, error)
	DeleteTexture(t Texture)
	// BindTexture makes t current on texture unit `unit`.
	BindTexture(unit int, t Texture)

	// CreateMesh uploads interleaved vertices (VertexStride floats each) and
	// 32-bit indices.
	CreateMesh(vertices []float32, indices []uint32) (Buffers, error)
	DeleteMesh(b Buffers)
	// DrawMesh issues one indexed triangle draw for b.
	DrawMesh(b Buffers)
}
