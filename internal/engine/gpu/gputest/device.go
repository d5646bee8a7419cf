// Package gputest provides an in-memory gpu.Device that records every call.
package gputest

import (
	"fmt"

	"github.com/Faultbox/glview/internal/engine/gpu"
)

// Upload records one CreateTexture call.
type Upload struct {
	Handle   gpu.Texture
	Width    int
	Height   int
	Channels int
	Format   gpu.Format
}

// Binding records one BindTexture call.
type Binding struct {
	Unit    int
	Texture gpu.Texture
}

// Device counts resource creation and destruction.
// It fails the operation when a handle is released twice.
type Device struct {
	Uploads  []Upload
	Bindings []Binding
	Draws    []gpu.Buffers

	TexturesCreated int
	TexturesDeleted int
	MeshesCreated   int
	MeshesDeleted   int

	// FailUploads makes CreateTexture return an error.
	FailUploads bool

	next     uint32
	textures map[gpu.Texture]bool
	meshes   map[uint32]bool
	errs     []error
}

// New returns an empty fake device.
func New() *Device {
	return &Device{
		textures: make(map[gpu.Texture]bool),
		meshes:   make(map[uint32]bool),
	}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

// CreateTexture implements gpu.Device.
func (d *Device) CreateTexture(width, height, channels int, pix []byte) (gpu.Texture, error) {
	if d.FailUploads {
		return 0, fmt.Errorf("fake upload failure")
	}
	format, err := gpu.FormatForChannels(channels)
	if err != nil {
		return 0, err
	}
	if len(pix) != width*height*channels {
		return 0, fmt.Errorf("pixel size mismatch: %d != %d", len(pix), width*height*channels)
	}
	t := gpu.Texture(d.handle())
	d.textures[t] = true
	d.TexturesCreated++
	d.Uploads = append(d.Uploads, Upload{Handle: t, Width: width, Height: height, Channels: channels, Format: format})
	return t, nil
}

// DeleteTexture implements gpu.Device.
func (d *Device) DeleteTexture(t gpu.Texture) {
	if !d.textures[t] {
		d.errs = append(d.errs, fmt.Errorf("texture %d deleted but not live", t))
		return
	}
	delete(d.textures, t)
	d.TexturesDeleted++
}

// BindTexture implements gpu.Device.
func (d *Device) BindTexture(unit int, t gpu.Texture) {
	d.Bindings = append(d.Bindings, Binding{Unit: unit, Texture: t})
}

// CreateMesh implements gpu.Device.
func (d *Device) CreateMesh(vertices []float32, indices []uint32) (gpu.Buffers, error) {
	if len(vertices) == 0 || len(vertices)%gpu.VertexStride != 0 {
		return gpu.Buffers{}, fmt.Errorf("vertex data of %d floats is not a multiple of %d", len(vertices), gpu.VertexStride)
	}
	b := gpu.Buffers{
		VAO:        d.handle(),
		VBO:        d.handle(),
		EBO:        d.handle(),
		IndexCount: int32(len(indices)),
	}
	d.meshes[b.VAO] = true
	d.MeshesCreated++
	return b, nil
}

// DeleteMesh implements gpu.Device.
func (d *Device) DeleteMesh(b gpu.Buffers) {
	if !d.meshes[b.VAO] {
		d.errs = append(d.errs, fmt.Errorf("mesh %d deleted but not live", b.VAO))
		return
	}
	delete(d.meshes, b.VAO)
	d.MeshesDeleted++
}

// DrawMesh implements gpu.Device.
func (d *Device) DrawMesh(b gpu.Buffers) {
	d.Draws = append(d.Draws, b)
}

// LiveTextures returns the number of created but not deleted textures.
func (d *Device) LiveTextures() int {
	return len(d.textures)
}

// LiveMeshes returns the number of created but not deleted meshes.
func (d *Device) LiveMeshes() int {
	return len(d.meshes)
}

// Errors returns double-free and unknown-handle violations seen so far.
func (d *Device) Errors() []error {
	return d.errs
}

// ResetCalls clears the recorded bindings and draws.
func (d *Device) ResetCalls() {
	d.Bindings = nil
	d.Draws = nil
}

var _ gpu.Device = (*Device)(nil)
