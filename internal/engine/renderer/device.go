package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/glview/internal/engine/gpu"
)

// Device implements gpu.Device on the current GL context.
type Device struct {
	textures int
	meshes   int
}

var _ gpu.Device = (*Device)(nil)

func glFormat(f gpu.Format) (int32, uint32) {
	switch f {
	case gpu.FormatRed:
		return gl.R8, gl.RED
	case gpu.FormatRGB:
		return gl.RGB8, gl.RGB
	default:
		return gl.RGBA8, gl.RGBA
	}
}

// CreateTexture uploads tightly packed 8-bit pixels and generates mipmaps.
func (d *Device) CreateTexture(width, height, channels int, pix []byte) (gpu.Texture, error) {
	format, err := gpu.FormatForChannels(channels)
	if err != nil {
		return 0, err
	}
	if width <= 0 || height <= 0 || len(pix) != width*height*channels {
		return 0, fmt.Errorf("bad texture data: %dx%dx%d with %d bytes", width, height, channels, len(pix))
	}
	internal, pixelFormat := glFormat(format)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(width), int32(height), 0,
		pixelFormat, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	if format == gpu.FormatRed {
		// Sample grayscale maps as gray, not red.
		swizzle := [4]int32{gl.RED, gl.RED, gl.RED, gl.ONE}
		gl.TexParameteriv(gl.TEXTURE_2D, gl.TEXTURE_SWIZZLE_RGBA, &swizzle[0])
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	d.textures++
	return gpu.Texture(tex), nil
}

// DeleteTexture implements gpu.Device.
func (d *Device) DeleteTexture(t gpu.Texture) {
	tex := uint32(t)
	if tex == 0 {
		return
	}
	gl.DeleteTextures(1, &tex)
	d.textures--
}

// BindTexture binds t to texture unit unit.
func (d *Device) BindTexture(unit int, t gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

// CreateMesh uploads interleaved position, normal, uv vertices and indices
// into a new VAO with attributes at locations 0, 1 and 2.
func (d *Device) CreateMesh(vertices []float32, indices []uint32) (gpu.Buffers, error) {
	if len(vertices) == 0 || len(vertices)%gpu.VertexStride != 0 {
		return gpu.Buffers{}, fmt.Errorf("vertex data of %d floats is not a multiple of %d", len(vertices), gpu.VertexStride)
	}

	var b gpu.Buffers
	gl.GenVertexArrays(1, &b.VAO)
	gl.BindVertexArray(b.VAO)

	gl.GenBuffers(1, &b.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &b.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.EBO)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
	b.IndexCount = int32(len(indices))

	stride := int32(gpu.VertexStride * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	d.meshes++
	return b, nil
}

// DeleteMesh implements gpu.Device.
func (d *Device) DeleteMesh(b gpu.Buffers) {
	if !b.Valid() {
		return
	}
	gl.DeleteBuffers(1, &b.EBO)
	gl.DeleteBuffers(1, &b.VBO)
	gl.DeleteVertexArrays(1, &b.VAO)
	d.meshes--
}

// DrawMesh issues an indexed triangle draw for b.
func (d *Device) DrawMesh(b gpu.Buffers) {
	if b.IndexCount == 0 {
		return
	}
	gl.BindVertexArray(b.VAO)
	gl.DrawElements(gl.TRIANGLES, b.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	gl.ActiveTexture(gl.TEXTURE0)
}

// Live returns the number of textures and meshes not yet deleted.
func (d *Device) Live() (textures, meshes int) {
	return d.textures, d.meshes
}
