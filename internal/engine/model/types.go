// Package model turns imported scenes into renderer-ready meshes and draws them.
package model

import (
	"github.com/Faultbox/glview/internal/engine/gpu"
	"github.com/Faultbox/glview/internal/engine/texture"
)

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh holds one drawable unit. It is not modified after Load.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Textures []texture.Ref

	buffers gpu.Buffers
}

// Buffers returns the GPU buffers of the mesh. They are zero before upload
// and after Destroy.
func (m *Mesh) Buffers() gpu.Buffers {
	return m.buffers
}

// interleave packs vertices as position, normal, uv for gpu.Device.CreateMesh.
func (m *Mesh) interleave() []float32 {
	out := make([]float32, 0, len(m.Vertices)*gpu.VertexStride)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.TexCoord[0], v.TexCoord[1],
		)
	}
	return out
}

// Shader receives sampler unit assignments during Draw.
// *shader.Program implements it.
type Shader interface {
	SetInt(name string, value int32)
}

// TextureResolver turns a material's texture slots into texture references.
// *texture.Cache implements it.
type TextureResolver interface {
	Resolve(src texture.Source, kind texture.Kind) []texture.Ref
}
