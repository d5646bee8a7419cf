package model

import (
	"github.com/Faultbox/glview/internal/engine/importer"
	"github.com/Faultbox/glview/internal/engine/texture"
)

// BuildMesh converts one imported mesh. Missing normals and texture
// coordinates become zero. Faces are copied index by index whatever their
// arity. When mat is not nil its diffuse textures, then its specular
// textures, are resolved and attached in that order.
func BuildMesh(src *importer.SourceMesh, mat *importer.SourceMaterial, textures TextureResolver) *Mesh {
	m := &Mesh{
		Name:     src.Name,
		Vertices: make([]Vertex, len(src.Positions)),
	}

	for i, p := range src.Positions {
		v := Vertex{Position: p}
		if i < len(src.Normals) {
			v.Normal = src.Normals[i]
		}
		if i < len(src.TexCoords) {
			v.TexCoord = src.TexCoords[i]
		}
		m.Vertices[i] = v
	}

	n := 0
	for _, f := range src.Faces {
		n += len(f)
	}
	m.Indices = make([]uint32, 0, n)
	for _, f := range src.Faces {
		m.Indices = append(m.Indices, f...)
	}

	if mat != nil && textures != nil {
		for _, kind := range texture.MaterialKinds {
			m.Textures = append(m.Textures, textures.Resolve(mat, kind)...)
		}
	}
	return m
}

// Bounds returns the bounding box of the mesh vertices.
func (m *Mesh) Bounds() Bounds {
	b := emptyBounds()
	for _, v := range m.Vertices {
		updateBounds(&b, v.Position)
	}
	return b
}
