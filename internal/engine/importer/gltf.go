package importer

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/glview/internal/engine/texture"
	"github.com/Faultbox/glview/internal/logger"
)

// Material extensions that carry diffuse or specular maps.
const (
	extSpecular       = "KHR_materials_specular"
	extSpecGlossiness = "KHR_materials_pbrSpecularGlossiness"
	extTextureWebP    = "EXT_texture_webp"
)

type extTextureInfo struct {
	Index int `json:"index"`
}

type specularExt struct {
	SpecularTexture      *extTextureInfo `json:"specularTexture"`
	SpecularColorTexture *extTextureInfo `json:"specularColorTexture"`
}

type specGlossinessExt struct {
	DiffuseTexture            *extTextureInfo `json:"diffuseTexture"`
	SpecularGlossinessTexture *extTextureInfo `json:"specularGlossinessTexture"`
}

type textureSourceExt struct {
	Source *int `json:"source"`
}

// readGLTF imports a .gltf or .glb file.
func readGLTF(path string, opts Options) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}
	return convertGLTF(doc, opts)
}

// convertGLTF maps a glTF document onto a Scene. Every primitive becomes one
// SourceMesh; a node using glTF mesh m references all of m's primitives.
// Node transforms are not applied.
func convertGLTF(doc *gltf.Document, opts Options) (*Scene, error) {
	sc := &Scene{}

	for i, gm := range doc.Materials {
		sc.Materials = append(sc.Materials, convertMaterial(doc, i, gm))
	}

	meshRanges := make([][]int, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if !surfaceMode(prim.Mode) {
				logger.Named("importer").Warn("primitive skipped: points and lines are not drawn",
					zap.String("mesh", gm.Name),
					zap.Int("primitive", pi),
					zap.Int("mode", int(prim.Mode)),
				)
				continue
			}
			m, err := convertPrimitive(doc, prim, opts)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			m.Name = gm.Name
			if len(gm.Primitives) > 1 {
				m.Name = gm.Name + "#" + strconv.Itoa(pi)
			}
			meshRanges[mi] = append(meshRanges[mi], len(sc.Meshes))
			sc.Meshes = append(sc.Meshes, m)
		}
	}
	if len(sc.Meshes) == 0 {
		sc.Incomplete = true
	}

	roots, name := rootNodes(doc)
	if len(roots) == 0 {
		return sc, nil
	}

	root, err := buildTree(doc, roots, meshRanges)
	if err != nil {
		return nil, err
	}
	root.Name = name
	sc.Root = root
	return sc, nil
}

// rootNodes returns the top-level nodes of the default scene, or of the
// whole node graph when the file declares no scene.
func rootNodes(doc *gltf.Document) ([]int, string) {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		s := doc.Scenes[idx]
		return s.Nodes, s.Name
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots, ""
}

// buildTree converts the glTF node hierarchy under a synthetic root.
// Each glTF node may appear at most once.
func buildTree(doc *gltf.Document, roots []int, meshRanges [][]int) (*Node, error) {
	type pending struct {
		parent *Node
		index  int
	}

	root := &Node{}
	seen := make([]bool, len(doc.Nodes))
	stack := make([]pending, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, pending{root, roots[i]})
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.index < 0 || p.index >= len(doc.Nodes) {
			return nil, fmt.Errorf("node index %d out of range", p.index)
		}
		if seen[p.index] {
			return nil, fmt.Errorf("node %d has several parents or forms a cycle", p.index)
		}
		seen[p.index] = true

		gn := doc.Nodes[p.index]
		n := &Node{Name: gn.Name}
		if gn.Mesh != nil {
			if *gn.Mesh < 0 || *gn.Mesh >= len(meshRanges) {
				return nil, fmt.Errorf("node %d references missing mesh %d", p.index, *gn.Mesh)
			}
			n.Meshes = append(n.Meshes, meshRanges[*gn.Mesh]...)
		}
		p.parent.Children = append(p.parent.Children, n)

		for i := len(gn.Children) - 1; i >= 0; i-- {
			stack = append(stack, pending{n, gn.Children[i]})
		}
	}
	return root, nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

func convertPrimitive(doc *gltf.Document, prim *gltf.Primitive, opts Options) (*SourceMesh, error) {
	m := &SourceMesh{Material: -1}
	if prim.Material != nil {
		m.Material = *prim.Material
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no %s attribute", gltf.POSITION)
	}
	acr, err := accessor(doc, posIdx)
	if err != nil {
		return nil, err
	}
	if m.Positions, err = modeler.ReadPosition(doc, acr, nil); err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acr, err := accessor(doc, idx)
		if err != nil {
			return nil, err
		}
		if m.Normals, err = modeler.ReadNormal(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}

	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		acr, err := accessor(doc, idx)
		if err != nil {
			return nil, err
		}
		if m.TexCoords, err = modeler.ReadTextureCoord(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("texcoords: %w", err)
		}
		if opts.FlipUVs {
			for i := range m.TexCoords {
				m.TexCoords[i][1] = 1 - m.TexCoords[i][1]
			}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		acr, err := accessor(doc, *prim.Indices)
		if err != nil {
			return nil, err
		}
		if indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(m.Positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	m.Faces = buildFaces(prim.Mode, indices, opts.Triangulate)
	return m, nil
}

// surfaceMode reports whether mode draws triangles.
func surfaceMode(mode gltf.PrimitiveMode) bool {
	switch mode {
	case gltf.PrimitiveTriangles, gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
		return true
	}
	return false
}

// buildFaces groups a triangle index stream into faces according to the
// glTF primitive mode. With triangulate, strips and fans become triangles;
// otherwise each strip or fan is kept as a single face.
func buildFaces(mode gltf.PrimitiveMode, idx []uint32, triangulate bool) [][]uint32 {
	var faces [][]uint32
	switch mode {
	case gltf.PrimitiveTriangles:
		for i := 0; i+2 < len(idx); i += 3 {
			faces = append(faces, []uint32{idx[i], idx[i+1], idx[i+2]})
		}
	case gltf.PrimitiveTriangleStrip:
		if !triangulate {
			return wholeFace(idx)
		}
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				faces = append(faces, []uint32{idx[i], idx[i+1], idx[i+2]})
			} else {
				faces = append(faces, []uint32{idx[i+1], idx[i], idx[i+2]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		if !triangulate {
			return wholeFace(idx)
		}
		for i := 1; i+1 < len(idx); i++ {
			faces = append(faces, []uint32{idx[0], idx[i], idx[i+1]})
		}
	}
	return faces
}

func wholeFace(idx []uint32) [][]uint32 {
	if len(idx) == 0 {
		return nil
	}
	return [][]uint32{append([]uint32(nil), idx...)}
}

func convertMaterial(doc *gltf.Document, index int, gm *gltf.Material) *SourceMaterial {
	m := &SourceMaterial{Name: gm.Name}
	if m.Name == "" {
		m.Name = "material" + strconv.Itoa(index)
	}

	add := func(kind texture.Kind, texIndex int) {
		slot, err := textureSlot(doc, texIndex)
		if err != nil {
			logger.Named("importer").Warn("material texture ignored",
				zap.String("material", m.Name),
				zap.Stringer("kind", kind),
				zap.Error(err),
			)
			return
		}
		m.AddSlot(kind, slot)
	}

	if pbr := gm.PBRMetallicRoughness; pbr != nil && pbr.BaseColorTexture != nil {
		add(texture.KindDiffuse, pbr.BaseColorTexture.Index)
	}

	var sg specGlossinessExt
	if decodeExtension(gm.Extensions, extSpecGlossiness, &sg) {
		if sg.DiffuseTexture != nil {
			add(texture.KindDiffuse, sg.DiffuseTexture.Index)
		}
		if sg.SpecularGlossinessTexture != nil {
			add(texture.KindSpecular, sg.SpecularGlossinessTexture.Index)
		}
	}

	var spec specularExt
	if decodeExtension(gm.Extensions, extSpecular, &spec) {
		if spec.SpecularTexture != nil {
			add(texture.KindSpecular, spec.SpecularTexture.Index)
		}
		if spec.SpecularColorTexture != nil {
			add(texture.KindSpecular, spec.SpecularColorTexture.Index)
		}
	}

	if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
		add(texture.KindNormal, *gm.NormalTexture.Index)
	}
	return m
}

// textureSlot resolves a glTF texture index to the image it samples.
func textureSlot(doc *gltf.Document, texIndex int) (texture.Slot, error) {
	if texIndex < 0 || texIndex >= len(doc.Textures) {
		return texture.Slot{}, fmt.Errorf("texture %d out of range", texIndex)
	}
	tex := doc.Textures[texIndex]

	src := tex.Source
	if src == nil {
		var ext textureSourceExt
		if decodeExtension(tex.Extensions, extTextureWebP, &ext) {
			src = ext.Source
		}
	}
	if src == nil {
		return texture.Slot{}, fmt.Errorf("texture %d has no image source", texIndex)
	}
	if *src < 0 || *src >= len(doc.Images) {
		return texture.Slot{}, fmt.Errorf("image %d out of range", *src)
	}
	img := doc.Images[*src]
	embeddedPath := "*" + strconv.Itoa(*src)

	if img.BufferView != nil {
		data, err := bufferViewData(doc, *img.BufferView)
		if err != nil {
			return texture.Slot{}, err
		}
		return texture.Slot{Path: embeddedPath, Data: data}, nil
	}
	if img.IsEmbeddedResource() {
		data, err := img.MarshalData()
		if err != nil {
			return texture.Slot{}, fmt.Errorf("image %d: %w", *src, err)
		}
		return texture.Slot{Path: embeddedPath, Data: data}, nil
	}
	if img.URI == "" {
		return texture.Slot{}, fmt.Errorf("image %d has no uri", *src)
	}

	path, err := url.PathUnescape(img.URI)
	if err != nil {
		path = img.URI
	}
	return texture.Slot{Path: path}, nil
}

func bufferViewData(doc *gltf.Document, idx int) ([]byte, error) {
	if idx < 0 || idx >= len(doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", idx)
	}
	bv := doc.BufferViews[idx]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, fmt.Errorf("buffer %d out of range", bv.Buffer)
	}
	data := doc.Buffers[bv.Buffer].Data
	end := bv.ByteOffset + bv.ByteLength
	if bv.ByteOffset < 0 || end > len(data) {
		return nil, fmt.Errorf("buffer view %d exceeds buffer %d", idx, bv.Buffer)
	}
	return data[bv.ByteOffset:end], nil
}

// decodeExtension unmarshals extension name into v. Extensions without a
// registered decoder arrive as raw JSON; registered ones are re-encoded.
func decodeExtension(exts gltf.Extensions, name string, v any) bool {
	raw, ok := exts[name]
	if !ok {
		return false
	}

	var data []byte
	switch r := raw.(type) {
	case json.RawMessage:
		data = r
	case []byte:
		data = r
	default:
		b, err := json.Marshal(r)
		if err != nil {
			return false
		}
		data = b
	}
	return json.Unmarshal(data, v) == nil
}
