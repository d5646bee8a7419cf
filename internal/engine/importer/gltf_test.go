package importer

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/glview/internal/engine/texture"
)

// quadDoc builds a document with one textured quad mesh referenced by two
// nodes: a root and its child.
func quadDoc(t *testing.T) *gltf.Document {
	t.Helper()
	doc := gltf.NewDocument()

	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})
	nrm := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {1, 0.25}, {0, 1}})
	idx := modeler.WriteIndices(doc, []uint32{0, 1, 2, 0, 2, 3})

	doc.Images = append(doc.Images, &gltf.Image{URI: "textures/brick%20wall.png"})
	doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(0)})
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: "brick",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
	})

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:  gltf.Index(idx),
			Material: gltf.Index(0),
			Attributes: map[string]int{
				gltf.POSITION:   pos,
				gltf.NORMAL:     nrm,
				gltf.TEXCOORD_0: uv,
			},
		}},
	})

	doc.Nodes = append(doc.Nodes,
		&gltf.Node{Name: "body", Mesh: gltf.Index(0), Children: []int{1}},
		&gltf.Node{Name: "copy", Mesh: gltf.Index(0)},
	)
	doc.Scenes[0].Nodes = []int{0}
	return doc
}

func TestConvertGLTFQuad(t *testing.T) {
	sc, err := convertGLTF(quadDoc(t), DefaultOptions())
	if err != nil {
		t.Fatalf("convertGLTF: %v", err)
	}

	if len(sc.Meshes) != 1 {
		t.Fatalf("meshes = %d, want 1", len(sc.Meshes))
	}
	m := sc.Meshes[0]
	if m.Name != "quad" {
		t.Errorf("mesh name = %q", m.Name)
	}
	if len(m.Positions) != 4 || len(m.Normals) != 4 || len(m.TexCoords) != 4 {
		t.Errorf("attribute counts = %d/%d/%d", len(m.Positions), len(m.Normals), len(m.TexCoords))
	}
	wantFaces := [][]uint32{{0, 1, 2}, {0, 2, 3}}
	if !reflect.DeepEqual(m.Faces, wantFaces) {
		t.Errorf("faces = %v, want %v", m.Faces, wantFaces)
	}
	// FlipUVs maps v to 1-v.
	if m.TexCoords[2] != [2]float32{1, 0.75} {
		t.Errorf("flipped uv = %v, want [1 0.75]", m.TexCoords[2])
	}

	if sc.Root == nil || len(sc.Root.Children) != 1 {
		t.Fatalf("expected synthetic root with one child, got %+v", sc.Root)
	}
	if got := MeshOrder(sc.Root); !reflect.DeepEqual(got, []int{0, 0}) {
		t.Errorf("mesh order = %v, want [0 0]", got)
	}

	mat := sc.MaterialFor(m)
	if mat == nil || mat.Name != "brick" {
		t.Fatalf("material = %+v", mat)
	}
	slots := mat.Slots(texture.KindDiffuse)
	if len(slots) != 1 || slots[0].Path != "textures/brick wall.png" {
		t.Errorf("diffuse slots = %+v", slots)
	}
	if slots[0].Embedded() {
		t.Error("uri image reported as embedded")
	}
}

func TestConvertGLTFNoFlip(t *testing.T) {
	sc, err := convertGLTF(quadDoc(t), Options{Triangulate: true})
	if err != nil {
		t.Fatalf("convertGLTF: %v", err)
	}
	if got := sc.Meshes[0].TexCoords[2]; got != [2]float32{1, 0.25} {
		t.Errorf("uv = %v, want [1 0.25]", got)
	}
}

func TestConvertGLTFNoMeshesIsIncomplete(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "empty"})
	doc.Scenes[0].Nodes = []int{0}

	sc, err := convertGLTF(doc, DefaultOptions())
	if err != nil {
		t.Fatalf("convertGLTF: %v", err)
	}
	if !sc.Incomplete {
		t.Error("expected incomplete scene")
	}
}

func TestConvertGLTFMultiParentRejected(t *testing.T) {
	doc := quadDoc(t)
	doc.Nodes[1].Children = []int{0}

	if _, err := convertGLTF(doc, DefaultOptions()); err == nil {
		t.Fatal("expected error for cyclic node graph")
	}
}

func TestConvertGLTFWithoutPositions(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Primitives: []*gltf.Primitive{{Attributes: map[string]int{}}},
	})
	if _, err := convertGLTF(doc, DefaultOptions()); err == nil {
		t.Fatal("expected error for primitive without positions")
	}
}

func TestConvertGLTFEmbeddedImage(t *testing.T) {
	doc := quadDoc(t)
	png := []byte("\x89PNG\r\n\x1a\nnot really")
	img, err := modeler.WriteImage(doc, "brick", "image/png", bytes.NewReader(png))
	if err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	doc.Textures[0].Source = gltf.Index(img)

	sc, err := convertGLTF(doc, DefaultOptions())
	if err != nil {
		t.Fatalf("convertGLTF: %v", err)
	}
	slots := sc.Materials[0].Slots(texture.KindDiffuse)
	if len(slots) != 1 {
		t.Fatalf("diffuse slots = %+v", slots)
	}
	if slots[0].Path != "*1" || !slots[0].Embedded() {
		t.Errorf("slot = %q embedded=%v, want *1 embedded", slots[0].Path, slots[0].Embedded())
	}
	if !bytes.Equal(slots[0].Data, png) {
		t.Errorf("embedded data = %q", slots[0].Data)
	}
}

func TestConvertGLTFSpecularExtension(t *testing.T) {
	doc := quadDoc(t)
	doc.Images = append(doc.Images, &gltf.Image{URI: "spec.png"})
	doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(1)})
	doc.Materials[0].Extensions = gltf.Extensions{
		extSpecular: []byte(`{"specularTexture":{"index":1}}`),
	}

	sc, err := convertGLTF(doc, DefaultOptions())
	if err != nil {
		t.Fatalf("convertGLTF: %v", err)
	}
	spec := sc.Materials[0].Slots(texture.KindSpecular)
	if len(spec) != 1 || spec[0].Path != "spec.png" {
		t.Errorf("specular slots = %+v", spec)
	}
}

func TestBuildFaces(t *testing.T) {
	idx := []uint32{0, 1, 2, 3, 4}
	tests := []struct {
		name        string
		mode        gltf.PrimitiveMode
		triangulate bool
		want        [][]uint32
	}{
		{"triangles", gltf.PrimitiveTriangles, true, [][]uint32{{0, 1, 2}}},
		{"strip", gltf.PrimitiveTriangleStrip, true, [][]uint32{{0, 1, 2}, {2, 1, 3}, {2, 3, 4}}},
		{"fan", gltf.PrimitiveTriangleFan, true, [][]uint32{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}}},
		{"strip kept whole", gltf.PrimitiveTriangleStrip, false, [][]uint32{{0, 1, 2, 3, 4}}},
		{"fan kept whole", gltf.PrimitiveTriangleFan, false, [][]uint32{{0, 1, 2, 3, 4}}},
		{"lines ignored", gltf.PrimitiveLines, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildFaces(tt.mode, idx, tt.triangulate)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildFaces = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImportGLBRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(quadDoc(t), path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	sc, err := Import(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if sc.Dir != filepath.Dir(path) {
		t.Errorf("Dir = %q", sc.Dir)
	}
	if len(sc.Meshes) != 1 || len(sc.Meshes[0].Faces) != 2 {
		t.Errorf("unexpected meshes %+v", sc.Meshes)
	}
	if got := MeshOrder(sc.Root); !reflect.DeepEqual(got, []int{0, 0}) {
		t.Errorf("mesh order = %v", got)
	}
}

func TestConvertGLTFSkipsPointsAndLines(t *testing.T) {
	doc := quadDoc(t)
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}})
	doc.Meshes[0].Primitives = append(doc.Meshes[0].Primitives,
		&gltf.Primitive{Mode: gltf.PrimitiveLines, Attributes: map[string]int{gltf.POSITION: pos}},
		&gltf.Primitive{Mode: gltf.PrimitivePoints, Attributes: map[string]int{gltf.POSITION: pos}},
	)

	sc, err := convertGLTF(doc, DefaultOptions())
	if err != nil {
		t.Fatalf("convertGLTF: %v", err)
	}
	if len(sc.Meshes) != 1 {
		t.Fatalf("expected only the triangle primitive, got %d meshes", len(sc.Meshes))
	}
	if sc.Meshes[0].Name != "quad#0" {
		t.Errorf("mesh name = %q", sc.Meshes[0].Name)
	}
	if got := MeshOrder(sc.Root); !reflect.DeepEqual(got, []int{0, 0}) {
		t.Errorf("mesh order = %v", got)
	}
}

func TestConvertGLTFOnlyLinesIsIncomplete(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: "wire", Primitives: []*gltf.Primitive{{
		Mode:       gltf.PrimitiveLineStrip,
		Attributes: map[string]int{gltf.POSITION: pos},
	}}})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = []int{0}

	sc, err := convertGLTF(doc, DefaultOptions())
	if err != nil {
		t.Fatalf("convertGLTF: %v", err)
	}
	if !sc.Incomplete {
		t.Error("expected a scene without surfaces to be incomplete")
	}
}

func TestImportRejectsIndexPastVertices(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint32{0, 1, 999})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: "broken", Primitives: []*gltf.Primitive{{
		Indices:    gltf.Index(idx),
		Attributes: map[string]int{gltf.POSITION: pos},
	}}})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = []int{0}

	path := filepath.Join(t.TempDir(), "broken.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	sc, err := Import(path, DefaultOptions())
	if sc != nil {
		t.Error("expected no scene")
	}
	var ie *ImportError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *ImportError, got %T: %v", err, err)
	}
	if !strings.Contains(ie.Reason, "999") {
		t.Errorf("reason %q does not name the bad index", ie.Reason)
	}
}
