package texture

import (
	"strconv"
	"strings"

	"github.com/Faultbox/glview/internal/engine/gpu"
)

// Kind is the role a texture plays in shading.
type Kind int

const (
	KindDiffuse Kind = iota
	KindSpecular
	KindNormal
	KindHeight
)

// MaterialKinds are the kinds resolved for every mesh, in binding order.
var MaterialKinds = []Kind{KindDiffuse, KindSpecular}

func (k Kind) String() string {
	switch k {
	case KindDiffuse:
		return "diffuse"
	case KindSpecular:
		return "specular"
	case KindNormal:
		return "normal"
	case KindHeight:
		return "height"
	default:
		return "kind" + strconv.Itoa(int(k))
	}
}

// Uniform returns the sampler uniform name for the n-th (1-based) texture
// of this kind, e.g. "texture_diffuse1".
func (k Kind) Uniform(n int) string {
	return "texture_" + k.String() + strconv.Itoa(n)
}

// Slot is one texture reference recorded in a material.
// Path is relative to the scene directory unless absolute; embedded images
// carry their bytes in Data and a "*<index>" path.
type Slot struct {
	Path string
	Data []byte
}

// Embedded reports whether the slot's image lives inside the scene file.
func (s Slot) Embedded() bool {
	return s.Data != nil || strings.HasPrefix(s.Path, "*")
}

// Source lists the texture slots of a material by kind.
type Source interface {
	Slots(kind Kind) []Slot
}

// Ref is a texture handle as used by one mesh. The cache owns the handle.
type Ref struct {
	Handle gpu.Texture
	Kind   Kind
	Path   string
}
