// Package lighting provides the directional light used by the model shader.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Sun is a directional light placed by longitude and latitude in degrees.
// Longitude rotates around Y from +Z; latitude is elevation above the horizon.
type Sun struct {
	Longitude float32
	Latitude  float32
	Ambient   float32
	Shininess float32
}

// Uniforms receives light parameters. *shader.Program implements it.
type Uniforms interface {
	SetVec3(name string, v mgl32.Vec3)
	SetFloat(name string, v float32)
}

// SunDirection converts longitude/latitude angles to a unit vector pointing
// towards the sun.
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	lonRad := float64(mgl32.DegToRad(longitude))
	latRad := float64(mgl32.DegToRad(latitude))

	return mgl32.Vec3{
		float32(math.Cos(latRad) * math.Sin(lonRad)),
		float32(math.Sin(latRad)),
		float32(math.Cos(latRad) * math.Cos(lonRad)),
	}
}

// Direction returns the direction light travels, from the sun to the scene.
func (s Sun) Direction() mgl32.Vec3 {
	return SunDirection(s.Longitude, s.Latitude).Mul(-1)
}

// Apply sets lightDir, ambient and shininess on the current program.
func (s Sun) Apply(u Uniforms) {
	u.SetVec3("lightDir", s.Direction())
	u.SetFloat("ambient", s.Ambient)
	u.SetFloat("shininess", s.Shininess)
}
