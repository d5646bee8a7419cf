package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float32
		want     mgl32.Vec3
	}{
		{"horizon +Z", 0, 0, mgl32.Vec3{0, 0, 1}},
		{"horizon +X", 90, 0, mgl32.Vec3{1, 0, 0}},
		{"zenith", 0, 90, mgl32.Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.lon, tt.lat)
			if !got.ApproxEqualThreshold(tt.want, 1e-5) {
				t.Errorf("SunDirection(%v, %v) = %v, want %v", tt.lon, tt.lat, got, tt.want)
			}
		})
	}
}

type uniforms struct {
	vec3s  map[string]mgl32.Vec3
	floats map[string]float32
}

func (u *uniforms) SetVec3(name string, v mgl32.Vec3) { u.vec3s[name] = v }
func (u *uniforms) SetFloat(name string, v float32)   { u.floats[name] = v }

func TestSunApply(t *testing.T) {
	u := &uniforms{vec3s: map[string]mgl32.Vec3{}, floats: map[string]float32{}}
	Sun{Longitude: 0, Latitude: 90, Ambient: 0.2, Shininess: 16}.Apply(u)

	if d := u.vec3s["lightDir"]; !d.ApproxEqualThreshold(mgl32.Vec3{0, -1, 0}, 1e-5) {
		t.Errorf("lightDir = %v, want straight down", d)
	}
	if u.floats["ambient"] != 0.2 || u.floats["shininess"] != 16 {
		t.Errorf("floats = %v", u.floats)
	}
}
