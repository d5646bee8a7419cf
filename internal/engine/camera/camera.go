// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glview/internal/engine/input"
)

// Camera is driven by the viewer loop once per frame.
type Camera interface {
	Update(s *input.State, dt float32)
	ViewMatrix() mgl32.Mat4
	Position() mgl32.Vec3
	// FOV returns the vertical field of view in degrees.
	FOV() float32
	// FitToBounds frames a sphere and makes that framing the reset target.
	FitToBounds(center mgl32.Vec3, radius float32)
	Reset()
}

// Settings are the shared camera parameters from the viewer config.
type Settings struct {
	Position    mgl32.Vec3
	Speed       float32
	Sensitivity float32
	FOV         float32
}

// New creates a camera by mode name, "fly" or "orbit".
func New(mode string, s Settings) (Camera, error) {
	switch mode {
	case "fly", "":
		return NewFly(s.Position, s.Speed, s.Sensitivity, s.FOV), nil
	case "orbit":
		c := NewOrbit(s.FOV)
		if s.Sensitivity > 0 {
			c.DragSensitivity = mgl32.DegToRad(s.Sensitivity)
		}
		if d := s.Position.Len(); d > 0 {
			c.Distance = d
			c.home = c.snapshot()
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown camera mode %q", mode)
	}
}

var worldUp = mgl32.Vec3{0, 1, 0}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
