package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glview/internal/engine/input"
)

const (
	defaultYaw   = -90
	maxPitch     = 89
	minZoom      = 1
	fastModifier = 4
)

// Fly is a free-look camera: WASD moves along the view direction, the mouse
// turns it, the wheel zooms the field of view. Angles are in degrees.
type Fly struct {
	pos   mgl32.Vec3
	Yaw   float32
	Pitch float32

	Speed       float32 // units per second
	Sensitivity float32 // degrees per pixel
	Zoom        float32 // vertical FOV in degrees
	MaxZoom     float32

	front, right, up mgl32.Vec3
	home             flyState
}

type flyState struct {
	pos        mgl32.Vec3
	yaw, pitch float32
	zoom       float32
}

// NewFly creates a fly camera at pos looking down -Z.
func NewFly(pos mgl32.Vec3, speed, sensitivity, fov float32) *Fly {
	c := &Fly{
		pos:         pos,
		Yaw:         defaultYaw,
		Speed:       speed,
		Sensitivity: sensitivity,
		Zoom:        fov,
		MaxZoom:     fov,
	}
	c.updateVectors()
	c.home = c.state()
	return c
}

func (c *Fly) state() flyState {
	return flyState{pos: c.pos, yaw: c.Yaw, pitch: c.Pitch, zoom: c.Zoom}
}

// Position returns the camera position in world space.
func (c *Fly) Position() mgl32.Vec3 {
	return c.pos
}

// Front returns the unit view direction.
func (c *Fly) Front() mgl32.Vec3 {
	return c.front
}

// FOV implements Camera.
func (c *Fly) FOV() float32 {
	return c.Zoom
}

// ViewMatrix returns the view matrix for this camera.
func (c *Fly) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.pos, c.pos.Add(c.front), c.up)
}

// Update applies one frame of input.
func (c *Fly) Update(s *input.State, dt float32) {
	speed := c.Speed * dt
	if s.Held(input.KeyFast) {
		speed *= fastModifier
	}
	c.Move(s.Axis(input.KeyForward, input.KeyBackward)*speed,
		s.Axis(input.KeyRight, input.KeyLeft)*speed,
		s.Axis(input.KeyUp, input.KeyDown)*speed)

	if s.Look {
		// Screen y grows downwards.
		c.Turn(s.MouseDX*c.Sensitivity, -s.MouseDY*c.Sensitivity)
	}
	if s.Scroll != 0 {
		c.ZoomBy(s.Scroll)
	}
	if s.Pressed(input.KeyResetCamera) {
		c.Reset()
	}
}

// Move translates the camera along its front, right and world up axes.
func (c *Fly) Move(forward, right, up float32) {
	c.pos = c.pos.Add(c.front.Mul(forward)).Add(c.right.Mul(right)).Add(worldUp.Mul(up))
}

// Turn adds yaw and pitch, keeping pitch short of the poles.
func (c *Fly) Turn(dyaw, dpitch float32) {
	c.Yaw += dyaw
	c.Pitch = clamp(c.Pitch+dpitch, -maxPitch, maxPitch)
	c.updateVectors()
}

// ZoomBy narrows the field of view for positive delta.
func (c *Fly) ZoomBy(delta float32) {
	c.Zoom = clamp(c.Zoom-delta, minZoom, c.MaxZoom)
}

// FitToBounds backs the camera away along +Z until the sphere fills the view.
func (c *Fly) FitToBounds(center mgl32.Vec3, radius float32) {
	if radius <= 0 {
		radius = 1
	}
	half := float64(mgl32.DegToRad(c.MaxZoom)) / 2
	dist := radius / float32(gomath.Sin(half))

	c.pos = center.Add(mgl32.Vec3{0, 0, dist})
	c.Yaw = defaultYaw
	c.Pitch = 0
	c.Zoom = c.MaxZoom
	c.updateVectors()
	c.home = c.state()
}

// Reset returns to the construction or last fitted state.
func (c *Fly) Reset() {
	c.pos = c.home.pos
	c.Yaw = c.home.yaw
	c.Pitch = c.home.pitch
	c.Zoom = c.home.zoom
	c.updateVectors()
}

func (c *Fly) updateVectors() {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	c.front = mgl32.Vec3{
		float32(gomath.Cos(yaw) * gomath.Cos(pitch)),
		float32(gomath.Sin(pitch)),
		float32(gomath.Sin(yaw) * gomath.Cos(pitch)),
	}.Normalize()
	c.right = c.front.Cross(worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

var _ Camera = (*Fly)(nil)
