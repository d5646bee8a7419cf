// Package input holds per-frame input state for the viewer loop.
//
// The window package fills a State from platform events; cameras and the
// loop read it. No input state lives at package level.
package input

// Key is a viewer action bound to a physical key.
type Key int

const (
	KeyForward Key = iota
	KeyBackward
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyFast
	KeyToggleLook
	KeyWireframe
	KeyScreenshot
	KeyResetCamera
	KeyQuit
	keyCount
)

// State is the input seen by one frame. Held keys persist across frames;
// edges, mouse motion and scroll are cleared by BeginFrame.
type State struct {
	held    [keyCount]bool
	pressed [keyCount]bool

	// MouseDX and MouseDY accumulate relative mouse motion in pixels.
	MouseDX, MouseDY float32
	// Scroll accumulates wheel movement, positive away from the user.
	Scroll float32
	// Look is true while mouse look is engaged.
	Look bool

	Quit          bool
	Resized       bool
	Width, Height int
}

// New returns an empty State.
func New() *State {
	return &State{}
}

// BeginFrame clears per-frame fields. Call it before polling events.
func (s *State) BeginFrame() {
	s.pressed = [keyCount]bool{}
	s.MouseDX, s.MouseDY = 0, 0
	s.Scroll = 0
	s.Resized = false
}

// KeyDown records a key press. Repeats of a held key are not new presses.
func (s *State) KeyDown(k Key) {
	if k < 0 || k >= keyCount {
		return
	}
	if !s.held[k] {
		s.pressed[k] = true
	}
	s.held[k] = true
}

// KeyUp records a key release.
func (s *State) KeyUp(k Key) {
	if k < 0 || k >= keyCount {
		return
	}
	s.held[k] = false
}

// Held reports whether k is down.
func (s *State) Held(k Key) bool {
	return k >= 0 && k < keyCount && s.held[k]
}

// Pressed reports whether k went down during this frame.
func (s *State) Pressed(k Key) bool {
	return k >= 0 && k < keyCount && s.pressed[k]
}

// Axis returns 1 when only pos is held, -1 when only neg is held, else 0.
func (s *State) Axis(pos, neg Key) float32 {
	var v float32
	if s.Held(pos) {
		v++
	}
	if s.Held(neg) {
		v--
	}
	return v
}

// MouseMove accumulates relative motion.
func (s *State) MouseMove(dx, dy float32) {
	s.MouseDX += dx
	s.MouseDY += dy
}

// ScrollBy accumulates wheel movement.
func (s *State) ScrollBy(dy float32) {
	s.Scroll += dy
}

// Resize records a new drawable size.
func (s *State) Resize(width, height int) {
	s.Resized = true
	s.Width, s.Height = width, height
}

// ReleaseAll drops every held key, e.g. when the window loses focus.
func (s *State) ReleaseAll() {
	s.held = [keyCount]bool{}
}
