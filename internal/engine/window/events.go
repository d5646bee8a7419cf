package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/glview/internal/engine/input"
)

// keymap binds physical keys to viewer actions.
var keymap = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_W:      input.KeyForward,
	sdl.SCANCODE_UP:     input.KeyForward,
	sdl.SCANCODE_S:      input.KeyBackward,
	sdl.SCANCODE_DOWN:   input.KeyBackward,
	sdl.SCANCODE_A:      input.KeyLeft,
	sdl.SCANCODE_LEFT:   input.KeyLeft,
	sdl.SCANCODE_D:      input.KeyRight,
	sdl.SCANCODE_RIGHT:  input.KeyRight,
	sdl.SCANCODE_E:      input.KeyUp,
	sdl.SCANCODE_SPACE:  input.KeyUp,
	sdl.SCANCODE_Q:      input.KeyDown,
	sdl.SCANCODE_LCTRL:  input.KeyDown,
	sdl.SCANCODE_LSHIFT: input.KeyFast,
	sdl.SCANCODE_TAB:    input.KeyToggleLook,
	sdl.SCANCODE_F:      input.KeyWireframe,
	sdl.SCANCODE_F12:    input.KeyScreenshot,
	sdl.SCANCODE_R:      input.KeyResetCamera,
	sdl.SCANCODE_ESCAPE: input.KeyQuit,
}

// PollEvents drains the SDL queue into s. Call s.BeginFrame first.
// While the mouse is not captured, holding the right button engages look.
func (w *Window) PollEvents(s *input.State) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			s.Quit = true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				width, height := w.DrawableSize()
				s.Resize(width, height)
			case sdl.WINDOWEVENT_FOCUS_LOST:
				s.ReleaseAll()
			}

		case *sdl.KeyboardEvent:
			k, ok := keymap[e.Keysym.Scancode]
			if !ok {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				if e.Repeat == 0 {
					s.KeyDown(k)
				}
			} else if e.Type == sdl.KEYUP {
				s.KeyUp(k)
			}

		case *sdl.MouseMotionEvent:
			s.MouseMove(float32(e.XRel), float32(e.YRel))

		case *sdl.MouseButtonEvent:
			if e.Button == sdl.BUTTON_RIGHT && !w.captured {
				s.Look = e.Type == sdl.MOUSEBUTTONDOWN
			}

		case *sdl.MouseWheelEvent:
			dy := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				dy = -dy
			}
			s.ScrollBy(dy)
		}
	}

	if s.Pressed(input.KeyQuit) {
		s.Quit = true
	}
	if s.Pressed(input.KeyToggleLook) {
		w.SetMouseCaptured(!w.captured)
		s.Look = w.captured
	}
	if w.captured {
		s.Look = true
	}
}
