package input

import "testing"

func TestKeyEdges(t *testing.T) {
	s := New()

	s.BeginFrame()
	s.KeyDown(KeyWireframe)
	if !s.Pressed(KeyWireframe) || !s.Held(KeyWireframe) {
		t.Fatal("expected pressed and held after key down")
	}

	s.BeginFrame()
	s.KeyDown(KeyWireframe) // auto-repeat
	if s.Pressed(KeyWireframe) {
		t.Error("repeat of a held key counted as a new press")
	}
	if !s.Held(KeyWireframe) {
		t.Error("key no longer held")
	}

	s.KeyUp(KeyWireframe)
	s.BeginFrame()
	if s.Held(KeyWireframe) || s.Pressed(KeyWireframe) {
		t.Error("key still active after release")
	}
}

func TestAxis(t *testing.T) {
	tests := []struct {
		name string
		keys []Key
		want float32
	}{
		{"none", nil, 0},
		{"forward", []Key{KeyForward}, 1},
		{"backward", []Key{KeyBackward}, -1},
		{"both cancel", []Key{KeyForward, KeyBackward}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			for _, k := range tt.keys {
				s.KeyDown(k)
			}
			if got := s.Axis(KeyForward, KeyBackward); got != tt.want {
				t.Errorf("Axis = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBeginFrameClearsDeltas(t *testing.T) {
	s := New()
	s.MouseMove(3, -2)
	s.MouseMove(1, 1)
	s.ScrollBy(2)
	s.Resize(800, 600)

	if s.MouseDX != 4 || s.MouseDY != -1 || s.Scroll != 2 {
		t.Errorf("accumulated = (%v, %v, %v)", s.MouseDX, s.MouseDY, s.Scroll)
	}
	if !s.Resized || s.Width != 800 || s.Height != 600 {
		t.Errorf("resize not recorded: %+v", s)
	}

	s.BeginFrame()
	if s.MouseDX != 0 || s.MouseDY != 0 || s.Scroll != 0 || s.Resized {
		t.Errorf("per-frame fields not cleared: %+v", s)
	}
	if s.Width != 800 {
		t.Error("size should persist across frames")
	}
}

func TestOutOfRangeKeysIgnored(t *testing.T) {
	s := New()
	s.KeyDown(Key(-1))
	s.KeyDown(keyCount)
	if s.Held(Key(-1)) || s.Pressed(keyCount) {
		t.Error("out of range key reported as active")
	}
}

func TestReleaseAll(t *testing.T) {
	s := New()
	s.KeyDown(KeyLeft)
	s.KeyDown(KeyFast)
	s.ReleaseAll()
	if s.Held(KeyLeft) || s.Held(KeyFast) {
		t.Error("keys still held after ReleaseAll")
	}
}
