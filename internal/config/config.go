// Package config handles viewer configuration loading and management.
package config

import "github.com/go-gl/mathgl/mgl32"

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Model   ModelConfig   `yaml:"model"`
	Camera  CameraConfig  `yaml:"camera"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RenderConfig holds per-frame rendering settings.
type RenderConfig struct {
	ClearColor    [3]float32  `yaml:"clear_color"`
	FOV           float32     `yaml:"fov"` // degrees
	Near          float32     `yaml:"near"`
	Far           float32     `yaml:"far"`
	Wireframe     bool        `yaml:"wireframe"`
	ScreenshotDir string      `yaml:"screenshot_dir"`
	Light         LightConfig `yaml:"light"`
}

// LightConfig places the directional light.
type LightConfig struct {
	Longitude float32 `yaml:"longitude"` // degrees around Y from +Z
	Latitude  float32 `yaml:"latitude"`  // degrees above the horizon
	Ambient   float32 `yaml:"ambient"`
	Shininess float32 `yaml:"shininess"`
}

// ModelConfig holds model import settings.
type ModelConfig struct {
	Path           string     `yaml:"path"`
	Triangulate    bool       `yaml:"triangulate"`
	FlipUVs        bool       `yaml:"flip_uvs"`
	FlipTextures   bool       `yaml:"flip_textures"`
	CanonicalPaths bool       `yaml:"canonical_paths"` // dedup differently spelled texture paths
	Scale          float32    `yaml:"scale"`
	Position       [3]float32 `yaml:"position"`
	Rotation       [3]float32 `yaml:"rotation"` // degrees about X, Y, Z
}

// Transform returns the model matrix: translate, then rotate about X, Y and
// Z, then scale.
func (m ModelConfig) Transform() mgl32.Mat4 {
	r := m.Rotation
	return mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2]).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(r[0]))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(r[1]))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(r[2]))).
		Mul4(mgl32.Scale3D(m.Scale, m.Scale, m.Scale))
}

// CameraConfig holds camera settings.
type CameraConfig struct {
	Mode        string     `yaml:"mode"` // "fly" or "orbit"
	Position    [3]float32 `yaml:"position"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	FitToModel  bool       `yaml:"fit_to_model"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "glview",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Render: RenderConfig{
			ClearColor:    [3]float32{0.05, 0.05, 0.08},
			FOV:           45,
			Near:          0.1,
			Far:           1000,
			ScreenshotDir: "screenshots",
			Light: LightConfig{
				Longitude: 30,
				Latitude:  60,
				Ambient:   0.25,
				Shininess: 32,
			},
		},
		Model: ModelConfig{
			Path:         "",
			Triangulate:  true,
			FlipUVs:      true,
			FlipTextures: true,
			Scale:        1,
		},
		Camera: CameraConfig{
			Mode:        "fly",
			Position:    [3]float32{0, 0, 3},
			Speed:       2.5,
			Sensitivity: 0.1,
			FitToModel:  true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
