// Package viewer implements the model viewer loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/glview/internal/config"
	"github.com/Faultbox/glview/internal/engine/camera"
	"github.com/Faultbox/glview/internal/engine/debug"
	"github.com/Faultbox/glview/internal/engine/gpu"
	"github.com/Faultbox/glview/internal/engine/importer"
	"github.com/Faultbox/glview/internal/engine/input"
	"github.com/Faultbox/glview/internal/engine/lighting"
	"github.com/Faultbox/glview/internal/engine/model"
	"github.com/Faultbox/glview/internal/engine/renderer"
	"github.com/Faultbox/glview/internal/engine/shader"
	"github.com/Faultbox/glview/internal/engine/window"
	"github.com/Faultbox/glview/internal/logger"
	"github.com/Faultbox/glview/internal/viewer/shaders"
)

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	program  *shader.Program
	model    *model.Model
	camera   camera.Camera
	input    *input.State
	shots    *debug.ScreenshotCapture

	light     lighting.Sun
	fallback  gpu.Texture
	transform mgl32.Mat4
	far       float32
}

// New opens the window, compiles the shader and loads the configured model.
func New(cfg *config.Config) (*Viewer, error) {
	log := logger.Named("viewer")
	log.Info("initializing viewer",
		zap.String("model", cfg.Model.Path),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	if cfg.Model.Path == "" {
		return nil, fmt.Errorf("no model given: pass -model or set model.path")
	}

	v := &Viewer{
		cfg:   cfg,
		input: input.New(),
		shots: debug.NewScreenshotCapture(cfg.Render.ScreenshotDir, "glview"),
		far:   cfg.Render.Far,
		light: lighting.Sun(cfg.Render.Light),
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context the window created.
	width, height := v.window.DrawableSize()
	cc := cfg.Render.ClearColor
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: [4]float32{cc[0], cc[1], cc[2], 1},
		Wireframe:  cfg.Render.Wireframe,
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.program, err = shader.NewProgram(shaders.ModelVertexShader, shaders.ModelFragmentShader)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("model shader: %w", err)
	}

	dev := v.renderer.Device()
	v.fallback, err = dev.CreateTexture(1, 1, 4, []byte{255, 255, 255, 255})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("fallback texture: %w", err)
	}

	v.model, err = model.Load(cfg.Model.Path, dev, model.LoadOptions{
		Import: importer.Options{
			Triangulate: cfg.Model.Triangulate,
			FlipUVs:     cfg.Model.FlipUVs,
		},
		FlipTextures:   cfg.Model.FlipTextures,
		CanonicalPaths: cfg.Model.CanonicalPaths,
	})
	if err != nil {
		v.Close()
		return nil, err
	}
	v.model.SetFallbackTexture(v.fallback)
	for _, terr := range v.model.TextureErrors() {
		log.Warn("model rendered without texture", zap.Error(terr))
	}

	v.transform = cfg.Model.Transform()

	v.camera, err = camera.New(cfg.Camera.Mode, camera.Settings{
		Position:    mgl32.Vec3(cfg.Camera.Position),
		Speed:       cfg.Camera.Speed,
		Sensitivity: cfg.Camera.Sensitivity,
		FOV:         cfg.Render.FOV,
	})
	if err != nil {
		v.Close()
		return nil, err
	}
	if cfg.Camera.FitToModel {
		v.fitCamera()
	}

	log.Info("viewer initialized",
		zap.Int("meshes", len(v.model.Meshes())),
		zap.Int("textures", v.model.TextureCount()),
	)
	return v, nil
}

// fitCamera frames the transformed model bounds and widens the far plane
// so the whole model stays visible.
func (v *Viewer) fitCamera() {
	b := v.model.Bounds()
	if b.Empty() {
		return
	}
	center := mgl32.TransformCoordinate(b.Center(), v.transform)
	radius := b.Radius() * v.cfg.Model.Scale
	v.camera.FitToBounds(center, radius)

	if fly, ok := v.camera.(*camera.Fly); ok && radius > 0 {
		fly.Speed = v.cfg.Camera.Speed * radius
	}
	if need := v.camera.Position().Sub(center).Len() + 4*radius; need > v.far {
		v.far = need
	}
}

// Run starts the main viewer loop.
func (v *Viewer) Run() error {
	v.running = true
	log := logger.Named("viewer")

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	log.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		v.input.BeginFrame()
		v.window.PollEvents(v.input)
		if v.input.Quit {
			v.running = false
			break
		}

		v.update(dt)
		v.render()
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			v.window.SetTitle(fmt.Sprintf("%s - %d fps", v.cfg.Window.Title, frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) update(dt float32) {
	s := v.input
	if s.Resized {
		v.renderer.Resize(s.Width, s.Height)
	}
	if s.Pressed(input.KeyWireframe) {
		v.renderer.SetWireframe(!v.renderer.Wireframe())
	}
	v.camera.Update(s, dt)
}

func (v *Viewer) render() {
	v.renderer.Begin()

	projection := mgl32.Perspective(mgl32.DegToRad(v.camera.FOV()), v.renderer.Aspect(), v.cfg.Render.Near, v.far)

	p := v.program
	p.Use()
	p.SetMat4("projection", projection)
	p.SetMat4("view", v.camera.ViewMatrix())
	p.SetMat4("model", v.transform)
	p.SetVec3("viewPos", v.camera.Position())
	v.light.Apply(p)

	v.model.Draw(p)
	v.renderer.End()

	// Read back before the swap so the frame is still in the back buffer.
	if v.input.Pressed(input.KeyScreenshot) {
		v.screenshot()
	}
}

func (v *Viewer) screenshot() {
	pix, w, h := v.renderer.ReadPixels()
	if _, err := v.shots.CaptureFromPixels(pix, w, h); err != nil {
		logger.Named("viewer").Warn("screenshot failed", zap.Error(err))
	}
}

// Close releases GPU resources and the window. It is safe after a failed New.
func (v *Viewer) Close() {
	logger.Named("viewer").Info("closing viewer")

	if v.model != nil {
		v.model.Destroy()
	}
	if v.renderer != nil {
		if v.fallback != 0 {
			v.renderer.Device().DeleteTexture(v.fallback)
			v.fallback = 0
		}
		if v.program != nil {
			v.program.Delete()
		}
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
