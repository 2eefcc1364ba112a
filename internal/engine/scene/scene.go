// Package scene renders a single remotely fetched model on a turntable.
// The scene holds at most one model at a time; replacing it swaps the
// pivot wholesale rather than accumulating nodes.
package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/turntable/internal/engine/camera"
	"github.com/Faultbox/turntable/internal/engine/framebuffer"
	"github.com/Faultbox/turntable/internal/engine/lighting"
	"github.com/Faultbox/turntable/internal/engine/scene/shaders"
	"github.com/Faultbox/turntable/internal/engine/shader"
)

// Config contains scene configuration options.
type Config struct {
	Width       int32
	Height      int32
	Background  [3]float32
	ObjectColor [3]float32
	Ambient     lighting.Ambient
	Key         lighting.Directional
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Width:       1024,
		Height:      768,
		Background:  [3]float32{0.10, 0.10, 0.12},
		ObjectColor: [3]float32{0.80, 0.80, 0.85},
		Ambient:     lighting.NewAmbient(0.4),
		Key:         lighting.NewKeyLight(),
	}
}

// Scene manages the offscreen render of the current model.
//
// Graph operations (ReplaceModel, Current, SetModelRotation) touch no GL
// state, so they work on a zero-value Scene. New, Render, Resize, and
// Destroy require a current GL context.
type Scene struct {
	config Config

	// Framebuffer for offscreen rendering
	framebuffer *framebuffer.Framebuffer

	// Shader
	program       *shader.Program
	locModel      int32
	locView       int32
	locProjection int32
	locLightDir   int32
	locAmbient    int32
	locDiffuse    int32
	locObject     int32

	// Lighting, adjustable at runtime via config reload
	Ambient lighting.Ambient
	Key     lighting.Directional

	// Current model, nil while the scene is empty
	pivot *Pivot
}

// New creates a scene with the given configuration.
func New(cfg Config) (*Scene, error) {
	s := &Scene{
		config:  cfg,
		Ambient: cfg.Ambient,
		Key:     cfg.Key,
	}

	var err error
	s.framebuffer, err = framebuffer.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}

	if err := s.createShader(); err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating model shader: %w", err)
	}

	return s, nil
}

func (s *Scene) createShader() error {
	program, err := shader.Compile(shaders.ModelVertexShader, shaders.ModelFragmentShader)
	if err != nil {
		return err
	}
	s.program = program
	s.locModel = program.Uniform("uModel")
	s.locView = program.Uniform("uView")
	s.locProjection = program.Uniform("uProjection")
	s.locLightDir = program.Uniform("uLightDir")
	s.locAmbient = program.Uniform("uAmbient")
	s.locDiffuse = program.Uniform("uDiffuse")
	s.locObject = program.Uniform("uObjectColor")
	return nil
}

// ReplaceModel installs pivot as the scene's only model, detaching and
// releasing whatever it replaces. Passing nil empties the scene.
func (s *Scene) ReplaceModel(p *Pivot) {
	if s.pivot != nil && s.pivot != p {
		s.pivot.attached = false
		s.pivot.destroyGPU()
	}
	s.pivot = p
	if p != nil {
		p.attached = true
	}
}

// Current returns the scene's model pivot, or nil while the scene is empty.
func (s *Scene) Current() *Pivot {
	return s.pivot
}

// SetModelRotation updates the turntable angle of the current model.
// Does nothing while the scene is empty.
func (s *Scene) SetModelRotation(angle float64) {
	if s.pivot == nil {
		return
	}
	s.pivot.SetAngle(angle)
}

// SetObjectColor updates the flat model color.
func (s *Scene) SetObjectColor(color [3]float32) {
	s.config.ObjectColor = color
}

// Render draws the scene into its framebuffer and returns the color texture.
// An empty scene still clears to the background color and returns normally.
func (s *Scene) Render(cam *camera.Fixed) uint32 {
	restore := s.framebuffer.BindWithViewport()
	defer restore()

	bg := s.config.Background
	s.framebuffer.Clear(bg[0], bg[1], bg[2], 1.0)

	if s.pivot == nil || s.pivot.mesh == nil {
		return s.framebuffer.ColorTexture()
	}

	// First render after a model swap uploads the geometry
	if s.pivot.gpu == nil {
		s.pivot.gpu = uploadMesh(s.pivot.mesh)
		if s.pivot.gpu == nil {
			return s.framebuffer.ColorTexture()
		}
	}

	width, height := s.framebuffer.Size()
	aspect := float32(width) / float32(height)
	model := s.pivot.ModelMatrix()
	view := cam.ViewMatrix()
	projection := cam.Projection(aspect)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	s.program.Use()
	gl.UniformMatrix4fv(s.locModel, 1, false, model.Ptr())
	gl.UniformMatrix4fv(s.locView, 1, false, view.Ptr())
	gl.UniformMatrix4fv(s.locProjection, 1, false, projection.Ptr())
	dir := s.Key.Direction
	gl.Uniform3f(s.locLightDir, dir[0], dir[1], dir[2])
	ambient := s.Ambient.Scaled()
	gl.Uniform3f(s.locAmbient, ambient[0], ambient[1], ambient[2])
	diffuse := s.Key.Color
	gl.Uniform3f(s.locDiffuse, diffuse[0], diffuse[1], diffuse[2])
	object := s.config.ObjectColor
	gl.Uniform3f(s.locObject, object[0], object[1], object[2])

	s.pivot.gpu.draw()

	return s.framebuffer.ColorTexture()
}

// Resize updates the scene dimensions.
func (s *Scene) Resize(width, height int32) {
	s.framebuffer.Resize(width, height)
}

// ColorTexture returns the rendered color texture.
func (s *Scene) ColorTexture() uint32 {
	return s.framebuffer.ColorTexture()
}

// CaptureImage captures the current rendered scene as RGBA pixel data.
// Returns the pixel data and dimensions. Pixels are in correct orientation (top-to-bottom).
func (s *Scene) CaptureImage() ([]byte, int32, int32) {
	width, height := s.framebuffer.Size()
	pixels := s.framebuffer.ReadPixels()

	// Flip vertically (OpenGL has origin at bottom-left, we need top-left)
	rowSize := int(width) * 4
	flipped := make([]byte, len(pixels))
	for y := 0; y < int(height); y++ {
		srcRow := (int(height) - 1 - y) * rowSize
		dstRow := y * rowSize
		copy(flipped[dstRow:dstRow+rowSize], pixels[srcRow:srcRow+rowSize])
	}

	return flipped, width, height
}

// Destroy releases all resources.
func (s *Scene) Destroy() {
	if s.pivot != nil {
		s.pivot.attached = false
		s.pivot.destroyGPU()
		s.pivot = nil
	}
	if s.program != nil {
		s.program.Delete()
		s.program = nil
	}
	if s.framebuffer != nil {
		s.framebuffer.Destroy()
		s.framebuffer = nil
	}
}
