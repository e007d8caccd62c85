package render

import (
	"context"
	"fmt"
	"math"
	"time"

	"stl2thumb/internal/vec"
	"stl2thumb/pkg/config"
	"stl2thumb/pkg/stl"
)

// Settings control a single render invocation
type Settings struct {
	// Width and Height are the target image dimensions in pixels
	Width  int
	Height int
	// SizeHint draws the model dimensions onto the finished image
	SizeHint bool
	// Timeout bounds the total wall clock time of the render, 0
	// disables the bound
	Timeout time.Duration
}

// turntable animations rotate the camera a full circle in 45 frames
const (
	turntableFrames    = 45
	turntableStepAngle = 8.0 * math.Pi / 180.0
)

// RenderFile renders the STL file at path into a picture. The deadline
// derived from the settings is checked between the pipeline stages and at
// coarse intervals inside them; on expiry the error is
// context.DeadlineExceeded.
func RenderFile(ctx context.Context, path string, settings Settings, cfg *config.Config) (*Picture, error) {
	backend, err := newBackendFromConfig(settings, cfg)
	if err != nil {
		return nil, err
	}

	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}

	mesh, err := stl.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	box := stl.BoundingBox(mesh)
	scale, err := backend.FitScale(box)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pic, err := backend.Render(ctx, mesh, scale, box)
	if err != nil {
		return nil, err
	}

	if settings.SizeHint {
		drawSizeHint(pic, box.Size())
	}

	return pic, nil
}

// RenderTurntable renders a sequence of frames rotating the camera around
// the model, for an animated thumbnail
func RenderTurntable(ctx context.Context, path string, settings Settings, cfg *config.Config) ([]*Picture, error) {
	backend, err := newBackendFromConfig(settings, cfg)
	if err != nil {
		return nil, err
	}

	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}

	mesh, err := stl.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}

	box := stl.BoundingBox(mesh)
	scale, err := backend.FitScale(box)
	if err != nil {
		return nil, err
	}

	elevation := backend.ViewPos.Z

	frames := make([]*Picture, 0, turntableFrames)
	for i := 0; i < turntableFrames; i++ {
		angle := turntableStepAngle * float64(i)
		backend.ViewPos = vec.Vec3{X: math.Cos(angle), Y: math.Sin(angle), Z: elevation}

		pic, err := backend.Render(ctx, mesh, scale, box)
		if err != nil {
			return nil, err
		}
		if settings.SizeHint {
			drawSizeHint(pic, box.Size())
		}
		frames = append(frames, pic)
	}

	return frames, nil
}

// newBackendFromConfig validates the settings and builds a backend with
// the configured camera, light and style
func newBackendFromConfig(settings Settings, cfg *config.Config) (*Backend, error) {
	if settings.Width <= 0 || settings.Height <= 0 {
		return nil, fmt.Errorf("render: invalid image size %dx%d", settings.Width, settings.Height)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	backend := NewBackend(settings.Width, settings.Height)

	elevation := cfg.Camera.Elevation * math.Pi / 180
	backend.ViewPos = vec.Vec3{X: 1, Y: 1, Z: -math.Tan(elevation)}
	backend.Zoom = cfg.Camera.Zoom
	backend.LightPos = vec.Vec3{X: cfg.Light.X, Y: cfg.Light.Y, Z: cfg.Light.Z}
	backend.GridVisible = cfg.Style.GridVisible

	colors := []struct {
		hex  string
		name string
		set  func(RGBA)
	}{
		{cfg.Light.Color, "light color", func(c RGBA) { backend.LightColor = c.Vec3() }},
		{cfg.Light.Ambient, "ambient color", func(c RGBA) { backend.AmbientColor = c.Vec3() }},
		{cfg.Style.ModelColor, "model color", func(c RGBA) { backend.ModelColor = c.Vec3() }},
		{cfg.Style.BackgroundColor, "background color", func(c RGBA) { backend.Background = c }},
		{cfg.Style.GridColor, "grid color", func(c RGBA) { backend.GridColor = c }},
	}
	for _, entry := range colors {
		c, err := ParseHex(entry.hex)
		if err != nil {
			return nil, fmt.Errorf("render: bad %s: %w", entry.name, err)
		}
		entry.set(c)
	}

	return backend, nil
}
