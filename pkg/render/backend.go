package render

import (
	"context"
	"errors"
	"math"

	"stl2thumb/internal/vec"
	"stl2thumb/pkg/stl"
)

// ErrDegenerate reports a mesh whose bounding box has no extent on any
// axis, e.g. a mesh collapsed into a single point
var ErrDegenerate = errors.New("render: degenerate scene, mesh has no extent")

// rasterBatch is how many triangles are rasterized between two context
// checks; the per-pixel loops are never interrupted
const rasterBatch = 256

// Backend rasterizes triangle meshes into RGBA pictures using an
// orthographic camera and a single fixed light
type Backend struct {
	ViewPos      vec.Vec3
	LightPos     vec.Vec3
	LightColor   vec.Vec3
	AmbientColor vec.Vec3
	ModelColor   vec.Vec3
	GridColor    RGBA
	Background   RGBA
	Zoom         float64
	GridVisible  bool

	width       int
	height      int
	aspectRatio float64
}

// NewBackend creates a backend with the default camera and light setup
func NewBackend(width, height int) *Backend {
	return &Backend{
		ViewPos:      vec.Vec3{X: -1, Y: 1, Z: -1}.Normalize(),
		LightPos:     vec.Vec3{X: -5, Y: 5, Z: -7.5},
		LightColor:   vec.Vec3{X: 0.7, Y: 0.7, Z: 0.7},
		AmbientColor: vec.Vec3{X: 0.4, Y: 0.4, Z: 0.4},
		ModelColor:   vec.Vec3{X: 0.0, Y: 0.45, Z: 1.0},
		GridColor:    RGBA{A: 255},
		Background:   RGBA{}, // transparent, thumbnails composite onto the desktop
		Zoom:         1.0,
		width:        width,
		height:       height,
		aspectRatio:  float64(width) / float64(height),
	}
}

// viewProjection builds the combined orthographic projection and view
// matrix for the current camera position
func (b *Backend) viewProjection(zoom float64) vec.Mat4 {
	proj := vec.Ortho(
		zoom*0.5*b.aspectRatio,
		-zoom*0.5*b.aspectRatio,
		-zoom*0.5,
		zoom*0.5,
		0.0,
		1.0,
	)
	view := vec.LookAt(b.ViewPos, vec.Vec3{}, vec.Vec3{Z: -1})
	return proj.Mul(view)
}

// FitScale computes the uniform scale that makes the projected bounding
// box fill the unit canvas, preserving the aspect ratio
func (b *Backend) FitScale(box stl.AABB) (float64, error) {
	if box.IsDegenerate() {
		return 0, ErrDegenerate
	}

	vp := b.viewProjection(1.0)

	corners := [8]vec.Vec3{
		{X: box.Lower.X, Y: box.Lower.Y, Z: box.Lower.Z},
		{X: box.Upper.X, Y: box.Lower.Y, Z: box.Lower.Z},
		{X: box.Lower.X, Y: box.Upper.Y, Z: box.Lower.Z},
		{X: box.Upper.X, Y: box.Upper.Y, Z: box.Lower.Z},
		{X: box.Lower.X, Y: box.Lower.Y, Z: box.Upper.Z},
		{X: box.Upper.X, Y: box.Lower.Y, Z: box.Upper.Z},
		{X: box.Lower.X, Y: box.Upper.Y, Z: box.Upper.Z},
		{X: box.Upper.X, Y: box.Upper.Y, Z: box.Upper.Z},
	}

	min := vec.Vec2{X: math.MaxFloat64, Y: math.MaxFloat64}
	max := vec.Vec2{X: -math.MaxFloat64, Y: -math.MaxFloat64}
	for _, c := range corners {
		p := vp.TransformPoint(c)
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}

	extent := math.Max(math.Abs(max.X-min.X), math.Abs(max.Y-min.Y))
	if extent < 1e-12 || math.IsNaN(extent) || math.IsInf(extent, 0) {
		return 0, ErrDegenerate
	}

	return 2.0 / extent, nil
}

// Render rasterizes the mesh into a new picture. The mesh is centered at
// the origin and scaled by modelScale before projection. Render only
// fails when the context deadline expires.
func (b *Backend) Render(ctx context.Context, mesh stl.Mesh, modelScale float64, box stl.AABB) (*Picture, error) {
	pic := NewPicture(b.width, b.height)
	pic.Fill(b.Background)
	zbuf := newZBuffer(b.width, b.height)

	vp := b.viewProjection(b.Zoom)

	// model transform centering the mesh before scaling it
	model := vec.Scaling(modelScale).Mul(vec.Translation(box.Center().Neg()))
	mvp := vp.Mul(model)

	// let the bounding box match the transformed model
	modelBox := box.Transform(model)

	// eye normal pointing towards the camera in world space
	eyeNormal := b.ViewPos.Normalize()

	// grid in x and y direction underneath the model
	if b.GridVisible {
		b.drawGrid(pic, vp, modelBox.Lower.Z)
		b.drawGrid(pic, vp.Mul(vec.RotationZ(math.Pi/2)), modelBox.Lower.Z)
	}

	fw := float64(b.width)
	fh := float64(b.height)

	for i, t := range mesh {
		if i%rasterBatch == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if t.Degenerate {
			continue
		}

		normal := t.Normal.Neg()

		// backface culling
		if eyeNormal.Dot(normal) < 0 {
			continue
		}

		v0 := mvp.TransformPoint(t.Vertices[0])
		v1 := mvp.TransformPoint(t.Vertices[1])
		v2 := mvp.TransformPoint(t.Vertices[2])

		// vertices in world space for the lighting math
		v0m := model.TransformPoint(t.Vertices[0])
		v1m := model.TransformPoint(t.Vertices[1])
		v2m := model.TransformPoint(t.Vertices[2])

		// numerical instability skips the triangle, never the render
		if !v0.IsFinite() || !v1.IsFinite() || !v2.IsFinite() {
			continue
		}

		p0 := v0.XY()
		p1 := v1.XY()
		p2 := v2.XY()

		area := edgeFn(p0, p1, p2)
		if area == 0 {
			continue
		}

		// triangle bounding box in screen space
		minX := math.Min(v0.X, math.Min(v1.X, v2.X))
		minY := math.Min(v0.Y, math.Min(v1.Y, v2.Y))
		maxX := math.Max(v0.X, math.Max(v1.X, v2.X))
		maxY := math.Max(v0.Y, math.Max(v1.Y, v2.Y))

		sminX := max(0, int((minX+1)/2*fw))
		sminY := max(0, int((minY+1)/2*fh))
		smaxX := min(b.width, int((maxX+1)/2*fw))
		smaxY := min(b.height, int((maxY+1)/2*fh))

		for y := sminY; y <= smaxY; y++ {
			for x := sminX; x <= smaxX; x++ {
				// normalized device coordinates of the pixel
				p := vec.Vec2{
					X: 2 * (float64(x)/fw - 0.5),
					Y: 2 * (float64(y)/fh - 0.5),
				}

				inside := edgeFn(p, p0, p1) <= 0 &&
					edgeFn(p, p1, p2) <= 0 &&
					edgeFn(p, p2, p0) <= 0
				if !inside {
					continue
				}

				// barycentric coordinates
				w0 := edgeFn(p1, p2, p) / area
				w1 := edgeFn(p2, p0, p) / area
				w2 := edgeFn(p0, p1, p) / area

				fragZ := w0*v0.Z + w1*v1.Z + w2*v2.Z
				if !zbuf.testAndSet(x, y, fragZ) {
					continue
				}

				// fragment position in world space
				fp := vec.Vec3{
					X: w0*v0m.X + w1*v1m.X + w2*v2m.X,
					Y: w0*v0m.Y + w1*v1m.Y + w2*v2m.Y,
					Z: w0*v0m.Z + w1*v1m.Z + w2*v2m.Z,
				}

				lightNormal := b.LightPos.Sub(fp).Normalize()
				viewNormal := b.ViewPos.Sub(fp).Normalize()
				reflectDir := lightNormal.Neg().Reflect(normal)

				// lambertian diffuse
				diffuse := b.LightColor.Mul(math.Max(normal.Dot(lightNormal), 0))

				// specular highlight
				specular := b.LightColor.Mul(0.7 * math.Pow(viewNormal.Dot(reflectDir), 16))

				// merge with the ambient floor and tint with the model color
				c := b.AmbientColor.Add(diffuse).Add(specular)
				pic.SetPixel(x, y, FromVec4(vec.Vec4{
					X: c.X * b.ModelColor.X,
					Y: c.Y * b.ModelColor.Y,
					Z: c.Z * b.ModelColor.Z,
					W: 1,
				}))
			}
		}
	}

	return pic, nil
}

// drawGrid draws evenly spaced lines on the ground plane at depth z
func (b *Backend) drawGrid(pic *Picture, vp vec.Mat4, z float64) {
	const gridCount = 20
	spacing := 2.0 / gridCount

	fw := float64(b.width)
	fh := float64(b.height)

	for x := 0; x <= gridCount; x++ {
		p0 := vec.Vec3{X: spacing * float64(x-gridCount/2), Y: 1, Z: z}
		p1 := vec.Vec3{X: p0.X, Y: -1, Z: z}

		// to screen space
		sp0 := vp.TransformPoint(p0).XY()
		sp1 := vp.TransformPoint(p1).XY()

		pic.Line(
			int((sp0.X+1)/2*fw),
			int((sp0.Y+1)/2*fh),
			int((sp1.X+1)/2*fw),
			int((sp1.Y+1)/2*fh),
			b.GridColor,
		)
	}
}

func edgeFn(a, b, c vec.Vec2) float64 {
	return (c.X-a.X)*(b.Y-a.Y) - (c.Y-a.Y)*(b.X-a.X)
}
