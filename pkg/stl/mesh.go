package stl

import (
	"stl2thumb/internal/vec"
)

// degenerateEps is the smallest cross product length a triangle may have
// before it counts as zero-area
const degenerateEps = 1e-12

// Triangle represents a single mesh facet
type Triangle struct {
	Vertices [3]vec.Vec3
	Normal   vec.Vec3
	// Degenerate marks zero-area triangles; the rasterizer skips them
	Degenerate bool
}

// Mesh is an ordered sequence of triangles
type Mesh []Triangle

// NewTriangle creates a triangle from three vertices and a facet normal.
// A zero or non-finite normal is recalculated from the vertex winding
// using the right hand rule, as many exporters leave the field blank.
func NewTriangle(vertices [3]vec.Vec3, normal vec.Vec3) Triangle {
	cross := vertices[1].Sub(vertices[0]).Cross(vertices[2].Sub(vertices[0]))
	degenerate := cross.Length() < degenerateEps

	if !normal.IsFinite() || normal.Length() == 0 {
		normal = cross.Normalize()
	}

	return Triangle{
		Vertices:   vertices,
		Normal:     normal,
		Degenerate: degenerate,
	}
}
