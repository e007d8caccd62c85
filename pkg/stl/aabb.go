package stl

import (
	"math"

	"stl2thumb/internal/vec"
)

// AABB is an axis aligned bounding box
type AABB struct {
	Lower vec.Vec3
	Upper vec.Vec3
}

// BoundingBox computes the bounding box of a mesh
func BoundingBox(mesh Mesh) AABB {
	lower := vec.Vec3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	upper := vec.Vec3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}

	for _, t := range mesh {
		for _, v := range t.Vertices {
			lower.X = math.Min(lower.X, v.X)
			lower.Y = math.Min(lower.Y, v.Y)
			lower.Z = math.Min(lower.Z, v.Z)

			upper.X = math.Max(upper.X, v.X)
			upper.Y = math.Max(upper.Y, v.Y)
			upper.Z = math.Max(upper.Z, v.Z)
		}
	}

	return AABB{Lower: lower, Upper: upper}
}

// Size returns the extent of the box along each axis
func (b AABB) Size() vec.Vec3 {
	return b.Upper.Sub(b.Lower)
}

// Center returns the center point of the box
func (b AABB) Center() vec.Vec3 {
	return b.Lower.Add(b.Size().Mul(0.5))
}

// Transform applies a transform to both corners of the box
func (b AABB) Transform(m vec.Mat4) AABB {
	return AABB{
		Lower: m.TransformPoint(b.Lower),
		Upper: m.TransformPoint(b.Upper),
	}
}

// IsDegenerate reports whether the box has zero extent on every axis,
// e.g. for a mesh collapsed into a single point
func (b AABB) IsDegenerate() bool {
	size := b.Size()
	return size.X < degenerateEps && size.Y < degenerateEps && size.Z < degenerateEps
}
