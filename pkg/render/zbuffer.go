package render

import "math"

// zbuffer resolves per-pixel depth so that nearer fragments occlude
// farther ones independent of triangle order
type zbuffer struct {
	data   []float64
	width  int
	height int
}

func newZBuffer(width, height int) *zbuffer {
	data := make([]float64, width*height)
	for i := range data {
		data[i] = -math.MaxFloat64
	}
	return &zbuffer{data: data, width: width, height: height}
}

// testAndSet records z and returns true if the fragment is nearer than
// the stored depth for the pixel
func (zb *zbuffer) testAndSet(x, y int, z float64) bool {
	if x < 0 || x >= zb.width || y < 0 || y >= zb.height {
		return false
	}

	i := y*zb.width + x
	if z > zb.data[i] {
		zb.data[i] = z
		return true
	}
	return false
}
