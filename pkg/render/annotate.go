package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"stl2thumb/internal/vec"
)

// MinHintHeight is the smallest image height on which the size hint is
// still readable; drawSizeHint skips smaller pictures
const MinHintHeight = 64

// drawSizeHint overlays the model dimensions near the bottom edge. The
// overlay never fails a render; when the label does not fit it is
// silently skipped. Pixels outside the label area are left untouched.
func drawSizeHint(pic *Picture, size vec.Vec3) {
	if pic.Height() < MinHintHeight {
		return
	}
	if !size.IsFinite() {
		return
	}

	label := fmt.Sprintf("%.1f x %.1f x %.1f", size.X, size.Y, size.Z)
	face := basicfont.Face7x13

	width := font.MeasureString(face, label).Ceil()
	if width+8 > pic.Width() {
		return
	}

	// backing bar so the label reads on any background
	left := (pic.Width()-width)/2 - 4
	right := (pic.Width()+width)/2 + 4
	for y := pic.Height() - face.Height - 6; y < pic.Height(); y++ {
		for x := left; x < right; x++ {
			pic.SetPixel(x, y, RGBA{A: 160})
		}
	}

	drawer := &font.Drawer{
		Dst:  pic,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P((pic.Width()-width)/2, pic.Height()-6),
	}
	drawer.DrawString(label)
}
