package encoder

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"

	"stl2thumb/pkg/render"
)

// TurntableFrameDelay is the default GIF frame delay in hundredths of a
// second
const TurntableFrameDelay = 6

// EncodePNG writes the picture as a PNG image
func EncodePNG(w io.Writer, pic *render.Picture) error {
	return png.Encode(w, pic)
}

// EncodeGIF writes the pictures as an endlessly looping GIF animation.
// Frames are quantized to the Plan 9 palette with error diffusion.
func EncodeGIF(w io.Writer, pics []*render.Picture, delay int) error {
	if len(pics) == 0 {
		return fmt.Errorf("encoder: no frames to encode")
	}

	anim := &gif.GIF{LoopCount: 0}
	for _, pic := range pics {
		bounds := pic.Bounds()
		frame := image.NewPaletted(bounds, palette.Plan9)
		draw.FloydSteinberg.Draw(frame, bounds, pic, image.Point{})

		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}

	return gif.EncodeAll(w, anim)
}
