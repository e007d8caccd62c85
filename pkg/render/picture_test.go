package render

import (
	"bytes"
	"testing"

	"stl2thumb/internal/vec"
)

func TestPictureInvariants(t *testing.T) {
	pic := NewPicture(33, 17)

	if pic.Stride() < pic.Width()*4 {
		t.Fatalf("stride %d < width*4 %d", pic.Stride(), pic.Width()*4)
	}
	if len(pic.Data()) != pic.Height()*pic.Stride() {
		t.Fatalf("len %d != height*stride %d", len(pic.Data()), pic.Height()*pic.Stride())
	}
	if pic.Depth() != 4 {
		t.Fatalf("depth = %d; want 4", pic.Depth())
	}

	// new pictures are fully transparent
	for _, b := range pic.Data() {
		if b != 0 {
			t.Fatal("new picture is not transparent")
		}
	}
}

func TestPictureSetGet(t *testing.T) {
	pic := NewPicture(8, 8)
	c := RGBA{R: 1, G: 2, B: 3, A: 4}

	pic.SetPixel(3, 5, c)
	if got := pic.PixelAt(3, 5); got != c {
		t.Fatalf("PixelAt = %+v; want %+v", got, c)
	}

	// out of range writes are ignored, reads return transparent
	pic.SetPixel(-1, 0, c)
	pic.SetPixel(8, 8, c)
	if got := pic.PixelAt(99, 99); got != (RGBA{}) {
		t.Fatalf("out of range read = %+v; want zero", got)
	}
}

func TestPictureFill(t *testing.T) {
	pic := NewPicture(4, 4)
	pic.Fill(RGBA{R: 10, G: 20, B: 30, A: 40})

	if got := pic.PixelAt(0, 0); got != (RGBA{R: 10, G: 20, B: 30, A: 40}) {
		t.Fatalf("corner = %+v", got)
	}
	if got := pic.PixelAt(3, 3); got != (RGBA{R: 10, G: 20, B: 30, A: 40}) {
		t.Fatalf("corner = %+v", got)
	}
}

func TestPictureLine(t *testing.T) {
	pic := NewPicture(16, 16)
	c := RGBA{R: 255, A: 255}

	pic.Line(0, 0, 15, 15, c)

	if pic.PixelAt(0, 0) != c || pic.PixelAt(15, 15) != c || pic.PixelAt(7, 7) != c {
		t.Fatal("diagonal line misses expected pixels")
	}
}

func TestPictureBGRA(t *testing.T) {
	pic := NewPicture(2, 1)
	pic.SetPixel(0, 0, RGBA{R: 1, G: 2, B: 3, A: 4})
	pic.SetPixel(1, 0, RGBA{R: 5, G: 6, B: 7, A: 8})

	want := []uint8{3, 2, 1, 4, 7, 6, 5, 8}
	if got := pic.BGRA(); !bytes.Equal(got, want) {
		t.Fatalf("BGRA = %v; want %v", got, want)
	}
}

func TestFromVec4(t *testing.T) {
	got := FromVec4(vec.Vec4{X: 1.0, Y: 0.5, Z: -1.0, W: 2.0})
	want := RGBA{R: 255, G: 127, B: 0, A: 255}
	if got != want {
		t.Fatalf("FromVec4 = %+v; want %+v", got, want)
	}
}

func TestParseHex(t *testing.T) {
	cases := []struct {
		in      string
		want    RGBA
		wantErr bool
	}{
		{in: "FF00FF00", want: RGBA{R: 255, G: 0, B: 255, A: 0}},
		{in: "0073FF", want: RGBA{R: 0, G: 115, B: 255, A: 255}},
		{in: "00000000", want: RGBA{}},
		{in: "FF00F", wantErr: true},
		{in: "GG0000", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseHex(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseHex(%q) succeeded; want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseHex(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseHex(%q) = %+v; want %+v", tc.in, got, tc.want)
		}
	}
}
