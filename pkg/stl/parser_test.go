package stl

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io/fs"
	"testing"

	"stl2thumb/internal/vec"
)

// binarySTL builds a binary STL buffer with the given header prefix and
// declared triangle count; each triangle is 12 little-endian float32
// values (normal + three vertices)
func binarySTL(t *testing.T, header string, count uint32, triangles [][12]float32) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	head := make([]byte, headerSize)
	copy(head, header)
	buf.Write(head)

	if err := binary.Write(buf, binary.LittleEndian, count); err != nil {
		t.Fatal(err)
	}
	for _, tri := range triangles {
		if err := binary.Write(buf, binary.LittleEndian, tri); err != nil {
			t.Fatal(err)
		}
		if err := binary.Write(buf, binary.LittleEndian, uint16(0)); err != nil {
			t.Fatal(err)
		}
	}
	return buf.Bytes()
}

var testTriangle = [12]float32{
	0, 0, 1, // normal
	-1, -1, 0,
	1, -1, 0,
	0, 1, 0,
}

const asciiTriangle = `solid test
  facet normal 0.0 0.0 1.0
    outer loop
      vertex -1.0 -1.0 0.0
      vertex 1.0 -1.0 0.0
      vertex 0.0 1.0 0.0
    endloop
  endfacet
endsolid test
`

func TestParseBinary(t *testing.T) {
	data := binarySTL(t, "", 1, [][12]float32{testTriangle})

	mesh, err := Parse(context.Background(), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(mesh) != 1 {
		t.Fatalf("got %d triangles; want 1", len(mesh))
	}

	tri := mesh[0]
	if tri.Normal != (vec.Vec3{Z: 1}) {
		t.Fatalf("normal = %+v; want {0 0 1}", tri.Normal)
	}
	if tri.Vertices[0] != (vec.Vec3{X: -1, Y: -1}) {
		t.Fatalf("vertex 0 = %+v", tri.Vertices[0])
	}
	if tri.Vertices[2] != (vec.Vec3{Y: 1}) {
		t.Fatalf("vertex 2 = %+v", tri.Vertices[2])
	}
	if tri.Degenerate {
		t.Fatal("valid triangle flagged degenerate")
	}
}

func TestParseBinaryWithSolidHeader(t *testing.T) {
	// binary files may start with the ascii keyword inside the header;
	// the matching triangle count must win over the keyword
	data := binarySTL(t, "solid exported by cad", 1, [][12]float32{testTriangle})

	mesh, err := Parse(context.Background(), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(mesh) != 1 {
		t.Fatalf("got %d triangles; want 1", len(mesh))
	}
}

func TestParseASCII(t *testing.T) {
	mesh, err := Parse(context.Background(), bytes.NewReader([]byte(asciiTriangle)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(mesh) != 1 {
		t.Fatalf("got %d triangles; want 1", len(mesh))
	}
	if mesh[0].Normal != (vec.Vec3{Z: 1}) {
		t.Fatalf("normal = %+v; want {0 0 1}", mesh[0].Normal)
	}
	if mesh[0].Vertices[1] != (vec.Vec3{X: 1, Y: -1}) {
		t.Fatalf("vertex 1 = %+v", mesh[0].Vertices[1])
	}
}

func TestParseASCIIWhitespaceTolerant(t *testing.T) {
	// arbitrary whitespace and line layout is legal
	scrambled := "solid x\n\tfacet\tnormal 0 0 1 outer loop\r\n" +
		"vertex -1 -1 0 vertex 1 -1 0\n\n\nvertex 0 1 0\n" +
		"endloop endfacet\nendsolid x\n"

	mesh, err := Parse(context.Background(), bytes.NewReader([]byte(scrambled)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(mesh) != 1 {
		t.Fatalf("got %d triangles; want 1", len(mesh))
	}
}

func TestParseASCIIMalformed(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"bad number", "solid x\nfacet normal 0 0 oops\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nendloop\nendfacet\nendsolid x\n"},
		{"missing keyword", "solid x\nfacet normal 0 0 1\nvertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nendloop\nendfacet\nendsolid x\n"},
		{"truncated facet", "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\n"},
		{"stray token", "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nendloop\nendfacet\nbogus\nendsolid x\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(context.Background(), bytes.NewReader([]byte(tc.data)))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("err = %v; want ErrMalformed", err)
			}
		})
	}
}

func TestParseBinaryTruncated(t *testing.T) {
	// declares five triangles but carries only one
	data := binarySTL(t, "", 5, [][12]float32{testTriangle})

	_, err := Parse(context.Background(), bytes.NewReader(data))
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("err = %v; want ErrTruncated", err)
	}
}

func TestParseTooShort(t *testing.T) {
	_, err := Parse(context.Background(), bytes.NewReader([]byte{1, 2, 3}))
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("err = %v; want ErrTruncated", err)
	}
}

func TestParseEmpty(t *testing.T) {
	// header-only binary file with a zero triangle count
	data := binarySTL(t, "", 0, nil)
	if _, err := Parse(context.Background(), bytes.NewReader(data)); !errors.Is(err, ErrEmpty) {
		t.Fatalf("binary err = %v; want ErrEmpty", err)
	}

	// empty ascii solid
	ascii := "solid nothing\nendsolid nothing\n"
	if _, err := Parse(context.Background(), bytes.NewReader([]byte(ascii))); !errors.Is(err, ErrEmpty) {
		t.Fatalf("ascii err = %v; want ErrEmpty", err)
	}
}

func TestNormalRecalculated(t *testing.T) {
	tri := testTriangle
	tri[0], tri[1], tri[2] = 0, 0, 0 // blank normal
	data := binarySTL(t, "", 1, [][12]float32{tri})

	mesh, err := Parse(context.Background(), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if mesh[0].Normal != (vec.Vec3{Z: 1}) {
		t.Fatalf("recalculated normal = %+v; want {0 0 1}", mesh[0].Normal)
	}
}

func TestDegenerateFlagged(t *testing.T) {
	collinear := [12]float32{
		0, 0, 1,
		0, 0, 0,
		1, 1, 1,
		2, 2, 2,
	}
	data := binarySTL(t, "", 2, [][12]float32{collinear, testTriangle})

	mesh, err := Parse(context.Background(), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !mesh[0].Degenerate {
		t.Fatal("collinear triangle not flagged degenerate")
	}
	if mesh[1].Degenerate {
		t.Fatal("valid triangle flagged degenerate")
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(context.Background(), "testdata/does-not-exist.stl")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v; want fs.ErrNotExist", err)
	}
}

func TestParseCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data := binarySTL(t, "", 1, [][12]float32{testTriangle})
	_, err := Parse(ctx, bytes.NewReader(data))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v; want context.Canceled", err)
	}
}
