package stl

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"stl2thumb/internal/vec"
)

const (
	headerSize   = 80
	triangleSize = 50 // 12 bytes normal + 3 * 12 bytes vertices + 2 bytes attributes

	// deadlineBatch is how many triangles get parsed between two
	// context checks
	deadlineBatch = 1024
)

// Parse errors
var (
	ErrTruncated = errors.New("stl: truncated binary file")
	ErrMalformed = errors.New("stl: malformed ascii file")
	ErrEmpty     = errors.New("stl: file contains no triangles")
)

type stlType int

const (
	typeBinary stlType = iota
	typeASCII
)

// ParseFile parses the STL file at path
func ParseFile(ctx context.Context, path string) (Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(ctx, file)
}

// Parse reads a binary or ASCII STL mesh from r. The encoding is detected
// automatically. Parsing honors the deadline of ctx at coarse intervals.
func Parse(ctx context.Context, r io.ReadSeeker) (Mesh, error) {
	kind, err := detectType(r)
	if err != nil {
		return nil, err
	}

	var mesh Mesh
	switch kind {
	case typeBinary:
		mesh, err = parseBinary(ctx, r)
	case typeASCII:
		mesh, err = parseASCII(ctx, r)
	}
	if err != nil {
		return nil, err
	}

	if len(mesh) == 0 {
		return nil, ErrEmpty
	}
	return mesh, nil
}

// detectType deduces the STL encoding. The reliable way to tell the two
// apart is to check whether the declared triangle count matches the file
// size, since binary files may well start with the "solid" keyword inside
// their free-form header.
func detectType(r io.ReadSeeker) (stlType, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}

	if size >= headerSize+4 {
		if _, err := r.Seek(headerSize, io.SeekStart); err != nil {
			return 0, err
		}
		var count uint32
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return 0, err
		}
		if headerSize+4+int64(count)*triangleSize == size {
			return typeBinary, nil
		}
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	head := make([]byte, 16)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, err
	}
	if strings.HasPrefix(strings.TrimLeft(strings.ToLower(string(head[:n])), " \t\r\n"), "solid") {
		return typeASCII, nil
	}

	if size >= headerSize+4 {
		// Binary header whose count does not match the payload; the
		// binary parser reports the exact mismatch.
		return typeBinary, nil
	}
	return 0, fmt.Errorf("%w: %d bytes is too short for a header", ErrTruncated, size)
}

func parseBinary(ctx context.Context, r io.ReadSeeker) (Mesh, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(headerSize, io.SeekStart); err != nil {
		return nil, err
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: missing triangle count", ErrTruncated)
	}
	if headerSize+4+int64(count)*triangleSize > size {
		return nil, fmt.Errorf("%w: header declares %d triangles, file holds %d bytes",
			ErrTruncated, count, size)
	}

	reader := bufio.NewReader(r)
	mesh := make(Mesh, 0, count)
	record := make([]byte, triangleSize)

	for i := uint32(0); i < count; i++ {
		if i%deadlineBatch == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if _, err := io.ReadFull(reader, record); err != nil {
			return nil, fmt.Errorf("%w: triangle %d: %v", ErrTruncated, i, err)
		}

		normal := decodeVec3(record[0:])
		v0 := decodeVec3(record[12:])
		v1 := decodeVec3(record[24:])
		v2 := decodeVec3(record[36:])
		// the 2 attribute bytes are ignored

		mesh = append(mesh, NewTriangle([3]vec.Vec3{v0, v1, v2}, normal))
	}

	return mesh, nil
}

// decodeVec3 reads three consecutive little-endian float32 values
func decodeVec3(b []byte) vec.Vec3 {
	return vec.Vec3{
		X: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:4]))),
		Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:8]))),
		Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:12]))),
	}
}

func parseASCII(ctx context.Context, r io.ReadSeeker) (Mesh, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)

	next := func() (string, bool) {
		if scanner.Scan() {
			return scanner.Text(), true
		}
		return "", false
	}

	tok, ok := next()
	if !ok || !strings.EqualFold(tok, "solid") {
		return nil, fmt.Errorf("%w: missing solid keyword", ErrMalformed)
	}

	// The solid name is free-form; skip ahead to the first facet.
	for {
		tok, ok = next()
		if !ok {
			return nil, fmt.Errorf("%w: unexpected end of file", ErrMalformed)
		}
		if strings.EqualFold(tok, "facet") || strings.EqualFold(tok, "endsolid") {
			break
		}
	}

	var mesh Mesh
	for !strings.EqualFold(tok, "endsolid") {
		if !strings.EqualFold(tok, "facet") {
			return nil, fmt.Errorf("%w: got %q, wanted \"facet\" or \"endsolid\"", ErrMalformed, tok)
		}

		if len(mesh)%deadlineBatch == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		triangle, err := readASCIIFacet(next)
		if err != nil {
			return nil, err
		}
		mesh = append(mesh, triangle)

		tok, ok = next()
		if !ok {
			return nil, fmt.Errorf("%w: missing endsolid", ErrMalformed)
		}
	}

	return mesh, nil
}

// readASCIIFacet reads one facet body, the leading "facet" keyword has
// already been consumed
func readASCIIFacet(next func() (string, bool)) (Triangle, error) {
	if err := expect(next, "normal"); err != nil {
		return Triangle{}, err
	}
	normal, err := readASCIIVec3(next)
	if err != nil {
		return Triangle{}, err
	}

	if err := expect(next, "outer"); err != nil {
		return Triangle{}, err
	}
	if err := expect(next, "loop"); err != nil {
		return Triangle{}, err
	}

	var vertices [3]vec.Vec3
	for i := range vertices {
		if err := expect(next, "vertex"); err != nil {
			return Triangle{}, err
		}
		vertices[i], err = readASCIIVec3(next)
		if err != nil {
			return Triangle{}, err
		}
	}

	if err := expect(next, "endloop"); err != nil {
		return Triangle{}, err
	}
	if err := expect(next, "endfacet"); err != nil {
		return Triangle{}, err
	}

	return NewTriangle(vertices, normal), nil
}

func expect(next func() (string, bool), keyword string) error {
	tok, ok := next()
	if !ok {
		return fmt.Errorf("%w: unexpected end of file, wanted %q", ErrMalformed, keyword)
	}
	if !strings.EqualFold(tok, keyword) {
		return fmt.Errorf("%w: got %q, wanted %q", ErrMalformed, tok, keyword)
	}
	return nil
}

func readASCIIVec3(next func() (string, bool)) (vec.Vec3, error) {
	var values [3]float64
	for i := range values {
		tok, ok := next()
		if !ok {
			return vec.Vec3{}, fmt.Errorf("%w: unexpected end of file in coordinate", ErrMalformed)
		}
		// STL stores single precision values
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return vec.Vec3{}, fmt.Errorf("%w: bad number %q", ErrMalformed, tok)
		}
		values[i] = v
	}
	return vec.Vec3{X: values[0], Y: values[1], Z: values[2]}, nil
}
