// Package main exports the renderer behind a C compatible boundary.
// Build it as a shared library for desktop thumbnail providers:
//
//	go build -buildmode=c-shared -o libstl2thumb.so ./ffi
//
// The caller-facing contract lives in include/stl2thumb.h: render returns
// a PictureBuffer whose data pointer is NULL on any failure, and every
// successfully returned buffer must be released through
// free_picture_buffer exactly once.
package main

/*
#cgo CFLAGS: -I${SRCDIR}/include
#include <stdlib.h>
#include "stl2thumb.h"
*/
import "C"

import (
	"context"
	"time"
	"unsafe"

	"stl2thumb/pkg/config"
	renderpkg "stl2thumb/pkg/render"
)

//export render
func render(path *C.char, width C.uint32_t, height C.uint32_t, settings C.RenderSettings) C.PictureBuffer {
	var failed C.PictureBuffer

	if path == nil {
		return failed
	}

	s := renderpkg.Settings{
		Width:    int(width),
		Height:   int(height),
		SizeHint: bool(settings.size_hint),
		Timeout:  time.Duration(settings.timeout_ms) * time.Millisecond,
	}

	pic, err := renderpkg.RenderFile(context.Background(), C.GoString(path), s, config.DefaultConfig())
	if err != nil {
		// Errors never cross the boundary; the NULL data pointer is
		// the single failure signal.
		return failed
	}

	// One allocation whose ownership transfers to the caller.
	n := len(pic.Data())
	buf := C.malloc(C.size_t(n))
	if buf == nil {
		return failed
	}
	copy(unsafe.Slice((*byte)(buf), n), pic.Data())

	return C.PictureBuffer{
		data:   (*C.uint8_t)(buf),
		len:    C.uint32_t(n),
		stride: C.uint32_t(pic.Stride()),
		depth:  C.uint32_t(pic.Depth()),
	}
}

//export free_picture_buffer
func free_picture_buffer(buffer C.PictureBuffer) {
	C.free(unsafe.Pointer(buffer.data))
}

func main() {}
