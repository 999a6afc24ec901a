// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"sync"
)

type pngBufferPool sync.Pool

func (p *pngBufferPool) Get() *png.EncoderBuffer {
	buf, _ := (*sync.Pool)(p).Get().(*png.EncoderBuffer)
	return buf
}

func (p *pngBufferPool) Put(buf *png.EncoderBuffer) {
	(*sync.Pool)(p).Put(buf)
}

// Frames are mostly flat white areas; speed matters more than size.
var pngEncoder = png.Encoder{
	CompressionLevel: png.BestSpeed,
	BufferPool:       &pngBufferPool{},
}

var jpegOptions = jpeg.Options{Quality: 90}

func encode(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case PNG:
		if err := pngEncoder.Encode(&buf, img); err != nil {
			return nil, err
		}
	case JPEG:
		if err := jpeg.Encode(&buf, img, &jpegOptions); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("preview: unhandled image format %s", f)
	}
	return buf.Bytes(), nil
}
