// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare7in5v2

import (
	"image"
	"image/draw"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// alignWindow clips r to bounds and widens it horizontally to multiples of 8
// pixels, the granularity of the controller RAM.
func alignWindow(r, bounds image.Rectangle) image.Rectangle {
	r = r.Intersect(bounds)
	if r.Empty() {
		return image.Rectangle{}
	}
	r.Min.X &^= 7
	r.Max.X = (r.Max.X + 7) &^ 7
	return r.Intersect(bounds)
}

// sendWindow streams the pixels of buf inside r, one row per transfer,
// eight pixels per byte with the leftmost pixel in the most significant bit.
//
// The new-data RAM (dataTransmission2) takes a set bit for black, the
// old-data RAM (dataTransmission1) a set bit for white; blackSet selects
// the polarity.
func sendWindow(ctrl controller, cmd byte, buf *image1bit.VerticalLSB, r image.Rectangle, blackSet bool) {
	if r.Empty() {
		return
	}

	ctrl.sendCommand(cmd)

	row := make([]byte, r.Dx()/8)

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for i := range row {
			var b byte
			for bit := 0; bit < 8; bit++ {
				if bool(buf.BitAt(r.Min.X+i*8+bit, y)) != blackSet {
					b |= 0x80 >> bit
				}
			}
			row[i] = b
		}
		// sendData does not retain the slice.
		ctrl.sendData(row)
	}
}

type drawOpts struct {
	mode    PartialUpdate
	buffer  *image1bit.VerticalLSB
	dstRect image.Rectangle
	src     image.Image
	srcPts  image.Point
}

// drawImage copies src into the frame buffer and uploads the affected part.
// Full mode uploads and refreshes the whole frame, Partial mode only the
// aligned destination window.
func drawImage(ctrl controller, opts *drawOpts) {
	bounds := opts.buffer.Bounds()
	dst := opts.dstRect.Intersect(bounds)

	if dst.Empty() {
		return
	}

	draw.Src.Draw(opts.buffer, dst, opts.src, opts.srcPts.Add(dst.Min.Sub(opts.dstRect.Min)))

	if opts.mode == Full {
		sendWindow(ctrl, dataTransmission1, opts.buffer, bounds, false)
		sendWindow(ctrl, dataTransmission2, opts.buffer, bounds, true)
		turnOnDisplay(ctrl)
		return
	}

	win := alignWindow(dst, bounds)
	setPartialWindow(ctrl, win)
	sendWindow(ctrl, dataTransmission2, opts.buffer, win, true)
	turnOnDisplay(ctrl)
	ctrl.sendCommand(partialOut)
}
