// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview implements a display.Drawer that shows a downscaled copy
// of the frame on a terminal using ANSI colors.
//
// Useful to watch the wake cycle over ssh when the panel is not connected.
package termview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	// Width and height of the frame in pixels.
	Width, Height int
	// Scale is the edge in pixels of the square shown as one terminal cell.
	// Defaults to 10.
	Scale   int
	Palette *ansi256.Palette
	// Out defaults to a colorable stdout.
	Out io.Writer
}

// Dev renders to the terminal.
type Dev struct {
	w       io.Writer
	scale   int
	palette ansi256.Palette

	frame *image.Gray
	buf   bytes.Buffer
}

// New returns a Dev with a white frame.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Out
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 10
	}
	frame := image.NewGray(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(frame, frame.Bounds(), image.White, image.Point{}, draw.Src)
	return &Dev{
		w:       w,
		scale:   scale,
		palette: *p,
		frame:   frame,
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("termview{%dx%d /%d}", d.frame.Rect.Dx(), d.frame.Rect.Dy(), d.scale)
}

// Halt implements conn.Resource. It resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := io.WriteString(d.w, "\033[0m\n")
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.frame.Bounds()
}

// Draw implements display.Drawer. The whole frame is printed again.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(d.frame, r, src, sp, draw.Src)
	return d.refresh()
}

// cell returns the mean gray level of the cell at column cx, row cy.
func (d *Dev) cell(cx, cy int) color.Gray {
	r := image.Rect(cx*d.scale, cy*d.scale, (cx+1)*d.scale, (cy+1)*d.scale).Intersect(d.frame.Rect)
	sum, n := 0, 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			sum += int(d.frame.GrayAt(x, y).Y)
			n++
		}
	}
	if n == 0 {
		return color.Gray{Y: 0xff}
	}
	return color.Gray{Y: uint8(sum / n)}
}

func (d *Dev) refresh() error {
	cols := (d.frame.Rect.Dx() + d.scale - 1) / d.scale
	rows := (d.frame.Rect.Dy() + d.scale - 1) / d.scale

	d.buf.Reset()
	_, _ = d.buf.WriteString("\033[H\033[0m")
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			_, _ = d.buf.WriteString(d.palette.Block(color.NRGBAModel.Convert(d.cell(cx, cy)).(color.NRGBA)))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
