// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// MaxWindows is the number of dirty rectangles kept for /windows.
const MaxWindows = 32

// Opts configures a Display.
type Opts struct {
	// Width and height of the frame.
	Width, Height int

	// Format is used when a stream request has no format parameter.
	Format Format

	// Mono quantizes every drawn pixel to black or white.
	Mono bool
}

// Window is one committed dirty rectangle.
type Window struct {
	X  int       `json:"x"`
	Y  int       `json:"y"`
	W  int       `json:"w"`
	H  int       `json:"h"`
	At time.Time `json:"at"`
}

// Display keeps a copy of the frame and pushes it to HTTP clients.
type Display struct {
	format Format
	mono   bool
	now    func() time.Time

	mu       sync.Mutex
	frame    *image.RGBA
	windows  []Window
	clients  map[*client]struct{}
	snapshot map[Format][]byte
}

var _ display.Drawer = (*Display)(nil)

type client struct {
	refresh   chan struct{}
	terminate chan struct{}
}

// New returns a Display with a white frame.
func New(opts *Opts) *Display {
	frame := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(frame, frame.Bounds(), image.White, image.Point{}, draw.Src)

	return &Display{
		format:   opts.Format,
		mono:     opts.Mono,
		now:      time.Now,
		frame:    frame,
		clients:  map[*client]struct{}{},
		snapshot: map[Format][]byte{},
	}
}

// String returns the name of the device.
func (d *Display) String() string {
	return "preview"
}

// Halt implements conn.Resource and ends all running streams
// asynchronously.
func (d *Display) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for c := range d.clients {
		select {
		case c.terminate <- struct{}{}:
		default:
		}
	}
	return nil
}

// ColorModel implements display.Drawer.
func (d *Display) ColorModel() color.Model {
	if d.mono {
		return image1bit.BitModel
	}
	return color.RGBAModel
}

// Bounds implements display.Drawer.
func (d *Display) Bounds() image.Rectangle {
	return d.frame.Bounds()
}

// Draw implements display.Drawer. The rectangle is logged as a dirty window
// and all streams are refreshed.
func (d *Display) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	r := dstRect.Intersect(d.frame.Bounds())
	if r.Empty() {
		return nil
	}
	srcPts = srcPts.Add(r.Min.Sub(dstRect.Min))

	if d.mono {
		bits := image1bit.NewVerticalLSB(image.Rectangle{Max: r.Size()})
		draw.Src.Draw(bits, bits.Bounds(), src, srcPts)
		src, srcPts = bits, image.Point{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	draw.Draw(d.frame, r, src, srcPts, draw.Src)

	d.windows = append(d.windows, Window{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy(), At: d.now()})
	if n := len(d.windows); n > MaxWindows {
		d.windows = append(d.windows[:0], d.windows[n-MaxWindows:]...)
	}

	clear(d.snapshot)
	for c := range d.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
	return nil
}

// Windows returns the most recent dirty rectangles, oldest first.
func (d *Display) Windows() []Window {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Window(nil), d.windows...)
}

// Snapshot returns the frame encoded in format. Encodings are cached until
// the next Draw; the returned slice must not be modified.
func (d *Display) Snapshot(format Format) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if b, ok := d.snapshot[format]; ok {
		return b, nil
	}
	b, err := encode(d.frame, format)
	if err != nil {
		return nil, err
	}
	d.snapshot[format] = b
	return b, nil
}

func (d *Display) subscribe() *client {
	c := &client{
		refresh:   make(chan struct{}, 1),
		terminate: make(chan struct{}, 1),
	}
	d.mu.Lock()
	d.clients[c] = struct{}{}
	d.mu.Unlock()
	return c
}

func (d *Display) unsubscribe(c *client) {
	d.mu.Lock()
	delete(d.clients, c)
	d.mu.Unlock()
}
