// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare7in5v2

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3/rpi"
)

// Commands
const (
	panelSetting            byte = 0x00
	powerSetting            byte = 0x01
	powerOff                byte = 0x02
	powerOn                 byte = 0x04
	boosterSoftStart        byte = 0x06
	deepSleep               byte = 0x07
	dataTransmission1       byte = 0x10
	displayRefresh          byte = 0x12
	dataTransmission2       byte = 0x13
	dualSPI                 byte = 0x15
	vcomDataIntervalSetting byte = 0x50
	tconSetting             byte = 0x60
	resolutionSetting       byte = 0x61
	getStatus               byte = 0x71
	partialWindow           byte = 0x90
	partialIn               byte = 0x91
	partialOut              byte = 0x92
	cascadeSetting          byte = 0xE0
	forceTemperature        byte = 0xE5
)

const (
	// Black and white mode, LUT from OTP.
	panelKW byte = 0x1F

	deepSleepCheckCode byte = 0xA5
)

// Dev defines the handler which is used to access the display.
type Dev struct {
	c conn.Conn

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	buffer      *image1bit.VerticalLSB
	mode        PartialUpdate
	busyTimeout time.Duration

	opts *Opts
}

// Opts defines the structure of the display configuration.
type Opts struct {
	Width  int
	Height int
}

// PartialUpdate defines if the display should do a full update or just a partial update.
type PartialUpdate bool

const (
	// Full should update the complete display.
	Full PartialUpdate = false
	// Partial should update only partial parts of the display.
	Partial PartialUpdate = true
)

// EPD7in5v2 contains display configuration for the Waveshare 7in5 V2.
var EPD7in5v2 = Opts{
	Width:  800,
	Height: 480,
}

// New creates new handler which is used to access the display.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	if opts.Width%8 != 0 {
		return nil, fmt.Errorf("waveshare7in5v2: width %d is not a multiple of 8", opts.Width)
	}

	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	if err := busy.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, err
	}

	d := &Dev{
		c:    c,
		dc:   dc,
		cs:   cs,
		rst:  rst,
		busy: busy,
		buffer: image1bit.NewVerticalLSB(image.Rectangle{
			Max: image.Pt(opts.Width, opts.Height),
		}),
		mode:        Full,
		busyTimeout: 30 * time.Second,
		opts:        opts,
	}

	// Default color
	draw.Src.Draw(d.buffer, d.buffer.Bounds(), &image.Uniform{image1bit.On}, image.Point{})

	return d, nil
}

// NewHat creates new handler which is used to access the display. Default Waveshare Hat configuration is used.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	cs := rpi.P1_24
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, cs, rst, busy, opts)
}

// Init resets the controller and configures it for full refreshes. Use it
// after power-on; the panel content is rewritten by the next Draw.
func (d *Dev) Init() error {
	if err := d.Reset(); err != nil {
		return err
	}

	eh := errorHandler{d: *d}
	initDisplay(&eh, d.opts)
	if eh.err == nil {
		d.mode = Full
	}
	return eh.err
}

// Resume wakes the controller from deep sleep for window updates without
// refreshing the panel, which keeps showing what was last drawn.
func (d *Dev) Resume() error {
	if err := d.Reset(); err != nil {
		return err
	}
	// The reset dropped the partial configuration.
	d.mode = Full
	return d.SetUpdateMode(Partial)
}

// SetUpdateMode changes the way updates to the displayed image are applied.
// In Full mode every Draw refreshes the whole panel; in Partial mode only
// the destination window is uploaded and refreshed.
func (d *Dev) SetUpdateMode(mode PartialUpdate) error {
	if mode == d.mode {
		return nil
	}
	if mode == Partial {
		eh := errorHandler{d: *d}
		initPartial(&eh)
		if eh.err != nil {
			return eh.err
		}
	}
	d.mode = mode
	return nil
}

// Mode returns the current update mode.
func (d *Dev) Mode() PartialUpdate {
	return d.mode
}

// Clear fills the display with color and refreshes it.
func (d *Dev) Clear(color color.Color) error {
	return d.Draw(d.buffer.Bounds(), &image.Uniform{
		C: image1bit.BitModel.Convert(color).(image1bit.Bit),
	}, image.Point{})
}

// ColorModel returns a 1Bit color model.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the bounds for the configurated display.
func (d *Dev) Bounds() image.Rectangle {
	return d.buffer.Bounds()
}

// Draw draws the given image to the display.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	opts := drawOpts{
		mode:    d.mode,
		buffer:  d.buffer,
		dstRect: dstRect,
		src:     src,
		srcPts:  srcPts,
	}

	eh := errorHandler{d: *d}
	drawImage(&eh, &opts)
	return eh.err
}

// Sleep powers the panel off and puts the controller into deep sleep. The
// image stays on the panel. Only Init or Resume wake it up again.
func (d *Dev) Sleep() error {
	eh := errorHandler{d: *d}
	enterDeepSleep(&eh)
	return eh.err
}

// Halt clears the display.
func (d *Dev) Halt() error {
	return d.Clear(image1bit.On)
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("epd.Dev{%s, %s, Width: %d, Height: %d}", d.c, d.dc, d.opts.Width, d.opts.Height)
}

// Reset the hardware.
func (d *Dev) Reset() error {
	eh := errorHandler{d: *d}

	eh.rstOut(gpio.High)
	time.Sleep(20 * time.Millisecond)
	eh.rstOut(gpio.Low)
	time.Sleep(2 * time.Millisecond)
	eh.rstOut(gpio.High)
	time.Sleep(20 * time.Millisecond)

	return eh.err
}

var _ display.Drawer = &Dev{}
