// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package layout

import (
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/fogleman/gg"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/inkclock/forecast"
)

// ErrGeometry is returned by New when the surface cannot hold the layout.
var ErrGeometry = errors.New("layout: surface smaller than the layout")

// Engine draws the layout into an in-memory frame and commits the changed
// rectangles to a surface. It is not safe for concurrent use.
type Engine struct {
	surface display.Drawer
	dc      *gg.Context
	faces   *faces
	windows []image.Rectangle
}

// New returns an Engine committing to surface. The frame starts white.
func New(surface display.Drawer) (*Engine, error) {
	if b := surface.Bounds(); !Screen.In(b) {
		return nil, fmt.Errorf("%w: %v does not contain %v", ErrGeometry, b, Screen)
	}
	f, err := loadFaces()
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(Width, Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	return &Engine{surface: surface, dc: dc, faces: f}, nil
}

// Frame returns the in-memory frame. It is shared with the Engine.
func (e *Engine) Frame() image.Image {
	return e.dc.Image()
}

// Windows returns the rectangles committed since the previous call.
func (e *Engine) Windows() []image.Rectangle {
	w := e.windows
	e.windows = nil
	return w
}

// DrawFull clears the whole screen and draws the clock pane: time and date
// of now and the battery level. The surface receives the whole screen.
func (e *Engine) DrawFull(now time.Time, battery float64) error {
	return e.commit(Screen, func(dc *gg.Context) {
		e.clock(dc, now.Hour(), now.Minute())
		e.date(dc, now)
		e.battery(dc, battery)
	})
}

// DrawClock redraws the time region.
func (e *Engine) DrawClock(hour, minute int) error {
	return e.commit(Time, func(dc *gg.Context) {
		e.clock(dc, hour, minute)
	})
}

// DrawDate redraws the date region with the date of t.
func (e *Engine) DrawDate(t time.Time) error {
	return e.commit(Date, func(dc *gg.Context) {
		e.date(dc, t)
	})
}

// DrawBattery redraws the battery region.
func (e *Engine) DrawBattery(percent float64) error {
	return e.commit(Battery, func(dc *gg.Context) {
		e.battery(dc, percent)
	})
}

// DrawWeather redraws the whole weather pane from s.
func (e *Engine) DrawWeather(s *forecast.Snapshot) error {
	return e.commit(WeatherPane, func(dc *gg.Context) {
		e.current(dc, &s.Current)
		e.hourly(dc, s.Hourly[:HourlyColumns])
		e.daily(dc, s.Daily[:DailyColumns])
		if !s.FetchedAt.IsZero() {
			dc.SetFontFace(e.faces.small)
			dc.DrawStringAnchored(lastUpdatedText(s.FetchedAt), float64(LastUpdated.Max.X-10), float64(LastUpdated.Min.Y+25), 1, 0.5)
		}
	})
}

// DrawError replaces the weather pane with msg. The clock pane is left
// alone so the time keeps showing; the next DrawWeather clears the message.
func (e *Engine) DrawError(msg string) error {
	return e.commit(WeatherPane, func(dc *gg.Context) {
		dc.SetFontFace(e.faces.message)
		dc.DrawStringWrapped("ERROR: "+msg, float64(WeatherPane.Min.X+30), 200, 0, 0, float64(WeatherPane.Dx()-60), 1.5, gg.AlignLeft)
	})
}

// commit clears r, runs draw clipped to r and sends r to the surface.
func (e *Engine) commit(r image.Rectangle, draw func(dc *gg.Context)) error {
	dc := e.dc
	dc.Push()
	dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	dc.Clip()
	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	dc.Fill()
	dc.SetRGB(0, 0, 0)
	draw(dc)
	dc.Pop()

	e.windows = append(e.windows, r)
	if err := e.surface.Draw(r, dc.Image(), r.Min); err != nil {
		return fmt.Errorf("layout: commit %v: %w", r, err)
	}
	return nil
}

func (e *Engine) clock(dc *gg.Context, hour, minute int) {
	x, y := center(Time)
	dc.SetFontFace(e.faces.clock)
	dc.DrawStringAnchored(clockText(hour, minute), x, y, 0.5, 0.5)
}

func (e *Engine) date(dc *gg.Context, t time.Time) {
	x, _ := center(Date)
	weekday, date := dateLines(t)
	dc.SetFontFace(e.faces.date)
	dc.DrawStringAnchored(weekday, x, float64(Date.Min.Y+28), 0.5, 0.5)
	dc.DrawStringAnchored(date, x, float64(Date.Min.Y+72), 0.5, 0.5)
}

func (e *Engine) battery(dc *gg.Context, percent float64) {
	dc.SetFontFace(e.faces.small)
	dc.DrawStringAnchored(batteryText(percent), float64(Battery.Min.X+10), float64(Battery.Max.Y-20), 0, 0)
}

func (e *Engine) current(dc *gg.Context, c *forecast.Current) {
	x, _ := center(CurrentTemp)
	dc.SetFontFace(e.faces.temp)
	dc.DrawStringAnchored(tempText(c.Temperature), x, float64(CurrentTemp.Min.Y+65), 0.5, 0.5)
	dc.SetFontFace(e.faces.small)
	dc.DrawStringAnchored(fmt.Sprintf("%d%% RH", c.Humidity), x, float64(CurrentTemp.Max.Y-18), 0.5, 0.5)
}

func (e *Engine) hourly(dc *gg.Context, hours []forecast.Hour) {
	dc.SetFontFace(e.faces.label)
	for i, h := range hours {
		x := column(Hourly, i, len(hours))
		dc.DrawStringAnchored(hourText(h.Hour), x, float64(Hourly.Min.Y+18), 0.5, 0.5)
		drawIcon(dc, IconFor(string(h.Condition)), x, float64(Hourly.Min.Y+55), e.faces.small)
		dc.DrawStringAnchored(tempText(h.Temperature), x, float64(Hourly.Min.Y+92), 0.5, 0.5)
	}
}

func (e *Engine) daily(dc *gg.Context, days []forecast.Day) {
	dc.SetFontFace(e.faces.label)
	for i, d := range days {
		x := column(Daily, i, len(days))
		dc.DrawStringAnchored(d.Label, x, float64(Daily.Min.Y+20), 0.5, 0.5)
		drawIcon(dc, IconFor(string(d.Condition)), x, float64(Daily.Min.Y+62), e.faces.small)
		dc.DrawStringAnchored(rangeText(d.High, d.Low), x, float64(Daily.Min.Y+108), 0.5, 0.5)
	}
}

func clockText(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func dateLines(t time.Time) (weekday, date string) {
	return t.Weekday().String(), t.Format("Jan 2, 2006")
}

func batteryText(percent float64) string {
	return fmt.Sprintf("Battery: %.0f%%", percent)
}

func round(v float64) int {
	return int(math.Round(v))
}

func tempText(v float64) string {
	return fmt.Sprintf("%d°", round(v))
}

func rangeText(high, low float64) string {
	return fmt.Sprintf("%d/%d°", round(high), round(low))
}

// hourText formats an hour of the day as 12a, 1a .. 11p.
func hourText(hour int) string {
	h := hour % 12
	if h == 0 {
		h = 12
	}
	if hour < 12 {
		return fmt.Sprintf("%da", h)
	}
	return fmt.Sprintf("%dp", h)
}

func lastUpdatedText(t time.Time) string {
	return t.Format("Jan 02 15:04")
}
