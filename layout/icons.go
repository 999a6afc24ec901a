// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package layout

import (
	"math"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// Icon is a weather condition pictogram.
type Icon int

// Known icons.
const (
	IconUnknown Icon = iota
	IconSun
	IconCloud
	IconHaze
	IconRain
	IconSnow
	IconLightning
)

func (i Icon) String() string {
	switch i {
	case IconSun:
		return "sun"
	case IconCloud:
		return "cloud"
	case IconHaze:
		return "haze"
	case IconRain:
		return "rain"
	case IconSnow:
		return "snow"
	case IconLightning:
		return "lightning"
	default:
		return "unknown"
	}
}

// iconMatches is checked in order, the first match wins.
var iconMatches = []struct {
	substr []string
	icon   Icon
}{
	{[]string{"clear"}, IconSun},
	{[]string{"cloudy", "overcast"}, IconCloud},
	{[]string{"foggy"}, IconHaze},
	{[]string{"rain"}, IconRain},
	{[]string{"snow"}, IconSnow},
	{[]string{"thunder"}, IconLightning},
}

// IconFor maps a condition description to its icon by case-insensitive
// substring match. Descriptions matching nothing get IconUnknown.
func IconFor(condition string) Icon {
	c := strings.ToLower(condition)
	for _, m := range iconMatches {
		for _, s := range m.substr {
			if strings.Contains(c, s) {
				return m.icon
			}
		}
	}
	return IconUnknown
}

// iconSize is the edge of the square an icon is drawn in.
const iconSize = 32

// drawIcon draws icon centered on (x, y) in black. face is used for the
// unknown glyph.
func drawIcon(dc *gg.Context, icon Icon, x, y float64, face font.Face) {
	const s = iconSize
	dc.Push()
	defer dc.Pop()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2)

	switch icon {
	case IconSun:
		dc.DrawCircle(x, y, s*0.2)
		dc.Fill()
		for i := 0; i < 8; i++ {
			a := float64(i) * math.Pi / 4
			dc.DrawLine(x+math.Cos(a)*s*0.3, y+math.Sin(a)*s*0.3, x+math.Cos(a)*s*0.46, y+math.Sin(a)*s*0.46)
		}
		dc.Stroke()
	case IconCloud:
		drawCloud(dc, x, y, s)
	case IconHaze:
		for i, off := range []float64{-0.3, 0, 0.3} {
			shift := s * 0.08 * float64(i%2)
			dc.DrawLine(x-s*0.45+shift, y+off*s, x+s*0.45-s*0.08+shift, y+off*s)
		}
		dc.Stroke()
	case IconRain:
		drawCloud(dc, x, y-s*0.18, s*0.8)
		for i := -1; i <= 1; i++ {
			dx := float64(i) * s * 0.22
			dc.DrawLine(x+dx, y+s*0.18, x+dx-s*0.08, y+s*0.44)
		}
		dc.Stroke()
	case IconSnow:
		for i := 0; i < 3; i++ {
			a := float64(i) * math.Pi / 3
			dx, dy := math.Cos(a)*s*0.45, math.Sin(a)*s*0.45
			dc.DrawLine(x-dx, y-dy, x+dx, y+dy)
		}
		dc.Stroke()
	case IconLightning:
		dc.MoveTo(x+s*0.1, y-s*0.5)
		dc.LineTo(x-s*0.25, y+s*0.05)
		dc.LineTo(x, y+s*0.05)
		dc.LineTo(x-s*0.1, y+s*0.5)
		dc.LineTo(x+s*0.25, y-s*0.08)
		dc.LineTo(x, y-s*0.08)
		dc.ClosePath()
		dc.Fill()
	default:
		dc.DrawRectangle(x-8, y-8, 16, 16)
		dc.Stroke()
		dc.SetFontFace(face)
		dc.DrawStringAnchored("?", x, y, 0.5, 0.5)
	}
}

// drawCloud fills a cloud of width s centered on (x, y).
func drawCloud(dc *gg.Context, x, y, s float64) {
	dc.DrawCircle(x-s*0.2, y+s*0.05, s*0.18)
	dc.DrawCircle(x+s*0.02, y-s*0.08, s*0.24)
	dc.DrawCircle(x+s*0.25, y+s*0.07, s*0.16)
	dc.DrawRectangle(x-s*0.2, y+s*0.05, s*0.45, s*0.18)
	dc.Fill()
}
