// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package layout

import "image"

// Panel size in pixels.
const (
	Width  = 800
	Height = 480
)

// Fixed regions of the screen. X origins and widths are multiples of 8 so
// that partial windows need no widening.
var (
	Screen      = image.Rect(0, 0, Width, Height)
	ClockPane   = rect(0, 0, 400, 480)
	WeatherPane = rect(400, 0, 400, 480)

	Time    = rect(0, 110, 400, 120)
	Date    = rect(0, 230, 400, 100)
	Battery = rect(0, 400, 200, 80)

	CurrentTemp = rect(400, 0, 400, 150)
	Hourly      = rect(400, 150, 400, 110)
	Daily       = rect(400, 260, 400, 140)
	LastUpdated = rect(600, 430, 200, 50)
)

// Columns drawn in the hourly and daily strips.
const (
	HourlyColumns = 5
	DailyColumns  = 4
)

func rect(x, y, w, h int) image.Rectangle {
	return image.Rect(x, y, x+w, y+h)
}

// center returns the center of r.
func center(r image.Rectangle) (float64, float64) {
	return float64(r.Min.X+r.Max.X) / 2, float64(r.Min.Y+r.Max.Y) / 2
}

// column returns the horizontal center of column i out of n in r.
func column(r image.Rectangle, i, n int) float64 {
	w := float64(r.Dx()) / float64(n)
	return float64(r.Min.X) + w*float64(i) + w/2
}
