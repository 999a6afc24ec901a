// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package forecast holds the weather data drawn on the panel and the fixed
// vocabulary shared between the weather provider and the layout.
package forecast

import "time"

// Condition is a sky or precipitation description, one of the constants
// below.
type Condition string

// The complete vocabulary produced by ConditionForWMO. The layout matches
// icons against these strings.
const (
	Clear    Condition = "Clear"
	Cloudy   Condition = "Cloudy"
	Overcast Condition = "Overcast"
	Foggy    Condition = "Foggy"
	Rain     Condition = "Rain"
	Showers  Condition = "Showers"
	Snow     Condition = "Snow"
	Thunder  Condition = "Thunder"
	Unknown  Condition = "Unknown"
)

// Number of hourly and daily slots in a Snapshot.
const (
	HourlySlots = 6
	DailySlots  = 4
)

// Current is the observation at fetch time.
type Current struct {
	Temperature float64
	Humidity    int
	Condition   Condition
}

// Hour is one hourly forecast point.
type Hour struct {
	Hour        int // 0-23, local time of the forecast location
	Temperature float64
	Condition   Condition
}

// Day is one daily forecast point.
type Day struct {
	Label     string // "Sun".."Sat"
	High, Low float64
	Condition Condition
}

// Snapshot is one fetched forecast. Every slot is always populated;
// providers fill defaults when the upstream data is short.
type Snapshot struct {
	Current   Current
	Hourly    [HourlySlots]Hour
	Daily     [DailySlots]Day
	FetchedAt time.Time
}
