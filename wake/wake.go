// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wake

import "time"

// Never is the sentinel for a clock or date field that was never rendered.
const Never = -1

// SleepMargin is the minimum suspend length. Waking closer than this to the
// minute boundary risks waking just before the minute rolls over.
const SleepMargin = 3 * time.Second

// State is what survives a suspend. The zero value is not valid, use
// NewState.
type State struct {
	// LastWeatherUpdate is the Unix time of the last successful fetch, 0 if
	// the forecast was never fetched.
	LastWeatherUpdate int64
	// LastDisplayedDay is the DayKey of the date on screen, or Never.
	LastDisplayedDay int
	// LastDisplayedHour and LastDisplayedMinute are the clock on screen, or
	// Never.
	LastDisplayedHour   int
	LastDisplayedMinute int
	// FirstBoot is set until the first full screen draw completed.
	FirstBoot bool
}

// NewState returns the state of a device that has never drawn anything.
func NewState() State {
	return State{
		LastDisplayedDay:    Never,
		LastDisplayedHour:   Never,
		LastDisplayedMinute: Never,
		FirstBoot:           true,
	}
}

// ShouldUpdateWeather reports whether the forecast is due. A lastUpdate of 0
// always is; otherwise the interval boundary itself counts as due.
func ShouldUpdateWeather(now, lastUpdate int64, interval time.Duration) bool {
	if lastUpdate == 0 {
		return true
	}
	return time.Duration(now-lastUpdate)*time.Second >= interval
}

// ShouldUpdateDate reports whether the date line must be redrawn.
//
// Callers pass DayKey values so that equal days of different months compare
// unequal.
func ShouldUpdateDate(currentDay, lastDisplayedDay int) bool {
	return currentDay != lastDisplayedDay
}

// ShouldUpdateClock reports whether the hour or the minute changed. The
// clock has minute granularity so seconds are not compared.
func ShouldUpdateClock(curHour, curMinute, lastHour, lastMinute int) bool {
	return curHour != lastHour || curMinute != lastMinute
}

// IsFirstBoot reports whether no forecast was ever fetched.
func IsFirstBoot(lastWeatherUpdate int64) bool {
	return lastWeatherUpdate == 0
}

// DayKey folds the calendar date of t into a single comparable integer,
// yyyymmdd.
func DayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// SleepDuration returns how long to suspend so that the next wake lands
// shortly after the next minute boundary. When that boundary is closer than
// SleepMargin the following one is targeted instead.
func SleepDuration(currentSecond int) time.Duration {
	d := time.Duration(60-currentSecond) * time.Second
	if d < SleepMargin {
		d += time.Minute
	}
	return d
}
