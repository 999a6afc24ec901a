// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package inkclock is a battery powered clock and weather display for a
// 7.5 inch e-paper panel on a Linux single board computer.
//
// The program in cmd/inkclock wakes once a minute from suspend to RAM,
// redraws only the parts of the screen that changed and suspends again:
//
//   - wake decides what is due (clock, date, weather) and how long to sleep.
//   - rtcmem preserves that decision state across suspends.
//   - cycle runs one wake cycle against its collaborators.
//   - layout draws the two pane screen with partial windows.
//   - waveshare7in5v2, preview and termview are the surfaces it draws on.
//   - openmeteo, wifi, timesync and battery (on ina260) feed it data.
package inkclock
