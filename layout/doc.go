// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package layout renders the clock and weather panes of the 800x480 panel.
//
// Every operation clears one fixed rectangle of the frame, draws into it and
// commits exactly that rectangle to the surface, so a surface supporting
// partial refresh only updates the area that changed. Pixels outside the
// rectangle are never touched.
//
// The left half of the screen holds the time, the date and the battery
// level; the right half holds the current temperature, a five column hourly
// strip, a four column daily strip and the time of the last weather fetch.
package layout
