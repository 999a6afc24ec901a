// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package waveshare7in5v2 controls the Waveshare 7.5 inch V2 e-paper display
// (800x480, black and white, UC8179 controller).
//
// The display supports partial refresh of a rectangular window: in Partial
// mode Draw uploads and refreshes only the destination rectangle, widened to
// whole bytes horizontally. A full refresh is recommended at least once a
// day to clear ghosting.
//
// # Datasheet
//
// https://www.waveshare.com/w/upload/6/60/7.5inch_e-Paper_V2_Specification.pdf
//
// # Product page
//
// https://www.waveshare.com/wiki/7.5inch_e-Paper_HAT_Manual
package waveshare7in5v2
