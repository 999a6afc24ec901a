// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview provides a display.Drawer that serves the frame over HTTP,
// for developing the layout without a panel attached.
//
// Handler returns a router with three endpoints:
//
//	GET /frame.png  the current frame
//	GET /stream     a multipart/x-mixed-replace ("MJPEG") stream pushing a
//	                new image after every Draw; ?format=png|jpeg
//	GET /windows    JSON list of the most recent dirty rectangles
//
// With Opts.Mono set the frame is quantized to black and white the way the
// e-paper panel shows it.
package preview
