// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import "fmt"

// Format is the image encoding sent to clients.
type Format int

// Supported formats. PNG suits computer-drawn graphics better and is the
// default.
const (
	PNG Format = iota
	JPEG
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	default:
		return fmt.Sprint(int(f))
	}
}

func (f Format) mimeType() string {
	switch f {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	}
	return "application/octet-stream"
}

// ParseFormat returns the Format for an abbreviation as used in the format
// URL parameter.
func ParseFormat(value string) (Format, error) {
	switch value {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}
	return PNG, fmt.Errorf("preview: unrecognized image format %q", value)
}
