// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package layout

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// faces holds the font faces of the layout, sized in pixels.
type faces struct {
	clock   font.Face // time numerals
	temp    font.Face // current temperature
	date    font.Face
	label   font.Face // strip labels and temperatures
	small   font.Face // battery, last updated, humidity
	message font.Face // error message
}

func loadFaces() (*faces, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("layout: parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("layout: parse bold font: %w", err)
	}

	face := func(f *truetype.Font, size float64) font.Face {
		return truetype.NewFace(f, &truetype.Options{
			Size:    size,
			Hinting: font.HintingFull,
		})
	}

	return &faces{
		clock:   face(bold, 110),
		temp:    face(bold, 90),
		date:    face(regular, 32),
		label:   face(regular, 20),
		small:   face(regular, 18),
		message: face(bold, 24),
	}, nil
}
