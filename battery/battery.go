// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package battery turns voltage readings of a single cell lithium battery
// into a charge percentage.
//
// The mapping is linear between an empty and a full voltage, which is rough
// for a Li-ion discharge curve but stable enough for a badge that is redrawn
// every minute.
package battery

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Voltmeter reads an instantaneous voltage.
type Voltmeter interface {
	SenseVoltage() (physic.ElectricPotential, error)
}

// Opts configures a Sensor. Zero fields take the defaults.
type Opts struct {
	// Samples averaged per reading; 8 by default.
	Samples int
	// Divider is the ratio of the battery voltage to the measured voltage,
	// 1 when measured directly.
	Divider float64
	// Empty and Full bound the mapping; 3.0V and 4.2V by default.
	Empty physic.ElectricPotential
	Full  physic.ElectricPotential
}

// Sensor reports the battery level.
type Sensor struct {
	v    Voltmeter
	opts Opts
}

// New returns a Sensor reading v.
func New(v Voltmeter, opts *Opts) *Sensor {
	o := *opts
	if o.Samples <= 0 {
		o.Samples = 8
	}
	if o.Divider <= 0 {
		o.Divider = 1
	}
	if o.Empty == 0 {
		o.Empty = 3 * physic.Volt
	}
	if o.Full == 0 {
		o.Full = 4200 * physic.MilliVolt
	}
	return &Sensor{v: v, opts: o}
}

// Voltage returns the averaged battery voltage.
func (s *Sensor) Voltage() (physic.ElectricPotential, error) {
	var sum physic.ElectricPotential
	for i := 0; i < s.opts.Samples; i++ {
		v, err := s.v.SenseVoltage()
		if err != nil {
			return 0, fmt.Errorf("battery: %w", err)
		}
		sum += v
	}
	avg := float64(sum) / float64(s.opts.Samples)
	return physic.ElectricPotential(avg * s.opts.Divider), nil
}

// ReadPercent returns the charge in [0, 100].
func (s *Sensor) ReadPercent() (float64, error) {
	v, err := s.Voltage()
	if err != nil {
		return 0, err
	}
	return Percent(v, s.opts.Empty, s.opts.Full), nil
}

// Percent maps v linearly from empty (0) to full (100), clamped.
func Percent(v, empty, full physic.ElectricPotential) float64 {
	if full <= empty {
		return 0
	}
	p := float64(v-empty) / float64(full-empty) * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
