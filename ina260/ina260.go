// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ina260

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultAddress is the address with A0 and A1 tied to ground.
const DefaultAddress uint16 = 0x40

// Registers
const (
	regConfig      byte = 0x00
	regCurrent     byte = 0x01
	regBusVoltage  byte = 0x02
	regPower       byte = 0x03
	regMaskEnable  byte = 0x06
	regAlertLimit  byte = 0x07
	regManufacture byte = 0xFE
	regDieID       byte = 0xFF
)

// Register resolutions from the datasheet.
const (
	voltageLSB = 1250 * physic.MicroVolt
	currentLSB = 1250 * physic.MicroAmpere
	powerLSB   = 10 * physic.MilliWatt
)

// Sample is one reading of the three measurement registers.
type Sample struct {
	Voltage physic.ElectricPotential
	Current physic.ElectricCurrent
	Power   physic.Power
}

func (s Sample) String() string {
	return fmt.Sprintf("%s %s %s", s.Voltage, s.Current, s.Power)
}

// Dev is a handle to an INA260.
type Dev struct {
	c i2c.Dev
}

// New returns a handle to the INA260 at addr on bus.
func New(bus i2c.Bus, addr uint16) *Dev {
	return &Dev{c: i2c.Dev{Bus: bus, Addr: addr}}
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return fmt.Sprintf("ina260{%s}", &d.c)
}

// Halt implements conn.Resource. The device runs continuously and has
// nothing to stop.
func (d *Dev) Halt() error {
	return nil
}

// Sense reads bus voltage, current and power.
func (d *Dev) Sense() (Sample, error) {
	var s Sample
	raw, err := d.read(regCurrent)
	if err != nil {
		return s, err
	}
	// Current is two's complement, negative when charging.
	s.Current = physic.ElectricCurrent(int16(raw)) * currentLSB

	if raw, err = d.read(regBusVoltage); err != nil {
		return s, err
	}
	s.Voltage = physic.ElectricPotential(raw) * voltageLSB

	if raw, err = d.read(regPower); err != nil {
		return s, err
	}
	s.Power = physic.Power(raw) * powerLSB
	return s, nil
}

// SenseVoltage reads only the bus voltage register.
func (d *Dev) SenseVoltage() (physic.ElectricPotential, error) {
	raw, err := d.read(regBusVoltage)
	if err != nil {
		return 0, err
	}
	return physic.ElectricPotential(raw) * voltageLSB, nil
}

// ManufacturerID returns the contents of the manufacturer ID register,
// 0x5449 ("TI") on genuine parts.
func (d *Dev) ManufacturerID() (uint16, error) {
	return d.read(regManufacture)
}

// DieID returns the contents of the die ID register.
func (d *Dev) DieID() (uint16, error) {
	return d.read(regDieID)
}

func (d *Dev) read(reg byte) (uint16, error) {
	var b [2]byte
	if err := d.c.Tx([]byte{reg}, b[:]); err != nil {
		return 0, fmt.Errorf("ina260: reading register %#02x: %w", reg, err)
	}
	return binary.BigEndian.Uint16(b[:]), nil
}
