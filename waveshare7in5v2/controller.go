// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare7in5v2

import "image"

type controller interface {
	sendCommand(byte)
	sendData([]byte)
	waitUntilIdle()
}

func initDisplay(ctrl controller, opts *Opts) {
	ctrl.sendCommand(powerSetting)
	ctrl.sendData([]byte{
		0x07,
		0x07, // VGH=20V, VGL=-20V
		0x3F, // VDH=15V
		0x3F, // VDL=-15V
	})

	ctrl.sendCommand(boosterSoftStart)
	ctrl.sendData([]byte{0x17, 0x17, 0x28, 0x17})

	ctrl.sendCommand(powerOn)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(panelSetting)
	ctrl.sendData([]byte{panelKW})

	ctrl.sendCommand(resolutionSetting)
	ctrl.sendData([]byte{
		byte(opts.Width >> 8), byte(opts.Width),
		byte(opts.Height >> 8), byte(opts.Height),
	})

	ctrl.sendCommand(dualSPI)
	ctrl.sendData([]byte{0x00})

	ctrl.sendCommand(vcomDataIntervalSetting)
	ctrl.sendData([]byte{0x10, 0x07})

	ctrl.sendCommand(tconSetting)
	ctrl.sendData([]byte{0x22})
}

// initPartial prepares the controller for window updates. The panel keeps
// its image; only the waveform selection changes.
func initPartial(ctrl controller) {
	ctrl.sendCommand(panelSetting)
	ctrl.sendData([]byte{panelKW})

	ctrl.sendCommand(powerOn)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(cascadeSetting)
	ctrl.sendData([]byte{0x02})

	// Force the temperature reading to select the fast waveform.
	ctrl.sendCommand(forceTemperature)
	ctrl.sendData([]byte{0x6E})
}

// setPartialWindow enters partial mode restricted to r. The controller
// expects horizontal bounds on byte boundaries and inclusive end
// coordinates.
func setPartialWindow(ctrl controller, r image.Rectangle) {
	ctrl.sendCommand(vcomDataIntervalSetting)
	ctrl.sendData([]byte{0xA9, 0x07})

	ctrl.sendCommand(partialIn)

	xEnd, yEnd := r.Max.X-1, r.Max.Y-1
	ctrl.sendCommand(partialWindow)
	ctrl.sendData([]byte{
		byte(r.Min.X >> 8), byte(r.Min.X),
		byte(xEnd >> 8), byte(xEnd),
		byte(r.Min.Y >> 8), byte(r.Min.Y),
		byte(yEnd >> 8), byte(yEnd),
		// Scan inside and outside the window.
		0x01,
	})
}

func turnOnDisplay(ctrl controller) {
	ctrl.sendCommand(displayRefresh)
	ctrl.waitUntilIdle()
}

func enterDeepSleep(ctrl controller) {
	ctrl.sendCommand(powerOff)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(deepSleep)
	ctrl.sendData([]byte{deepSleepCheckCode})
}
