// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare7in5v2

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management.
type errorHandler struct {
	d   Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) cTx(w []byte, r []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.c.Tx(w, r)
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

func (eh *errorHandler) csOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.cs.Out(l)
}

// waitUntilIdle polls the busy line, which the controller holds low while
// it is working. A refresh takes up to a few seconds; anything beyond
// busyTimeout is reported as an error instead of hanging the wake cycle.
func (eh *errorHandler) waitUntilIdle() {
	if eh.err != nil {
		return
	}
	deadline := time.Now().Add(eh.d.busyTimeout)
	for {
		eh.sendCommand(getStatus)
		if eh.err != nil || eh.d.busy.Read() == gpio.High {
			return
		}
		if time.Now().After(deadline) {
			eh.err = fmt.Errorf("waveshare7in5v2: busy for more than %s", eh.d.busyTimeout)
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (eh *errorHandler) sendCommand(cmd byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.Low)
	eh.csOut(gpio.Low)
	eh.cTx([]byte{cmd}, nil)
	eh.csOut(gpio.High)
}

func (eh *errorHandler) sendData(data []byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.High)
	eh.csOut(gpio.Low)
	eh.cTx(data, nil)
	eh.csOut(gpio.High)
}
