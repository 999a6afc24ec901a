// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/GermanBionicSystems/inkclock/battery"
	"github.com/GermanBionicSystems/inkclock/config"
	"github.com/GermanBionicSystems/inkclock/cycle"
	"github.com/GermanBionicSystems/inkclock/ina260"
	"github.com/GermanBionicSystems/inkclock/layout"
	"github.com/GermanBionicSystems/inkclock/preview"
	"github.com/GermanBionicSystems/inkclock/termview"
	"github.com/GermanBionicSystems/inkclock/waveshare7in5v2"
)

// nopPanel is the Panel of surfaces without power states.
type nopPanel struct{}

func (nopPanel) Init() error   { return nil }
func (nopPanel) Resume() error { return nil }
func (nopPanel) Sleep() error  { return nil }

type surface struct {
	drawer display.Drawer
	panel  cycle.Panel
	close  func()
}

func openSurface(ctx context.Context, cfg *config.Config, log *slog.Logger) (*surface, error) {
	switch cfg.Surface {
	case config.SurfaceWaveshare:
		port, err := spireg.Open(cfg.SPIPort)
		if err != nil {
			return nil, err
		}
		dev, err := waveshare7in5v2.NewHat(port, &waveshare7in5v2.EPD7in5v2)
		if err != nil {
			port.Close()
			return nil, err
		}
		return &surface{drawer: dev, panel: dev, close: func() { port.Close() }}, nil

	case config.SurfacePreview:
		d := preview.New(&preview.Opts{Width: layout.Width, Height: layout.Height, Mono: true})
		srv := &http.Server{
			Addr:              cfg.PreviewAddr,
			Handler:           d.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("preview server failed", "err", err)
			}
		}()
		log.Info("preview listening", "addr", cfg.PreviewAddr)
		return &surface{drawer: d, panel: nopPanel{}, close: func() {
			_ = d.Halt()
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}}, nil

	default:
		d := termview.New(&termview.Opts{Width: layout.Width, Height: layout.Height})
		return &surface{drawer: d, panel: nopPanel{}, close: func() { _ = d.Halt() }}, nil
	}
}

// unreadable is the battery of a machine without the monitor.
type unreadable struct{ err error }

func (u unreadable) ReadPercent() (float64, error) { return 0, u.err }

func openBattery(cfg *config.Config, log *slog.Logger) (cycle.Battery, func()) {
	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		log.Warn("no I2C bus, battery level unavailable", "err", err)
		return unreadable{err}, func() {}
	}
	dev := ina260.New(bus, cfg.INA260Address)
	if _, err := dev.ManufacturerID(); err != nil {
		log.Warn("INA260 not responding, battery level unavailable", "dev", dev, "err", err)
		bus.Close()
		return unreadable{err}, func() {}
	}
	if die, err := dev.DieID(); err == nil {
		log.Debug("battery monitor", "dev", dev, "die", fmt.Sprintf("%#04x", die))
	}
	s := battery.New(dev, &battery.Opts{
		Divider: cfg.BatteryDivider,
		Empty:   3 * physic.Volt,
		Full:    4200 * physic.MilliVolt,
	})
	return s, func() { bus.Close() }
}
