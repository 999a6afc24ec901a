// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// inkclock shows the time, the date, the battery level and the weather
// forecast on an e-paper panel, suspending the machine between two minutes.
//
// Settings are read from INKCLOCK_* environment variables and an optional
// dotenv file, see package config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/mattn/go-isatty"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/inkclock/config"
	"github.com/GermanBionicSystems/inkclock/cycle"
	"github.com/GermanBionicSystems/inkclock/layout"
	"github.com/GermanBionicSystems/inkclock/openmeteo"
	"github.com/GermanBionicSystems/inkclock/rtcmem"
	"github.com/GermanBionicSystems/inkclock/suspend"
	"github.com/GermanBionicSystems/inkclock/timesync"
	"github.com/GermanBionicSystems/inkclock/wifi"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// newLogger logs text on a terminal and JSON otherwise, e.g. under
// systemd.
func newLogger(f *os.File, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return slog.New(slog.NewTextHandler(f, opts))
	}
	return slog.New(slog.NewJSONHandler(f, opts))
}

func mainImpl() error {
	envFile := flag.String("env", ".env", "dotenv file with INKCLOCK_* settings")
	once := flag.Bool("once", false, "run a single wake cycle and exit")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	time.Local = loc
	log := newLogger(os.Stderr, cfg.Level())

	if _, err := host.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := rtcmem.Open(cfg.StatePath)
	if err != nil {
		return err
	}
	defer store.Close()

	s, err := openSurface(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.close()

	engine, err := layout.New(s.drawer)
	if err != nil {
		if errors.Is(err, layout.ErrGeometry) {
			// The preserved state describes a screen that cannot be drawn.
			_ = store.Reset()
		}
		return err
	}

	batt, closeBatt := openBattery(cfg, log)
	defer closeBatt()

	r := &cycle.Runner{
		Clock:    systemClock{},
		Link:     wifi.New(&wifi.NMCLI{Interface: cfg.WiFiInterface}, wifi.DefaultPolicy),
		TimeSync: timesync.New(&timesync.Opts{Server: cfg.NTPServer}),
		Weather: openmeteo.New(&openmeteo.Opts{
			URL:  cfg.WeatherURL,
			Unit: cfg.Unit,
		}),
		Battery:  batt,
		Renderer: engine,
		Panel:    s.panel,
		Log:      log,

		SSID:            cfg.WiFiSSID,
		PSK:             cfg.WiFiPSK,
		Latitude:        cfg.Latitude,
		Longitude:       cfg.Longitude,
		WeatherInterval: cfg.WeatherInterval,
	}

	var sleeper suspend.Sleeper = &suspend.RTCWake{Mode: cfg.RTCWakeMode}
	if cfg.NoSleep || cfg.Surface != config.SurfaceWaveshare {
		sleeper = suspend.Delay{}
	}
	log.Info("started", "surface", s.drawer, "store", store, "sleeper", fmt.Sprintf("%T", sleeper))

	for {
		st, ok, err := store.Load()
		if err != nil {
			log.Warn("wake state unreadable, starting fresh", "err", err)
		}
		res, err := r.Run(ctx, st, !ok)
		if err := store.Save(res.State); err != nil {
			log.Error("saving wake state failed", "err", err)
		}
		if err != nil || *once {
			return nil
		}
		if err := sleeper.Sleep(ctx, res.SleepFor); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error("suspend failed, waiting instead", "err", err)
			if err := (suspend.Delay{}).Sleep(ctx, res.SleepFor); err != nil {
				return nil
			}
		}
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "inkclock: %s.\n", err)
		os.Exit(1)
	}
}
