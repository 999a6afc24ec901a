// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cycle

import (
	"context"
	"log/slog"
	"time"

	"github.com/GermanBionicSystems/inkclock/forecast"
	"github.com/GermanBionicSystems/inkclock/wake"
)

// Clock returns the current local time.
type Clock interface {
	Now() time.Time
}

// Link is the network connection used for time sync and weather.
type Link interface {
	Connect(ctx context.Context, ssid, psk string) error
	Disconnect(ctx context.Context) error
	Connected(ctx context.Context) bool
}

// TimeSync sets the system clock from the network.
type TimeSync interface {
	Sync(ctx context.Context) error
}

// Weather fetches a forecast.
type Weather interface {
	Fetch(ctx context.Context, lat, lon float64) (*forecast.Snapshot, error)
}

// Battery reads the charge level in percent.
type Battery interface {
	ReadPercent() (float64, error)
}

// Renderer draws the regions of the screen.
type Renderer interface {
	DrawFull(now time.Time, battery float64) error
	DrawClock(hour, minute int) error
	DrawDate(t time.Time) error
	DrawWeather(s *forecast.Snapshot) error
	DrawBattery(percent float64) error
	DrawError(msg string) error
}

// Panel controls the power state of the physical surface.
type Panel interface {
	// Init prepares a full screen refresh.
	Init() error
	// Resume prepares partial refreshes without clearing the screen.
	Resume() error
	// Sleep powers the panel down. The image stays.
	Sleep() error
}

// Mode is the entry state of a cycle.
type Mode int

// Cycle modes.
const (
	FreshBoot Mode = iota
	Woken
)

func (m Mode) String() string {
	switch m {
	case FreshBoot:
		return "fresh_boot"
	case Woken:
		return "woken"
	default:
		return "unknown"
	}
}

// Result describes a completed cycle.
type Result struct {
	Mode Mode
	// State is the state to preserve until the next wake.
	State wake.State
	// SleepFor is how long to sleep before the next wake.
	SleepFor time.Duration
	// Regions redrawn during the cycle.
	Clock, Date, Weather, Battery bool
}

// Runner holds the collaborators of a cycle. All fields are required.
type Runner struct {
	Clock    Clock
	Link     Link
	TimeSync TimeSync
	Weather  Weather
	Battery  Battery
	Renderer Renderer
	Panel    Panel
	Log      *slog.Logger

	SSID, PSK           string
	Latitude, Longitude float64
	// WeatherInterval is the minimum time between two fetches.
	WeatherInterval time.Duration
}

// Run performs one wake cycle starting from st. fresh is set when no state
// survived; st is ignored then. A state whose full draw never completed
// (FirstBoot) also takes the fresh path.
//
// The returned error is only ever ctx.Err(): everything else degrades and
// is logged.
func (r *Runner) Run(ctx context.Context, st wake.State, fresh bool) (Result, error) {
	var res Result
	if fresh || st.FirstBoot {
		res = r.freshBoot(ctx)
	} else {
		res = r.woken(ctx, st)
	}

	res.SleepFor = wake.SleepDuration(r.Clock.Now().Second())

	if err := r.Link.Disconnect(ctx); err != nil {
		r.Log.Warn("wifi disconnect failed", "err", err)
	}
	if err := r.Panel.Sleep(); err != nil {
		r.Log.Warn("panel sleep failed", "err", err)
	}

	r.Log.Info("cycle",
		"mode", res.Mode,
		"clock", res.Clock,
		"date", res.Date,
		"battery", res.Battery,
		"weather", res.Weather,
		"sleep", res.SleepFor,
	)
	return res, ctx.Err()
}

func (r *Runner) freshBoot(ctx context.Context) Result {
	res := Result{Mode: FreshBoot, State: wake.NewState()}

	if err := r.Panel.Init(); err != nil {
		r.Log.Error("panel init failed", "err", err)
	}

	// Without a link the clock still runs on RTC time. The next wake sees
	// no forecast and retries the connection.
	linkErr := r.Link.Connect(ctx, r.SSID, r.PSK)
	if linkErr != nil {
		r.Log.Error("wifi connect failed", "ssid", r.SSID, "err", linkErr)
	} else {
		r.sync(ctx)
	}

	now := r.Clock.Now()
	pct, err := r.Battery.ReadPercent()
	if err != nil {
		// Drawn as empty; the next wake redraws the region.
		r.Log.Warn("battery read failed", "err", err)
	}
	if err := r.Renderer.DrawFull(now, pct); err != nil {
		r.Log.Error("full draw failed", "err", err)
		return res
	}
	res.State.LastDisplayedHour = now.Hour()
	res.State.LastDisplayedMinute = now.Minute()
	res.State.LastDisplayedDay = wake.DayKey(now)
	res.State.FirstBoot = false
	res.Clock, res.Date, res.Battery = true, true, err == nil

	if err := r.Panel.Resume(); err != nil {
		r.Log.Warn("panel resume failed", "err", err)
	}
	if linkErr != nil {
		if err := r.Renderer.DrawError("WiFi connection failed"); err != nil {
			r.Log.Error("draw error message failed", "err", err)
		}
		return res
	}
	r.updateWeather(ctx, &res)
	return res
}

func (r *Runner) woken(ctx context.Context, st wake.State) Result {
	res := Result{Mode: Woken, State: st}

	if err := r.Panel.Resume(); err != nil {
		r.Log.Warn("panel resume failed", "err", err)
	}

	now := r.Clock.Now()
	h, m := now.Hour(), now.Minute()
	if wake.ShouldUpdateClock(h, m, st.LastDisplayedHour, st.LastDisplayedMinute) {
		if err := r.Renderer.DrawClock(h, m); err != nil {
			r.Log.Warn("clock draw failed", "err", err)
		} else {
			res.State.LastDisplayedHour, res.State.LastDisplayedMinute = h, m
			res.Clock = true
		}
	}

	if day := wake.DayKey(now); wake.ShouldUpdateDate(day, st.LastDisplayedDay) {
		if err := r.Renderer.DrawDate(now); err != nil {
			r.Log.Warn("date draw failed", "err", err)
		} else {
			res.State.LastDisplayedDay = day
			res.Date = true
		}
	}

	if pct, err := r.Battery.ReadPercent(); err != nil {
		r.Log.Warn("battery read failed", "err", err)
	} else if err := r.Renderer.DrawBattery(pct); err != nil {
		r.Log.Warn("battery draw failed", "err", err)
	} else {
		res.Battery = true
	}

	if wake.ShouldUpdateWeather(now.Unix(), st.LastWeatherUpdate, r.WeatherInterval) {
		if !r.Link.Connected(ctx) {
			if err := r.Link.Connect(ctx, r.SSID, r.PSK); err != nil {
				level := slog.LevelWarn
				if wake.IsFirstBoot(st.LastWeatherUpdate) {
					// The weather pane still shows the boot error.
					level = slog.LevelError
				}
				r.Log.Log(ctx, level, "wifi connect failed, weather skipped", "ssid", r.SSID, "err", err)
				return res
			}
		}
		r.sync(ctx)
		r.updateWeather(ctx, &res)
	}
	return res
}

// sync keeps the previous clock on failure.
func (r *Runner) sync(ctx context.Context) {
	if err := r.TimeSync.Sync(ctx); err != nil {
		r.Log.Warn("time sync failed", "err", err)
	}
}

// updateWeather fetches and draws the weather pane. LastWeatherUpdate only
// advances when both succeed.
func (r *Runner) updateWeather(ctx context.Context, res *Result) {
	s, err := r.Weather.Fetch(ctx, r.Latitude, r.Longitude)
	if err != nil {
		r.Log.Warn("weather fetch failed", "err", err)
		return
	}
	if err := r.Renderer.DrawWeather(s); err != nil {
		r.Log.Warn("weather draw failed", "err", err)
		return
	}
	res.State.LastWeatherUpdate = r.Clock.Now().Unix()
	res.Weather = true
}
