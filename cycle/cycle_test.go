// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cycle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/GermanBionicSystems/inkclock/forecast"
	"github.com/GermanBionicSystems/inkclock/wake"
)

// calls is the shared log of every collaborator invocation.
type calls []string

func (c *calls) add(format string, args ...any) {
	*c = append(*c, fmt.Sprintf(format, args...))
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type fakeLink struct {
	log        *calls
	connectErr error
	connected  bool
}

func (l *fakeLink) Connect(_ context.Context, ssid, psk string) error {
	l.log.add("connect %s", ssid)
	if l.connectErr != nil {
		return l.connectErr
	}
	l.connected = true
	return nil
}

func (l *fakeLink) Disconnect(context.Context) error {
	l.log.add("disconnect")
	l.connected = false
	return nil
}

func (l *fakeLink) Connected(context.Context) bool { return l.connected }

type fakeSync struct {
	log *calls
	err error
}

func (s *fakeSync) Sync(context.Context) error {
	s.log.add("sync")
	return s.err
}

type fakeWeather struct {
	log  *calls
	snap *forecast.Snapshot
	err  error
}

func (w *fakeWeather) Fetch(_ context.Context, lat, lon float64) (*forecast.Snapshot, error) {
	w.log.add("fetch %.4f,%.4f", lat, lon)
	return w.snap, w.err
}

type fakeBattery struct {
	pct float64
	err error
}

func (b *fakeBattery) ReadPercent() (float64, error) { return b.pct, b.err }

type fakeRenderer struct {
	log *calls
	// fail makes the named operation return an error.
	fail string
}

func (f *fakeRenderer) result(op string) error {
	if op == f.fail {
		return errors.New(op + " failed")
	}
	return nil
}

func (f *fakeRenderer) DrawFull(now time.Time, battery float64) error {
	f.log.add("full %s %.0f%%", now.Format("2006-01-02 15:04"), battery)
	return f.result("full")
}

func (f *fakeRenderer) DrawClock(hour, minute int) error {
	f.log.add("clock %02d:%02d", hour, minute)
	return f.result("clock")
}

func (f *fakeRenderer) DrawDate(t time.Time) error {
	f.log.add("date %s", t.Format("2006-01-02"))
	return f.result("date")
}

func (f *fakeRenderer) DrawWeather(s *forecast.Snapshot) error {
	f.log.add("weather %.0f", s.Current.Temperature)
	return f.result("weather")
}

func (f *fakeRenderer) DrawBattery(percent float64) error {
	f.log.add("battery %.0f%%", percent)
	return f.result("battery")
}

func (f *fakeRenderer) DrawError(msg string) error {
	f.log.add("error %s", msg)
	return f.result("error")
}

type fakePanel struct{ log *calls }

func (p *fakePanel) Init() error   { p.log.add("panel init"); return nil }
func (p *fakePanel) Resume() error { p.log.add("panel resume"); return nil }
func (p *fakePanel) Sleep() error  { p.log.add("panel sleep"); return nil }

type fixture struct {
	log      calls
	clock    fakeClock
	link     fakeLink
	sync     fakeSync
	weather  fakeWeather
	battery  fakeBattery
	renderer fakeRenderer
	panel    fakePanel
}

func newFixture(now time.Time) (*fixture, *Runner) {
	f := &fixture{}
	f.clock.now = now
	f.link.log = &f.log
	f.sync.log = &f.log
	f.weather.log = &f.log
	f.weather.snap = &forecast.Snapshot{Current: forecast.Current{Temperature: 61}}
	f.battery.pct = 87
	f.renderer.log = &f.log
	f.panel.log = &f.log
	r := &Runner{
		Clock:           &f.clock,
		Link:            &f.link,
		TimeSync:        &f.sync,
		Weather:         &f.weather,
		Battery:         &f.battery,
		Renderer:        &f.renderer,
		Panel:           &f.panel,
		Log:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		SSID:            "home",
		PSK:             "secret",
		Latitude:        45.5152,
		Longitude:       -122.6784,
		WeatherInterval: 30 * time.Minute,
	}
	return f, r
}

var now = time.Date(2026, time.October, 19, 7, 5, 10, 0, time.UTC)

// displayed returns a woken state showing t, weather fetched at fetched.
func displayed(t time.Time, fetched time.Time) wake.State {
	return wake.State{
		LastWeatherUpdate:   fetched.Unix(),
		LastDisplayedDay:    wake.DayKey(t),
		LastDisplayedHour:   t.Hour(),
		LastDisplayedMinute: t.Minute(),
	}
}

func TestFreshBoot(t *testing.T) {
	f, r := newFixture(now)

	res, err := r.Run(context.Background(), wake.State{}, true)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	wantCalls := calls{
		"panel init",
		"connect home",
		"sync",
		"full 2026-10-19 07:05 87%",
		"panel resume",
		"fetch 45.5152,-122.6784",
		"weather 61",
		"disconnect",
		"panel sleep",
	}
	if diff := cmp.Diff(f.log, wantCalls); diff != "" {
		t.Errorf("calls difference (-got +want):\n%s", diff)
	}

	want := Result{
		Mode: FreshBoot,
		State: wake.State{
			LastWeatherUpdate:   now.Unix(),
			LastDisplayedDay:    20261019,
			LastDisplayedHour:   7,
			LastDisplayedMinute: 5,
		},
		SleepFor: 50 * time.Second,
		Clock:    true,
		Date:     true,
		Weather:  true,
		Battery:  true,
	}
	if diff := cmp.Diff(res, want); diff != "" {
		t.Errorf("Run() difference (-got +want):\n%s", diff)
	}
}

func TestFreshBootWifiFailure(t *testing.T) {
	f, r := newFixture(now.Add(48 * time.Second))
	f.link.connectErr = errors.New("association timed out")

	res, err := r.Run(context.Background(), wake.State{}, true)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	wantCalls := calls{
		"panel init",
		"connect home",
		"full 2026-10-19 07:05 87%",
		"panel resume",
		"error WiFi connection failed",
		"disconnect",
		"panel sleep",
	}
	if diff := cmp.Diff(f.log, wantCalls); diff != "" {
		t.Errorf("calls difference (-got +want):\n%s", diff)
	}

	// Second 58: two seconds left is below the margin.
	want := Result{
		Mode: FreshBoot,
		State: wake.State{
			LastDisplayedDay:    20261019,
			LastDisplayedHour:   7,
			LastDisplayedMinute: 5,
		},
		SleepFor: 62 * time.Second,
		Clock:    true,
		Date:     true,
		Battery:  true,
	}
	if diff := cmp.Diff(res, want); diff != "" {
		t.Errorf("Run() difference (-got +want):\n%s", diff)
	}
}

// TestWifiOutageAfterBoot follows a device that boots without network and
// gets it back a few minutes later: the clock keeps ticking in woken mode
// and each wake retries the connection until the forecast is fetched.
func TestWifiOutageAfterBoot(t *testing.T) {
	f, r := newFixture(now)
	f.link.connectErr = errors.New("association timed out")
	var buf bytes.Buffer
	r.Log = slog.New(slog.NewTextHandler(&buf, nil))

	res, err := r.Run(context.Background(), wake.NewState(), true)
	if err != nil {
		t.Fatal(err)
	}
	st := res.State

	for i := 1; i <= 3; i++ {
		f.log = nil
		buf.Reset()
		f.clock.now = now.Add(time.Duration(i) * time.Minute)
		if i == 3 {
			f.link.connectErr = nil
		}

		res, err := r.Run(context.Background(), st, false)
		if err != nil {
			t.Fatal(err)
		}
		if res.Mode != Woken {
			t.Fatalf("wake %d: Mode = %v, want %v", i, res.Mode, Woken)
		}
		wantCalls := calls{
			"panel resume",
			fmt.Sprintf("clock 07:%02d", 5+i),
			"battery 87%",
			"connect home",
		}
		if i == 3 {
			wantCalls = append(wantCalls, "sync", "fetch 45.5152,-122.6784", "weather 61")
		} else if !strings.Contains(buf.String(), `level=ERROR msg="wifi connect failed, weather skipped"`) {
			t.Errorf("wake %d: missing error record in %q", i, buf.String())
		}
		wantCalls = append(wantCalls, "disconnect", "panel sleep")
		if diff := cmp.Diff(f.log, wantCalls); diff != "" {
			t.Errorf("wake %d: calls difference (-got +want):\n%s", i, diff)
		}
		st = res.State
	}

	if want := f.clock.now.Unix(); st.LastWeatherUpdate != want {
		t.Errorf("LastWeatherUpdate = %d, want %d", st.LastWeatherUpdate, want)
	}
}

func TestFreshBootDegraded(t *testing.T) {
	for _, tc := range []struct {
		name  string
		setup func(*fixture)
		want  func(*Result)
	}{
		{
			name:  "fetch failure",
			setup: func(f *fixture) { f.weather.err = errors.New("503") },
			want:  func(r *Result) { r.Weather = false; r.State.LastWeatherUpdate = 0 },
		},
		{
			name:  "sync failure",
			setup: func(f *fixture) { f.sync.err = errors.New("no reply") },
			want:  func(*Result) {},
		},
		{
			name:  "battery failure",
			setup: func(f *fixture) { f.battery.err = errors.New("i2c nack") },
			want:  func(r *Result) { r.Battery = false },
		},
		{
			name:  "full draw failure",
			setup: func(f *fixture) { f.renderer.fail = "full" },
			want: func(r *Result) {
				r.State = wake.NewState()
				r.Clock, r.Date, r.Battery, r.Weather = false, false, false, false
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, r := newFixture(now)
			tc.setup(f)

			got, err := r.Run(context.Background(), wake.State{}, true)
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}

			want := Result{
				Mode: FreshBoot,
				State: wake.State{
					LastWeatherUpdate:   now.Unix(),
					LastDisplayedDay:    20261019,
					LastDisplayedHour:   7,
					LastDisplayedMinute: 5,
				},
				SleepFor: 50 * time.Second,
				Clock:    true,
				Date:     true,
				Weather:  true,
				Battery:  true,
			}
			tc.want(&want)
			if diff := cmp.Diff(got, want); diff != "" {
				t.Errorf("Run() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestFirstBootStateRetriesFullBoot(t *testing.T) {
	f, r := newFixture(now)

	res, err := r.Run(context.Background(), wake.NewState(), false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Mode != FreshBoot {
		t.Errorf("Mode = %v, want %v", res.Mode, FreshBoot)
	}
	if f.log[0] != "panel init" {
		t.Errorf("first call = %q, want panel init", f.log[0])
	}
}

func TestWoken(t *testing.T) {
	fetched := now.Add(-10 * time.Minute)

	for _, tc := range []struct {
		name      string
		now       time.Time
		state     wake.State
		wantCalls calls
		want      Result
	}{
		{
			name:  "same minute",
			now:   now.Add(30 * time.Second),
			state: displayed(now, fetched),
			wantCalls: calls{
				"panel resume",
				"battery 87%",
				"disconnect",
				"panel sleep",
			},
			want: Result{
				Mode:     Woken,
				State:    displayed(now, fetched),
				SleepFor: 20 * time.Second,
				Battery:  true,
			},
		},
		{
			name:  "next minute",
			now:   now.Add(time.Minute),
			state: displayed(now, fetched),
			wantCalls: calls{
				"panel resume",
				"clock 07:06",
				"battery 87%",
				"disconnect",
				"panel sleep",
			},
			want: Result{
				Mode:     Woken,
				State:    displayed(now.Add(time.Minute), fetched),
				SleepFor: 50 * time.Second,
				Clock:    true,
				Battery:  true,
			},
		},
		{
			name:  "midnight",
			now:   time.Date(2026, time.November, 1, 0, 0, 2, 0, time.UTC),
			state: displayed(time.Date(2026, time.October, 31, 23, 59, 0, 0, time.UTC), time.Date(2026, time.October, 31, 23, 40, 0, 0, time.UTC)),
			wantCalls: calls{
				"panel resume",
				"clock 00:00",
				"date 2026-11-01",
				"battery 87%",
				"disconnect",
				"panel sleep",
			},
			want: Result{
				Mode:     Woken,
				State:    displayed(time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, time.October, 31, 23, 40, 0, 0, time.UTC)),
				SleepFor: 58 * time.Second,
				Clock:    true,
				Date:     true,
				Battery:  true,
			},
		},
		{
			name:  "weather due",
			now:   now.Add(time.Minute),
			state: displayed(now, now.Add(-29*time.Minute)),
			wantCalls: calls{
				"panel resume",
				"clock 07:06",
				"battery 87%",
				"connect home",
				"sync",
				"fetch 45.5152,-122.6784",
				"weather 61",
				"disconnect",
				"panel sleep",
			},
			want: Result{
				Mode:     Woken,
				State:    displayed(now.Add(time.Minute), now.Add(time.Minute)),
				SleepFor: 50 * time.Second,
				Clock:    true,
				Weather:  true,
				Battery:  true,
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, r := newFixture(tc.now)

			got, err := r.Run(context.Background(), tc.state, false)
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}
			if diff := cmp.Diff(f.log, tc.wantCalls); diff != "" {
				t.Errorf("calls difference (-got +want):\n%s", diff)
			}
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Errorf("Run() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestWokenDegraded(t *testing.T) {
	due := displayed(now, now.Add(-time.Hour))
	later := now.Add(time.Minute)

	for _, tc := range []struct {
		name      string
		setup     func(*fixture)
		wantCalls calls
		want      Result
	}{
		{
			name:  "wifi failure",
			setup: func(f *fixture) { f.link.connectErr = errors.New("timeout") },
			wantCalls: calls{
				"panel resume",
				"clock 07:06",
				"battery 87%",
				"connect home",
				"disconnect",
				"panel sleep",
			},
			want: Result{
				Mode:     Woken,
				State:    displayed(later, now.Add(-time.Hour)),
				SleepFor: 50 * time.Second,
				Clock:    true,
				Battery:  true,
			},
		},
		{
			name:  "fetch failure",
			setup: func(f *fixture) { f.weather.err = errors.New("malformed") },
			wantCalls: calls{
				"panel resume",
				"clock 07:06",
				"battery 87%",
				"connect home",
				"sync",
				"fetch 45.5152,-122.6784",
				"disconnect",
				"panel sleep",
			},
			want: Result{
				Mode:     Woken,
				State:    displayed(later, now.Add(-time.Hour)),
				SleepFor: 50 * time.Second,
				Clock:    true,
				Battery:  true,
			},
		},
		{
			name: "already connected",
			setup: func(f *fixture) {
				f.link.connected = true
				f.sync.err = errors.New("no reply")
			},
			wantCalls: calls{
				"panel resume",
				"clock 07:06",
				"battery 87%",
				"sync",
				"fetch 45.5152,-122.6784",
				"weather 61",
				"disconnect",
				"panel sleep",
			},
			want: Result{
				Mode:     Woken,
				State:    displayed(later, later),
				SleepFor: 50 * time.Second,
				Clock:    true,
				Weather:  true,
				Battery:  true,
			},
		},
		{
			name: "clock draw failure",
			setup: func(f *fixture) {
				f.renderer.fail = "clock"
				f.battery.err = errors.New("i2c nack")
				f.weather.err = errors.New("503")
			},
			wantCalls: calls{
				"panel resume",
				"clock 07:06",
				"connect home",
				"sync",
				"fetch 45.5152,-122.6784",
				"disconnect",
				"panel sleep",
			},
			want: Result{
				Mode:     Woken,
				State:    due,
				SleepFor: 50 * time.Second,
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, r := newFixture(later)
			tc.setup(f)

			got, err := r.Run(context.Background(), due, false)
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}
			if diff := cmp.Diff(f.log, tc.wantCalls); diff != "" {
				t.Errorf("calls difference (-got +want):\n%s", diff)
			}
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Errorf("Run() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestCanceled(t *testing.T) {
	_, r := newFixture(now)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Run(ctx, wake.State{}, true); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want %v", err, context.Canceled)
	}
}

func TestModeString(t *testing.T) {
	for m, want := range map[Mode]string{FreshBoot: "fresh_boot", Woken: "woken", Mode(7): "unknown"} {
		if got := m.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", int(m), got, want)
		}
	}
}
