// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package openmeteo fetches the forecast shown on the panel from the
// Open-Meteo API (https://open-meteo.com), which needs no API key.
//
// Only the fields drawn on the panel are requested: current temperature,
// humidity and weather code, hourly temperature and weather code, and daily
// high, low and weather code for the next five days.
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/GermanBionicSystems/inkclock/forecast"
)

// DefaultURL is the public forecast endpoint.
const DefaultURL = "https://api.open-meteo.com/v1/forecast"

// Temperature units accepted by the API.
const (
	Fahrenheit = "fahrenheit"
	Celsius    = "celsius"
)

var (
	// ErrIncomplete is returned when the response lacks one of the current,
	// hourly or daily sections.
	ErrIncomplete = errors.New("openmeteo: incomplete response")
	// ErrStatus is returned for a non-200 HTTP response.
	ErrStatus = errors.New("openmeteo: unexpected status")
)

// Opts configures a Client.
type Opts struct {
	// URL of the forecast endpoint; DefaultURL when empty.
	URL string
	// Unit is Fahrenheit or Celsius; Fahrenheit when empty.
	Unit string
	// HTTP is the client used for requests; a client with a 10s timeout
	// when nil.
	HTTP *http.Client
	// Attempts bounds the number of requests per Fetch; 3 when zero.
	Attempts int
	// Backoff is the delay after the first failed attempt, doubled after
	// every further failure; 500ms when zero.
	Backoff time.Duration
	// Now returns the local time used to pick the hourly slots and stamp
	// the snapshot; time.Now when nil.
	Now func() time.Time
}

// Client fetches forecasts. It is safe for sequential use only, like the
// rest of a wake cycle.
type Client struct {
	url      string
	unit     string
	http     *http.Client
	attempts int
	backoff  time.Duration
	now      func() time.Time
	breaker  *gobreaker.CircuitBreaker[[]byte]
}

// New returns a Client configured by opts.
func New(opts *Opts) *Client {
	c := &Client{
		url:      opts.URL,
		unit:     opts.Unit,
		http:     opts.HTTP,
		attempts: opts.Attempts,
		backoff:  opts.Backoff,
		now:      opts.Now,
	}
	if c.url == "" {
		c.url = DefaultURL
	}
	if c.unit == "" {
		c.unit = Fahrenheit
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 10 * time.Second}
	}
	if c.attempts <= 0 {
		c.attempts = 3
	}
	if c.backoff <= 0 {
		c.backoff = 500 * time.Millisecond
	}
	if c.now == nil {
		c.now = time.Now
	}
	// The breaker only matters for long running processes (no-sleep mode);
	// it stops hammering the API after repeated failures across cycles.
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 1,
		Timeout:     5 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 6
		},
	})
	return c
}

// String implements fmt.Stringer.
func (c *Client) String() string {
	return fmt.Sprintf("openmeteo.Client{%s, %s}", c.url, c.unit)
}

// Fetch returns the forecast for the given coordinates.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (*forecast.Snapshot, error) {
	body, err := c.get(ctx, c.query(lat, lon))
	if err != nil {
		return nil, err
	}
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("openmeteo: decoding response: %w", err)
	}
	return r.snapshot(c.now())
}

func (c *Client) query(lat, lon float64) string {
	v := url.Values{}
	v.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	v.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	v.Set("current", "temperature_2m,relative_humidity_2m,weather_code")
	v.Set("hourly", "temperature_2m,weather_code")
	v.Set("daily", "temperature_2m_max,temperature_2m_min,weather_code")
	v.Set("temperature_unit", c.unit)
	v.Set("timezone", "auto")
	v.Set("forecast_days", "5")
	return c.url + "?" + v.Encode()
}

// get performs the request with a bounded, doubling backoff.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	delay := c.backoff
	var last error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			case <-t.C:
			}
			delay *= 2
		}
		body, err := c.breaker.Execute(func() ([]byte, error) {
			return c.do(ctx, u)
		})
		if err == nil {
			return body, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) || ctx.Err() != nil {
			return nil, fmt.Errorf("openmeteo: %w", err)
		}
		last = err
	}
	return nil, last
}

func (c *Client) do(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openmeteo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
