// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package openmeteo

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/inkclock/forecast"
)

// hourLayout is the format of hourly timestamps with timezone=auto.
const hourLayout = "2006-01-02T15:04"

type response struct {
	Current *struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Hourly *struct {
		Time        []string  `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"hourly"`
	Daily *struct {
		Time        []string  `json:"time"`
		High        []float64 `json:"temperature_2m_max"`
		Low         []float64 `json:"temperature_2m_min"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"daily"`
}

// snapshot converts the decoded response. now picks the first hourly slot
// (the hour after now) and stamps the result.
func (r *response) snapshot(now time.Time) (*forecast.Snapshot, error) {
	switch {
	case r.Current == nil:
		return nil, fmt.Errorf("%w: no current section", ErrIncomplete)
	case r.Hourly == nil:
		return nil, fmt.Errorf("%w: no hourly section", ErrIncomplete)
	case r.Daily == nil:
		return nil, fmt.Errorf("%w: no daily section", ErrIncomplete)
	}

	s := &forecast.Snapshot{
		Current: forecast.Current{
			Temperature: r.Current.Temperature,
			Humidity:    int(r.Current.Humidity + 0.5),
			Condition:   forecast.ConditionForWMO(r.Current.WeatherCode),
		},
		FetchedAt: now,
	}

	// Hourly data starts at local midnight of the current day, so index
	// hour+1 is the next full hour.
	h := r.Hourly
	start := now.Hour() + 1
	if start >= len(h.Temperature) {
		start = 0
	}
	next := (now.Hour() + 1) % 24
	for i := range s.Hourly {
		slot := forecast.Hour{Hour: next, Condition: forecast.Unknown}
		if j := start + i; j < len(h.Temperature) {
			slot.Temperature = h.Temperature[j]
			if j < len(h.WeatherCode) {
				slot.Condition = forecast.ConditionForWMO(h.WeatherCode[j])
			}
			if j < len(h.Time) {
				if t, err := time.Parse(hourLayout, h.Time[j]); err == nil {
					slot.Hour = t.Hour()
				}
			}
		}
		s.Hourly[i] = slot
		next = (slot.Hour + 1) % 24
	}

	d := r.Daily
	for i := range s.Daily {
		slot := forecast.Day{
			Label:     forecast.WeekdayLabel(now.AddDate(0, 0, i).Weekday()),
			Condition: forecast.Unknown,
		}
		if i < len(d.High) {
			slot.High = d.High[i]
			if i < len(d.Low) {
				slot.Low = d.Low[i]
			}
			if i < len(d.WeatherCode) {
				slot.Condition = forecast.ConditionForWMO(d.WeatherCode[i])
			}
			if i < len(d.Time) {
				if wd, err := forecast.Weekday(d.Time[i]); err == nil {
					slot.Label = forecast.WeekdayLabel(wd)
				}
			}
		}
		s.Daily[i] = slot
	}
	return s, nil
}
