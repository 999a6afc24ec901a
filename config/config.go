// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the settings of the clock from the environment.
//
// Values come, by priority, from the process environment, an optional
// dotenv file and the defaults below. Every variable carries the INKCLOCK_
// prefix, e.g. INKCLOCK_WIFI_SSID.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix of every environment variable.
const Prefix = "INKCLOCK"

// Surfaces.
const (
	SurfaceWaveshare = "waveshare"
	SurfacePreview   = "preview"
	SurfaceTerm      = "term"
)

var (
	// ErrParse is returned when a variable cannot be converted to its type.
	ErrParse = errors.New("config: parse")
	// ErrInvalid is returned when a value is out of range.
	ErrInvalid = errors.New("config: invalid")
)

// Config holds all settings.
type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	WiFiSSID      string `envconfig:"WIFI_SSID" validate:"required"`
	WiFiPSK       string `envconfig:"WIFI_PSK"`
	WiFiInterface string `envconfig:"WIFI_INTERFACE" default:"wlan0"`

	NTPServer string `envconfig:"NTP_SERVER" default:"pool.ntp.org" validate:"required"`
	// TZ is the IANA zone or POSIX TZ name the clock shows.
	TZ string `envconfig:"TZ" default:"PST8PDT" validate:"required"`

	Latitude        float64       `envconfig:"LATITUDE" default:"45.5152" validate:"min=-90,max=90"`
	Longitude       float64       `envconfig:"LONGITUDE" default:"-122.6784" validate:"min=-180,max=180"`
	Unit            string        `envconfig:"TEMPERATURE_UNIT" default:"fahrenheit" validate:"oneof=fahrenheit celsius"`
	WeatherURL      string        `envconfig:"WEATHER_URL" default:"https://api.open-meteo.com/v1/forecast" validate:"url"`
	WeatherInterval time.Duration `envconfig:"WEATHER_INTERVAL" default:"30m" validate:"min=1m"`

	Surface     string `envconfig:"SURFACE" default:"waveshare" validate:"oneof=waveshare preview term"`
	PreviewAddr string `envconfig:"PREVIEW_ADDR" default:":8080" validate:"required"`
	// SPIPort and I2CBus are periph registry names; empty picks the first.
	SPIPort string `envconfig:"SPI_PORT"`
	I2CBus  string `envconfig:"I2C_BUS"`

	INA260Address  uint16  `envconfig:"INA260_ADDRESS" default:"0x40" validate:"min=0x40,max=0x4f"`
	BatteryDivider float64 `envconfig:"BATTERY_DIVIDER" default:"1" validate:"gt=0"`

	StatePath string `envconfig:"STATE_PATH" default:"/dev/shm/inkclock.state" validate:"required"`
	// NoSleep waits in process instead of suspending the machine.
	NoSleep     bool   `envconfig:"NO_SLEEP" default:"false"`
	RTCWakeMode string `envconfig:"RTCWAKE_MODE" default:"mem" validate:"oneof=mem standby freeze disk"`
}

// Load reads the dotenv file at path, when not empty and present, then the
// environment, and validates the result.
func Load(path string) (*Config, error) {
	if path != "" {
		// Does not override variables already set.
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return &cfg, nil
}

// Location returns the time zone named by TZ.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TZ)
	if err != nil {
		return nil, fmt.Errorf("%w: TZ: %w", ErrInvalid, err)
	}
	return loc, nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
