// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package timesync sets the system clock from an NTP server.
//
// The board keeps time across suspends with its RTC, which drifts; a sync on
// every forecast refresh keeps the drift bounded. A reply counts as a
// successful sync only when the corrected time lies after 2020, which rules
// out a clock that was never set.
package timesync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beevik/ntp"
	"golang.org/x/sys/unix"

	"github.com/GermanBionicSystems/inkclock/common"
)

// DefaultServer is the NTP pool.
const DefaultServer = "pool.ntp.org"

// MinYear is the last year a synced clock may not be in.
const MinYear = 2020

// ErrNotSynced is returned when no attempt produced a plausible time.
var ErrNotSynced = errors.New("timesync: clock not synced")

// DefaultPolicy is 10 attempts 500ms apart.
var DefaultPolicy = common.Policy{Attempts: 10, Delay: 500 * time.Millisecond}

// Opts configures a Syncer. Zero fields take defaults.
type Opts struct {
	Server  string
	Policy  common.Policy
	Timeout time.Duration

	// Offset queries the server and returns the local clock offset. Used
	// by tests; an NTP query when nil.
	Offset func(server string, timeout time.Duration) (time.Duration, error)
	// SetClock sets the system clock; settimeofday(2) when nil.
	SetClock func(time.Time) error
	// Now reads the local clock; time.Now when nil.
	Now func() time.Time
}

// Syncer sets the clock from NTP with a bounded number of attempts.
type Syncer struct {
	opts Opts
}

// New returns a Syncer.
func New(opts *Opts) *Syncer {
	o := *opts
	if o.Server == "" {
		o.Server = DefaultServer
	}
	if o.Policy == (common.Policy{}) {
		o.Policy = DefaultPolicy
	}
	if o.Timeout == 0 {
		o.Timeout = 2 * time.Second
	}
	if o.Offset == nil {
		o.Offset = queryOffset
	}
	if o.SetClock == nil {
		o.SetClock = setSystemClock
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return &Syncer{opts: o}
}

// Sync queries the server until it returns a plausible time, then sets the
// system clock.
func (s *Syncer) Sync(ctx context.Context) error {
	err := common.Poll(ctx, s.opts.Policy, func() (bool, error) {
		off, err := s.opts.Offset(s.opts.Server, s.opts.Timeout)
		if err != nil {
			return false, err
		}
		t := s.opts.Now().Add(off)
		if t.Year() <= MinYear {
			return false, nil
		}
		if off == 0 {
			return true, nil
		}
		if err := s.opts.SetClock(t); err != nil {
			return false, fmt.Errorf("setting clock: %w", err)
		}
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("%w (%s): %w", ErrNotSynced, s.opts.Server, err)
	}
	return nil
}

// String implements fmt.Stringer.
func (s *Syncer) String() string {
	return fmt.Sprintf("timesync.Syncer{%s}", s.opts.Server)
}

func queryOffset(server string, timeout time.Duration) (time.Duration, error) {
	resp, err := ntp.QueryWithOptions(server, ntp.QueryOptions{Timeout: timeout})
	if err != nil {
		return 0, err
	}
	if err := resp.Validate(); err != nil {
		return 0, err
	}
	return resp.ClockOffset, nil
}

func setSystemClock(t time.Time) error {
	tv := unix.NsecToTimeval(t.UnixNano())
	return unix.Settimeofday(&tv)
}
