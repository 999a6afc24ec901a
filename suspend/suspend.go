// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package suspend puts the system to sleep between two wake cycles.
package suspend

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Sleeper blocks for d, or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RTCWake suspends the machine with util-linux rtcwake and returns after
// the RTC alarm resumed it. RAM, and so the process, survives.
type RTCWake struct {
	// Mode is the rtcwake mode; "mem" (suspend to RAM) when empty.
	Mode string
	// Path of the rtcwake binary; "rtcwake" when empty.
	Path string

	run func(ctx context.Context, name string, args ...string) error
}

// Sleep implements Sleeper. d is rounded up to whole seconds, the RTC
// resolution.
func (s *RTCWake) Sleep(ctx context.Context, d time.Duration) error {
	mode := s.Mode
	if mode == "" {
		mode = "mem"
	}
	path := s.Path
	if path == "" {
		path = "rtcwake"
	}
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	args := []string{"-m", mode, "-s", strconv.Itoa(secs)}
	if s.run != nil {
		return s.run(ctx, path, args...)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("suspend: %s %s: %w: %s", path, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Delay waits in process without suspending, for development and for
// surfaces that are not a panel.
type Delay struct{}

// Sleep implements Sleeper.
func (Delay) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
