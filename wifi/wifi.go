// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package wifi joins and leaves the wireless network for the few seconds a
// wake cycle needs it.
//
// Connecting is a blocking poll with a fixed attempt budget: the radio is
// asked to join, then its association state is read until it reports
// associated or the attempts run out.
package wifi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GermanBionicSystems/inkclock/common"
)

// ErrTimeout is returned by Connect when the radio did not associate within
// the attempt budget.
var ErrTimeout = errors.New("wifi: association timed out")

// DefaultPolicy is 20 polls 500ms apart.
var DefaultPolicy = common.Policy{Attempts: 20, Delay: 500 * time.Millisecond}

// Radio is the platform network interface.
type Radio interface {
	// Join starts associating with the network. It may return before the
	// association completes.
	Join(ctx context.Context, ssid, psk string) error
	// Leave disassociates and powers the radio down where supported.
	Leave(ctx context.Context) error
	// Associated reports whether the radio currently has a link.
	Associated(ctx context.Context) (bool, error)
}

// Link connects a Radio with a bounded poll.
type Link struct {
	radio  Radio
	policy common.Policy
}

// New returns a Link polling with p; DefaultPolicy when p is the zero value.
func New(r Radio, p common.Policy) *Link {
	if p == (common.Policy{}) {
		p = DefaultPolicy
	}
	return &Link{radio: r, policy: p}
}

// Connect joins ssid and waits for the association.
func (l *Link) Connect(ctx context.Context, ssid, psk string) error {
	if err := l.radio.Join(ctx, ssid, psk); err != nil {
		return fmt.Errorf("wifi: joining %q: %w", ssid, err)
	}
	err := common.Poll(ctx, l.policy, func() (bool, error) {
		return l.radio.Associated(ctx)
	})
	if errors.Is(err, common.ErrExhausted) {
		return fmt.Errorf("%w: %q after %d attempts", ErrTimeout, ssid, l.policy.Attempts)
	}
	return err
}

// Disconnect leaves the network.
func (l *Link) Disconnect(ctx context.Context) error {
	return l.radio.Leave(ctx)
}

// Connected reports whether the radio has a link. Errors read as not
// connected.
func (l *Link) Connected(ctx context.Context) bool {
	ok, err := l.radio.Associated(ctx)
	return err == nil && ok
}
