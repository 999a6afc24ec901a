// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted is returned by Poll when every attempt reported not done.
var ErrExhausted = errors.New("attempts exhausted")

// Policy is a fixed attempt count with a fixed delay between attempts.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// Poll calls check until it reports done, the attempts run out or ctx is
// cancelled. An error from check does not stop the loop; the delay is only
// slept between attempts.
//
// When attempts run out the last error returned by check, if any, is joined
// with ErrExhausted.
func Poll(ctx context.Context, p Policy, check func() (bool, error)) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last error
	for i := 0; i < attempts; i++ {
		if i > 0 && p.Delay > 0 {
			t := time.NewTimer(p.Delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		done, err := check()
		if done {
			return nil
		}
		if err != nil {
			last = err
		}
	}
	if last != nil {
		return errors.Join(ErrExhausted, last)
	}
	return ErrExhausted
}
