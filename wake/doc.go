// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package wake decides, on every wake cycle, which parts of the panel are
// stale.
//
// The predicates are pure: they only compare the values they are given and
// never read the clock or touch the display. They are combined by package
// cycle, which owns State and persists it across suspends.
package wake
