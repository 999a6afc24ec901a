// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package cycle runs one wake cycle of the clock: decide what changed since
// the last wake, redraw only that, and compute how long to sleep.
//
// A cycle starts in one of two modes. FreshBoot follows a power-on (no
// preserved state) or a boot that never completed its first full draw: the
// screen is cleared and everything is drawn. Woken follows a timed sleep:
// the panel keeps its image and only the regions whose content changed are
// redrawn.
//
// No collaborator failure aborts a cycle. Failures are logged, the affected
// region keeps its previous content, and the state records only the work
// that completed so the next wake retries the rest.
package cycle
