// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ina260 reads the Texas Instruments INA260 power monitor, used on
// the panel to measure the battery rail.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/ina260.pdf
package ina260
