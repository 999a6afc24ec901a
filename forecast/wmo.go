// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package forecast

// ConditionForWMO maps a WMO 4677 present weather code, as reported by
// Open-Meteo, to a Condition.
func ConditionForWMO(code int) Condition {
	switch {
	case code == 0 || code == 1:
		return Clear
	case code == 2:
		return Cloudy
	case code == 3:
		return Overcast
	case code == 45 || code == 48:
		return Foggy
	case code >= 51 && code <= 67:
		// Drizzle, rain and freezing rain.
		return Rain
	case code >= 71 && code <= 77:
		return Snow
	case code >= 80 && code <= 82:
		return Showers
	case code == 85 || code == 86:
		return Snow
	case code >= 90 && code <= 99:
		return Thunder
	}
	return Unknown
}
