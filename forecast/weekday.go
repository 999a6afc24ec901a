// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package forecast

import (
	"fmt"
	"strconv"
	"time"
)

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeekdayLabel returns the three letter English name of d.
func WeekdayLabel(d time.Weekday) string {
	return weekdayLabels[d%7]
}

// Weekday returns the day of the week of an ISO "YYYY-MM-DD" date using
// Zeller's congruence for the Gregorian calendar.
func Weekday(iso string) (time.Weekday, error) {
	if len(iso) < 10 || iso[4] != '-' || iso[7] != '-' {
		return 0, fmt.Errorf("forecast: malformed date %q", iso)
	}
	year, err1 := strconv.Atoi(iso[0:4])
	month, err2 := strconv.Atoi(iso[5:7])
	day, err3 := strconv.Atoi(iso[8:10])
	if err1 != nil || err2 != nil || err3 != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, fmt.Errorf("forecast: malformed date %q", iso)
	}
	return zeller(year, month, day), nil
}

func zeller(year, month, day int) time.Weekday {
	// January and February count as months 13 and 14 of the previous year.
	if month < 3 {
		month += 12
		year--
	}
	k := year % 100
	j := year / 100
	h := (day + 13*(month+1)/5 + k + k/4 + j/4 + 5*j) % 7
	// h is 0 for Saturday.
	return time.Weekday((h + 6) % 7)
}
