// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"fmt"
	"regexp"
	"testing"
)

func TestFormat(t *testing.T) {
	for _, tc := range []struct {
		format       Format
		wantString   string
		wantMimeType string
	}{
		{Format(-1), "-1", "application/octet-stream"},
		{PNG, "PNG", "image/png"},
		{JPEG, "JPEG", "image/jpeg"},
	} {
		t.Run(fmt.Sprint(tc), func(t *testing.T) {
			if got := tc.format.String(); got != tc.wantString {
				t.Errorf("String() returned %q, want %q", got, tc.wantString)
			}
			if got := tc.format.mimeType(); got != tc.wantMimeType {
				t.Errorf("mimeType() returned %q, want %q", got, tc.wantMimeType)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"png": PNG, "jpg": JPEG, "jpeg": JPEG} {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFormat("bmp"); err == nil {
		t.Error("ParseFormat(bmp) succeeded")
	}
}

var boundaryRe = regexp.MustCompile(`^[a-f0-9]{60,70}$`)

func TestNewBoundary(t *testing.T) {
	for i := 0; i < 100; i++ {
		if got := newBoundary(); !boundaryRe.MatchString(got) {
			t.Errorf("boundary must match %q: %s", boundaryRe.String(), got)
		}
	}
}
