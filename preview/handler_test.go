// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newServer(t *testing.T, opts *Opts) (*Display, *httptest.Server) {
	t.Helper()
	d := New(opts)
	srv := httptest.NewServer(d.Handler())
	t.Cleanup(srv.Close)
	t.Cleanup(srv.CloseClientConnections)
	return d, srv
}

func TestFrame(t *testing.T) {
	d, srv := newServer(t, &Opts{Width: 40, Height: 24})
	if err := d.Draw(image.Rect(0, 0, 8, 8), image.Black, image.Point{}); err != nil {
		t.Fatal(err)
	}

	resp, err := srv.Client().Get(srv.URL + "/frame.png")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", got)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("png.Decode() failed: %v", err)
	}
	if got, want := img.Bounds().Size(), image.Pt(40, 24); got != want {
		t.Errorf("image size %v, want %v", got, want)
	}
	if r, _, _, _ := img.At(1, 1).RGBA(); r != 0 {
		t.Errorf("pixel (1, 1) = %v, want black", img.At(1, 1))
	}
	if r, _, _, _ := img.At(20, 20).RGBA(); r != 0xffff {
		t.Errorf("pixel (20, 20) = %v, want white", img.At(20, 20))
	}
}

func TestWindowsEndpoint(t *testing.T) {
	d, srv := newServer(t, &Opts{Width: 800, Height: 480})
	at := time.Date(2026, time.October, 19, 7, 5, 0, 0, time.UTC)
	d.now = func() time.Time { return at }

	if err := d.Draw(image.Rect(0, 110, 400, 230), image.Black, image.Point{}); err != nil {
		t.Fatal(err)
	}

	resp, err := srv.Client().Get(srv.URL + "/windows")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	defer resp.Body.Close()

	var got []Window
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	want := []Window{{X: 0, Y: 110, W: 400, H: 120, At: at}}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("/windows difference (-got +want):\n%s", diff)
	}
}

func TestStream(t *testing.T) {
	for _, tc := range []struct {
		name   string
		opts   Opts
		target string
		want   string
	}{
		{"default", Opts{Width: 24, Height: 16}, "/stream", "image/png"},
		{"default JPEG", Opts{Width: 24, Height: 16, Format: JPEG}, "/stream", "image/jpeg"},
		{"param PNG", Opts{Width: 24, Height: 16, Format: JPEG}, "/stream?format=png", "image/png"},
		{"param JPEG", Opts{Width: 24, Height: 16}, "/stream?format=jpeg", "image/jpeg"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d, srv := newServer(t, &tc.opts)

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+tc.target, nil)
			if err != nil {
				t.Fatal(err)
			}
			resp, err := srv.Client().Do(req)
			if err != nil {
				t.Fatalf("Do() failed: %v", err)
			}
			defer resp.Body.Close()

			mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
			if err != nil {
				t.Fatalf("ParseMediaType() failed: %v", err)
			}
			if mediaType != "multipart/x-mixed-replace" {
				t.Fatalf("Content-Type is %q", mediaType)
			}
			mr := multipart.NewReader(resp.Body, params["boundary"])

			// The first part is the current frame, the second follows a Draw.
			for i, want := range []color.Color{color.White, color.Black} {
				part, err := mr.NextPart()
				if err != nil {
					t.Fatalf("NextPart() failed: %v", err)
				}
				img := decodePart(t, part, tc.want)
				if r, _, _, _ := img.At(4, 4).RGBA(); !closeTo(r, want) {
					t.Errorf("part %d pixel = %v, want %v", i, img.At(4, 4), want)
				}
				if i == 0 {
					if err := d.Draw(d.Bounds(), image.Black, image.Point{}); err != nil {
						t.Fatal(err)
					}
				}
			}

			if err := d.Halt(); err != nil {
				t.Errorf("Halt() failed: %v", err)
			}
		})
	}
}

func closeTo(r uint32, c color.Color) bool {
	want, _, _, _ := c.RGBA()
	d := int(r) - int(want)
	return d > -0x800 && d < 0x800
}

func decodePart(t *testing.T, part *multipart.Part, wantType string) image.Image {
	t.Helper()
	defer part.Close()

	if got := part.Header.Get("Content-Type"); got != wantType {
		t.Errorf("part Content-Type = %q, want %q", got, wantType)
	}
	n, err := strconv.Atoi(part.Header.Get("Content-Length"))
	if err != nil {
		t.Fatalf("Content-Length: %v", err)
	}
	body, err := io.ReadAll(part)
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	if len(body) != n {
		t.Errorf("read %d bytes, Content-Length is %d", len(body), n)
	}

	decode := png.Decode
	if wantType == "image/jpeg" {
		decode = jpeg.Decode
	}
	img, err := decode(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("decoding %s failed: %v", wantType, err)
	}
	return img
}

func TestRequestStatus(t *testing.T) {
	for _, tc := range []struct {
		method     string
		target     string
		wantStatus int
	}{
		{http.MethodGet, "/stream?format=bmp", http.StatusBadRequest},
		{http.MethodPost, "/frame.png", http.StatusMethodNotAllowed},
		{http.MethodGet, "/frame.jpg", http.StatusNotFound},
		{http.MethodGet, "/windows", http.StatusOK},
	} {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			_, srv := newServer(t, &Opts{Width: 16, Height: 16})

			req, err := http.NewRequest(tc.method, srv.URL+tc.target, nil)
			if err != nil {
				t.Fatal(err)
			}
			resp, err := srv.Client().Do(req)
			if err != nil {
				t.Fatalf("Do() failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("%s %s returned %d, want %d", tc.method, tc.target, resp.StatusCode, tc.wantStatus)
			}
		})
	}
}
