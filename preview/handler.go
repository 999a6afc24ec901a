// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/textproto"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns the HTTP routes of the display.
func (d *Display) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/frame.png", d.serveFrame)
	r.Get("/stream", d.serveStream)
	r.Get("/windows", d.serveWindows)
	return r
}

func (d *Display) serveFrame(w http.ResponseWriter, r *http.Request) {
	b, err := d.Snapshot(PNG)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", PNG.mimeType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(b)
}

func (d *Display) serveWindows(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(d.Windows())
}

// serveStream sends the frame and then a new one after every Draw, until
// the client goes away or the display is halted.
func (d *Display) serveStream(w http.ResponseWriter, r *http.Request) {
	format := d.format
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := ParseFormat(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}

	s := newPartStream(w)
	w.Header().Set("Content-Type", mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{
		"boundary": s.boundary,
	}))

	c := d.subscribe()
	defer d.unsubscribe(c)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", format.mimeType())
	header.Set("Content-Transfer-Encoding", "binary")

	for {
		b, err := d.Snapshot(format)
		if err != nil {
			// The stream has started; there is no way to report an error
			// inside it.
			return
		}
		if err := s.write(header, b); err != nil {
			return
		}
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		select {
		case <-c.refresh:
		case <-c.terminate:
			return
		case <-r.Context().Done():
			return
		}
	}
}
