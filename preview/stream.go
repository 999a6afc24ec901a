// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
)

// newBoundary generates a MIME multipart boundary compatible with RFC 2046
// section 5.1.1.
func newBoundary() string {
	var buf [34]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", buf[:])
}

// partStream writes an endless multipart entity. mime/multipart.Writer
// cannot terminate each part with the boundary line, which clients wait for
// before showing a frame.
type partStream struct {
	w        io.Writer
	boundary string
	started  bool
}

func newPartStream(w io.Writer) *partStream {
	return &partStream{w: w, boundary: newBoundary()}
}

// write sends one part and its closing boundary. header gets a
// Content-Length.
func (s *partStream) write(header textproto.MIMEHeader, body []byte) error {
	header.Set("Content-Length", strconv.Itoa(len(body)))

	var buf bytes.Buffer
	if !s.started {
		fmt.Fprintf(&buf, "--%s\r\n", s.boundary)
		s.started = true
	}
	for name, values := range header {
		for _, v := range values {
			fmt.Fprintf(&buf, "%s: %s\r\n", name, v)
		}
	}
	buf.WriteString("\r\n")
	buf.Write(body)
	fmt.Fprintf(&buf, "\r\n--%s\r\n", s.boundary)

	_, err := buf.WriteTo(s.w)
	return err
}
