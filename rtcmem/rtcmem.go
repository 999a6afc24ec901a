// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rtcmem keeps wake.State in a small memory mapped region that
// survives a suspend to RAM but not a power loss.
//
// Place the backing file on a tmpfs (the default is /dev/shm) to get the
// semantics of the always-on RTC memory of a microcontroller: the contents
// persist while the board sleeps and vanish when it loses power.
//
// Record layout, little endian:
//
//	0   4  magic "INKW"
//	4   1  version
//	5   1  flags (bit 0: first boot)
//	6   2  reserved
//	8   8  last weather update, Unix seconds
//	16  4  last displayed day key
//	20  1  last displayed hour
//	21  1  last displayed minute
//	22  9  reserved
//	31  1  CRC8 of bytes 0..30
package rtcmem

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/GermanBionicSystems/inkclock/common"
	"github.com/GermanBionicSystems/inkclock/wake"
)

// DefaultPath is the tmpfs location of the state record.
const DefaultPath = "/dev/shm/inkclock.state"

// Size is the length of the mapped record in bytes.
const Size = 32

const (
	version       = 1
	flagFirstBoot = 1 << 0
)

var magic = [4]byte{'I', 'N', 'K', 'W'}

// ErrCorrupt is returned by Decode for a record that carries the magic but
// fails the version or checksum test.
var ErrCorrupt = errors.New("rtcmem: corrupt record")

// Store is an open mapping of the state record.
type Store struct {
	f   *os.File
	mem []byte
}

// Open maps the record at path, creating and sizing the file if needed.
func Open(path string) (*Store, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("rtcmem: %w", err)
	}
	if err := f.Truncate(Size); err != nil {
		f.Close()
		return nil, fmt.Errorf("rtcmem: sizing %s: %w", path, err)
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, Size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("rtcmem: mapping %s: %w", path, err)
	}
	return &Store{f: f, mem: mem}, nil
}

// Load returns the persisted state. ok is false when the region holds no
// record, which is the case after a power-on; the caller then starts from
// wake.NewState.
func (s *Store) Load() (st wake.State, ok bool, err error) {
	return Decode(s.mem)
}

// Save writes st and flushes it to the backing file.
func (s *Store) Save(st wake.State) error {
	Encode(s.mem, st)
	if err := unix.Msync(s.mem, unix.MS_SYNC); err != nil {
		return fmt.Errorf("rtcmem: msync: %w", err)
	}
	return nil
}

// Reset clears the record so that the next Load reports a fresh boot.
func (s *Store) Reset() error {
	clear(s.mem)
	return unix.Msync(s.mem, unix.MS_SYNC)
}

// Close unmaps the region. The record stays in the backing file.
func (s *Store) Close() error {
	err := unix.Munmap(s.mem)
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	s.mem = nil
	return err
}

// String implements fmt.Stringer.
func (s *Store) String() string {
	return fmt.Sprintf("rtcmem.Store{%s}", s.f.Name())
}

// Encode serializes st into b, which must be at least Size bytes long.
func Encode(b []byte, st wake.State) {
	b = b[:Size]
	clear(b)
	copy(b[0:4], magic[:])
	b[4] = version
	if st.FirstBoot {
		b[5] |= flagFirstBoot
	}
	binary.LittleEndian.PutUint64(b[8:], uint64(st.LastWeatherUpdate))
	binary.LittleEndian.PutUint32(b[16:], uint32(int32(st.LastDisplayedDay)))
	b[20] = byte(int8(st.LastDisplayedHour))
	b[21] = byte(int8(st.LastDisplayedMinute))
	b[Size-1] = common.CRC8(b[:Size-1])
}

// Decode parses a record produced by Encode. A region without the magic
// (zeroed memory, fresh file) yields ok == false and no error.
func Decode(b []byte) (st wake.State, ok bool, err error) {
	if len(b) < Size || [4]byte(b[0:4]) != magic {
		return wake.NewState(), false, nil
	}
	if b[4] != version || common.CRC8(b[:Size-1]) != b[Size-1] {
		return wake.NewState(), false, ErrCorrupt
	}
	return wake.State{
		LastWeatherUpdate:   int64(binary.LittleEndian.Uint64(b[8:])),
		LastDisplayedDay:    int(int32(binary.LittleEndian.Uint32(b[16:]))),
		LastDisplayedHour:   int(int8(b[20])),
		LastDisplayedMinute: int(int8(b[21])),
		FirstBoot:           b[5]&flagFirstBoot != 0,
	}, true, nil
}
