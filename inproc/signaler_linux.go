// Copyright 2026 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package inproc

import (
	"encoding/binary"
	"errors"

	"golang.org/x/sys/unix"
)

// signaler is an eventfd-backed notification descriptor.
type signaler struct {
	efd int
}

func newSignaler() (*signaler, error) {
	efd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &signaler{efd: efd}, nil
}

func (s *signaler) fd() int { return s.efd }

// signal makes the descriptor readable.
func (s *signaler) signal() {
	if s.efd < 0 {
		return
	}
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(s.efd, buf[:])
	if err != nil && !errors.Is(err, unix.EAGAIN) {
		panic(err)
	}
}

// drain consumes the pending notifications.
func (s *signaler) drain() {
	var buf [8]byte
	_, _ = unix.Read(s.efd, buf[:])
}

func (s *signaler) Close() error {
	if s.efd < 0 {
		return nil
	}
	err := unix.Close(s.efd)
	s.efd = -1
	return err
}
