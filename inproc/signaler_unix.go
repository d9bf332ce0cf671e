// Copyright 2026 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix && !linux

package inproc

import (
	"errors"

	"golang.org/x/sys/unix"
)

// signaler is a self-pipe notification descriptor.
type signaler struct {
	r, w int
}

func newSignaler() (*signaler, error) {
	var p [2]int
	err := unix.Pipe(p[:])
	if err != nil {
		return nil, err
	}
	for _, fd := range p {
		unix.CloseOnExec(fd)
		err = unix.SetNonblock(fd, true)
		if err != nil {
			unix.Close(p[0])
			unix.Close(p[1])
			return nil, err
		}
	}
	return &signaler{r: p[0], w: p[1]}, nil
}

func (s *signaler) fd() int { return s.r }

// signal makes the descriptor readable.
func (s *signaler) signal() {
	if s.w < 0 {
		return
	}
	_, err := unix.Write(s.w, []byte{1})
	if err != nil && !errors.Is(err, unix.EAGAIN) {
		panic(err)
	}
}

// drain consumes the pending notifications.
func (s *signaler) drain() {
	var buf [64]byte
	for {
		n, err := unix.Read(s.r, buf[:])
		if err != nil || n < len(buf) {
			return
		}
	}
}

func (s *signaler) Close() error {
	if s.r < 0 {
		return nil
	}
	err := unix.Close(s.r)
	if e := unix.Close(s.w); e != nil && err == nil {
		err = e
	}
	s.r, s.w = -1, -1
	return err
}
