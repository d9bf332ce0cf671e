// Copyright 2026 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package azmq

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	// ErrUnsupported is returned when sending on a receive-only pattern
	// or receiving on a send-only pattern.
	ErrUnsupported = errors.New("azmq: direction not supported by this socket pattern")

	// ErrWouldBlock reports that a non-blocking operation could not make
	// progress. It matches syscall.EAGAIN with errors.Is.
	ErrWouldBlock error = wouldBlock{}

	// ErrClosed is returned by operations on a closed socket.
	ErrClosed = errors.New("azmq: socket closed")

	// ErrNotSupported is returned when readiness descriptors are not
	// available on this platform.
	ErrNotSupported = errors.New("azmq: readiness descriptors not supported on this platform")
)

type wouldBlock struct{}

func (wouldBlock) Error() string { return "azmq: operation would block" }

func (wouldBlock) Is(target error) bool { return target == syscall.EAGAIN }

// SetupError reports a failure to register a transport's notification
// descriptor. A socket that failed setup is unusable.
type SetupError struct {
	FD  int
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("azmq: could not register fd %d: %v", e.FD, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

func isWouldBlock(err error) bool {
	return errors.Is(err, ErrWouldBlock) || errors.Is(err, syscall.EAGAIN)
}
