// Copyright 2026 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package azmq

import (
	"fmt"
	"os"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// evented presents the notification descriptor of a Transport to the
// runtime poller, with one independently clearable interest per direction.
//
// The descriptor signals "something changed", never "your direction is
// ready": every wakeup must be confirmed against a fresh Events probe.
type evented struct {
	fd    int // descriptor owned by the transport
	f     *os.File
	rc    syscall.RawConn
	armed atomic.Uint32
}

func newEvented(fd int) (*evented, error) {
	// the transport keeps ownership of fd: register a duplicate so closing
	// the adapter never closes the transport's descriptor.
	dup, err := unix.Dup(fd)
	if err != nil {
		return nil, &SetupError{FD: fd, Err: err}
	}
	unix.CloseOnExec(dup)

	err = unix.SetNonblock(dup, true)
	if err != nil {
		_ = unix.Close(dup)
		return nil, &SetupError{FD: fd, Err: err}
	}

	// os.NewFile registers the non-blocking descriptor with the runtime
	// poller, edge-triggered.
	f := os.NewFile(uintptr(dup), fmt.Sprintf("azmq-notify-%d", fd))

	// deadlines are only supported by descriptors the poller accepted.
	err = f.SetReadDeadline(time.Time{})
	if err != nil {
		_ = f.Close()
		return nil, &SetupError{FD: fd, Err: err}
	}

	rc, err := f.SyscallConn()
	if err != nil {
		_ = f.Close()
		return nil, &SetupError{FD: fd, Err: err}
	}

	return &evented{fd: fd, f: f, rc: rc}, nil
}

// register arms the directions in dir.
func (ev *evented) register(dir Events) {
	for {
		old := ev.armed.Load()
		if ev.armed.CompareAndSwap(old, old|uint32(dir)) {
			return
		}
	}
}

// clear disarms the directions in dir.
// Callers clear a direction after a would-block result and before
// re-checking the status or arming it again.
func (ev *evented) clear(dir Events) {
	ev.take(dir)
}

// take disarms and returns the armed directions among dir.
func (ev *evented) take(dir Events) Events {
	for {
		old := ev.armed.Load()
		if ev.armed.CompareAndSwap(old, old&^uint32(dir)) {
			return Events(old) & dir
		}
	}
}

// interest returns the currently armed directions.
func (ev *evented) interest() Events {
	return Events(ev.armed.Load())
}

// wait calls probe once now and once after every edge of the descriptor,
// until the adapter is closed.
//
// The runtime poller resets its readiness token before each raw read,
// so probe must re-read the level-triggered status itself.
func (ev *evented) wait(probe func()) error {
	return ev.rc.Read(func(uintptr) bool {
		probe()
		return false
	})
}

// Close unregisters the descriptor from the poller and unblocks wait.
func (ev *evented) Close() error {
	return ev.f.Close()
}
