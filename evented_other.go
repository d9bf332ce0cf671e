// Copyright 2026 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix

package azmq

type evented struct{}

func newEvented(fd int) (*evented, error) {
	return nil, &SetupError{FD: fd, Err: ErrNotSupported}
}

func (*evented) register(Events) {}
func (*evented) clear(Events) {}
func (*evented) take(Events) Events { return 0 }
func (*evented) interest() Events { return 0 }
func (*evented) wait(func()) error { return ErrNotSupported }
func (*evented) Close() error { return nil }
