// Copyright 2026 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix

package inproc

import "errors"

type signaler struct{}

func newSignaler() (*signaler, error) {
	return nil, errors.New("inproc: notification descriptors not supported on this platform")
}

func (*signaler) fd() int      { return -1 }
func (*signaler) signal()      {}
func (*signaler) drain()       {}
func (*signaler) Close() error { return nil }
