// Copyright 2018 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package azmq

import (
	"log"
)

// Option configures some aspect of an asynchronous socket.
type Option func(s *Socket)

// WithLogger sets a dedicated log.Logger for the socket.
func WithLogger(msg *log.Logger) Option {
	return func(s *Socket) {
		s.log = msg
	}
}

// WithRetainFrames makes Send work on a private copy of each message,
// so callers may reuse their frame buffers while a send is parked.
func WithRetainFrames(retain bool) Option {
	return func(s *Socket) {
		s.retain = retain
	}
}
