// Copyright 2018 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inproc

// Option configures some aspect of an in-process socket.
type Option func(s *Socket)

// WithID configures the routing identity of a socket, as seen by
// ROUTER peers.
func WithID(id []byte) Option {
	return func(s *Socket) {
		s.id = append([]byte(nil), id...)
	}
}

// WithHWM sets the capacity, in messages, of the inbound queue of a socket.
// Values lower than 1 are ignored.
func WithHWM(hwm int) Option {
	return func(s *Socket) {
		if hwm > 0 {
			s.hwm = hwm
		}
	}
}

// WithRouterMandatory makes a ROUTER socket report unroutable messages
// with ErrHostUnreachable, and full peers with azmq.ErrWouldBlock,
// instead of silently dropping them.
func WithRouterMandatory(mandatory bool) Option {
	return func(s *Socket) {
		s.mandatory = mandatory
	}
}
