// Copyright 2018 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package azmq exposes reactor-style ØMQ sockets as blocking-looking,
// context-aware Go calls.
//
// A reactor-style socket never blocks: its send and receive operations
// fail with a would-block condition, and a single notification descriptor
// becomes readable once per readiness transition. azmq multiplexes that
// descriptor into independent read and write channels, parks goroutines
// on the Go runtime poller while the socket is not ready, and wakes them
// once a fresh readiness probe says they can make progress.
//
// For more informations, see http://api.zeromq.org/4-3:zmq-getsockopt
// (ZMQ_FD and ZMQ_EVENTS).
package azmq

// Events is a level-triggered readiness snapshot of a Transport.
type Events uint8

const (
	Pollin  Events = 1 << iota // at least one message may be received
	Pollout                    // at least one message may be sent
)

func (ev Events) String() string {
	switch ev & (Pollin | Pollout) {
	case Pollin:
		return "POLLIN"
	case Pollout:
		return "POLLOUT"
	case Pollin | Pollout:
		return "POLLIN|POLLOUT"
	default:
		return "NONE"
	}
}

// Transport is a non-blocking, message-oriented socket whose readiness is
// reported through an edge-triggered notification descriptor plus a
// level-triggered status query.
//
// Once wrapped by New, a Transport is owned by the returned Socket and must
// not be used concurrently from elsewhere.
type Transport interface {
	// Close closes the transport.
	Close() error

	// Pattern returns the messaging pattern of the transport (PUB, SUB, ...)
	Pattern() Pattern

	// FD returns the notification descriptor.
	// It becomes readable once per readiness transition.
	FD() (int, error)

	// Events returns the current readiness of the transport.
	// Events may consume pending notifications on the descriptor.
	Events() (Events, error)

	// SendFrame queues one frame without blocking.
	// more reports whether further frames of the same message follow.
	// SendFrame returns an error wrapping ErrWouldBlock when the frame
	// can not be queued right now.
	SendFrame(frame []byte, more bool) error

	// RecvFrame dequeues one frame without blocking.
	// more reports whether further frames of the same message follow.
	// RecvFrame returns an error wrapping ErrWouldBlock when no frame is
	// available right now.
	RecvFrame() (frame []byte, more bool, err error)
}
