// Copyright 2018 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inproc provides in-process ØMQ sockets with the reactor-style
// interface of azmq.Transport: non-blocking frame I/O, a level-triggered
// Events query and an edge-triggered notification descriptor.
package inproc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-zeromq/azmq"
)

var (
	ErrClosed             = errors.New("inproc: socket closed")
	ErrConnRefused        = errors.New("inproc: connection refused")
	ErrAddrInUse          = errors.New("inproc: address already in use")
	ErrInvalidAddress     = errors.New("inproc: invalid address")
	ErrIncompatible       = errors.New("inproc: incompatible socket types")
	ErrUnsupportedPattern = errors.New("inproc: socket type not supported")
	ErrHostUnreachable    = errors.New("inproc: host unreachable")
	ErrState              = errors.New("inproc: operation not valid in the current socket state")
	ErrPairBusy           = errors.New("inproc: PAIR socket already connected")
)

// Context holds a namespace of in-process end-points.
// Sockets can only be connected to end-points bound in the same Context.
//
// All the sockets of a Context share a single lock.
type Context struct {
	mu  sync.Mutex
	eps map[string]*Socket
}

// NewContext returns a new, empty, end-point namespace.
func NewContext() *Context {
	return &Context{eps: make(map[string]*Socket)}
}

var defaultContext = NewContext()

// NewSocket returns a new socket in the default Context.
// The returned socket value is initially unbound.
func NewSocket(typ azmq.Pattern, opts ...Option) (*Socket, error) {
	return defaultContext.NewSocket(typ, opts...)
}

// NewSocket returns a new socket of the given type.
// The returned socket value is initially unbound.
func (ctx *Context) NewSocket(typ azmq.Pattern, opts ...Option) (*Socket, error) {
	switch typ {
	case azmq.Pair, azmq.Pub, azmq.Sub, azmq.Req, azmq.Rep, azmq.Dealer,
		azmq.Router, azmq.Pull, azmq.Push, azmq.XPub, azmq.XSub:
		// ok.
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPattern, typ)
	}

	sig, err := newSignaler()
	if err != nil {
		return nil, fmt.Errorf("inproc: could not create notification descriptor: %w", err)
	}

	sck := newSocket(ctx, typ, sig)
	for _, opt := range opts {
		opt(sck)
	}
	if len(sck.id) == 0 {
		sck.id = []byte(newUUID())
	}
	return sck, nil
}

// Bind announces the socket on the given end-point.
func (sck *Socket) Bind(ep string) error {
	name, err := endpoint(ep)
	if err != nil {
		return err
	}

	ctx := sck.ctx
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if sck.closed {
		return ErrClosed
	}
	if _, dup := ctx.eps[name]; dup {
		return fmt.Errorf("inproc: could not bind %q: %w", name, ErrAddrInUse)
	}
	ctx.eps[name] = sck
	sck.bound = append(sck.bound, name)
	return nil
}

// Connect connects the socket to a bound end-point.
func (sck *Socket) Connect(ep string) error {
	name, err := endpoint(ep)
	if err != nil {
		return err
	}

	ctx := sck.ctx
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if sck.closed {
		return ErrClosed
	}
	peer, ok := ctx.eps[name]
	if !ok || peer.closed {
		return fmt.Errorf("inproc: could not connect to %q: %w", name, ErrConnRefused)
	}
	if !sck.typ.IsCompatible(peer.typ) {
		return fmt.Errorf("inproc: could not connect %s to %s: %w", sck.typ, peer.typ, ErrIncompatible)
	}
	if sck.typ == azmq.Pair && (len(sck.peers) > 0 || len(peer.peers) > 0) {
		return ErrPairBusy
	}

	sck.attach(peer)
	peer.attach(sck)
	sck.sig.signal()
	peer.sig.signal()
	return nil
}

// Addr represents an in-process "network" end-point address.
type Addr string

// String implements net.Addr.String
func (a Addr) String() string {
	return string(a)
}

// Network returns the name of the network.
func (a Addr) Network() string {
	return "inproc"
}
