// Copyright 2018 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build czmq4

// Package czmq exposes libzmq sockets, through the goczmq bindings, as
// azmq transports.
package czmq

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-zeromq/azmq"
	czmq4 "github.com/go-zeromq/goczmq/v4"
)

var (
	ErrUnsupportedPattern = errors.New("czmq: socket type not supported")
	errInvalidAddress     = errors.New("czmq: invalid address")
)

// Socket is a libzmq socket implementing azmq.Transport.
//
// Socket is not safe for concurrent use: azmq.Socket serializes all the
// calls into its transport.
type Socket struct {
	sock *czmq4.Sock
	typ  azmq.Pattern
	addr net.Addr
	more bool // a multipart message is being read
}

// NewSocket creates a new libzmq socket of the given type.
func NewSocket(typ azmq.Pattern, opts ...czmq4.SockOption) (*Socket, error) {
	ctyp, ok := ctypes[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPattern, typ)
	}
	return &Socket{sock: czmq4.NewSock(ctyp, opts...), typ: typ}, nil
}

// WithID configures a ZeroMQ socket identity.
func WithID(id string) czmq4.SockOption {
	return czmq4.SockSetIdentity(id)
}

// WithHWM sets both the send and receive high water marks.
func WithHWM(hwm int) czmq4.SockOption {
	return func(s *czmq4.Sock) {
		czmq4.SockSetSndhwm(hwm)(s)
		czmq4.SockSetRcvhwm(hwm)(s)
	}
}

// WithLinger sets the linger period, in milliseconds, of the socket.
func WithLinger(ms int) czmq4.SockOption {
	return czmq4.SockSetLinger(ms)
}

// WithRouterMandatory makes a ROUTER socket report unroutable messages.
func WithRouterMandatory() czmq4.SockOption {
	return czmq4.SockSetRouterMandatory(1)
}

// Bind binds a local endpoint to the socket.
func (sck *Socket) Bind(ep string) error {
	port, err := sck.sock.Bind(ep)
	if err != nil {
		return fmt.Errorf("czmq: could not bind %q: %w", ep, err)
	}
	sck.addr, err = netAddrFrom(port, ep)
	return err
}

// Connect connects the socket to a remote endpoint.
func (sck *Socket) Connect(ep string) error {
	err := sck.sock.Connect(ep)
	if err != nil {
		return fmt.Errorf("czmq: could not connect to %q: %w", ep, err)
	}
	return nil
}

// Subscribe adds a topic prefix to a SUB socket.
func (sck *Socket) Subscribe(topic string) {
	sck.sock.SetOption(czmq4.SockSetSubscribe(topic))
}

// Unsubscribe removes a topic prefix from a SUB socket.
func (sck *Socket) Unsubscribe(topic string) {
	sck.sock.SetOption(czmq4.SockSetUnsubscribe(topic))
}

// Addr returns the listener's address.
// Addr returns nil if the socket isn't bound.
func (sck *Socket) Addr() net.Addr {
	return sck.addr
}

// Pattern returns the type of this Socket (PUB, SUB, ...)
func (sck *Socket) Pattern() azmq.Pattern {
	return sck.typ
}

// FD returns the ZMQ_FD notification descriptor of the socket.
func (sck *Socket) FD() (int, error) {
	fd := czmq4.Fd(sck.sock)
	if fd < 0 {
		return -1, fmt.Errorf("czmq: invalid ZMQ_FD %d", fd)
	}
	return fd, nil
}

// Events returns the ZMQ_EVENTS of the socket.
func (sck *Socket) Events() (azmq.Events, error) {
	v := czmq4.Events(sck.sock)
	if v < 0 {
		return 0, fmt.Errorf("czmq: invalid ZMQ_EVENTS %d", v)
	}
	var ev azmq.Events
	if v&czmq4.Pollin != 0 {
		ev |= azmq.Pollin
	}
	if v&czmq4.Pollout != 0 {
		ev |= azmq.Pollout
	}
	return ev, nil
}

// SendFrame queues a frame without blocking.
func (sck *Socket) SendFrame(frame []byte, more bool) error {
	flags := czmq4.FlagDontWait
	if more {
		flags |= czmq4.FlagMore
	}
	err := sck.sock.SendFrame(frame, flags)
	if err == nil {
		return nil
	}
	// the bindings do not expose errno: a refused frame on a socket
	// that isn't writable is an EAGAIN.
	if czmq4.Events(sck.sock)&czmq4.Pollout == 0 {
		return azmq.ErrWouldBlock
	}
	return fmt.Errorf("czmq: could not send frame: %w", err)
}

// RecvFrame dequeues a frame without blocking.
func (sck *Socket) RecvFrame() ([]byte, bool, error) {
	// libzmq delivers multipart messages atomically: once the first frame
	// is available, so are the others.
	if !sck.more && czmq4.Events(sck.sock)&czmq4.Pollin == 0 {
		return nil, false, azmq.ErrWouldBlock
	}
	frame, more, err := sck.sock.RecvFrame()
	if err != nil {
		sck.more = false
		return nil, false, fmt.Errorf("czmq: could not recv frame: %w", err)
	}
	sck.more = more != 0
	return frame, sck.more, nil
}

// Close destroys the underlying libzmq socket.
func (sck *Socket) Close() error {
	sck.sock.Destroy()
	return nil
}

var ctypes = map[azmq.Pattern]int{
	azmq.Pair:   czmq4.Pair,
	azmq.Pub:    czmq4.Pub,
	azmq.Sub:    czmq4.Sub,
	azmq.Req:    czmq4.Req,
	azmq.Rep:    czmq4.Rep,
	azmq.Dealer: czmq4.Dealer,
	azmq.Router: czmq4.Router,
	azmq.Pull:   czmq4.Pull,
	azmq.Push:   czmq4.Push,
	azmq.XPub:   czmq4.XPub,
	azmq.XSub:   czmq4.XSub,
	azmq.Stream: czmq4.Stream,
}

func netAddrFrom(port int, ep string) (net.Addr, error) {
	network, addr, ok := strings.Cut(ep, "://")
	if !ok {
		return nil, fmt.Errorf("%w: %q", errInvalidAddress, ep)
	}
	switch network {
	case "ipc":
		network = "unix"
	case "tcp", "udp", "inproc":
		// ok.
	default:
		return nil, fmt.Errorf("czmq: unknown protocol %q", network)
	}
	if idx := strings.LastIndex(addr, ":"); idx != -1 && network != "unix" {
		addr = addr[:idx]
	}
	return caddr{host: addr, port: strconv.Itoa(port), net: network}, nil
}

type caddr struct {
	host string
	port string
	net  string
}

func (addr caddr) Network() string { return addr.net }
func (addr caddr) String() string {
	if addr.net == "unix" || addr.net == "inproc" {
		return addr.host
	}
	return net.JoinHostPort(addr.host, addr.port)
}

var (
	_ azmq.Transport = (*Socket)(nil)
	_ net.Addr       = (*caddr)(nil)
)
