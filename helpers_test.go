// Copyright 2026 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package azmq_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-zeromq/azmq"
	"github.com/go-zeromq/azmq/inproc"
)

var bkg = context.Background()

// sockets binds a socket of type btyp and connects a socket of type ctyp
// to it, in a private in-process namespace.
type sockets struct {
	t   *testing.T
	ctx *inproc.Context
	n   int
}

func newSockets(t *testing.T) *sockets {
	return &sockets{t: t, ctx: inproc.NewContext()}
}

func (ss *sockets) endpoint() string {
	ss.n++
	return fmt.Sprintf("inproc://%s-%d", ss.t.Name(), ss.n)
}

func (ss *sockets) wrap(sck *inproc.Socket) *azmq.Socket {
	ss.t.Helper()
	s, err := azmq.New(bkg, sck, azmq.WithLogger(azmq.Devnull))
	if err != nil {
		ss.t.Fatalf("could not wrap %s socket: %+v", sck.Pattern(), err)
	}
	ss.t.Cleanup(func() { s.Close() })
	return s
}

func (ss *sockets) raw(typ azmq.Pattern, opts ...inproc.Option) *inproc.Socket {
	ss.t.Helper()
	sck, err := ss.ctx.NewSocket(typ, opts...)
	if err != nil {
		ss.t.Fatalf("could not create %s socket: %+v", typ, err)
	}
	return sck
}

func (ss *sockets) bind(typ azmq.Pattern, ep string, opts ...inproc.Option) *azmq.Socket {
	ss.t.Helper()
	sck := ss.raw(typ, opts...)
	err := sck.Bind(ep)
	if err != nil {
		ss.t.Fatalf("could not bind %s: %+v", ep, err)
	}
	return ss.wrap(sck)
}

func (ss *sockets) connect(typ azmq.Pattern, ep string, opts ...inproc.Option) *azmq.Socket {
	ss.t.Helper()
	sck := ss.raw(typ, opts...)
	err := sck.Connect(ep)
	if err != nil {
		ss.t.Fatalf("could not connect to %s: %+v", ep, err)
	}
	return ss.wrap(sck)
}
