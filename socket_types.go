// Copyright 2018 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package azmq

// Pattern is a ZeroMQ socket type.
type Pattern string

const (
	Pair   Pattern = "PAIR"   // a ZMQ_PAIR socket
	Pub    Pattern = "PUB"    // a ZMQ_PUB socket
	Sub    Pattern = "SUB"    // a ZMQ_SUB socket
	Req    Pattern = "REQ"    // a ZMQ_REQ socket
	Rep    Pattern = "REP"    // a ZMQ_REP socket
	Dealer Pattern = "DEALER" // a ZMQ_DEALER socket
	Router Pattern = "ROUTER" // a ZMQ_ROUTER socket
	Pull   Pattern = "PULL"   // a ZMQ_PULL socket
	Push   Pattern = "PUSH"   // a ZMQ_PUSH socket
	XPub   Pattern = "XPUB"   // a ZMQ_XPUB socket
	XSub   Pattern = "XSUB"   // a ZMQ_XSUB socket
	Stream Pattern = "STREAM" // a ZMQ_STREAM socket
)

// Capabilities describes which directions a pattern structurally supports.
type Capabilities struct {
	Readable bool
	Writable bool
}

// Capabilities returns the directions supported by the pattern.
func (p Pattern) Capabilities() Capabilities {
	switch p {
	case Push, Pub:
		return Capabilities{Writable: true}
	case Pull, Sub:
		return Capabilities{Readable: true}
	case Pair, Req, Rep, Dealer, Router, XPub, XSub, Stream:
		return Capabilities{Readable: true, Writable: true}
	default:
		panic("unknown socket-type: \"" + string(p) + "\"")
	}
}

// IsCompatible checks whether two sockets are compatible and thus
// can be connected together.
// See https://rfc.zeromq.org/spec:23/ZMTP/ for more informations.
func (p Pattern) IsCompatible(peer Pattern) bool {
	switch p {
	case Pair:
		return peer == Pair
	case Pub, XPub:
		return peer == Sub || peer == XSub
	case Sub, XSub:
		return peer == Pub || peer == XPub
	case Req:
		return peer == Rep || peer == Router
	case Rep:
		return peer == Req || peer == Dealer
	case Dealer:
		return peer == Rep || peer == Dealer || peer == Router
	case Router:
		return peer == Req || peer == Dealer || peer == Router
	case Pull:
		return peer == Push
	case Push:
		return peer == Pull
	case Stream:
		return false
	default:
		panic("unknown socket-type: \"" + string(p) + "\"")
	}
}
