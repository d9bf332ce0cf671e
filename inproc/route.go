// Copyright 2018 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inproc

import (
	"bytes"

	"github.com/go-zeromq/azmq"
)

// reserve selects the destination of the message starting with frame.
// reserve is the only place where a send may fail with azmq.ErrWouldBlock.
func (sck *Socket) reserve(frame []byte) error {
	sck.target = nil
	sck.drop = false

	switch sck.typ {
	case azmq.Pub, azmq.XPub, azmq.XSub:
		return nil

	case azmq.Pair:
		if len(sck.peers) == 0 || !sck.peers[0].hasRoom() {
			return azmq.ErrWouldBlock
		}
		sck.target = sck.peers[0]

	case azmq.Push, azmq.Dealer:
		sck.target = sck.pick()
		if sck.target == nil {
			return azmq.ErrWouldBlock
		}

	case azmq.Req:
		if sck.state != stateSend {
			return ErrState
		}
		sck.target = sck.pick()
		if sck.target == nil {
			return azmq.ErrWouldBlock
		}

	case azmq.Rep:
		if sck.state != stateSend {
			return ErrState
		}
		sck.target = sck.replyTo
		if sck.target == nil || !sck.target.hasRoom() {
			sck.target = nil
			sck.drop = true
		}

	case azmq.Router:
		peer := sck.lookup(frame)
		switch {
		case peer == nil && sck.mandatory:
			return ErrHostUnreachable
		case peer == nil:
			sck.drop = true
		case !peer.hasRoom() && sck.mandatory:
			return azmq.ErrWouldBlock
		case !peer.hasRoom():
			sck.drop = true
		default:
			sck.target = peer
		}

	default:
		return ErrState
	}
	return nil
}

// deliver hands a complete outbound message over to its destination(s).
func (sck *Socket) deliver(frames [][]byte) {
	switch sck.typ {
	case azmq.Pub, azmq.XPub:
		for _, peer := range sck.peers {
			if peer.hasRoom() {
				peer.enqueue(message{from: sck, frames: clone(frames)})
			}
		}
		return

	case azmq.XSub:
		if len(frames) == 1 && len(frames[0]) > 0 && frames[0][0] <= 1 {
			sck.subscribe(string(frames[0][1:]), frames[0][0] == 1)
		}
		for _, peer := range sck.peers {
			if peer.typ == azmq.XPub && peer.hasRoom() {
				peer.enqueue(message{from: sck, frames: clone(frames)})
			}
		}
		return

	case azmq.Router:
		frames = frames[1:]

	case azmq.Req:
		if sck.drop {
			return
		}
		frames = append([][]byte{{}}, frames...)
		sck.state = stateRecv
		sck.replyTo = sck.target

	case azmq.Rep:
		frames = append(sck.envelope[:len(sck.envelope):len(sck.envelope)], frames...)
		sck.state = stateRecv
		sck.envelope = nil
		sck.replyTo = nil
	}

	if sck.drop || sck.target == nil || len(frames) == 0 {
		return
	}
	sck.target.enqueue(message{from: sck, frames: frames})
}

// accept reports whether an inbound message is well-formed for the
// receiving socket. Rejected messages are silently dropped.
func (sck *Socket) accept(msg message) bool {
	switch sck.typ {
	case azmq.Pub, azmq.Push:
		return false
	case azmq.Sub, azmq.XSub:
		return len(msg.frames) > 0 && sck.subscribed(msg.frames[0])
	case azmq.Req:
		return sck.state == stateRecv && msg.from == sck.replyTo &&
			len(msg.frames) > 1 && len(msg.frames[0]) == 0
	case azmq.Rep:
		i := delimiter(msg.frames)
		return i >= 0 && i < len(msg.frames)-1
	}
	return true
}

// pop moves the next inbound message into the read cursor.
func (sck *Socket) pop() error {
	switch sck.typ {
	case azmq.Pub, azmq.Push:
		return ErrState
	case azmq.Req, azmq.Rep:
		if sck.state != stateRecv {
			return ErrState
		}
	}

	msg, ok := sck.dequeue()
	if !ok {
		return azmq.ErrWouldBlock
	}

	frames := msg.frames
	switch sck.typ {
	case azmq.Router:
		frames = append([][]byte{msg.from.id}, frames...)
	case azmq.Req:
		frames = frames[1:]
		sck.state = stateSend
		sck.replyTo = nil
	case azmq.Rep:
		i := delimiter(frames)
		sck.envelope = frames[:i+1]
		frames = frames[i+1:]
		sck.replyTo = msg.from
		sck.state = stateSend
	}
	sck.cur = frames
	return nil
}

func (sck *Socket) readable() bool {
	if len(sck.cur) > 0 {
		return true
	}
	switch sck.typ {
	case azmq.Pub, azmq.Push:
		return false
	case azmq.Req, azmq.Rep:
		if sck.state != stateRecv {
			return false
		}
	}
	return sck.in.Length() > 0
}

func (sck *Socket) writable() bool {
	if len(sck.out) > 0 {
		return true
	}
	switch sck.typ {
	case azmq.Pub, azmq.XPub, azmq.XSub, azmq.Router:
		return true
	case azmq.Sub, azmq.Pull:
		return false
	case azmq.Pair:
		return len(sck.peers) > 0 && sck.peers[0].hasRoom()
	case azmq.Rep:
		return sck.state == stateSend
	case azmq.Req:
		if sck.state != stateSend {
			return false
		}
	}
	for _, peer := range sck.peers {
		if peer.hasRoom() {
			return true
		}
	}
	return false
}

// lookup returns the connected peer with the given routing identity.
func (sck *Socket) lookup(id []byte) *Socket {
	for _, peer := range sck.peers {
		if bytes.Equal(peer.id, id) {
			return peer
		}
	}
	return nil
}

// delimiter returns the index of the empty frame closing a routing
// envelope, or -1.
func delimiter(frames [][]byte) int {
	for i, frame := range frames {
		if len(frame) == 0 {
			return i
		}
	}
	return -1
}

// subscription returns the XPUB/XSUB wire form of a (un)subscription.
func subscription(topic string, on bool) []byte {
	cmd := make([]byte, 1+len(topic))
	if on {
		cmd[0] = 1
	}
	copy(cmd[1:], topic)
	return cmd
}

func clone(frames [][]byte) [][]byte {
	o := make([][]byte, len(frames))
	for i, frame := range frames {
		o[i] = append([]byte(nil), frame...)
	}
	return o
}
