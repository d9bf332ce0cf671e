// Copyright 2026 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inproc

import (
	"net"
	"sort"

	"github.com/eapache/queue"
	"github.com/go-zeromq/azmq"
)

// DefaultHWM is the default capacity, in messages, of a socket inbound queue.
const DefaultHWM = 1000

// req/rep states.
const (
	stateSend = iota
	stateRecv
)

// message is a complete multipart message queued on its receiver.
type message struct {
	from   *Socket
	frames [][]byte
}

// Socket is an in-process ZeroMQ socket.
// Socket implements azmq.Transport.
//
// Multiple goroutines may invoke methods on a Socket simultaneously.
type Socket struct {
	ctx *Context
	typ azmq.Pattern
	sig *signaler

	id        []byte
	hwm       int  // capacity of the inbound queue
	mandatory bool // ROUTER reports unroutable messages

	// all fields below are guarded by ctx.mu.
	closed bool
	bound  []string
	peers  []*Socket
	next   int          // round-robin cursor into peers
	in     *queue.Queue // inbound messages
	topics map[string]struct{}

	out    [][]byte // outbound message being assembled
	target *Socket  // destination reserved by the first outbound frame
	drop   bool     // discard the outbound message being assembled
	cur    [][]byte // remaining frames of the inbound message being read

	state    int
	envelope [][]byte // REP routing envelope of the current request
	replyTo  *Socket
}

func newSocket(ctx *Context, typ azmq.Pattern, sig *signaler) *Socket {
	return &Socket{
		ctx:    ctx,
		typ:    typ,
		sig:    sig,
		hwm:    DefaultHWM,
		in:     queue.New(),
		topics: make(map[string]struct{}),
		state:  initialState(typ),
	}
}

func initialState(typ azmq.Pattern) int {
	if typ == azmq.Rep {
		return stateRecv
	}
	return stateSend
}

// Pattern returns the type of this Socket (PUB, SUB, ...)
func (sck *Socket) Pattern() azmq.Pattern {
	return sck.typ
}

// ID returns the routing identity of the socket.
func (sck *Socket) ID() []byte {
	return sck.id
}

// Addr returns the last end-point the socket was bound to.
// Addr returns nil if the socket isn't bound.
func (sck *Socket) Addr() net.Addr {
	sck.ctx.mu.Lock()
	defer sck.ctx.mu.Unlock()
	if len(sck.bound) == 0 {
		return nil
	}
	return Addr(sck.bound[len(sck.bound)-1])
}

// FD returns the notification descriptor of the socket.
func (sck *Socket) FD() (int, error) {
	sck.ctx.mu.Lock()
	defer sck.ctx.mu.Unlock()
	if sck.closed {
		return -1, ErrClosed
	}
	return sck.sig.fd(), nil
}

// Close detaches the socket from its peers and releases its end-points.
func (sck *Socket) Close() error {
	ctx := sck.ctx
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if sck.closed {
		return nil
	}
	sck.closed = true

	for _, name := range sck.bound {
		delete(ctx.eps, name)
	}
	sck.bound = nil

	for _, peer := range sck.peers {
		peer.detach(sck)
		peer.sig.signal()
	}
	sck.peers = nil

	return sck.sig.Close()
}

// Events returns the current readiness of the socket and consumes the
// pending notifications of its descriptor.
func (sck *Socket) Events() (azmq.Events, error) {
	sck.ctx.mu.Lock()
	defer sck.ctx.mu.Unlock()

	if sck.closed {
		return 0, ErrClosed
	}
	sck.sig.drain()

	var ev azmq.Events
	if sck.readable() {
		ev |= azmq.Pollin
	}
	if sck.writable() {
		ev |= azmq.Pollout
	}
	return ev, nil
}

// SendFrame queues one frame of an outbound message.
// Only the first frame of a message may fail with azmq.ErrWouldBlock:
// the destination is reserved at that point and the whole message is
// delivered atomically with its last frame.
func (sck *Socket) SendFrame(frame []byte, more bool) error {
	sck.ctx.mu.Lock()
	defer sck.ctx.mu.Unlock()

	if sck.closed {
		return ErrClosed
	}
	if len(sck.out) == 0 {
		err := sck.reserve(frame)
		if err != nil {
			return err
		}
	}

	sck.out = append(sck.out, append([]byte(nil), frame...))
	if more {
		return nil
	}

	frames := sck.out
	sck.out = nil
	sck.deliver(frames)
	sck.target = nil
	sck.drop = false
	return nil
}

// RecvFrame dequeues one frame of the next inbound message.
func (sck *Socket) RecvFrame() ([]byte, bool, error) {
	sck.ctx.mu.Lock()
	defer sck.ctx.mu.Unlock()

	if sck.closed {
		return nil, false, ErrClosed
	}
	if len(sck.cur) == 0 {
		err := sck.pop()
		if err != nil {
			return nil, false, err
		}
	}

	frame := sck.cur[0]
	sck.cur = sck.cur[1:]
	return frame, len(sck.cur) > 0, nil
}

// Subscribe adds a topic prefix to a SUB or XSUB socket.
func (sck *Socket) Subscribe(topic string) error {
	return sck.setSubscription(topic, true)
}

// Unsubscribe removes a topic prefix from a SUB or XSUB socket.
func (sck *Socket) Unsubscribe(topic string) error {
	return sck.setSubscription(topic, false)
}

// Topics returns the sorted list of topics a socket is subscribed to.
func (sck *Socket) Topics() []string {
	sck.ctx.mu.Lock()
	defer sck.ctx.mu.Unlock()

	topics := make([]string, 0, len(sck.topics))
	for topic := range sck.topics {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

func (sck *Socket) setSubscription(topic string, on bool) error {
	if sck.typ != azmq.Sub && sck.typ != azmq.XSub {
		return ErrState
	}

	sck.ctx.mu.Lock()
	defer sck.ctx.mu.Unlock()

	if sck.closed {
		return ErrClosed
	}
	sck.subscribe(topic, on)
	cmd := subscription(topic, on)
	for _, peer := range sck.peers {
		if peer.typ == azmq.XPub {
			peer.enqueue(message{from: sck, frames: [][]byte{cmd}})
		}
	}
	return nil
}

func (sck *Socket) subscribe(topic string, on bool) {
	switch on {
	case true:
		sck.topics[topic] = struct{}{}
	default:
		delete(sck.topics, topic)
	}
}

// subscribed reports whether a message starting with frame passes the
// subscriptions of the socket.
func (sck *Socket) subscribed(frame []byte) bool {
	for topic := range sck.topics {
		if len(frame) >= len(topic) && string(frame[:len(topic)]) == topic {
			return true
		}
	}
	return false
}

func (sck *Socket) attach(peer *Socket) {
	sck.peers = append(sck.peers, peer)
	if peer.typ != azmq.XPub {
		return
	}
	// late joiners learn about existing subscriptions.
	for topic := range sck.topics {
		peer.enqueue(message{from: sck, frames: [][]byte{subscription(topic, true)}})
	}
}

func (sck *Socket) detach(peer *Socket) {
	for i, p := range sck.peers {
		if p == peer {
			sck.peers = append(sck.peers[:i], sck.peers[i+1:]...)
			break
		}
	}
	if sck.replyTo == peer {
		sck.replyTo = nil
	}
	if sck.target == peer {
		sck.target = nil
		sck.drop = true
	}
}

func (sck *Socket) hasRoom() bool {
	return !sck.closed && sck.in.Length() < sck.hwm
}

// enqueue queues msg on sck and signals the empty -> non-empty transition.
func (sck *Socket) enqueue(msg message) {
	if sck.closed {
		return
	}
	if !sck.accept(msg) {
		return
	}
	empty := sck.in.Length() == 0
	sck.in.Add(msg)
	if empty {
		sck.sig.signal()
	}
}

// dequeue pops the next inbound message and signals the peers on the
// full -> not full transition.
func (sck *Socket) dequeue() (message, bool) {
	if sck.in.Length() == 0 {
		return message{}, false
	}
	full := sck.in.Length() >= sck.hwm
	msg := sck.in.Remove().(message)
	if full {
		for _, peer := range sck.peers {
			peer.sig.signal()
		}
	}
	return msg, true
}

// pick returns the next peer, in round-robin order, with room for a message.
func (sck *Socket) pick() *Socket {
	n := len(sck.peers)
	for i := 0; i < n; i++ {
		j := (sck.next + i) % n
		if peer := sck.peers[j]; peer.hasRoom() {
			sck.next = (j + 1) % n
			return peer
		}
	}
	return nil
}

var (
	_ azmq.Transport = (*Socket)(nil)
	_ net.Addr       = (*Addr)(nil)
)
