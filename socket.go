// Copyright 2018 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package azmq

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Socket is an asynchronous ZeroMQ socket.
//
// A Socket supports one Send and one Recv in flight at the same time,
// typically from two different goroutines. Further concurrent callers of
// the same direction are queued in arrival order.
type Socket struct {
	typ    Pattern
	caps   Capabilities
	log    *log.Logger
	retain bool

	mu sync.Mutex // serializes calls into t
	t  Transport

	ev *evented
	rw waker // parked receiver
	ww waker // parked sender

	rsem *semaphore.Weighted // one Recv in flight
	wsem *semaphore.Weighted // one Send in flight

	ctx    context.Context // life-line of socket
	cancel context.CancelFunc
	done   chan struct{} // closed when the dispatcher returns
	closed atomic.Bool

	closeOnce sync.Once
	closeErr  error
}

// New wraps a bound or connected transport into an asynchronous socket.
// The socket takes ownership of the transport.
//
// New fails with a *SetupError when the notification descriptor of the
// transport can not be registered with the runtime poller.
func New(ctx context.Context, t Transport, opts ...Option) (*Socket, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	typ := t.Pattern()

	fd, err := t.FD()
	if err != nil {
		return nil, &SetupError{FD: -1, Err: err}
	}

	ev, err := newEvented(fd)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	sck := &Socket{
		typ:    typ,
		caps:   typ.Capabilities(),
		t:      t,
		ev:     ev,
		rsem:   semaphore.NewWeighted(1),
		wsem:   semaphore.NewWeighted(1),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(sck)
	}
	if sck.log == nil {
		sck.log = log.New(os.Stderr, "azmq: ", 0)
	}

	go sck.dispatch()

	return sck, nil
}

// Pattern returns the messaging pattern of the socket.
func (sck *Socket) Pattern() Pattern {
	return sck.typ
}

// Capabilities returns the directions supported by the socket.
func (sck *Socket) Capabilities() Capabilities {
	return sck.caps
}

// Transport returns the wrapped transport.
// The transport must not be used for sending or receiving.
func (sck *Socket) Transport() Transport {
	return sck.t
}

// Close closes the socket and its transport.
//
// Operations parked on the socket return ErrClosed.
func (sck *Socket) Close() error {
	sck.closeOnce.Do(func() {
		sck.closed.Store(true)
		sck.cancel()

		err := sck.ev.Close()
		<-sck.done

		sck.mu.Lock()
		e := sck.t.Close()
		sck.mu.Unlock()

		if e != nil && err == nil {
			err = e
		}
		sck.closeErr = err
	})
	return sck.closeErr
}

// Send sends all frames of msg as a single multipart message.
// Send parks the calling goroutine until the transport accepts the message,
// ctx is done or the socket is closed.
//
// An empty message is sent as a single empty frame.
func (sck *Socket) Send(ctx context.Context, msg Msg) error {
	if !sck.caps.Writable {
		return fmt.Errorf("azmq: could not send on %s socket: %w", sck.Pattern(), ErrUnsupported)
	}

	err := sck.wsem.Acquire(ctx, 1)
	if err != nil {
		return err
	}
	defer sck.wsem.Release(1)

	if sck.retain {
		msg = msg.Clone()
	}
	frames := msg.Frames
	if len(frames) == 0 {
		frames = [][]byte{nil}
	}

	sent := 0
	for {
		if sck.ctx.Err() != nil {
			return ErrClosed
		}

		n, err := sck.trySend(frames[sent:])
		sent += n
		switch {
		case err == nil:
			sck.wakeup()
			return nil
		case !isWouldBlock(err):
			sck.wakeup()
			return fmt.Errorf("azmq: could not send message: %w", err)
		}

		err = sck.park(ctx, Pollout, &sck.ww)
		if err != nil {
			return err
		}
	}
}

// SendFrames sends frames as a single multipart message.
func (sck *Socket) SendFrames(ctx context.Context, frames ...[]byte) error {
	return sck.Send(ctx, NewMsgFrom(frames...))
}

// Recv receives a complete message.
// Recv parks the calling goroutine until a message is available,
// ctx is done or the socket is closed.
func (sck *Socket) Recv(ctx context.Context) (Msg, error) {
	if !sck.caps.Readable {
		return Msg{}, fmt.Errorf("azmq: could not recv on %s socket: %w", sck.Pattern(), ErrUnsupported)
	}

	err := sck.rsem.Acquire(ctx, 1)
	if err != nil {
		return Msg{}, err
	}
	defer sck.rsem.Release(1)

	for {
		if sck.ctx.Err() != nil {
			return Msg{}, ErrClosed
		}

		msg, err := sck.tryRecv()
		switch {
		case err == nil:
			sck.wakeup()
			return msg, nil
		case !isWouldBlock(err):
			sck.wakeup()
			return Msg{}, fmt.Errorf("azmq: could not recv message: %w", err)
		}

		err = sck.park(ctx, Pollin, &sck.rw)
		if err != nil {
			return Msg{}, err
		}
	}
}

// trySend queues frames without blocking and returns how many of them
// the transport accepted.
func (sck *Socket) trySend(frames [][]byte) (int, error) {
	sck.mu.Lock()
	defer sck.mu.Unlock()
	if sck.closed.Load() {
		return 0, ErrClosed
	}

	last := len(frames) - 1
	for i, frame := range frames {
		err := sck.t.SendFrame(frame, i < last)
		if err != nil {
			return i, err
		}
	}
	return len(frames), nil
}

// tryRecv dequeues a whole message without blocking.
func (sck *Socket) tryRecv() (Msg, error) {
	sck.mu.Lock()
	defer sck.mu.Unlock()
	if sck.closed.Load() {
		return Msg{}, ErrClosed
	}

	var msg Msg
	for {
		frame, more, err := sck.t.RecvFrame()
		if err != nil {
			if len(msg.Frames) > 0 {
				sck.log.Printf("discarding %d frame(s) of a partial message: %+v", len(msg.Frames), err)
			}
			return Msg{}, err
		}
		msg.Frames = append(msg.Frames, frame)
		if !more {
			return msg, nil
		}
	}
}

// park suspends the caller until the dispatcher fires w.
// A nil error means the operation must be attempted again.
func (sck *Socket) park(ctx context.Context, dir Events, w *waker) error {
	sck.ev.clear(dir)
	ch := make(chan struct{})
	w.register(ch)
	sck.ev.register(dir)

	// an edge may have fired between the failed attempt and the
	// registration above.
	ev, err := sck.probe(dir)
	if err != nil || ev&dir != 0 {
		sck.ev.clear(dir)
		w.cancel(ch)
		if err != nil {
			// let the other direction surface the error too.
			sck.fire((Pollin | Pollout) &^ dir)
			return fmt.Errorf("azmq: could not probe %v: %w", dir, err)
		}
		return nil
	}

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		sck.ev.clear(dir)
		w.cancel(ch)
		return ctx.Err()
	case <-sck.ctx.Done():
		w.cancel(ch)
		return ErrClosed
	}
}

// probe reads the status of the transport and resumes the parked callers
// of every ready direction but own.
//
// Reading the status may consume the edge of the notification descriptor,
// so each read must serve all directions, not only the caller's.
func (sck *Socket) probe(own Events) (Events, error) {
	sck.mu.Lock()
	if sck.closed.Load() {
		sck.mu.Unlock()
		return 0, ErrClosed
	}
	ev, err := sck.t.Events()
	sck.mu.Unlock()
	if err != nil {
		return 0, err
	}
	sck.fire(ev &^ own)
	return ev, nil
}

// fire resumes the parked callers armed for a direction in ev.
func (sck *Socket) fire(ev Events) {
	fired := sck.ev.take(ev)
	if fired&Pollin != 0 {
		sck.rw.fire()
	}
	if fired&Pollout != 0 {
		sck.ww.fire()
	}
}

// wakeup re-checks the socket after an operation on the transport:
// a send may make the socket readable (and vice versa) without any edge
// on the notification descriptor.
func (sck *Socket) wakeup() {
	_, err := sck.probe(0)
	if err != nil && !sck.closed.Load() {
		sck.log.Printf("could not probe events: %+v", err)
	}
}

// dispatch fans the edges of the notification descriptor out to the
// parked receiver and sender.
func (sck *Socket) dispatch() {
	defer close(sck.done)

	err := sck.ev.wait(sck.poll)
	if err != nil && !sck.closed.Load() {
		sck.log.Printf("readiness dispatcher stopped: %+v", err)
		sck.cancel()
	}
}

func (sck *Socket) poll() {
	_, err := sck.probe(0)
	if err != nil && !sck.closed.Load() {
		sck.log.Printf("could not probe events: %+v", err)
		// let the parked operations surface the transport error.
		sck.fire(Pollin | Pollout)
	}
}
