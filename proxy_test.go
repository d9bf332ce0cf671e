// Copyright 2020 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package azmq_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-zeromq/azmq"
	"golang.org/x/sync/errgroup"
)

func TestProxy(t *testing.T) {
	ctx, timeout := context.WithTimeout(bkg, 20*time.Second)
	defer timeout()

	var (
		ss = newSockets(t)

		epFront = ss.endpoint()
		epBack  = ss.endpoint()
		epCapt  = ss.endpoint()

		front   = ss.bind(azmq.Pull, epFront)
		frontIn = ss.connect(azmq.Push, epFront)
		back    = ss.bind(azmq.Push, epBack)
		backOut = ss.connect(azmq.Pull, epBack)
		captOut = ss.bind(azmq.Pull, epCapt)
		capt    = ss.connect(azmq.Push, epCapt)

		msgs = []azmq.Msg{
			azmq.NewMsgFrom([]byte("msg1")),
			azmq.NewMsgFrom([]byte("msg2"), []byte("part2")),
			azmq.NewMsgFrom([]byte("msg3")),
			azmq.NewMsgFrom([]byte("msg4")),
		}
	)

	proxy := azmq.NewProxy(ctx, front, back, capt)
	done := make(chan error, 1)
	go func() { done <- proxy.Run() }()

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		for _, msg := range msgs {
			err := frontIn.Send(gctx, msg)
			if err != nil {
				return err
			}
		}
		return nil
	})
	for _, tc := range []struct {
		name string
		sck  *azmq.Socket
	}{
		{"back-out", backOut},
		{"capt-out", captOut},
	} {
		tc := tc
		grp.Go(func() error {
			for _, want := range msgs {
				msg, err := tc.sck.Recv(gctx)
				if err != nil {
					return err
				}
				if msg.String() != want.String() {
					t.Errorf("%s: invalid message: got=%v, want=%v", tc.name, msg, want)
				}
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		t.Fatalf("error: %+v", err)
	}

	proxy.Pause()
	err := frontIn.Send(ctx, azmq.NewMsgString("held"))
	if err != nil {
		t.Fatalf("could not send: %+v", err)
	}

	tctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	_, err = backOut.Recv(tctx)
	cancel()
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("paused proxy forwarded a message: err=%v", err)
	}

	proxy.Resume()
	msg, err := backOut.Recv(ctx)
	if err != nil {
		t.Fatalf("could not recv: %+v", err)
	}
	if got, want := string(msg.Frames[0]), "held"; got != want {
		t.Fatalf("invalid message: got=%q, want=%q", got, want)
	}
	msg, err = captOut.Recv(ctx)
	if err != nil {
		t.Fatalf("could not recv capture: %+v", err)
	}
	if got, want := string(msg.Frames[0]), "held"; got != want {
		t.Fatalf("invalid capture: got=%q, want=%q", got, want)
	}

	proxy.Kill()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("proxy error: %+v", err)
		}
	case <-ctx.Done():
		t.Fatalf("proxy did not stop: %+v", ctx.Err())
	}

	st := proxy.Stats()
	if got, want := st.Backend, uint64(len(msgs)+1); got != want {
		t.Fatalf("invalid backend stats: got=%d, want=%d", got, want)
	}
	if got, want := st.Captured, uint64(len(msgs)+1); got != want {
		t.Fatalf("invalid capture stats: got=%d, want=%d", got, want)
	}
	if got, want := st.Frontend, uint64(0); got != want {
		t.Fatalf("invalid frontend stats: got=%d, want=%d", got, want)
	}
}

func TestProxyStop(t *testing.T) {
	ctx, cancel := context.WithCancel(bkg)

	var (
		ss = newSockets(t)

		epFront = ss.endpoint()
		epBack  = ss.endpoint()

		front = ss.bind(azmq.Pull, epFront)
		back  = ss.bind(azmq.Push, epBack)
		_     = ss.connect(azmq.Push, epFront)
		_     = ss.connect(azmq.Pull, epBack)
	)

	proxy := azmq.NewProxy(ctx, front, back, nil)
	done := make(chan error, 1)
	go func() { done <- proxy.Run() }()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("invalid error: got=%v, want=%v", err, context.Canceled)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("proxy did not stop")
	}
}

func TestProxyClosedSocket(t *testing.T) {
	var (
		ss = newSockets(t)

		epFront = ss.endpoint()
		epBack  = ss.endpoint()

		front = ss.bind(azmq.Pull, epFront)
		back  = ss.bind(azmq.Push, epBack)
	)

	proxy := azmq.NewProxy(bkg, front, back, nil)
	done := make(chan error, 1)
	go func() { done <- proxy.Run() }()

	front.Close()

	select {
	case err := <-done:
		if !errors.Is(err, azmq.ErrClosed) {
			t.Fatalf("invalid error: got=%v, want=%v", err, azmq.ErrClosed)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("proxy did not stop")
	}
}
