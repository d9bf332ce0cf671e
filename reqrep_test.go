// Copyright 2018 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package azmq_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-zeromq/azmq"
	"github.com/go-zeromq/azmq/inproc"
	"golang.org/x/sync/errgroup"
)

func TestReqRep(t *testing.T) {
	var (
		reqName = azmq.NewMsgString("NAME")
		reqLang = azmq.NewMsgString("LANG")
		reqQuit = azmq.NewMsgString("QUIT")
		repName = azmq.NewMsgString("azmq")
		repLang = azmq.NewMsgString("Go")
		repQuit = azmq.NewMsgString("bye")
	)

	ctx, timeout := context.WithTimeout(bkg, 20*time.Second)
	defer timeout()

	ss := newSockets(t)
	ep := ss.endpoint()
	rep := ss.bind(azmq.Rep, ep)
	req := ss.connect(azmq.Req, ep)

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		for {
			msg, err := rep.Recv(ctx)
			if err != nil {
				return fmt.Errorf("could not recv REQ message: %w", err)
			}
			var rep0 azmq.Msg
			switch string(msg.Frames[0]) {
			case "NAME":
				rep0 = repName
			case "LANG":
				rep0 = repLang
			case "QUIT":
				rep0 = repQuit
			}

			err = rep.Send(ctx, rep0)
			if err != nil {
				return fmt.Errorf("could not send REP message to %v: %w", msg, err)
			}
			if string(msg.Frames[0]) == "QUIT" {
				return nil
			}
		}
	})
	grp.Go(func() error {
		for _, msg := range []struct {
			req azmq.Msg
			rep azmq.Msg
		}{
			{reqName, repName},
			{reqLang, repLang},
			{reqQuit, repQuit},
		} {
			err := req.Send(ctx, msg.req)
			if err != nil {
				return fmt.Errorf("could not send REQ message %v: %w", msg.req, err)
			}
			rep, err := req.Recv(ctx)
			if err != nil {
				return fmt.Errorf("could not recv REP message %v: %w", msg.req, err)
			}

			if got, want := rep, msg.rep; got.String() != want.String() {
				return fmt.Errorf("got = %v, want= %v", got, want)
			}
		}
		return nil
	})

	if err := grp.Wait(); err != nil {
		t.Fatalf("error: %+v", err)
	}
}

func TestReqStateError(t *testing.T) {
	ctx, timeout := context.WithTimeout(bkg, 20*time.Second)
	defer timeout()

	ss := newSockets(t)
	ep := ss.endpoint()
	_ = ss.bind(azmq.Rep, ep)
	req := ss.connect(azmq.Req, ep)

	err := req.Send(ctx, azmq.NewMsgString("first"))
	if err != nil {
		t.Fatalf("could not send: %+v", err)
	}
	err = req.Send(ctx, azmq.NewMsgString("second"))
	if !errors.Is(err, inproc.ErrState) {
		t.Fatalf("invalid error: got=%v, want=%v", err, inproc.ErrState)
	}
}

func TestBroker(t *testing.T) {
	const nclients = 4

	ctx, timeout := context.WithTimeout(bkg, 20*time.Second)
	defer timeout()

	var (
		ss      = newSockets(t)
		epFront = ss.endpoint()
		epBack  = ss.endpoint()

		front = ss.bind(azmq.Router, epFront)
		back  = ss.bind(azmq.Dealer, epBack)
		rep   = ss.connect(azmq.Rep, epBack)
	)

	broker := azmq.NewProxy(ctx, front, back, nil)
	brokerDone := make(chan error, 1)
	go func() { brokerDone <- broker.Run() }()

	srv, srvCtx := errgroup.WithContext(ctx)
	srv.Go(func() error {
		for {
			msg, err := rep.Recv(srvCtx)
			if err != nil {
				return nil
			}
			err = rep.SendFrames(srvCtx, []byte("re:"+string(msg.Frames[0])))
			if err != nil {
				return fmt.Errorf("worker could not reply: %w", err)
			}
		}
	})

	grp, gctx := errgroup.WithContext(ctx)
	for i := 0; i < nclients; i++ {
		i := i
		req := ss.connect(azmq.Req, epFront, inproc.WithID([]byte(fmt.Sprintf("client-%d", i))))
		grp.Go(func() error {
			for j := 0; j < 10; j++ {
				body := fmt.Sprintf("%d-%d", i, j)
				err := req.SendFrames(gctx, []byte(body))
				if err != nil {
					return fmt.Errorf("client %d could not send: %w", i, err)
				}
				msg, err := req.Recv(gctx)
				if err != nil {
					return fmt.Errorf("client %d could not recv: %w", i, err)
				}
				if got, want := string(msg.Frames[0]), "re:"+body; got != want {
					return fmt.Errorf("client %d: got = %q, want= %q", i, got, want)
				}
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		t.Fatalf("error: %+v", err)
	}

	broker.Kill()
	if err := <-brokerDone; err != nil {
		t.Fatalf("broker error: %+v", err)
	}
	if got, want := broker.Stats().Backend, uint64(nclients*10); got != want {
		t.Fatalf("invalid number of requests: got=%d, want=%d", got, want)
	}

	rep.Close()
	if err := srv.Wait(); err != nil {
		t.Fatalf("error: %+v", err)
	}
}
