// Copyright 2026 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ignore

// Echo client.
//
// Connects a libzmq DEALER socket, sends "hi" and expects it back.
//
//	$> go run -tags czmq4 ./echoclient.go tcp://localhost:5555
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-zeromq/azmq"
	"github.com/go-zeromq/azmq/czmq"
)

func main() {
	log.SetPrefix("echoclient: ")
	log.SetFlags(0)

	if len(os.Args) != 2 {
		log.Fatalf("usage: echoclient <addr>")
	}

	dl, err := czmq.NewSocket(azmq.Dealer, czmq.WithLinger(0))
	if err != nil {
		log.Fatalf("could not create dealer: %+v", err)
	}
	err = dl.Connect(os.Args[1])
	if err != nil {
		log.Fatalf("could not connect: %+v", err)
	}

	dealer, err := azmq.New(context.Background(), dl)
	if err != nil {
		log.Fatalf("could not create async socket: %+v", err)
	}
	defer dealer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = dealer.SendFrames(ctx, []byte("hi"))
	if err != nil {
		log.Fatalf("could not send: %+v", err)
	}
	log.Printf("sent")

	frames, err := azmq.RecvAs(ctx, dealer, azmq.Bytes)
	if err != nil {
		log.Fatalf("could not recv: %+v", err)
	}
	log.Printf("received: %q", frames)

	if len(frames) != 1 || string(frames[0]) != "hi" {
		log.Fatalf("invalid echo: %q", frames)
	}
}
