// Copyright 2026 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ignore

// Echo server.
//
// Binds a libzmq ROUTER socket and sends every message back to its sender.
//
//	$> go run -tags czmq4 ./echoserver.go tcp://*:5555
package main

import (
	"context"
	"log"
	"os"

	"github.com/go-zeromq/azmq"
	"github.com/go-zeromq/azmq/czmq"
)

func main() {
	log.SetPrefix("echoserver: ")
	log.SetFlags(0)

	if len(os.Args) != 2 {
		log.Fatalf("usage: echoserver <addr>")
	}

	rt, err := czmq.NewSocket(azmq.Router)
	if err != nil {
		log.Fatalf("could not create router: %+v", err)
	}
	err = rt.Bind(os.Args[1])
	if err != nil {
		log.Fatalf("could not bind: %+v", err)
	}

	router, err := azmq.New(context.Background(), rt)
	if err != nil {
		log.Fatalf("could not create async socket: %+v", err)
	}
	defer router.Close()

	ctx := context.Background()
	for {
		msg, err := router.Recv(ctx)
		if err != nil {
			log.Fatalf("could not recv: %+v", err)
		}
		log.Printf("received: %v", msg)

		err = router.Send(ctx, msg)
		if err != nil {
			log.Fatalf("could not send: %+v", err)
		}
		log.Printf("sent")
	}
}
