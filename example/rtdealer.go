// Copyright 2018 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ignore

// Router/Dealer example, over in-process sockets.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/go-zeromq/azmq"
	"github.com/go-zeromq/azmq/inproc"
)

const (
	NWORKERS = 10
	endpoint = "inproc://rtdealer"
)

var (
	Fired      = []byte("Fired!")
	WorkHarder = []byte("Work Harder!")
)

func main() {
	rnd := rand.New(rand.NewSource(1234))
	bkg := context.Background()

	rt, err := inproc.NewSocket(azmq.Router, inproc.WithID([]byte("router")))
	if err != nil {
		log.Fatalf("could not create router: %v", err)
	}
	err = rt.Bind(endpoint)
	if err != nil {
		log.Fatalf("could not bind %q: %v", endpoint, err)
	}
	router, err := azmq.New(bkg, rt)
	if err != nil {
		log.Fatalf("could not create async router: %v", err)
	}
	defer router.Close()

	var wg sync.WaitGroup
	wg.Add(NWORKERS)
	for i := 0; i < NWORKERS; i++ {
		go worker(i, &wg)
	}

	nfired := 0
	for {
		msg, err := router.Recv(bkg)
		if err != nil {
			log.Fatalf("router failed to recv message: %v", err)
		}

		id := msg.Frames[0]
		fire := rnd.Float64() * 100
		switch {
		case fire < 30:
			msg = azmq.NewMsgFrom(id, []byte(""), Fired)
			nfired++
		default:
			msg = azmq.NewMsgFrom(id, []byte(""), WorkHarder)
		}
		err = router.Send(bkg, msg)
		if err != nil {
			log.Fatalf("router failed to send message to %q: %v", id, err)
		}
		if nfired == NWORKERS {
			break
		}
	}
	wg.Wait()
	log.Printf("fired everybody.")
}

func worker(i int, wg *sync.WaitGroup) {
	defer wg.Done()

	id := []byte(fmt.Sprintf("dealer-%d", i))
	dl, err := inproc.NewSocket(azmq.Dealer, inproc.WithID(id))
	if err != nil {
		log.Fatalf("dealer %d could not be created: %v", i, err)
	}
	err = dl.Connect(endpoint)
	if err != nil {
		log.Fatalf("dealer %d failed to connect: %v", i, err)
	}
	dealer, err := azmq.New(context.Background(), dl)
	if err != nil {
		log.Fatalf("dealer %d could not be wrapped: %v", i, err)
	}
	defer dealer.Close()

	ready := azmq.NewMsgFrom([]byte(""), []byte("ready"))
	ctx := context.Background()

	total := 0
dloop:
	for {
		// ready to work
		err = dealer.Send(ctx, ready)
		if err != nil {
			log.Fatalf("dealer %d failed to send ready message: %v", i, err)
		}

		// get workload from broker
		msg, err := dealer.Recv(ctx)
		if err != nil {
			log.Fatalf("dealer %d failed to recv message: %v", i, err)
		}
		work := msg.Frames[1]
		if bytes.Equal(work, Fired) {
			break dloop
		}

		// do some random work
		time.Sleep(time.Duration(rand.Intn(500)) * time.Millisecond)
		total++
	}

	log.Printf("dealer %d completed %d tasks", i, total)
}
