// Copyright 2026 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ignore

// Throughput harness.
//
//	$> go run -tags czmq4 ./perf.go [options] <mode> <socket-type> <addr>
//
// with mode one of send, recv, echo-server, echo-client or dump.
//
//	$> go run -tags czmq4 ./perf.go -b recv pull tcp://*:5555
//	$> go run -tags czmq4 ./perf.go send push tcp://localhost:5555
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-zeromq/azmq"
	"github.com/go-zeromq/azmq/czmq"
	czmq4 "github.com/go-zeromq/goczmq/v4"
)

func main() {
	log.SetPrefix("perf: ")
	log.SetFlags(0)

	var (
		samples = flag.Int("n", 1000000, "samples to measure performance")
		bind    = flag.Bool("b", false, "bind instead of connect")
		sndhwm  = flag.Int("sndhwm", 0, "value of the SNDHWM socket option")
		rcvhwm  = flag.Int("rcvhwm", 0, "value of the RCVHWM socket option")
		depth   = flag.Int("d", 1, "number of messages in flight (echo-client)")
		format  = flag.String("fmt", "debug", "dump format (debug, string, json, json-pretty)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: perf [options] <mode> <socket-type> <addr>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(2)
	}

	var opts []czmq4.SockOption
	if *sndhwm > 0 {
		opts = append(opts, czmq4.SockSetSndhwm(*sndhwm))
	}
	if *rcvhwm > 0 {
		opts = append(opts, czmq4.SockSetRcvhwm(*rcvhwm))
	}

	sck, err := setup(flag.Arg(1), flag.Arg(2), *bind, opts...)
	if err != nil {
		log.Fatalf("could not setup socket: %+v", err)
	}
	defer sck.Close()

	var (
		ctx  = context.Background()
		perf = newPerf(*samples)
	)

	switch mode := flag.Arg(0); mode {
	case "send":
		log.Printf("running as sender")
		for i := byte(1); ; i++ {
			err := sck.SendFrames(ctx, []byte{i})
			if err != nil {
				log.Fatalf("could not send: %+v", err)
			}
			perf.rate()
		}

	case "recv":
		log.Printf("running as receiver")
		for i := byte(1); ; i++ {
			msg, err := sck.Recv(ctx)
			if err != nil {
				log.Fatalf("could not recv: %+v", err)
			}
			if len(msg.Frames) != 1 || !bytes.Equal(msg.Frames[0], []byte{i}) {
				log.Fatalf("invalid message: got=%v, want=%d", msg, i)
			}
			perf.rate()
		}

	case "echo-server":
		log.Printf("running as echo server")
		for {
			msg, err := sck.Recv(ctx)
			if err != nil {
				log.Fatalf("could not recv: %+v", err)
			}
			err = sck.Send(ctx, msg)
			if err != nil {
				log.Fatalf("could not send: %+v", err)
			}
			perf.rate()
		}

	case "echo-client":
		log.Printf("running as echo client")
		i := byte(0)
		for {
			sent := make([]byte, 0, *depth)
			for j := 0; j < *depth; j++ {
				i++
				err := sck.SendFrames(ctx, []byte{i})
				if err != nil {
					log.Fatalf("could not send: %+v", err)
				}
				sent = append(sent, i)
				perf.rate()
			}
			for j := 0; j < *depth; j++ {
				msg, err := sck.Recv(ctx)
				if err != nil {
					log.Fatalf("could not recv: %+v", err)
				}
				if len(msg.Frames) != 1 || !bytes.Equal(msg.Frames[0], sent[j:j+1]) {
					log.Fatalf("invalid echo: got=%v, want=%d", msg, sent[j])
				}
				perf.rate()
			}
		}

	case "dump":
		log.Printf("running as receiver")
		for {
			msg, err := sck.Recv(ctx)
			if err != nil {
				log.Fatalf("could not recv: %+v", err)
			}
			err = dump(msg, *format)
			if err != nil {
				log.Fatalf("could not dump message: %+v", err)
			}
		}

	default:
		log.Fatalf("unknown mode %q", mode)
	}
}

func setup(typ, addr string, bind bool, opts ...czmq4.SockOption) (*azmq.Socket, error) {
	t, err := czmq.NewSocket(azmq.Pattern(strings.ToUpper(typ)), opts...)
	if err != nil {
		return nil, err
	}

	switch {
	case bind:
		err = t.Bind(addr)
	default:
		err = t.Connect(addr)
	}
	if err != nil {
		t.Close()
		return nil, err
	}

	return azmq.New(context.Background(), t)
}

func dump(msg azmq.Msg, format string) error {
	switch format {
	case "debug":
		fmt.Println(msg)
	case "string":
		for _, frame := range msg.Frames {
			fmt.Println(azmq.String(frame))
		}
	case "json", "json-pretty":
		for _, frame := range msg.Frames {
			var v interface{}
			err := json.Unmarshal(frame, &v)
			if err != nil {
				return err
			}
			var out []byte
			switch format {
			case "json":
				out, err = json.Marshal(v)
			default:
				out, err = json.MarshalIndent(v, "", "  ")
			}
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		}
	default:
		return fmt.Errorf("unknown dump format %q", format)
	}
	return nil
}

type perf struct {
	samples int
	count   int
	total   int
	start   time.Time
}

func newPerf(samples int) *perf {
	return &perf{samples: samples}
}

func (p *perf) rate() {
	p.count++
	p.total++

	if p.count < p.samples {
		return
	}

	now := time.Now()
	if !p.start.IsZero() {
		diff := now.Sub(p.start).Milliseconds()
		rate := int64(0)
		if diff != 0 {
			rate = int64(p.count) * 1000 / diff
		}
		fmt.Printf("%d items/sec (%d items/%d msec; total %d msgs)\n", rate, p.count, diff, p.total)
	}
	p.count = 0
	p.start = now
}
