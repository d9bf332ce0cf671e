// Copyright 2020 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package azmq

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Proxy connects a frontend socket to a backend socket.
type Proxy struct {
	ctx  context.Context // life-line of proxy
	quit context.Context // done once the proxy is killed
	kill context.CancelFunc
	grp  *errgroup.Group
	cmds chan proxyCmd
	log  *log.Logger

	mu      sync.Mutex
	running chan struct{} // closed while the proxy forwards messages

	stats struct {
		front atomic.Uint64
		back  atomic.Uint64
		capt  atomic.Uint64
	}
	reply chan ProxyStats
}

// ProxyStats counts the messages forwarded by a Proxy.
type ProxyStats struct {
	Frontend uint64 // messages forwarded to the frontend
	Backend  uint64 // messages forwarded to the backend
	Captured uint64 // messages copied to the capture socket
}

type proxyCmd byte

const (
	proxyStats proxyCmd = iota
	proxyKill
)

// NewProxy creates a new Proxy value.
// It proxies messages received on the frontend to the backend (and vice versa)
// If capture is not nil, messages proxied are also sent on that socket.
//
// Conceptually, data flows from frontend to backend. Depending on the
// socket types, replies may flow in the opposite direction.
// The direction is conceptual only; the proxy is fully symmetric and
// there is no technical difference between frontend and backend.
//
// Before creating a Proxy, users must bind or connect the transports
// of frontend, backend and capture sockets.
func NewProxy(ctx context.Context, front, back, capture *Socket) *Proxy {
	grp, ctx := errgroup.WithContext(ctx)
	proxy := Proxy{
		ctx:     ctx,
		grp:     grp,
		cmds:    make(chan proxyCmd),
		log:     log.New(os.Stderr, "azmq: ", 0),
		running: make(chan struct{}),
		reply:   make(chan ProxyStats),
	}
	if front != nil {
		proxy.log = front.log
	}
	proxy.quit, proxy.kill = context.WithCancel(ctx)
	close(proxy.running)
	proxy.init(front, back, capture)
	return &proxy
}

// Pause suspends forwarding until Resume is called.
// Messages received while paused are held by the proxy.
func (p *Proxy) Pause() { p.pause() }

// Resume resumes forwarding after a Pause.
func (p *Proxy) Resume() { p.resume() }

// Kill stops the proxy. Run returns once all forwarders are done.
func (p *Proxy) Kill() { p.send(proxyKill) }

// Stats returns the number of messages forwarded so far.
func (p *Proxy) Stats() ProxyStats {
	if !p.send(proxyStats) {
		return p.snapshot()
	}
	select {
	case st := <-p.reply:
		return st
	case <-p.quit.Done():
		return p.snapshot()
	}
}

// Run runs the proxy loop.
func (p *Proxy) Run() error {
	return p.grp.Wait()
}

func (p *Proxy) send(cmd proxyCmd) bool {
	select {
	case p.cmds <- cmd:
		return true
	case <-p.quit.Done():
		return false
	}
}

func (p *Proxy) snapshot() ProxyStats {
	return ProxyStats{
		Frontend: p.stats.front.Load(),
		Backend:  p.stats.back.Load(),
		Captured: p.stats.capt.Load(),
	}
}

func (p *Proxy) gate() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Proxy) pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.running:
		p.running = make(chan struct{})
	default:
	}
}

func (p *Proxy) resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.running:
	default:
		close(p.running)
	}
}

func (p *Proxy) init(front, back, capture *Socket) {
	type Pipe struct {
		name string
		dst  *Socket
		src  *Socket
		n    *atomic.Uint64
	}

	var (
		quit  = p.quit
		pipes = []Pipe{
			{
				name: "backend",
				dst:  back,
				src:  front,
				n:    &p.stats.back,
			},
			{
				name: "frontend",
				dst:  front,
				src:  back,
				n:    &p.stats.front,
			},
		}
	)

	// workers makes sure all goroutines are launched and scheduled.
	var workers sync.WaitGroup
	workers.Add(len(pipes) + 1)
	for i := range pipes {
		pipe := pipes[i]
		if pipe.src == nil || !pipe.src.Capabilities().Readable {
			workers.Done()
			continue
		}
		p.grp.Go(func() error {
			workers.Done()
			canSend := pipe.dst != nil && pipe.dst.Capabilities().Writable
			for {
				msg, err := pipe.src.Recv(quit)
				if err != nil {
					if quit.Err() != nil || errors.Is(err, ErrClosed) {
						return p.stopped(quit)
					}
					return fmt.Errorf("azmq: proxy could not recv for %s: %w", pipe.name, err)
				}

				select {
				case <-p.gate():
				case <-quit.Done():
					return p.stopped(quit)
				}

				if canSend {
					err = pipe.dst.Send(quit, msg)
					if err != nil {
						if quit.Err() != nil {
							return p.stopped(quit)
						}
						p.log.Printf("could not forward to %s: %+v", pipe.name, err)
						continue
					}
					pipe.n.Add(1)
				}
				if capture != nil && len(msg.Frames) != 0 {
					err = capture.Send(quit, msg)
					if err == nil {
						p.stats.capt.Add(1)
					}
				}
			}
		})
	}

	p.grp.Go(func() error {
		workers.Done()
		for {
			select {
			case <-p.ctx.Done():
				p.kill()
				return p.ctx.Err()
			case cmd := <-p.cmds:
				switch cmd {
				case proxyStats:
					select {
					case p.reply <- p.snapshot():
					case <-p.quit.Done():
					}
				case proxyKill:
					p.kill()
					return nil
				default:
					// API error. panic.
					panic(fmt.Errorf("invalid control socket command: %v", cmd))
				}
			}
		}
	})

	// wait for all worker routines to be scheduled.
	workers.Wait()
}

// stopped returns the error of a forwarder interrupted by quit:
// nil when the proxy was killed, the parent error otherwise.
func (p *Proxy) stopped(quit context.Context) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	if quit.Err() == nil {
		// the socket was closed underneath the proxy.
		return ErrClosed
	}
	return nil
}
