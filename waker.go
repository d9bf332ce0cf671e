// Copyright 2026 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package azmq

import "sync"

// waker holds at most one parked caller for one direction of a socket.
type waker struct {
	mu sync.Mutex
	ch chan struct{}
}

// register stores ch, superseding any previous registration.
func (w *waker) register(ch chan struct{}) {
	w.mu.Lock()
	w.ch = ch
	w.mu.Unlock()
}

// fire resumes the registered caller, if any, and empties the slot.
func (w *waker) fire() bool {
	w.mu.Lock()
	ch := w.ch
	w.ch = nil
	w.mu.Unlock()

	if ch == nil {
		return false
	}
	close(ch)
	return true
}

// cancel empties the slot if ch is still the registered caller.
func (w *waker) cancel(ch chan struct{}) {
	w.mu.Lock()
	if w.ch == ch {
		w.ch = nil
	}
	w.mu.Unlock()
}

func (w *waker) pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ch != nil
}
