// Copyright 2026 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package azmq

import "testing"

func TestWaker(t *testing.T) {
	var w waker
	if w.fire() {
		t.Fatalf("empty waker should not fire")
	}

	ch := make(chan struct{})
	w.register(ch)
	if !w.pending() {
		t.Fatalf("registered caller not pending")
	}
	if !w.fire() {
		t.Fatalf("waker did not fire")
	}
	select {
	case <-ch:
	default:
		t.Fatalf("registered channel not closed")
	}
	if w.fire() {
		t.Fatalf("waker fired twice for one registration")
	}

	old := make(chan struct{})
	cur := make(chan struct{})
	w.register(old)
	w.register(cur)
	w.cancel(old)
	if !w.pending() {
		t.Fatalf("cancelling a superseded registration emptied the slot")
	}
	w.cancel(cur)
	if w.pending() {
		t.Fatalf("cancelled caller still pending")
	}
}
