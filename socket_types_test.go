// Copyright 2026 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package azmq

import "testing"

func TestCapabilities(t *testing.T) {
	for _, tc := range []struct {
		typ  Pattern
		want Capabilities
	}{
		{Push, Capabilities{Writable: true}},
		{Pub, Capabilities{Writable: true}},
		{Pull, Capabilities{Readable: true}},
		{Sub, Capabilities{Readable: true}},
		{Pair, Capabilities{Readable: true, Writable: true}},
		{Req, Capabilities{Readable: true, Writable: true}},
		{Rep, Capabilities{Readable: true, Writable: true}},
		{Dealer, Capabilities{Readable: true, Writable: true}},
		{Router, Capabilities{Readable: true, Writable: true}},
		{XPub, Capabilities{Readable: true, Writable: true}},
		{XSub, Capabilities{Readable: true, Writable: true}},
		{Stream, Capabilities{Readable: true, Writable: true}},
	} {
		t.Run(string(tc.typ), func(t *testing.T) {
			if got := tc.typ.Capabilities(); got != tc.want {
				t.Fatalf("invalid capabilities: got=%+v, want=%+v", got, tc.want)
			}
		})
	}
}

func TestUnknownPattern(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic")
		}
	}()
	_ = Pattern("BOGUS").Capabilities()
}

func TestIsCompatible(t *testing.T) {
	for _, tc := range []struct {
		a, b Pattern
		want bool
	}{
		{Pair, Pair, true},
		{Pub, Sub, true},
		{XPub, XSub, true},
		{Req, Router, true},
		{Dealer, Rep, true},
		{Push, Pull, true},
		{Push, Sub, false},
		{Req, Req, false},
		{Stream, Stream, false},
	} {
		if got := tc.a.IsCompatible(tc.b); got != tc.want {
			t.Errorf("%s/%s: got=%v, want=%v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestEventsString(t *testing.T) {
	for _, tc := range []struct {
		ev   Events
		want string
	}{
		{0, "NONE"},
		{Pollin, "POLLIN"},
		{Pollout, "POLLOUT"},
		{Pollin | Pollout, "POLLIN|POLLOUT"},
	} {
		if got := tc.ev.String(); got != tc.want {
			t.Errorf("got=%q, want=%q", got, tc.want)
		}
	}
}
