// Copyright 2018 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inproc

import (
	"crypto/rand"
	"fmt"
	"io"
	"log"
	"strings"
)

// endpoint returns the name of an "inproc://name" end-point.
// A bare name is an in-process end-point.
func endpoint(ep string) (string, error) {
	network, name, ok := strings.Cut(ep, "://")
	if !ok {
		network, name = "inproc", ep
	}
	if name == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, ep)
	}
	if network != "inproc" {
		return "", fmt.Errorf("inproc: unknown transport %q: %w", network, ErrInvalidAddress)
	}
	return name, nil
}

func newUUID() string {
	var uuid [16]byte
	if _, err := io.ReadFull(rand.Reader, uuid[:]); err != nil {
		log.Fatalf("cannot generate random data for UUID: %v", err)
	}
	uuid[8] = uuid[8]&^0xc0 | 0x80
	uuid[6] = uuid[6]&^0xf0 | 0x40
	return fmt.Sprintf("%x-%x-%x-%x-%x", uuid[:4], uuid[4:6], uuid[6:8], uuid[8:10], uuid[10:])
}
