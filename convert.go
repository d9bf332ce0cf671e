// Copyright 2026 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package azmq

import (
	"context"
	"strings"
)

// RecvAs receives a complete message and converts each of its frames with conv.
func RecvAs[T any](ctx context.Context, sck *Socket, conv func(frame []byte) T) ([]T, error) {
	msg, err := sck.Recv(ctx)
	if err != nil {
		return nil, err
	}
	o := make([]T, len(msg.Frames))
	for i, frame := range msg.Frames {
		o[i] = conv(frame)
	}
	return o, nil
}

// Bytes returns a copy of frame.
func Bytes(frame []byte) []byte {
	o := make([]byte, len(frame))
	copy(o, frame)
	return o
}

// String decodes frame as UTF-8, replacing invalid sequences with U+FFFD.
func String(frame []byte) string {
	return strings.ToValidUTF8(string(frame), "�")
}
