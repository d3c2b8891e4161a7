// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package amqp supervises AMQP connection lifecycle.
//
// The package separates protocol I/O from lifecycle management. A Core
// owns the socket and frames; a Connection wraps the core with a
// bounded lock, tracks the state the core reports, classifies error
// triples received in CLOSE frames, and stores errors for surfacing on
// the next Work call rather than raising them from deep inside
// protocol handling.
//
// Connections are built with Connect, driven with Work, and torn down
// with Destroy:
//
//	auth := &amqp.SASLPlain{User: "guest", Password: "guest"}
//	conn, err := amqp.Connect("broker.example.com", auth, factory, amqp.Settings{})
//	if err != nil {
//		return err
//	}
//	defer conn.Destroy()
//	for {
//		if err := conn.Work(); err != nil {
//			return err
//		}
//	}
//
// Auth credentials are single use. A credential consumed by one
// connection cannot be handed to a second until the first releases it,
// which prevents two live connections from silently sharing one
// identity.
package amqp
