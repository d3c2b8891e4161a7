// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"syscall"
)

// A Category is the transience category of a particular error, as
// reported by Categorize.
//
// The category Not means the error is not transient from the
// perspective of completing a request attempt successfully: a retry
// after encountering it is very unlikely to succeed. Every other
// category indicates the error has some prospect of clearing on a
// subsequent attempt.
type Category int

const (
	// Not indicates any non-transient error.
	Not Category = iota
	// Timeout indicates a client-side timeout. The server may be going
	// through a temporary period of slowness, or the client may
	// succeed on a future attempt by waiting longer.
	//
	// Categorize returns Timeout if the error or any of its wrapped
	// causes has a Timeout() method that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (POSIX ECONNREFUSED). Refusal can be a permanent condition, but
	// it also happens while a service is starting or restarting and is
	// temporarily not listening on its port, so it is classified as
	// transient.
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// TCP connection (POSIX ECONNRESET). Resets commonly happen when a
	// service instance is cycled mid-response or when a load balancer
	// drops a backend, so a retry has a high probability of success.
	ConnReset
)

// Categorize returns the transience category of the given error. A nil
// error, and any error that is not transient from the perspective of
// completing a request attempt, both produce Not.
//
// Categorize inspects wrapped cause errors contained within err, not
// just err itself. It never consults a Temporary() method, as the
// semantics of Temporary() aren't entirely clear.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var t hasTimeout
	if errors.As(err, &t) && t.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
