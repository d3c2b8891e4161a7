// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package amqp

import (
	"errors"
	"fmt"
)

// ErrUnexpectedTermination is recorded on a connection whose core
// reached the End state without a received CLOSE frame and without a
// locally requested close, so that callers are never left silently
// stuck on a dead connection.
var ErrUnexpectedTermination = errors.New("pipex/amqp: connection terminated unexpectedly")

// ErrAuthConsumed is returned when constructing a connection with an
// auth credential that is already attached to another connection.
// Credentials are single-use per connection.
var ErrAuthConsumed = errors.New("pipex/amqp: auth credential already in use by another connection")

// An Error is the condition/description/info triple carried by an AMQP
// error performative, for example on a received CLOSE frame.
type Error struct {
	// Condition is the symbolic error condition, such as
	// "amqp:connection:forced".
	Condition string
	// Description is the free-form description supplied by the peer.
	Description string
	// Info contains any peer-supplied error details.
	Info map[string]interface{}
}

func (e *Error) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("pipex/amqp: %s", e.Condition)
	}
	return fmt.Sprintf("pipex/amqp: %s (%s)", e.Condition, e.Description)
}

// A ConnectionError is a typed connection-level error produced by an
// ErrorPolicy from a peer-supplied Error triple.
type ConnectionError struct {
	// Err is the wire-level error triple the peer supplied.
	Err *Error
	// Transient indicates the condition may clear if the caller
	// reconnects and tries again.
	Transient bool
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("pipex/amqp: connection closed by peer: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// A TimeoutError is returned when the connection lock cannot be
// acquired within the configured bound. It reports Timeout() true so
// transient.Categorize classifies it as a timeout.
type TimeoutError struct {
	// Op names the operation that timed out waiting for the lock.
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("pipex/amqp: %s: timed out waiting for connection lock", e.Op)
}

// Timeout reports that this error is a timeout.
func (e *TimeoutError) Timeout() bool {
	return true
}

// A RedirectError reports that the peer wants the client to reconnect
// to a different host. Pass it to Connection.Redirect to rebuild the
// connection against the new endpoint.
type RedirectError struct {
	// Hostname is the host to reconnect to.
	Hostname string
	// Err is the wire-level error triple carrying the redirect.
	Err *Error
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("pipex/amqp: redirected to %s: %v", e.Hostname, e.Err)
}

func (e *RedirectError) Unwrap() error {
	return e.Err
}

// An ErrorPolicy classifies a peer-supplied error triple into a typed
// connection error. Install a custom policy to map service-specific
// conditions onto richer error types.
type ErrorPolicy func(err *Error) error

// transientConditions lists the standard conditions that may clear on
// reconnect.
var transientConditions = map[string]bool{
	"amqp:connection:forced":       true,
	"amqp:internal-error":          true,
	"amqp:resource-limit-exceeded": true,
}

// DefaultErrorPolicy wraps the triple in a ConnectionError, marking
// the standard recoverable conditions as transient.
var DefaultErrorPolicy ErrorPolicy = func(err *Error) error {
	return &ConnectionError{Err: err, Transient: transientConditions[err.Condition]}
}
