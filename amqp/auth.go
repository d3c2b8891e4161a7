// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package amqp

import "sync/atomic"

// Auth is a connection auth credential. Credentials are single-use per
// connection: Consume marks the credential attached and fails with
// ErrAuthConsumed if it is already attached elsewhere, and Release
// detaches it so it can be reused after the owning connection is
// destroyed.
//
// Implementations must be safe for concurrent use by multiple
// goroutines.
type Auth interface {
	Consume() error
	Release()
}

// SASLPlain is an Auth using the SASL PLAIN mechanism.
type SASLPlain struct {
	// User and Password are the PLAIN authcid and password.
	User     string
	Password string

	consumed atomic.Bool
}

// Consume implements the Auth interface.
func (a *SASLPlain) Consume() error {
	if !a.consumed.CompareAndSwap(false, true) {
		return ErrAuthConsumed
	}
	return nil
}

// Release implements the Auth interface.
func (a *SASLPlain) Release() {
	a.consumed.Store(false)
}

// SASLAnonymous is an Auth using the SASL ANONYMOUS mechanism, for
// connections that authenticate later over a CBS session.
type SASLAnonymous struct {
	consumed atomic.Bool
}

// Consume implements the Auth interface.
func (a *SASLAnonymous) Consume() error {
	if !a.consumed.CompareAndSwap(false, true) {
		return ErrAuthConsumed
	}
	return nil
}

// Release implements the Auth interface.
func (a *SASLAnonymous) Release() {
	a.consumed.Store(false)
}
