// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies errors by whether they are worth
// retrying.
//
// The retry eligibility rules in package retry treat any attempt that
// produced no response at all as retryable; package transient refines
// that picture by naming the common transient failure modes (client
// timeout, connection refused, connection reset) so that policies and
// callers can distinguish them.
package transient
