// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"github.com/gogama/pipex/request"
)

// A State describes where the retry loop left an execution.
type State int

const (
	// Attempting means the retry loop is still making attempts, or the
	// execution never passed through a Retrier.
	Attempting State = iota
	// Succeeded means the final attempt completed without error and no
	// further retry was wanted.
	Succeeded
	// Exhausted means the loop gave up: the attempt cap was reached,
	// the outcome was classified ineligible, or the execution's
	// context ended. The caller sees whatever the final attempt
	// produced.
	Exhausted
	// Abandoned means a retry was wanted but could not be made because
	// the request's streamed body could not be rewound for replay. The
	// caller sees the in-flight error, not a retry failure.
	Abandoned
	// stateSentinel provides the total number of states.
	stateSentinel
)

var stateNames = []string{
	"Attempting",
	"Succeeded",
	"Exhausted",
	"Abandoned",
}

// String returns the name of the state.
func (s State) String() string {
	if s < 0 || s >= stateSentinel {
		return "Unknown"
	}
	return stateNames[int(s)]
}

type stateKey struct{}

// StateOf reports where the retry loop left the given execution. It
// returns Attempting for an execution still in flight, or one that
// never passed through a Retrier.
func StateOf(e *request.Execution) State {
	if s, ok := e.Value(stateKey{}).(State); ok {
		return s
	}
	return Attempting
}

func setState(e *request.Execution, s State) {
	e.SetValue(stateKey{}, s)
}
