// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package amqp

// A State is the lifecycle state of a Connection as observed from its
// underlying protocol core.
type State int

const (
	// StateUnknown means the connection has not yet completed its
	// opening handshake, or the core has not reported a state.
	StateUnknown State = iota
	// StateOpened means the OPEN handshake completed and the
	// connection is usable.
	StateOpened
	// StateCloseReceived means the peer sent a CLOSE frame; the
	// connection is winding down and the close error, if any, has been
	// recorded.
	StateCloseReceived
	// StateEnd is terminal: the connection is finished. Reaching it
	// without a received CLOSE or a locally requested close is
	// abnormal and synthesizes an unexpected termination error.
	StateEnd
	// stateSentinel provides the total number of states.
	stateSentinel
)

var stateNames = []string{
	"Unknown",
	"Opened",
	"CloseReceived",
	"End",
}

// String returns the name of the state.
func (s State) String() string {
	if s < 0 || s >= stateSentinel {
		return "Invalid"
	}
	return stateNames[int(s)]
}
