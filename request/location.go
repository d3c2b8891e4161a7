// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

// A LocationMode selects which host location of a geo-replicated
// service the current attempt targets.
type LocationMode int

const (
	// Primary targets the primary location. It is the zero value and
	// the mode every execution starts in.
	Primary LocationMode = iota
	// Secondary targets the secondary (read-only replica) location. A
	// retry policy configured for secondary failover flips an
	// execution into this mode; a 404 received while in it is treated
	// as replica lag rather than a definitive miss.
	Secondary
	// locationSentinel provides the total number of location modes.
	locationSentinel
)

var locationNames = []string{
	"Primary",
	"Secondary",
}

// String returns the name of the location mode.
func (m LocationMode) String() string {
	if m < 0 || m >= locationSentinel {
		return "Unknown"
	}
	return locationNames[int(m)]
}

// Flip returns the opposite location mode.
func (m LocationMode) Flip() LocationMode {
	if m == Primary {
		return Secondary
	}
	return Primary
}
