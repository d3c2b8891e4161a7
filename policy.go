// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pipex

import (
	"github.com/gogama/pipex/request"
)

// Hooks adapts a set of before/after hook functions into a Policy, for
// policies that have no need to control the send itself.
//
// All hooks are optional. OnRequest runs before the rest of the
// pipeline and may mutate the execution's request; a non-nil error
// aborts the send and propagates to the caller. OnResponse runs after
// a successful send and may observe or mutate the response. OnError
// runs after a failed send: returning true declares the error fully
// handled, the execution is treated as recovered, and the error does
// not propagate; returning false re-raises it unchanged.
//
// Hook functions are shared across concurrent executions and must not
// hold per-call state.
type Hooks struct {
	OnRequest  func(e *request.Execution) error
	OnResponse func(e *request.Execution) error
	OnError    func(e *request.Execution) bool
}

// Send implements the Policy interface.
func (h Hooks) Send(e *request.Execution, next Sender) error {
	if h.OnRequest != nil {
		if err := h.OnRequest(e); err != nil {
			e.Err = urlErrorWrap(e.Request, err)
			return e.Err
		}
	}
	err := next.Send(e)
	if err != nil {
		if h.OnError != nil && h.OnError(e) {
			e.Err = nil
			return nil
		}
		return err
	}
	if h.OnResponse != nil {
		if err := h.OnResponse(e); err != nil {
			e.Err = urlErrorWrap(e.Request, err)
			return e.Err
		}
	}
	return nil
}
