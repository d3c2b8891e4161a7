// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pipex

import (
	"net/http"

	"github.com/gogama/pipex/request"
	"github.com/google/uuid"
)

// RequestIDHeader is the header set by the RequestID policy.
const RequestIDHeader = "X-Request-Id"

// UserAgent returns a policy that sets the User-Agent header on every
// request that does not already carry one.
func UserAgent(ua string) Policy {
	if ua == "" {
		panic("pipex: empty user agent")
	}
	return Hooks{
		OnRequest: func(e *request.Execution) error {
			if e.Request.Header.Get("User-Agent") == "" {
				e.Request.Header.Set("User-Agent", ua)
			}
			return nil
		},
	}
}

// RequestID returns a policy that tags every request with a unique
// identifier in the RequestIDHeader header, for correlation with
// server-side logs. A request that already carries the header is left
// alone, so callers can supply their own correlation IDs.
//
// The identifier is generated once per execution, before the first
// attempt, so all retries of one logical request share the same ID.
func RequestID() Policy {
	return Hooks{
		OnRequest: func(e *request.Execution) error {
			if e.Request.Header.Get(RequestIDHeader) == "" {
				e.Request.Header.Set(RequestIDHeader, uuid.NewString())
			}
			return nil
		},
	}
}

// Headers returns a policy that merges a fixed set of header fields
// into every request. Fields already present on the request win over
// the policy's fields.
//
// Use Headers to inject static cross-cutting headers such as API keys
// or tenant identifiers without touching individual requests.
func Headers(h http.Header) Policy {
	fixed := make(http.Header, len(h))
	for k, vs := range h {
		for _, v := range vs {
			fixed.Add(k, v)
		}
	}
	return Hooks{
		OnRequest: func(e *request.Execution) error {
			for k, vs := range fixed {
				if _, present := e.Request.Header[k]; !present {
					e.Request.Header[k] = vs
				}
			}
			return nil
		},
	}
}
