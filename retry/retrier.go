// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"strings"
	"time"

	"github.com/gogama/pipex"
	"github.com/gogama/pipex/request"
	"github.com/gogama/pipex/timeout"
)

// A Retrier is the pipeline policy that drives the retry loop. It
// re-invokes everything below it in the pipeline once per attempt,
// consulting a retry Policy between attempts for eligibility and
// backoff, and a timeout Policy for each attempt's deadline.
//
// The zero value is a valid policy using DefaultPolicy and
// timeout.DefaultPolicy with no secondary failover.
//
// Within one execution, attempts are strictly sequential. Retries stop
// as soon as the policy declines, the execution's context ends, or a
// streamed request body cannot be rewound for replay (see State). When
// the loop gives up, the caller sees whatever the final attempt
// produced; there is no synthetic "retries exhausted" error.
//
// A Retrier holds no per-call state and is safe for concurrent use by
// multiple goroutines.
type Retrier struct {
	// Policy decides when to retry failed attempts and how long to
	// wait before retrying. If nil, DefaultPolicy is used.
	Policy Policy

	// TimeoutPolicy specifies how to set timeouts on individual
	// attempts. If nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy

	// Secondary is the hostname of the secondary location of a
	// geo-replicated service. When set, each retry flips the execution
	// between the primary and secondary locations, and the eligibility
	// rules treat a 404 from the secondary as retryable replica lag.
	// Empty disables failover.
	Secondary string

	// Account enables failover against a local emulator, where one
	// host serves both locations and the account name in the URL path
	// selects the replica: a flip to secondary substitutes
	// Account+"-secondary" for Account in the path instead of swapping
	// hosts. Used only when Secondary is empty.
	Account string
}

// Send implements the pipex.Policy interface.
func (r *Retrier) Send(e *request.Execution, next pipex.Sender) error {
	pol := r.Policy
	if pol == nil {
		pol = DefaultPolicy
	}
	tp := r.TimeoutPolicy
	if tp == nil {
		tp = timeout.DefaultPolicy
	}

	base := e.Request
	primaryHost := base.URL.Host
	cur := base
	setState(e, Attempting)

	for {
		r.attempt(e, cur, tp, next)
		if e.Timeout() {
			e.AttemptTimeouts++
		}

		if ctxErr := base.Context().Err(); ctxErr != nil {
			if e.Err == nil {
				e.Err = ctxErr
			}
			setState(e, Exhausted)
			return e.Err
		}

		if !pol.Decide(e) {
			if e.Err == nil {
				setState(e, Succeeded)
			} else {
				setState(e, Exhausted)
			}
			return e.Err
		}

		e.Attempt++
		if wait := pol.Wait(e); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-base.Context().Done():
				timer.Stop()
				e.Err = base.Context().Err()
				setState(e, Exhausted)
				return e.Err
			}
		}

		if r.Secondary != "" || r.Account != "" {
			cur = r.flip(e, base, primaryHost)
		}

		if base.Stream != nil {
			if err := e.RewindBody(); err != nil {
				setState(e, Abandoned)
				return e.Err
			}
		}

		e.Response = nil
		e.Err = nil
	}
}

// attempt makes one request attempt with the per-attempt timeout
// applied. For streamed responses the deadline is omitted, since it
// would also cut off the caller's body read.
func (r *Retrier) attempt(e *request.Execution, cur *request.Request, tp timeout.Policy, next pipex.Sender) {
	ctx := cur.Context()
	if !cur.StreamResponse {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tp.Timeout(e))
		defer cancel()
	}
	e.Request = cur.WithContext(ctx)
	_ = next.Send(e)
}

// flip switches the execution to the other location and returns the
// request variant targeting it. The base request is never mutated.
func (r *Retrier) flip(e *request.Execution, base *request.Request, primaryHost string) *request.Request {
	e.LocationMode = e.LocationMode.Flip()
	u := *base.URL
	if r.Secondary == "" {
		if e.LocationMode == request.Secondary {
			u.Path = strings.Replace(u.Path, r.Account, r.Account+"-secondary", 1)
		}
	} else {
		if e.LocationMode == request.Secondary {
			u.Host = r.Secondary
		} else {
			u.Host = primaryHost
		}
	}
	cur := new(request.Request)
	*cur = *base
	cur.URL = &u
	cur.Host = u.Host
	return cur
}
