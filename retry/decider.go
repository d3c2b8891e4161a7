// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/pipex/request"
)

// A Decider decides if a retry should be done.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
//
// Use the built-in constructors MaxAttempts, Times, StatusCode,
// Before, and Classifier, or the built-in decider Eligible; or
// implement your own. Use DeciderFunc to convert an ordinary function
// into a Decider, and to compose deciders logically with
// DeciderFunc.And and DeciderFunc.Or.
type Decider interface {
	Decide(e *request.Execution) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface,
// and also provides the logical composition methods And and Or.
//
// Every DeciderFunc must be safe for concurrent use by multiple
// goroutines.
type DeciderFunc func(e *request.Execution) bool

// DefaultAttempts is the total number of attempts DefaultPolicy will
// allow: one initial attempt plus up to two retries.
const DefaultAttempts = 3

// DefaultDecider is a general-purpose retry decider suitable for
// common use cases. It allows up to DefaultAttempts total attempts,
// retrying outcomes the standard eligibility rules (Eligible) classify
// as retryable.
var DefaultDecider = MaxAttempts(DefaultAttempts).And(Eligible)

// Eligible is a decider implementing the standard eligibility rules
// for transport-level retries; it is equivalent to Classifier(false).
// Compose it with an attempt cap such as MaxAttempts, as it never
// counts attempts itself.
var Eligible = Classifier(false)

// Decide returns true if a retry should be done, and false otherwise,
// after examining the current execution state.
func (f DeciderFunc) Decide(e *request.Execution) bool {
	return f(e)
}

// And composes two retry deciders into a new decider which returns
// true if both sub-deciders return true, and false otherwise.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) && g(e)
	}
}

// Or composes two retry deciders into a new decider which returns
// true if either of the two sub-deciders returns true, but false if
// they both return false.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) || g(e)
	}
}

// MaxAttempts constructs a retry decider which allows up to n total
// attempts: the initial attempt plus n-1 retries. Once n attempts have
// been made the decider returns false regardless of outcome.
func MaxAttempts(n int) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Attempt+1 < n
	}
}

// Times constructs a retry decider which allows up to n retries. The
// returned decider returns true while the execution attempt index
// e.Attempt is less than n, and false otherwise.
func Times(n int) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Attempt < n
	}
}

// Before constructs a retry decider allowing retries until a certain
// amount of time has elapsed since the start of the execution. The
// returned decider returns true while the execution duration is less
// than d, and false afterward.
func Before(d time.Duration) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Duration() < d
	}
}

// StatusCode constructs a retry decider allowing retries based on the
// response status code. If the most recent attempt received a valid
// response and its status code is contained in the list ss, the
// decider returns true. Otherwise, it returns false.
func StatusCode(ss ...int) DeciderFunc {
	ss2 := make([]int, len(ss))
	copy(ss2, ss)
	return func(e *request.Execution) bool {
		for _, s := range ss2 {
			if e.StatusCode() == s {
				return true
			}
		}
		return false
	}
}

// Classifier constructs a retry decider implementing the standard
// eligibility rules for failure classification:
//
// • No response at all (a network-level failure such as a connection
// reset, refusal, or timeout) is eligible.
//
// • A 2xx status is eligible only when postProcess is true. Set
// postProcess when the decider guards retries of application-level
// post-processing (for example, body parsing that failed after a
// nominally successful transport call); leave it false for ordinary
// transport-level retries, where a 2xx means done.
//
// • A 3xx or 4xx status is ineligible, with two exceptions: 404 while
// the execution targets the Secondary location (the replica may simply
// be lagging the primary), and 408 (request timeout).
//
// • A 5xx status is eligible, except 501 (not implemented) and 505
// (HTTP version unsupported), which no retry will cure.
//
// • Anything unclassified is eligible: the rules fail open toward
// retrying.
//
// Classifier never counts attempts; compose it with MaxAttempts or
// Times to bound the retry loop.
func Classifier(postProcess bool) DeciderFunc {
	return func(e *request.Execution) bool {
		if e.Response == nil {
			return true
		}
		s := e.Response.StatusCode
		switch {
		case s >= 200 && s < 300:
			return postProcess
		case s == 404:
			return e.LocationMode == request.Secondary
		case s == 408:
			return true
		case s >= 300 && s < 500:
			return false
		case s == 501 || s == 505:
			return false
		case s >= 500:
			return true
		default:
			return true
		}
	}
}
