// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gogama/pipex/request"
)

// A Waiter specifies how long to wait before retrying a failed request
// attempt.
//
// Implementations of Waiter must be safe for concurrent use by
// multiple goroutines.
//
// The retry loop will not call the Waiter on a retry policy if the
// policy Decider returned false.
//
// This package provides two Waiter implementations, constructed with
// NewExpWaiter and NewLinearWaiter, plus a concrete instance suitable
// for many typical use cases, DefaultWaiter.
type Waiter interface {
	Wait(e *request.Execution) time.Duration
}

// DefaultWaiter is the default retry wait policy: exponential backoff
// from a base wait of 500 milliseconds, doubling per attempt, jittered
// by up to ±250 milliseconds.
var DefaultWaiter = NewExpWaiter(500*time.Millisecond, 2, 250*time.Millisecond, time.Now())

// NewFixedWaiter constructs a Waiter that always returns the given
// duration.
//
// Use NewFixedWaiter to obtain a constant, unjittered retry backoff.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Execution) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter constructs a Waiter implementing an exponential backoff
// formula with optional jitter.
//
// The unjittered interval for the first retry (attempt 1) onward is
//
//	interval := initial + base**attempt seconds
//
// and for attempt 0 it is simply initial. Parameter initial must be
// non-negative and base must be at least 1.
//
// Parameter jitter bounds a uniformly distributed random adjustment
// added to the interval, in the range [-jitter, +jitter], with the
// result clamped at zero on the low end so a wait is never negative.
//
// Parameter seed controls the jitter's random number generator. Pass
// nil for no jitter at all. Otherwise pass a seed value (time.Time,
// int, or int64) to seed a new generator, or a rand.Source or
// *rand.Rand to supply one.
func NewExpWaiter(initial time.Duration, base float64, jitter time.Duration, seed interface{}) Waiter {
	if initial < 0 {
		panic("pipex/retry: initial must be non-negative")
	}
	if base < 1 {
		panic("pipex/retry: base must be at least 1")
	}
	if jitter < 0 {
		panic("pipex/retry: jitter must be non-negative")
	}
	return &expWaiter{
		initial: initial,
		base:    base,
		jitter:  jitter,
		rand:    seedToRand(seed),
	}
}

type expWaiter struct {
	initial time.Duration
	base    float64
	jitter  time.Duration
	rand    *rand.Rand
	lock    sync.Mutex
}

func (w *expWaiter) Wait(e *request.Execution) time.Duration {
	d := w.initial
	if e.Attempt > 0 {
		grow := math.Pow(w.base, float64(e.Attempt)) * float64(time.Second)
		if grow > float64(math.MaxInt64-int64(d)) {
			return jittered(time.Duration(math.MaxInt64)-w.jitter, w.jitter, w.rand, &w.lock)
		}
		d += time.Duration(grow)
	}
	return jittered(d, w.jitter, w.rand, &w.lock)
}

// A LinearWaiter waits a constant interval between retries, with
// optional jitter. Construct one with NewLinearWaiter.
//
// The Backoff field is read fresh on every Wait call, so changing it
// takes effect immediately on subsequent waits. Concurrent mutation of
// Backoff while executions are in flight requires external
// synchronization.
type LinearWaiter struct {
	// Backoff is the unjittered wait interval.
	Backoff time.Duration

	jitter time.Duration
	rand   *rand.Rand
	lock   sync.Mutex
}

// NewLinearWaiter constructs a Waiter that always waits backoff,
// jittered uniformly within ±jitter and clamped at zero on the low
// end. Parameter seed follows the same rules as in NewExpWaiter.
func NewLinearWaiter(backoff, jitter time.Duration, seed interface{}) *LinearWaiter {
	if backoff < 0 {
		panic("pipex/retry: backoff must be non-negative")
	}
	if jitter < 0 {
		panic("pipex/retry: jitter must be non-negative")
	}
	return &LinearWaiter{
		Backoff: backoff,
		jitter:  jitter,
		rand:    seedToRand(seed),
	}
}

func (w *LinearWaiter) Wait(_ *request.Execution) time.Duration {
	return jittered(w.Backoff, w.jitter, w.rand, &w.lock)
}

// jittered adjusts d by a uniform random amount in [-jitter, +jitter],
// clamped at zero. The lock guards r, which is not safe for concurrent
// use.
func jittered(d, jitter time.Duration, r *rand.Rand, lock *sync.Mutex) time.Duration {
	if r == nil || jitter == 0 {
		return d
	}
	lock.Lock()
	offset := time.Duration(r.Int63n(int64(2*jitter) + 1))
	lock.Unlock()
	d += offset - jitter
	if d < 0 {
		return 0
	}
	return d
}

func seedToRand(seed interface{}) *rand.Rand {
	var s rand.Source
	switch j := seed.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("pipex/retry: seed may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("pipex/retry: invalid seed type")
	}
	return rand.New(s)
}
