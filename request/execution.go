// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gogama/pipex/transient"
)

// ErrNoBodyPosition is returned by RewindBody when the execution has
// no recorded stream position to rewind to, either because the body
// stream is not seekable or because no position was saved before the
// first attempt. A retry policy receiving this error must abandon the
// retry rather than resend a partially consumed body.
var ErrNoBodyPosition = errors.New("pipex/request: no body stream position recorded")

// An Execution represents the state of a single Request execution by
// a pipeline.
//
// When an execution is requested, an Execution is created for it,
// updated as the execution progresses (for example when a response
// becomes available, or when a retry is needed), and ultimately
// returned as the result of the execution.
//
// All per-call mutable state lives here. Policy instances are shared
// across concurrent executions and must not hold any of it; they may
// stash per-call data on the Execution via SetValue and read it back
// via Value. Policies should otherwise treat the exported fields as
// owned by the pipeline, with the limited exception of making
// reasonable changes to the Request before it is sent.
type Execution struct {
	// Request specifies the request being executed, or the per-attempt
	// variant of it most recently sent. It is never nil.
	Request *Request

	// Start is the start time of the execution. It is assigned a
	// non-zero value when the execution starts and is constant
	// thereafter.
	Start time.Time

	// End is the end time of the execution. It contains the zero value
	// until the execution ends.
	End time.Time

	// Attempt is the zero-based number of the current request attempt.
	// It is zero on the initial attempt, one on the first retry, and
	// so on, increasing monotonically over the life of the execution.
	Attempt int

	// AttemptTimeouts counts the attempts that ended in a timeout.
	AttemptTimeouts int

	// LocationMode indicates which host location the current attempt
	// targets. Executions start in Primary; a retry policy configured
	// for secondary failover may flip it between attempts.
	LocationMode LocationMode

	// Response is the response received in the most recent attempt. It
	// is nil if the most recent attempt ended in an error, or while an
	// attempt is underway.
	Response *Response

	// Err is the error received in the most recent attempt. While an
	// execution is in flight it may fluctuate between nil and non-nil
	// values; once the execution has ended it will not change, and it
	// is the same error returned by the pipeline.
	Err error

	// bodyPos is the saved stream position to rewind the request body
	// to before a retry. Valid only when bodyPosOK is set.
	bodyPos   int64
	bodyPosOK bool

	// data contains arbitrary per-call values set by policies.
	data context.Context
}

// StatusCode returns the status code of the response from the most
// recent attempt, or 0 if there is no response.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// Header returns the response headers from the most recent attempt,
// or a nil header if there is no response. A nil header is safe for
// read-only use, since http.Header is a map type.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}
	return e.Response.Header
}

// Duration returns the duration of the execution.
//
// If the execution has not yet started, the duration is zero. If the
// execution has ended, it is End minus Start. Otherwise it is the
// current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return 0
	} else if !e.Ended() {
		return time.Since(e.Start)
	}
	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has ended. Once it reports
// true there will be no further changes to the execution.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a non-nil value
// indicating a timeout.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// SaveBodyPosition records the current position of the request's
// streamed body, if the body is streamed and seekable. It must be
// called before the first attempt sends any of the stream. Calling it
// on a request with a buffered or absent body is a no-op: buffered
// bodies are always replayable.
func (e *Execution) SaveBodyPosition() {
	if e.bodyPosOK || e.Request == nil || e.Request.Stream == nil {
		return
	}
	s, ok := e.Request.Stream.(io.Seeker)
	if !ok {
		return
	}
	pos, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return
	}
	e.bodyPos = pos
	e.bodyPosOK = true
}

// RewindBody restores the request's streamed body to the position
// recorded by SaveBodyPosition so the body can be replayed on a retry.
//
// If the request body is buffered or absent, RewindBody succeeds
// trivially. If the body is streamed but no position was recorded, or
// the rewind itself fails, an error is returned and the caller must
// not resend the body.
func (e *Execution) RewindBody() error {
	if e.Request == nil || e.Request.Stream == nil {
		return nil
	}
	if !e.bodyPosOK {
		return ErrNoBodyPosition
	}
	s, ok := e.Request.Stream.(io.Seeker)
	if !ok {
		return ErrNoBodyPosition
	}
	if _, err := s.Seek(e.bodyPos, io.SeekStart); err != nil {
		return err
	}
	return nil
}

// SetValue allows policies to store arbitrary per-call data in the
// execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue: it may not be nil, must be comparable, and should
// not be of a built-in type, to avoid collisions between policies.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}
	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	if e.data == nil {
		return nil
	}
	return e.data.Value(key)
}
