// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pipex

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gogama/pipex/request"
)

// A Sender sends a request execution to the next stage of a pipeline.
//
// Policies receive the Sender for the stage below them and may invoke
// it zero times (short-circuit), once (the usual case), or several
// times (a retry policy re-sending failed attempts).
type Sender interface {
	// Send advances the execution through the remainder of the
	// pipeline. On success the execution's Response field is set and
	// the return value is nil; on failure the execution's Err field
	// and the return value reference the same error.
	Send(e *request.Execution) error
}

// The SenderFunc type is an adapter to allow the use of ordinary
// functions as pipeline stages.
type SenderFunc func(e *request.Execution) error

// Send calls f(e).
func (f SenderFunc) Send(e *request.Execution) error {
	return f(e)
}

// A Policy is a pass-through pipeline stage. It observes or mutates
// the execution on the way in, invokes next to run the rest of the
// pipeline, and observes or mutates the result on the way out, giving
// it a wrap semantic around everything below it.
//
// Policy instances are created once at pipeline construction and
// shared across many concurrent executions, so they must be stateless
// or internally thread-safe; all per-call state belongs on the
// Execution.
//
// A policy may recover from an error produced below it by clearing the
// execution's Err field and returning nil; otherwise errors propagate
// unchanged up the chain.
type Policy interface {
	Send(e *request.Execution, next Sender) error
}

// The PolicyFunc type is an adapter to allow the use of ordinary
// functions as pipeline policies.
type PolicyFunc func(e *request.Execution, next Sender) error

// Send calls f(e, next).
func (f PolicyFunc) Send(e *request.Execution, next Sender) error {
	return f(e, next)
}

// A Pipeline composes an ordered list of policies into a single
// callable chain terminating in a transport runner, the only stage
// that performs network I/O.
//
// The chain is fixed at construction. The first policy in the list is
// outermost: policies run in list order on the way in and in reverse
// order on the way out.
//
// A Pipeline is safe for concurrent use by multiple goroutines. Its
// transport typically holds pooled connections, so pipelines should be
// reused rather than created per call, and Close should be deferred by
// the owner so transport resources are released on every exit path.
type Pipeline struct {
	transport Transport
	head      Sender
	open      sync.Once
	openErr   error
	close     sync.Once
	closeErr  error
}

// New constructs a Pipeline from a transport and an ordered list of
// policies. The transport may not be nil.
func New(transport Transport, policies ...Policy) *Pipeline {
	if transport == nil {
		panic("pipex: nil transport")
	}
	var next Sender = runner{transport}
	for i := len(policies) - 1; i >= 0; i-- {
		if policies[i] == nil {
			panic("pipex: nil policy")
		}
		next = link{policies[i], next}
	}
	return &Pipeline{transport: transport, head: next}
}

// Run executes a request through the pipeline and returns the
// resulting execution state.
//
// A fresh Execution is created for the call, threaded through every
// policy, and returned whether or not an error occurred. The returned
// execution is never nil; when the returned error is non-nil the
// execution's Err field references the same error.
//
// The first Run opens the transport's connection pool. The pool stays
// open across runs and is released by Close.
func (p *Pipeline) Run(req *request.Request) (*request.Execution, error) {
	if req == nil {
		panic("pipex: nil request")
	}
	e := &request.Execution{Request: req}
	p.open.Do(func() { p.openErr = p.transport.Open() })
	if p.openErr != nil {
		e.Err = p.openErr
		return e, e.Err
	}
	e.Start = time.Now()
	e.SaveBodyPosition()
	err := p.head.Send(e)
	e.End = time.Now()
	e.Err = err
	return e, err
}

// Close releases the transport's connection pool. It is idempotent and
// safe to defer at the point the pipeline is created, guaranteeing
// release even if an execution panics.
func (p *Pipeline) Close() error {
	p.close.Do(func() { p.closeErr = p.transport.Close() })
	return p.closeErr
}

// link binds one policy to the stage below it.
type link struct {
	policy Policy
	next   Sender
}

func (l link) Send(e *request.Execution) error {
	return l.policy.Send(e, l.next)
}

// runner is the terminal pipeline stage wrapping the transport.
type runner struct {
	transport Transport
}

func (r runner) Send(e *request.Execution) error {
	req := e.Request
	ctx := req.Context()
	if req.Timeout > 0 && !req.StreamResponse {
		// The deadline would also cut off a streamed body read, so a
		// per-request timeout only applies to buffered responses.
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}
	resp, err := r.transport.Send(ctx, req)
	if resp != nil {
		resp.Request = req
	}
	e.Response = resp
	if err != nil {
		e.Err = urlErrorWrap(req, err)
		return e.Err
	}
	e.Err = nil
	return nil
}

func urlErrorWrap(req *request.Request, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(req.Method),
		URL: req.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
