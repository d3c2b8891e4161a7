// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package pipex provides a composable HTTP request pipeline: an ordered
chain of pass-through policies terminating in a transport, with retry
and backoff classification supplied by the retry subpackage.

Create a Pipeline from a transport and a list of policies, then run
requests through it.

	p := pipex.New(&pipex.HTTPTransport{},
		pipex.UserAgent("myapp/1.0"),
		pipex.RequestID(),
		&retry.Retrier{},
		pipex.Logging(nil),
	)
	defer p.Close()

	req, err := request.New("GET", "https://www.example.com", nil)
	...
	e, err := p.Run(req)
	...

Policies run in construction order on the way in (outermost first) and
in reverse order on the way out: a pipeline built from policies P1 and
P2 invokes P1, then P2, then the transport, then unwinds through P2 and
P1. Each policy wraps everything below it, so a retry policy placed in
the chain re-invokes every stage beneath it on each attempt.

Policies are constructed once and shared across concurrent executions.
All per-call state lives on the request.Execution created fresh by each
Run, which is also the value returned to the caller: it carries the
final response or error, the attempt count, and timing.

For policies that only need to inspect or mutate the request before
send or the response after, the Hooks adapter exposes plain hook
functions, including an error hook that can declare a failure fully
handled so the pipeline treats the execution as recovered:

	audit := pipex.Hooks{
		OnRequest: func(e *request.Execution) error {
			e.Request.Header.Set("X-Audit", "1")
			return nil
		},
	}

The Client type layers the familiar Get, Head, Post, and PostForm verb
methods over a Pipeline.

Subpackage retry decides which outcomes are worth retrying (including
secondary-location failover for geo-replicated services) and how long
to back off; subpackage timeout sets per-attempt timeouts; subpackage
transient classifies network-level errors; subpackage metrics exports
Prometheus instrumentation as a policy; subpackage config builds a
pipeline from a YAML file; and subpackage amqp provides a lower-level
AMQP connection state machine for transports that speak AMQP rather
than HTTP.
*/
package pipex
