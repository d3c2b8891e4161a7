// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pipex

import (
	"context"
	"io"
	"net/http"

	"github.com/gogama/pipex/request"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// A Transport is the terminal stage of a pipeline: the one place
// network I/O happens. The pipeline owns no wire format of its own,
// and everything above the transport is transport-agnostic.
//
// Exactly one transport exists per pipeline. Implementations must be
// safe for concurrent use by multiple goroutines.
type Transport interface {
	// Send performs one request attempt and returns the response. The
	// supplied context carries any per-attempt deadline; Send must
	// honor its cancellation.
	//
	// Send may return a non-nil response together with a non-nil error
	// when the response headers arrived but reading the body failed.
	Send(ctx context.Context, req *request.Request) (*request.Response, error)
	// Open readies the transport's connection pool. It is called once,
	// before the first send.
	Open() error
	// Close releases the transport's connection pool.
	Close() error
}

// HTTPTransport is a Transport backed by an HTTPDoer, typically the
// standard http.Client. Its zero value is a valid transport using
// http.DefaultClient.
//
// HTTPTransport buffers the entire response body into Response.Body
// unless the request asked for a streamed response, in which case the
// unread body is handed over as Response.Stream and the caller owns
// closing it.
type HTTPTransport struct {
	// Client specifies the mechanics of sending HTTP requests and
	// receiving responses. If nil, http.DefaultClient is used.
	Client HTTPDoer
}

// Send implements the Transport interface.
func (t *HTTPTransport) Send(ctx context.Context, req *request.Request) (*request.Response, error) {
	hr := req.ToHTTP(ctx)
	hres, err := t.client().Do(hr)
	if err != nil {
		return nil, err
	}
	resp := &request.Response{
		StatusCode: hres.StatusCode,
		Header:     hres.Header,
		Request:    req,
	}
	if req.StreamResponse {
		resp.Stream = hres.Body
		return resp, nil
	}
	defer func() {
		_ = hres.Body.Close()
	}()
	resp.Body, err = io.ReadAll(hres.Body)
	if err != nil {
		resp.Body = nil
		return resp, err
	}
	return resp, nil
}

// Open implements the Transport interface. The standard HTTP client
// establishes pooled connections lazily, so Open has nothing to do.
func (t *HTTPTransport) Open() error {
	return nil
}

// Close implements the Transport interface. If the underlying HTTPDoer
// has a CloseIdleConnections method, it is invoked; otherwise Close
// does nothing.
func (t *HTTPTransport) Close() error {
	if ic, ok := t.client().(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
	return nil
}

func (t *HTTPTransport) client() HTTPDoer {
	if t.Client == nil {
		return http.DefaultClient
	}
	return t.Client
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes connections which were previously established for earlier
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
type IdleCloser interface {
	CloseIdleConnections()
}
