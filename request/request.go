// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"
)

const nilCtxMsg = "pipex/request: nil context"

// A Request describes a logical HTTP request for execution by a
// pipeline.
//
// The logical request described by a Request will typically result in
// one lower-level transport send, but may result in multiple sends if
// a failed attempt needs to be retried. For that reason the body is
// either fully buffered (Body) or replayable (a seekable Stream): a
// retry must be able to resend the body from the beginning.
//
// Like the http.Request structure, a Request has a context which
// controls the overall execution and can be used to cancel an
// in-flight execution at any time.
type Request struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	// An empty string means GET.
	Method string

	// URL specifies the URL to access.
	URL *urlpkg.URL

	// Header contains the request header fields to be sent. Names are
	// canonicalized by http.Header, giving case-insensitive lookup.
	Header http.Header

	// Body is the pre-buffered request body to be sent. A nil or
	// empty body indicates no request body should be sent, unless
	// Stream is set.
	Body []byte

	// Stream is a streamed request body. It is consulted only when
	// Body is nil. If Stream implements io.Seeker, the pipeline
	// records its position before the first send so that a retry can
	// rewind it; a non-seekable stream cannot be replayed and any
	// retry of it is abandoned.
	Stream io.Reader

	// Timeout is an optional per-attempt timeout for this request. A
	// zero value means no per-request timeout; an attempt timeout
	// policy installed in the pipeline may still apply one.
	Timeout time.Duration

	// StreamResponse requests that the response body be left unread
	// on the wire (Response.Stream) instead of buffered into
	// Response.Body.
	StreamResponse bool

	// Host optionally overrides the Host header to send. If empty,
	// the value of URL.Host is sent.
	Host string

	// ctx allows the entire execution to be cancelled. It should only
	// be modified by copying the whole Request using WithContext.
	ctx context.Context
}

// New wraps NewWithContext using the background context.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. See BodyBytes for the
// conversion rules. To send a streamed body instead of a buffered one,
// set the Stream field after construction.
func New(method, url string, body interface{}) (*Request, error) {
	return NewWithContext(context.Background(), method, url, body)
}

// NewWithContext returns a new Request given a method, URL, and
// optional body.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. See BodyBytes for the
// conversion rules.
func NewWithContext(ctx context.Context, method, url string, body interface{}) (*Request, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("pipex/request: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	u.Host = removeEmptyPort(u.Host)
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	return &Request{
		ctx:    ctx,
		Method: method,
		URL:    u,
		Header: make(http.Header),
		Body:   b,
		Host:   u.Host,
	}, nil
}

// Context returns the request's context. The context controls
// cancellation of the overall execution including all retries. To
// change the context, use WithContext.
//
// The returned context is always non-nil; it defaults to the
// background context.
func (r *Request) Context() context.Context {
	if r.ctx != nil {
		return r.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of r with its context changed to
// ctx, which must be non-nil.
//
// The context controls the entire lifetime of the logical request and
// its execution, including individual sends, policy hooks, and retry
// wait periods.
func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	r2 := new(Request)
	*r2 = *r
	r2.ctx = ctx
	return r2
}

// SetBasicAuth sets the request's Authorization header to use HTTP
// Basic Authentication with the provided username and password.
//
// With HTTP Basic Authentication the provided username and password
// are not encrypted.
func (r *Request) SetBasicAuth(username, password string) {
	r.Header.Set("Authorization", "Basic "+basicAuth(username, password))
}

// ToHTTP creates a lower-level http.Request corresponding to this
// request, for use by an HTTP transport. The context of the new
// request is set to ctx, which may not be nil.
//
// A buffered body is installed with a GetBody function so the standard
// transport can replay it; a streamed body is installed as-is, since
// replay of streams is the retry policy's responsibility.
func (r *Request) ToHTTP(ctx context.Context) *http.Request {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	hr := &http.Request{
		Method:     r.Method,
		URL:        r.URL,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     r.Header,
		Host:       r.Host,
	}
	hr = hr.WithContext(ctx)
	if len(r.Body) > 0 {
		hr.Body = io.NopCloser(bytes.NewReader(r.Body))
		hr.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(r.Body)), nil
		}
		hr.ContentLength = int64(len(r.Body))
	} else if r.Stream != nil {
		hr.Body = io.NopCloser(r.Stream)
		hr.ContentLength = -1
	}
	return hr
}

// basicAuth is lifted verbatim from net/http/client.go.
//
// See 2 (end of page 4) https://www.ietf.org/rfc/rfc2617.txt
// "To receive authorization, the client sends the userid and password,
// separated by a single colon (":") character, within a base64
// encoded string in the credentials."
// It is not meant to be urlencoded.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

// validMethod reports whether method is a valid token per RFC 7230
// section 3.2.6. The token grammar for methods is the same one
// httpguts applies to header field names.
func validMethod(method string) bool {
	return httpguts.ValidHeaderFieldName(method)
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
