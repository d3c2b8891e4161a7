// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"io"
	"net/http"
)

// A Response is the transport-agnostic result of one request attempt.
//
// A transport produces a Response with either a fully buffered Body
// or, when the request asked for a streamed response, an open Stream
// the caller must close.
type Response struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Header contains the response header fields.
	Header http.Header

	// Body is the complete buffered response body. It is nil when the
	// response was streamed.
	Body []byte

	// Stream is the unread response body. It is non-nil only when the
	// originating request set StreamResponse, and the caller is
	// responsible for closing it.
	Stream io.ReadCloser

	// Request references the request that produced this response.
	Request *Request
}

// Close releases the streamed response body, if any. It is safe to
// call on a buffered response.
func (r *Response) Close() error {
	if r.Stream == nil {
		return nil
	}
	return r.Stream.Close()
}
