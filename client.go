// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pipex

import (
	"net/url"

	"github.com/gogama/pipex/request"
)

// A Client is a thin convenience layer over a Pipeline, exposing the
// familiar HTTP verb methods. Its methods build a request, run it
// through the pipeline, and return the resulting execution.
//
// A Client is safe for concurrent use by multiple goroutines, and like
// its Pipeline should be reused rather than created per call.
type Client struct {
	// Pipeline executes the client's requests. It may not be nil.
	Pipeline *Pipeline
}

// Do executes a request through the client's pipeline.
//
// The result returned is the result of the final attempt made during
// the execution, as determined by any retry policy installed in the
// pipeline. A non-2XX status code in the final attempt does not result
// in an error; exhausting retries surfaces whatever the final attempt
// produced, with no synthetic wrapper.
func (c *Client) Do(req *request.Request) (*request.Execution, error) {
	return c.Pipeline.Run(req)
}

// Get issues a GET to the specified URL through the client's pipeline.
//
// To make a request with custom headers, use request.New and
// Client.Do.
func (c *Client) Get(url string) (*request.Execution, error) {
	return Get(c, url)
}

// Head issues a HEAD to the specified URL through the client's
// pipeline.
func (c *Client) Head(url string) (*request.Execution, error) {
	return Head(c, url)
}

// Post issues a POST to the specified URL through the client's
// pipeline.
//
// The body parameter may be nil for an empty body, or may be any of
// the types supported by request.New and request.BodyBytes, namely:
// string; []byte; io.Reader; and io.ReadCloser.
func (c *Client) Post(url, contentType string, body interface{}) (*request.Execution, error) {
	return Post(c, url, contentType, body)
}

// PostForm issues a POST to the specified URL, with data's keys and
// values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, use request.New and Client.Do.
func (c *Client) PostForm(url string, data url.Values) (*request.Execution, error) {
	return PostForm(c, url, data)
}

// Close releases the client's pipeline, including the transport
// connection pool.
func (c *Client) Close() error {
	return c.Pipeline.Close()
}

// Doer is the interface that wraps the basic Do method.
//
// Do executes a request and returns the final execution state (and
// error, if any). Client implements the Doer interface, and any other
// Doer implementation must behave substantially the same as Client.Do.
type Doer interface {
	Do(req *request.Request) (*request.Execution, error)
}

// Get uses the specified Doer to issue a GET to the specified URL.
//
// To make a request with custom headers, use request.New and d.Do.
func Get(d Doer, url string) (*request.Execution, error) {
	req, err := request.New("GET", url, nil)
	if err != nil {
		return nil, err
	}
	return d.Do(req)
}

// Head uses the specified Doer to issue a HEAD to the specified URL.
//
// To make a request with custom headers, use request.New and d.Do.
func Head(d Doer, url string) (*request.Execution, error) {
	req, err := request.New("HEAD", url, nil)
	if err != nil {
		return nil, err
	}
	return d.Do(req)
}

// Post uses the specified Doer to issue a POST to the specified URL.
//
// The body parameter may be nil for an empty body, or may be any of
// the types supported by request.New and request.BodyBytes, namely:
// string; []byte; io.Reader; and io.ReadCloser.
//
// To make a request with custom headers, use request.New and d.Do.
func Post(d Doer, url, contentType string, body interface{}) (*request.Execution, error) {
	b, err := request.BodyBytes(body)
	if err != nil {
		return nil, err
	}
	req, err := request.New("POST", url, b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return d.Do(req)
}

// PostForm uses the specified Doer to issue a POST to the specified
// URL, with data's keys and values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, use request.New and d.Do.
func PostForm(d Doer, url string, data url.Values) (*request.Execution, error) {
	return Post(d, url, "application/x-www-form-urlencoded", data.Encode())
}
