// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pipex

import (
	"errors"
	"net/url"
	"testing"

	"github.com/gogama/pipex/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks(t *testing.T) {
	t.Run("request hook error aborts send", func(t *testing.T) {
		boom := errors.New("bad credentials")
		tr := &lifecycleTransport{}
		p := New(tr, Hooks{
			OnRequest: func(e *request.Execution) error {
				return boom
			},
		})
		defer p.Close()
		req, err := request.New("GET", "http://example.com", nil)
		require.NoError(t, err)
		e, err := p.Run(req)

		require.Error(t, err)
		var uerr *url.Error
		require.ErrorAs(t, err, &uerr)
		assert.Same(t, boom, uerr.Err)
		assert.Same(t, err, e.Err)
		assert.Equal(t, 0, tr.sends)
	})
	t.Run("response hook sees response", func(t *testing.T) {
		var status int
		p := New(&lifecycleTransport{}, Hooks{
			OnResponse: func(e *request.Execution) error {
				status = e.StatusCode()
				return nil
			},
		})
		defer p.Close()
		req, err := request.New("GET", "http://example.com", nil)
		require.NoError(t, err)
		_, err = p.Run(req)

		require.NoError(t, err)
		assert.Equal(t, 200, status)
	})
	t.Run("response hook error fails send", func(t *testing.T) {
		boom := errors.New("body validation failed")
		p := New(&lifecycleTransport{}, Hooks{
			OnResponse: func(e *request.Execution) error {
				return boom
			},
		})
		defer p.Close()
		req, err := request.New("GET", "http://example.com", nil)
		require.NoError(t, err)
		e, err := p.Run(req)

		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Same(t, err, e.Err)
	})
	t.Run("error hook recovers", func(t *testing.T) {
		boom := errors.New("dial failed")
		p := New(errTransport{err: boom}, Hooks{
			OnError: func(e *request.Execution) bool {
				return true
			},
		})
		defer p.Close()
		req, err := request.New("GET", "http://example.com", nil)
		require.NoError(t, err)
		e, err := p.Run(req)

		assert.NoError(t, err)
		assert.NoError(t, e.Err)
	})
	t.Run("error hook declines", func(t *testing.T) {
		boom := errors.New("dial failed")
		p := New(errTransport{err: boom}, Hooks{
			OnError: func(e *request.Execution) bool {
				return false
			},
		})
		defer p.Close()
		req, err := request.New("GET", "http://example.com", nil)
		require.NoError(t, err)
		e, err := p.Run(req)

		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Same(t, err, e.Err)
	})
	t.Run("empty hooks pass through", func(t *testing.T) {
		tr := &lifecycleTransport{}
		p := New(tr, Hooks{})
		defer p.Close()
		req, err := request.New("GET", "http://example.com", nil)
		require.NoError(t, err)
		e, err := p.Run(req)

		require.NoError(t, err)
		assert.Equal(t, 200, e.StatusCode())
		assert.Equal(t, 1, tr.sends)
	})
}
