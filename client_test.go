// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pipex

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	type record struct {
		method      string
		path        string
		contentType string
		body        string
	}
	var last record
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		last = record{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			body:        string(b),
		}
		_, _ = w.Write([]byte("pong"))
	}))
	defer server.Close()

	c := &Client{Pipeline: New(&HTTPTransport{})}
	defer c.Close()

	t.Run("Get", func(t *testing.T) {
		e, err := c.Get(server.URL + "/ping")
		require.NoError(t, err)
		assert.Equal(t, 200, e.StatusCode())
		assert.Equal(t, "pong", string(e.Response.Body))
		assert.Equal(t, "GET", last.method)
		assert.Equal(t, "/ping", last.path)
	})
	t.Run("Head", func(t *testing.T) {
		e, err := c.Head(server.URL + "/ping")
		require.NoError(t, err)
		assert.Equal(t, 200, e.StatusCode())
		assert.Equal(t, "HEAD", last.method)
	})
	t.Run("Post", func(t *testing.T) {
		e, err := c.Post(server.URL+"/items", "application/json", `{"n":1}`)
		require.NoError(t, err)
		assert.Equal(t, 200, e.StatusCode())
		assert.Equal(t, "POST", last.method)
		assert.Equal(t, "application/json", last.contentType)
		assert.Equal(t, `{"n":1}`, last.body)
	})
	t.Run("Post reader body", func(t *testing.T) {
		_, err := c.Post(server.URL+"/items", "text/plain", strings.NewReader("hello"))
		require.NoError(t, err)
		assert.Equal(t, "hello", last.body)
	})
	t.Run("Post bad body type", func(t *testing.T) {
		e, err := c.Post(server.URL+"/items", "text/plain", 42)
		assert.Nil(t, e)
		assert.Error(t, err)
	})
	t.Run("PostForm", func(t *testing.T) {
		e, err := c.PostForm(server.URL+"/form", url.Values{"q": {"berlin"}})
		require.NoError(t, err)
		assert.Equal(t, 200, e.StatusCode())
		assert.Equal(t, "application/x-www-form-urlencoded", last.contentType)
		assert.Equal(t, "q=berlin", last.body)
	})
	t.Run("bad url", func(t *testing.T) {
		e, err := Get(c, "http://bad url/")
		assert.Nil(t, e)
		assert.Error(t, err)
	})
}
