// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogama/pipex"
	"github.com/gogama/pipex/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		c, err := Parse([]byte(`
user_agent: myapp/1.2
request_id: true
timeout: 30s
logging: true
headers:
  X-Tenant: acme
retry:
  mode: linear
  max_attempts: 4
  backoff: 1s
  jitter: 100ms
  deadline: 2m
  attempt_timeout: 5s
  secondary: replica.example.com
`))
		require.NoError(t, err)
		assert.Equal(t, "myapp/1.2", c.UserAgent)
		assert.True(t, c.RequestID)
		assert.True(t, c.Logging)
		assert.Equal(t, Duration(30*time.Second), c.Timeout)
		assert.Equal(t, "acme", c.Headers["X-Tenant"])
		assert.Equal(t, "linear", c.Retry.Mode)
		assert.Equal(t, 4, c.Retry.MaxAttempts)
		assert.Equal(t, Duration(time.Second), c.Retry.Backoff)
		assert.Equal(t, Duration(100*time.Millisecond), c.Retry.Jitter)
		assert.Equal(t, Duration(2*time.Minute), c.Retry.Deadline)
		assert.Equal(t, Duration(5*time.Second), c.Retry.AttemptTimeout)
		assert.Equal(t, "replica.example.com", c.Retry.Secondary)
	})
	t.Run("empty document", func(t *testing.T) {
		c, err := Parse([]byte(""))
		require.NoError(t, err)
		assert.Zero(t, *c)
	})
	t.Run("bad duration", func(t *testing.T) {
		_, err := Parse([]byte("timeout: soon"))
		assert.ErrorContains(t, err, `invalid duration "soon"`)
	})
	t.Run("bad retry mode", func(t *testing.T) {
		_, err := Parse([]byte("retry: {mode: psychic}"))
		assert.ErrorContains(t, err, `unknown retry mode "psychic"`)
	})
	t.Run("negative max attempts", func(t *testing.T) {
		_, err := Parse([]byte("retry: {max_attempts: -1}"))
		assert.ErrorContains(t, err, "negative max_attempts")
	})
	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("TEST_SECONDARY", "replica.example.com")
		c, err := Parse([]byte("retry: {secondary: ${TEST_SECONDARY}}"))
		require.NoError(t, err)
		assert.Equal(t, "replica.example.com", c.Retry.Secondary)
	})
}

func TestLoad(t *testing.T) {
	t.Run("file with dotenv", func(t *testing.T) {
		dir := t.TempDir()
		env := filepath.Join(dir, "pipeline.env")
		require.NoError(t, os.WriteFile(env, []byte("TEST_LOAD_UA=myapp/9.9\n"), 0600))
		cfg := filepath.Join(dir, "pipeline.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("user_agent: ${TEST_LOAD_UA}\n"), 0600))
		defer os.Unsetenv("TEST_LOAD_UA")

		c, err := Load(cfg, env)
		require.NoError(t, err)
		assert.Equal(t, "myapp/9.9", c.UserAgent)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
	t.Run("missing dotenv", func(t *testing.T) {
		dir := t.TempDir()
		cfg := filepath.Join(dir, "pipeline.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("request_id: true\n"), 0600))
		_, err := Load(cfg, filepath.Join(dir, "nope.env"))
		assert.ErrorContains(t, err, "load dotenv")
	})
}

func TestPipeline(t *testing.T) {
	t.Run("policies applied", func(t *testing.T) {
		var got http.Header
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Clone()
			w.WriteHeader(200)
		}))
		defer server.Close()

		c, err := Parse([]byte(`
user_agent: myapp/1.2
request_id: true
headers:
  X-Tenant: acme
retry:
  mode: none
`))
		require.NoError(t, err)
		p, err := c.Pipeline(&pipex.HTTPTransport{})
		require.NoError(t, err)
		defer p.Close()

		req, err := request.New("GET", server.URL, nil)
		require.NoError(t, err)
		e, err := p.Run(req)
		require.NoError(t, err)
		assert.Equal(t, 200, e.StatusCode())
		assert.Equal(t, "myapp/1.2", got.Get("User-Agent"))
		assert.NotEmpty(t, got.Get(pipex.RequestIDHeader))
		assert.Equal(t, "acme", got.Get("X-Tenant"))
	})
	t.Run("retry mode none does not retry", func(t *testing.T) {
		n := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n++
			w.WriteHeader(503)
		}))
		defer server.Close()

		c, err := Parse([]byte("retry: {mode: none}"))
		require.NoError(t, err)
		p, err := c.Pipeline(&pipex.HTTPTransport{})
		require.NoError(t, err)
		defer p.Close()

		req, err := request.New("GET", server.URL, nil)
		require.NoError(t, err)
		e, err := p.Run(req)
		require.NoError(t, err)
		assert.Equal(t, 503, e.StatusCode())
		assert.Equal(t, 1, n)
	})
	t.Run("fixed mode retries to the attempt cap", func(t *testing.T) {
		n := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n++
			w.WriteHeader(503)
		}))
		defer server.Close()

		c, err := Parse([]byte("retry: {mode: fixed, max_attempts: 3, backoff: 1ms}"))
		require.NoError(t, err)
		p, err := c.Pipeline(&pipex.HTTPTransport{})
		require.NoError(t, err)
		defer p.Close()

		req, err := request.New("GET", server.URL, nil)
		require.NoError(t, err)
		e, err := p.Run(req)
		require.NoError(t, err)
		assert.Equal(t, 503, e.StatusCode())
		assert.Equal(t, 3, n)
	})
	t.Run("request timeout filled in", func(t *testing.T) {
		c, err := Parse([]byte("timeout: 7s\nretry: {mode: none}"))
		require.NoError(t, err)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()
		p, err := c.Pipeline(&pipex.HTTPTransport{})
		require.NoError(t, err)
		defer p.Close()

		req, err := request.New("GET", server.URL, nil)
		require.NoError(t, err)
		_, err = p.Run(req)
		require.NoError(t, err)
		assert.Equal(t, 7*time.Second, req.Timeout)
	})
}

func TestRetrier(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r, err := Retry{}.retrier()
		require.NoError(t, err)
		assert.NotNil(t, r.Policy)
		assert.Empty(t, r.Secondary)
		assert.Nil(t, r.TimeoutPolicy)
	})
	t.Run("secondary and account carried", func(t *testing.T) {
		r, err := Retry{Mode: "fixed", Secondary: "s.example.com", Account: "dev"}.retrier()
		require.NoError(t, err)
		assert.Equal(t, "s.example.com", r.Secondary)
		assert.Equal(t, "dev", r.Account)
	})
}
