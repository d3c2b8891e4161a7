// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	e := &Execution{}
	assert.Equal(t, 0, e.StatusCode())
	e.Response = &Response{StatusCode: 503}
	assert.Equal(t, 503, e.StatusCode())
}

func TestHeader(t *testing.T) {
	e := &Execution{}
	assert.Nil(t, e.Header())
	assert.Equal(t, "", e.Header().Get("X-Foo"))
	h := http.Header{}
	h.Set("X-Foo", "bar")
	e.Response = &Response{Header: h}
	assert.Equal(t, "bar", e.Header().Get("X-Foo"))
}

func TestDuration(t *testing.T) {
	t.Run("not started", func(t *testing.T) {
		e := &Execution{}
		assert.Zero(t, e.Duration())
		assert.False(t, e.Started())
		assert.False(t, e.Ended())
	})
	t.Run("in flight", func(t *testing.T) {
		e := &Execution{Start: time.Now().Add(-time.Second)}
		assert.True(t, e.Started())
		assert.False(t, e.Ended())
		assert.GreaterOrEqual(t, e.Duration(), time.Second)
	})
	t.Run("ended", func(t *testing.T) {
		start := time.Now()
		e := &Execution{Start: start, End: start.Add(250 * time.Millisecond)}
		assert.True(t, e.Ended())
		assert.Equal(t, 250*time.Millisecond, e.Duration())
	})
}

func TestExecutionTimeout(t *testing.T) {
	e := &Execution{}
	assert.False(t, e.Timeout())
	e.Err = errors.New("not a timeout")
	assert.False(t, e.Timeout())
	e.Err = &timeoutErr{}
	assert.True(t, e.Timeout())
}

type timeoutErr struct{}

func (e *timeoutErr) Error() string { return "deadline exceeded" }
func (e *timeoutErr) Timeout() bool { return true }

func TestBodyPosition(t *testing.T) {
	t.Run("buffered body is trivially replayable", func(t *testing.T) {
		r, err := New("POST", "http://example.com", "payload")
		require.NoError(t, err)
		e := &Execution{Request: r}
		e.SaveBodyPosition()
		assert.NoError(t, e.RewindBody())
	})
	t.Run("seekable stream rewinds to saved position", func(t *testing.T) {
		stream := bytes.NewReader([]byte("0123456789"))
		_, err := stream.Seek(3, io.SeekStart)
		require.NoError(t, err)
		r, err := New("POST", "http://example.com", nil)
		require.NoError(t, err)
		r.Stream = stream
		e := &Execution{Request: r}
		e.SaveBodyPosition()

		// Consume the stream, as a send would.
		_, err = io.ReadAll(stream)
		require.NoError(t, err)

		require.NoError(t, e.RewindBody())
		b, err := io.ReadAll(stream)
		require.NoError(t, err)
		assert.Equal(t, "3456789", string(b))
	})
	t.Run("save is idempotent", func(t *testing.T) {
		stream := bytes.NewReader([]byte("0123456789"))
		r, err := New("POST", "http://example.com", nil)
		require.NoError(t, err)
		r.Stream = stream
		e := &Execution{Request: r}
		e.SaveBodyPosition()

		// A second save after partial consumption must not clobber the
		// recorded position.
		_, err = stream.Seek(5, io.SeekStart)
		require.NoError(t, err)
		e.SaveBodyPosition()

		require.NoError(t, e.RewindBody())
		b, err := io.ReadAll(stream)
		require.NoError(t, err)
		assert.Equal(t, "0123456789", string(b))
	})
	t.Run("non-seekable stream cannot rewind", func(t *testing.T) {
		r, err := New("POST", "http://example.com", nil)
		require.NoError(t, err)
		r.Stream = io.LimitReader(strings.NewReader("x"), 1)
		e := &Execution{Request: r}
		e.SaveBodyPosition()
		assert.Same(t, ErrNoBodyPosition, e.RewindBody())
	})
	t.Run("rewind without save", func(t *testing.T) {
		r, err := New("POST", "http://example.com", nil)
		require.NoError(t, err)
		r.Stream = bytes.NewReader([]byte("x"))
		e := &Execution{Request: r}
		assert.Same(t, ErrNoBodyPosition, e.RewindBody())
	})
	t.Run("rewind failure surfaces", func(t *testing.T) {
		f, err := os.Open(os.DevNull)
		require.NoError(t, err)
		r, err := New("POST", "http://example.com", nil)
		require.NoError(t, err)
		r.Stream = f
		e := &Execution{Request: r}
		e.SaveBodyPosition()
		require.NoError(t, f.Close())
		assert.Error(t, e.RewindBody())
	})
}

func TestValue(t *testing.T) {
	type key struct{}
	e := &Execution{}
	assert.Nil(t, e.Value(key{}))
	e.SetValue(key{}, 42)
	assert.Equal(t, 42, e.Value(key{}))
	e.SetValue(key{}, 43)
	assert.Equal(t, 43, e.Value(key{}))
}
