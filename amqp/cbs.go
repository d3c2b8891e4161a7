// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package amqp

import "sync"

// A CBSSession is the claims-based security session attached to a
// connection for token-based authorization. At most one CBS session
// exists per connection, and destroying the connection closes it.
type CBSSession struct {
	conn *Connection

	mu     sync.Mutex
	closed bool
}

// AttachCBS attaches a claims-based security session to the
// connection, creating it on first call and returning the existing
// session on subsequent calls.
func (c *Connection) AttachCBS() (*CBSSession, error) {
	if err := c.acquire("attach cbs"); err != nil {
		return nil, err
	}
	defer c.release()
	if c.destroyed {
		return nil, ErrUnexpectedTermination
	}
	if c.cbs == nil {
		c.cbs = &CBSSession{conn: c}
		c.log.Debug("cbs session attached")
	}
	return c.cbs, nil
}

// Closed reports whether the session has been closed, either directly
// or by destroying its connection.
func (s *CBSSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *CBSSession) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
