// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package amqp

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// A Core is the protocol engine underneath a Connection: the component
// that owns the socket, frames, and handshake. Connection layers
// locking, state tracking, error classification, and redirect handling
// on top of it.
//
// A Core is driven from a single goroutine at a time; Connection's
// lock guarantees that.
type Core interface {
	// Work drives one iteration of protocol I/O and reports what it
	// observed. A returned error is an I/O or protocol fault and does
	// not by itself change connection state.
	Work() (WorkEvent, error)
	// Close initiates an orderly local close, optionally carrying an
	// error triple to the peer.
	Close(err *Error) error
	// Destroy tears down the core and its socket unconditionally.
	Destroy()
}

// A WorkEvent is what one Core.Work iteration observed.
type WorkEvent struct {
	// State is the core's state after the iteration.
	State State
	// Close carries the error triple from a received CLOSE frame, or
	// nil if no CLOSE frame arrived.
	Close *Error
}

// A CoreFactory builds a Core for the given hostname. Connection uses
// it at construction and again on redirect, so the same configured
// settings apply to the rebuilt core.
type CoreFactory func(hostname string, s Settings) (Core, error)

// Settings configures a Connection. The zero value is usable; empty
// fields are filled with defaults at construction.
type Settings struct {
	// ContainerID identifies this container to the peer. Defaults to
	// a generated UUID.
	ContainerID string
	// MaxFrameSize is the largest frame size to accept, in bytes.
	// Defaults to 65536.
	MaxFrameSize uint32
	// ChannelMax is the highest channel number to allow. Defaults to
	// 65535.
	ChannelMax uint16
	// IdleTimeout is the idle timeout to advertise to the peer. Zero
	// advertises none.
	IdleTimeout time.Duration
	// IdleFrameRatio is the fraction of the peer's advertised idle
	// timeout after which an empty frame is sent to keep the
	// connection alive. Defaults to 0.5.
	IdleFrameRatio float64
	// Properties are connection properties sent in the OPEN frame.
	Properties map[string]interface{}
	// Encoding is the text encoding used for peer-supplied strings.
	// Defaults to "UTF-8".
	Encoding string
	// Debug enables network trace logging of every work iteration.
	Debug bool
	// LockTimeout bounds how long any operation waits for the
	// connection lock before failing with a TimeoutError. Defaults to
	// 10 seconds.
	LockTimeout time.Duration
	// Logger receives state transition and trace logs. Defaults to
	// slog.Default().
	Logger *slog.Logger
	// ErrorPolicy classifies peer-supplied error triples. Defaults to
	// DefaultErrorPolicy.
	ErrorPolicy ErrorPolicy
}

func (s Settings) withDefaults() Settings {
	if s.ContainerID == "" {
		s.ContainerID = uuid.NewString()
	}
	if s.MaxFrameSize == 0 {
		s.MaxFrameSize = 65536
	}
	if s.ChannelMax == 0 {
		s.ChannelMax = 65535
	}
	if s.IdleFrameRatio == 0 {
		s.IdleFrameRatio = 0.5
	}
	if s.Encoding == "" {
		s.Encoding = "UTF-8"
	}
	if s.LockTimeout == 0 {
		s.LockTimeout = 10 * time.Second
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	if s.ErrorPolicy == nil {
		s.ErrorPolicy = DefaultErrorPolicy
	}
	return s
}

// A Connection supervises one AMQP connection: it tracks the state
// reported by its Core, classifies and stores close errors for later
// surfacing, and serializes all access to the core behind a lock with
// a bounded acquisition timeout.
//
// A Connection is explicitly shared across multiple sessions and
// clients; every method that touches the core acquires the lock and
// releases it on all paths.
type Connection struct {
	hostname string
	auth     Auth
	settings Settings
	factory  CoreFactory
	core     Core
	log      *slog.Logger

	// sem is the connection lock. Acquisition is bounded by
	// settings.LockTimeout.
	sem chan struct{}

	state     State
	closing   bool
	err       error
	cbs       *CBSSession
	destroyed bool
}

// Connect builds a Connection to hostname using the supplied auth
// credential and core factory.
//
// The credential is consumed: attempting to reuse it for another
// connection before this one is destroyed fails with ErrAuthConsumed,
// and a consumed credential supplied here fails the same way.
func Connect(hostname string, auth Auth, factory CoreFactory, s Settings) (*Connection, error) {
	if auth == nil {
		panic("pipex/amqp: nil auth")
	}
	if factory == nil {
		panic("pipex/amqp: nil core factory")
	}
	s = s.withDefaults()
	if err := auth.Consume(); err != nil {
		return nil, err
	}
	core, err := factory(hostname, s)
	if err != nil {
		auth.Release()
		return nil, err
	}
	c := &Connection{
		hostname: hostname,
		auth:     auth,
		settings: s,
		factory:  factory,
		core:     core,
		log:      s.Logger.With(slog.String("container", s.ContainerID)),
		sem:      make(chan struct{}, 1),
		state:    StateUnknown,
	}
	c.log.Debug("connection created", slog.String("hostname", hostname))
	return c, nil
}

// Work drives one iteration of protocol I/O.
//
// If a prior iteration recorded a deferred error (a classified close,
// or a synthesized unexpected termination), Work surfaces it before
// doing anything else, and keeps surfacing it on every subsequent
// call.
func (c *Connection) Work() error {
	if err := c.acquire("work"); err != nil {
		return err
	}
	defer c.release()
	if c.err != nil {
		return c.err
	}
	ev, err := c.core.Work()
	if c.settings.Debug {
		c.log.Debug("work iteration",
			slog.String("state", ev.State.String()),
			slog.Bool("close", ev.Close != nil),
			slog.Any("error", err))
	}
	if err != nil {
		return err
	}
	if ev.Close != nil {
		c.closeReceived(ev.Close)
	}
	if ev.State != c.state {
		c.stateChanged(c.state, ev.State)
	}
	return c.err
}

// closeReceived parses and classifies the error triple from a received
// CLOSE frame, storing the classified error for later surfacing. Must
// be called with the lock held.
func (c *Connection) closeReceived(perr *Error) {
	c.log.Info("close frame received",
		slog.String("condition", perr.Condition),
		slog.String("description", perr.Description))
	c.err = c.settings.ErrorPolicy(perr)
}

// stateChanged records a state transition reported by the core. If the
// connection lands in End from a state other than CloseReceived, with
// no local close requested and no error already recorded, an
// unexpected termination error is synthesized so callers are never
// left silently stuck. Must be called with the lock held.
func (c *Connection) stateChanged(previous, current State) {
	c.state = current
	c.log.Debug("connection state changed",
		slog.String("previous", previous.String()),
		slog.String("current", current.String()))
	if current == StateEnd && previous != StateCloseReceived && !c.closing && c.err == nil {
		c.err = ErrUnexpectedTermination
		c.log.Warn("connection terminated unexpectedly",
			slog.String("previous", previous.String()))
	}
}

// Close requests an orderly local close, optionally sending an error
// triple to the peer. A close requested here suppresses the
// unexpected-termination synthesis when the core later reaches End.
func (c *Connection) Close(perr *Error) error {
	if err := c.acquire("close"); err != nil {
		return err
	}
	defer c.release()
	if c.closing || c.destroyed {
		return nil
	}
	c.closing = true
	return c.core.Close(perr)
}

// Redirect tears down the connection's core and rebuilds it against
// the hostname carried by the redirect, using the new auth credential
// and carrying forward the previously configured settings (frame size,
// channel max, idle timeout, properties). It is a full rebuild, not an
// in-place host swap: any recorded error and close state are reset.
//
// The old credential is released and the new one consumed; a consumed
// new credential fails with ErrAuthConsumed and leaves the connection
// untouched.
func (c *Connection) Redirect(redirect *RedirectError, auth Auth) error {
	if redirect == nil || redirect.Hostname == "" {
		panic("pipex/amqp: nil or empty redirect")
	}
	if auth == nil {
		panic("pipex/amqp: nil auth")
	}
	if err := c.acquire("redirect"); err != nil {
		return err
	}
	defer c.release()
	if err := auth.Consume(); err != nil {
		return err
	}
	core, err := c.factory(redirect.Hostname, c.settings)
	if err != nil {
		auth.Release()
		return err
	}
	c.core.Destroy()
	c.auth.Release()
	c.hostname = redirect.Hostname
	c.auth = auth
	c.core = core
	c.state = StateUnknown
	c.closing = false
	c.err = nil
	c.log.Info("connection redirected", slog.String("hostname", redirect.Hostname))
	return nil
}

// Destroy tears down the connection unconditionally: it closes the CBS
// session if one is attached, destroys the core, and releases the auth
// credential for reuse. The lock is released on all paths. Destroy is
// idempotent.
func (c *Connection) Destroy() error {
	if err := c.acquire("destroy"); err != nil {
		return err
	}
	defer c.release()
	if c.destroyed {
		return nil
	}
	if c.cbs != nil {
		c.cbs.close()
		c.cbs = nil
	}
	c.core.Destroy()
	c.auth.Release()
	c.destroyed = true
	c.log.Debug("connection destroyed")
	return nil
}

// State returns the connection's last observed state.
func (c *Connection) State() State {
	c.sem <- struct{}{}
	defer c.release()
	return c.state
}

// Err returns the deferred error recorded by a prior close or state
// change, or nil if none has been recorded.
func (c *Connection) Err() error {
	c.sem <- struct{}{}
	defer c.release()
	return c.err
}

// Hostname returns the host the connection currently targets, which a
// redirect may have changed from the one supplied at construction.
func (c *Connection) Hostname() string {
	c.sem <- struct{}{}
	defer c.release()
	return c.hostname
}

func (c *Connection) acquire(op string) error {
	timer := time.NewTimer(c.settings.LockTimeout)
	defer timer.Stop()
	select {
	case c.sem <- struct{}{}:
		return nil
	case <-timer.C:
		return &TimeoutError{Op: op}
	}
}

func (c *Connection) release() {
	<-c.sem
}
