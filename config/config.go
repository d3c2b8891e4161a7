// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gogama/pipex"
	"github.com/gogama/pipex/request"
	"github.com/gogama/pipex/retry"
	"github.com/gogama/pipex/timeout"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// A Duration is a time.Duration that unmarshals from YAML duration
// strings such as "500ms" or "1m30s".
type Duration time.Duration

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("pipex/config: invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Config declares a pipeline in YAML so deployments can tune retry,
// timeout, and header behavior without a rebuild. Environment variable
// references of the form ${NAME} in the file are expanded before
// parsing.
type Config struct {
	// UserAgent, when set, installs the user agent policy.
	UserAgent string `yaml:"user_agent"`
	// RequestID, when true, installs the request ID tagging policy.
	RequestID bool `yaml:"request_id"`
	// Headers are fixed header fields merged into every request.
	Headers map[string]string `yaml:"headers"`
	// Timeout is the whole-request timeout set on each request that
	// does not carry its own.
	Timeout Duration `yaml:"timeout"`
	// Logging, when true, installs the request logging policy.
	Logging bool `yaml:"logging"`
	// Retry configures the retry policy.
	Retry Retry `yaml:"retry"`
}

// Retry is the retry section of a Config.
type Retry struct {
	// Mode selects the backoff strategy: "exponential", "linear",
	// "fixed", or "none". Empty means "exponential".
	Mode string `yaml:"mode"`
	// MaxAttempts is the total number of attempts allowed, the
	// initial attempt included. Zero means retry.DefaultAttempts.
	MaxAttempts int `yaml:"max_attempts"`
	// Initial is the exponential mode's constant term. Zero means
	// 500ms.
	Initial Duration `yaml:"initial"`
	// Base is the exponential mode's growth base. Zero means 2.
	Base float64 `yaml:"base"`
	// Jitter bounds the random adjustment applied to each wait.
	Jitter Duration `yaml:"jitter"`
	// Backoff is the wait interval for the linear and fixed modes.
	Backoff Duration `yaml:"backoff"`
	// Deadline, when set, stops retrying once this much time has
	// elapsed since the execution started, regardless of attempts
	// remaining.
	Deadline Duration `yaml:"deadline"`
	// AttemptTimeout, when set, bounds each individual attempt.
	AttemptTimeout Duration `yaml:"attempt_timeout"`
	// Secondary is the secondary location hostname for geo-replicated
	// failover.
	Secondary string `yaml:"secondary"`
	// Account is the emulator account name for path-based failover,
	// used when Secondary is empty.
	Account string `yaml:"account"`
}

// Load reads a YAML pipeline configuration from path. Any dotenv files
// given are loaded into the process environment first, and ${NAME}
// references in the YAML are expanded from the environment before
// parsing, so secrets can stay out of the file itself.
func Load(path string, dotenv ...string) (*Config, error) {
	if len(dotenv) > 0 {
		if err := godotenv.Load(dotenv...); err != nil {
			return nil, fmt.Errorf("pipex/config: load dotenv: %w", err)
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipex/config: read %s: %w", path, err)
	}
	return Parse(b)
}

// Parse parses a YAML pipeline configuration, expanding ${NAME}
// environment references first.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), &c); err != nil {
		return nil, fmt.Errorf("pipex/config: parse: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch c.Retry.Mode {
	case "", "exponential", "linear", "fixed", "none":
	default:
		return fmt.Errorf("pipex/config: unknown retry mode %q", c.Retry.Mode)
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("pipex/config: negative max_attempts %d", c.Retry.MaxAttempts)
	}
	return nil
}

// Pipeline assembles a pipeline over the given transport from the
// configuration. Policies are installed outermost first: user agent,
// request ID, fixed headers, the retry policy, then logging innermost
// so it sees every attempt.
func (c *Config) Pipeline(t pipex.Transport) (*pipex.Pipeline, error) {
	var policies []pipex.Policy
	if c.UserAgent != "" {
		policies = append(policies, pipex.UserAgent(c.UserAgent))
	}
	if c.RequestID {
		policies = append(policies, pipex.RequestID())
	}
	if len(c.Headers) > 0 {
		h := make(http.Header, len(c.Headers))
		for k, v := range c.Headers {
			h.Set(k, v)
		}
		policies = append(policies, pipex.Headers(h))
	}
	if c.Timeout > 0 {
		d := time.Duration(c.Timeout)
		policies = append(policies, pipex.Hooks{
			OnRequest: func(e *request.Execution) error {
				if e.Request.Timeout == 0 {
					e.Request.Timeout = d
				}
				return nil
			},
		})
	}
	r, err := c.Retry.retrier()
	if err != nil {
		return nil, err
	}
	policies = append(policies, r)
	if c.Logging {
		policies = append(policies, pipex.Logging(nil))
	}
	return pipex.New(t, policies...), nil
}

// retrier builds the configured Retrier.
func (r Retry) retrier() (*retry.Retrier, error) {
	attempts := r.MaxAttempts
	if attempts == 0 {
		attempts = retry.DefaultAttempts
	}
	jitter := time.Duration(r.Jitter)

	var w retry.Waiter
	switch r.Mode {
	case "", "exponential":
		initial := time.Duration(r.Initial)
		if initial == 0 {
			initial = 500 * time.Millisecond
		}
		base := r.Base
		if base == 0 {
			base = 2
		}
		var seed interface{}
		if jitter > 0 {
			seed = time.Now()
		}
		w = retry.NewExpWaiter(initial, base, jitter, seed)
	case "linear":
		var seed interface{}
		if jitter > 0 {
			seed = time.Now()
		}
		w = retry.NewLinearWaiter(time.Duration(r.Backoff), jitter, seed)
	case "fixed":
		w = retry.NewFixedWaiter(time.Duration(r.Backoff))
	case "none":
		return &retry.Retrier{Policy: retry.Never}, nil
	}

	d := retry.MaxAttempts(attempts).And(retry.Eligible)
	if r.Deadline > 0 {
		d = d.And(retry.Before(time.Duration(r.Deadline)))
	}

	ret := &retry.Retrier{
		Policy:    retry.NewPolicy(d, w),
		Secondary: r.Secondary,
		Account:   r.Account,
	}
	if r.AttemptTimeout > 0 {
		ret.TimeoutPolicy = timeout.Fixed(time.Duration(r.AttemptTimeout))
	}
	return ret, nil
}
