// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config assembles pipelines from YAML declarations.
//
// A configuration file describes the policies of a pipeline: user
// agent, request tagging, fixed headers, timeouts, and the retry
// strategy. Environment variable references of the form ${NAME} are
// expanded before parsing, optionally after loading dotenv files, so
// hostnames and credentials can be injected at deploy time:
//
//	user_agent: myapp/1.2
//	request_id: true
//	timeout: 30s
//	retry:
//	  mode: exponential
//	  max_attempts: 4
//	  initial: 250ms
//	  jitter: 100ms
//	  secondary: ${STORAGE_SECONDARY_HOST}
//
// Load the file and build the pipeline:
//
//	cfg, err := config.Load("pipeline.yaml", ".env")
//	if err != nil {
//		return err
//	}
//	p, err := cfg.Pipeline(&pipex.HTTPTransport{})
//	if err != nil {
//		return err
//	}
//	defer p.Close()
package config
