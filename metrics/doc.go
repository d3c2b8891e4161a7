// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics provides a Prometheus instrumentation policy for
// pipelines.
//
// The policy counts sends, failures, and responses by status class,
// and observes send latency in a histogram. Its position in the
// pipeline determines what it measures:
//
//	p := pipex.New(&pipex.HTTPTransport{},
//		metrics.New(prometheus.DefaultRegisterer), // logical requests
//		&retry.Retrier{},
//	)
//
// Installing it below the retry policy instead measures every attempt,
// including the ones retries replay.
package metrics
