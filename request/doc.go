// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package request provides the value types threaded through a pipex
// pipeline: the logical Request, the per-call mutable Execution, and
// the transport-agnostic Response.
//
// A Request describes what to send. An Execution is created fresh for
// every pipeline run, carries all per-call mutable state (attempt
// count, location mode, saved body stream position, last response or
// error), and is returned as the result of the run. Policies are
// shared across concurrent runs, so any state they need per call must
// live on the Execution.
package request
