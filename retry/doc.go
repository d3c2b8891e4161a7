// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides the pipeline's retry loop and flexible
// policies for deciding which failed attempts to retry and how long to
// wait before retrying.
//
// The Retrier type is the pipeline policy that drives attempts; the
// Policy interface configures it. A Policy is built with NewPolicy
// from a decision-maker, Decider, and a wait time calculator, Waiter.
// Both have constructors for common use cases, so a useful policy can
// be quickly assembled:
//
//	decider := retry.MaxAttempts(4).
//	               And(retry.Classifier(false).Or(retry.StatusCode(429)))
//	waiter := retry.NewExpWaiter(time.Second, 3, 500*time.Millisecond, time.Now())
//	retrier := &retry.Retrier{Policy: retry.NewPolicy(decider, waiter)}
//
// The Classifier decider implements the standard eligibility rules:
// network-level failures and most 5xx statuses are retryable, 4xx are
// not (except 408, and 404 from a secondary location), 501 and 505 are
// not, and anything unclassified fails open toward retrying.
//
// If the built-in functionality is insufficient, fully custom retry
// policies can be created via custom implementations of Decider,
// Waiter, or Policy.
package retry
