// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"fmt"
	"time"

	"github.com/gogama/pipex"
	"github.com/gogama/pipex/request"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// A Policy instruments every send passing through it with Prometheus
// metrics. Place it outside a retry policy to measure logical
// requests, or inside it to measure individual attempts.
//
// A Policy holds no per-call state and is safe for concurrent use by
// multiple goroutines.
type Policy struct {
	sends     prometheus.Counter
	failures  prometheus.Counter
	responses *prometheus.CounterVec
	latency   prometheus.Histogram
}

// New constructs a Policy registering its collectors with r. Pass
// prometheus.DefaultRegisterer to publish on the default registry. New
// panics if a collector cannot be registered, which happens when two
// policies register with the same registry; share one Policy instead.
func New(r prometheus.Registerer) *Policy {
	f := promauto.With(r)
	return &Policy{
		sends: f.NewCounter(prometheus.CounterOpts{
			Namespace: "pipex",
			Name:      "sends_total",
			Help:      "Sends that passed through the policy.",
		}),
		failures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "pipex",
			Name:      "failures_total",
			Help:      "Sends that ended in an error.",
		}),
		responses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pipex",
			Name:      "responses_total",
			Help:      "Responses received, by status class.",
		}, []string{"class"}),
		latency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pipex",
			Name:      "send_duration_seconds",
			Help:      "Time from entering the policy to the send completing.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Send implements the pipex.Policy interface.
func (p *Policy) Send(e *request.Execution, next pipex.Sender) error {
	p.sends.Inc()
	start := time.Now()
	err := next.Send(e)
	p.latency.Observe(time.Since(start).Seconds())
	if err != nil {
		p.failures.Inc()
		return err
	}
	if s := e.StatusCode(); s > 0 {
		p.responses.WithLabelValues(statusClass(s)).Inc()
	}
	return nil
}

// statusClass buckets a status code into "1xx" through "5xx".
func statusClass(s int) string {
	if s < 100 || s > 599 {
		return "other"
	}
	return fmt.Sprintf("%dxx", s/100)
}
