// Copyright 2026 The pipex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pipex

import (
	"log/slog"

	"github.com/gogama/pipex/request"
)

// Logging returns a policy that logs every send passing through it.
//
// Requests are logged at debug level on the way in; responses are
// logged at debug level and errors at warn level on the way out, with
// the attempt number and elapsed execution time attached. Place the
// policy outside a retry policy to log one line per logical request,
// or inside it to log every attempt.
//
// If logger is nil, slog.Default() is used.
func Logging(logger *slog.Logger) Policy {
	return PolicyFunc(func(e *request.Execution, next Sender) error {
		l := logger
		if l == nil {
			l = slog.Default()
		}
		l.Debug("request",
			slog.String("method", e.Request.Method),
			slog.String("url", e.Request.URL.Redacted()),
			slog.Int("attempt", e.Attempt))
		err := next.Send(e)
		if err != nil {
			l.Warn("request failed",
				slog.String("method", e.Request.Method),
				slog.String("url", e.Request.URL.Redacted()),
				slog.Int("attempt", e.Attempt),
				slog.Duration("elapsed", e.Duration()),
				slog.Any("error", err))
			return err
		}
		l.Debug("response",
			slog.Int("status", e.StatusCode()),
			slog.Int("attempt", e.Attempt),
			slog.Duration("elapsed", e.Duration()))
		return nil
	})
}
