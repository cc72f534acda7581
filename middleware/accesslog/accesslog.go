// Copyright 2025 The Weft Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package accesslog logs one structured line per request with method, path,
// matched template, status, response size, and duration.
package accesslog

import (
	"log/slog"
	"time"

	"github.com/wefthttp/weft"
	"github.com/wefthttp/weft/middleware/requestid"
)

// Option configures the accesslog middleware.
type Option func(*config)

type config struct {
	logger *slog.Logger

	// skip maps path templates that should not be logged, e.g. health checks.
	skip map[string]struct{}
}

// WithLogger sets the destination logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// SkipTemplates suppresses logging for requests matching the given path
// templates.
//
// Example:
//
//	r.Use(accesslog.New(accesslog.SkipTemplates("/healthz")))
func SkipTemplates(templates ...string) Option {
	return func(c *config) {
		for _, t := range templates {
			c.skip[t] = struct{}{}
		}
	}
}

// New returns the access-logging middleware. The line is emitted after the
// rest of the chain completes, so it carries the final status and size; an
// error returned from downstream is logged and passed through unchanged.
func New(opts ...Option) weft.HandlerFunc {
	cfg := &config{
		logger: slog.Default(),
		skip:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *weft.Context) error {
		start := time.Now()
		err := c.Next()

		if _, skip := cfg.skip[c.RouteTemplate()]; skip {
			return err
		}

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"template", c.RouteTemplate(),
			"status", c.Writer.Status(),
			"size", c.Writer.Size(),
			"duration", time.Since(start),
		}
		if id := requestid.FromContext(c); id != "" {
			attrs = append(attrs, "request_id", id)
		}
		if err != nil {
			attrs = append(attrs, "error", err)
			cfg.logger.Error("request", attrs...)
			return err
		}

		cfg.logger.Info("request", attrs...)
		return nil
	}
}
