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

package weft

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/wefthttp/weft/binding"
)

// noopLogger discards everything. Used when no logger is configured so that
// logging call sites never need a nil check.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// timeoutSetting distinguishes "not configured" from an explicit zero, which
// for net/http means no timeout.
type timeoutSetting struct {
	value time.Duration
	set   bool
}

type routerConfig struct {
	logger  *slog.Logger
	binding *binding.Registry

	readTimeout     timeoutSetting
	writeTimeout    timeoutSetting
	shutdownTimeout timeoutSetting

	err error
}

// Option configures a Router during [New].
type Option func(*routerConfig)

func defaultRouterConfig() *routerConfig {
	return &routerConfig{
		logger:  noopLogger,
		binding: binding.MustNew(),
	}
}

func (c *routerConfig) validate() error {
	if c.err != nil {
		return c.err
	}
	if c.logger == nil {
		return ErrNilLogger
	}
	if c.binding == nil {
		return ErrNilBinding
	}
	return nil
}

// WithLogger sets the structured logger used for panic reports, internal
// errors, and cleanup failures. Without it the router logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *routerConfig) {
		c.logger = logger
	}
}

// WithBinding replaces the default binding registry used by [Context.Body].
//
// Example:
//
//	r, err := weft.New(weft.WithBinding(binding.MustNew(
//	    binding.WithMaxBodySizeString("1mb"),
//	)))
func WithBinding(reg *binding.Registry) Option {
	return func(c *routerConfig) {
		c.binding = reg
	}
}

// WithReadTimeout bounds how long the server waits for a full request.
func WithReadTimeout(d time.Duration) Option {
	return func(c *routerConfig) {
		if d < 0 {
			c.err = fmt.Errorf("%w: read timeout %v", ErrServerTimeoutInvalid, d)
			return
		}
		c.readTimeout = timeoutSetting{value: d, set: true}
	}
}

// WithWriteTimeout bounds how long the server may take to write a response.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *routerConfig) {
		if d < 0 {
			c.err = fmt.Errorf("%w: write timeout %v", ErrServerTimeoutInvalid, d)
			return
		}
		c.writeTimeout = timeoutSetting{value: d, set: true}
	}
}

// WithShutdownTimeout bounds how long [Router.Shutdown] waits for in-flight
// requests before forcing the server closed.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *routerConfig) {
		if d < 0 {
			c.err = fmt.Errorf("%w: shutdown timeout %v", ErrServerTimeoutInvalid, d)
			return
		}
		c.shutdownTimeout = timeoutSetting{value: d, set: true}
	}
}
