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

// Package requestid assigns each request a unique identifier, echoes it in
// the response headers, and stores it on the context for handlers further
// down the chain.
package requestid

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/wefthttp/weft"
)

// ContextKey is the key the request ID is stored under on the context.
const ContextKey = "request_id"

// DefaultHeader is the header the ID is read from and written to.
const DefaultHeader = "X-Request-ID"

// Option configures the requestid middleware.
type Option func(*config)

type config struct {
	headerName string
	generator  func() string

	// allowClientID reuses an ID supplied by the client instead of
	// generating a fresh one.
	allowClientID bool
}

func defaultConfig() *config {
	return &config{
		headerName: DefaultHeader,
		generator:  generateUUIDv7,
	}
}

// generateUUIDv7 generates a UUID v7 string. UUID v7 is time-ordered and
// lexicographically sortable (RFC 9562).
func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ulidEntropy is a shared entropy source for ULID generation with monotonic
// ordering within the same millisecond.
var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// WithHeaderName changes the header carrying the request ID.
func WithHeaderName(name string) Option {
	return func(c *config) { c.headerName = name }
}

// WithGenerator replaces the default UUID v7 generator.
func WithGenerator(g func() string) Option {
	return func(c *config) { c.generator = g }
}

// WithULID generates compact 26-character ULIDs instead of UUIDs.
func WithULID() Option {
	return func(c *config) { c.generator = generateULID }
}

// AllowClientID reuses an ID the client supplied in the request header.
// Only enable behind a proxy that sanitizes the header.
func AllowClientID() Option {
	return func(c *config) { c.allowClientID = true }
}

// New returns middleware that tags every request with an ID.
//
// Example:
//
//	r.Use(requestid.New(requestid.WithULID()))
//
//	r.GET("/work", func(c *weft.Context) error {
//	    c.Logger().Info("working", "request_id", requestid.FromContext(c))
//	    return c.NoContent(http.StatusAccepted)
//	})
func New(opts ...Option) weft.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *weft.Context) error {
		var id string
		if cfg.allowClientID {
			id = c.Request.Header.Get(cfg.headerName)
		}
		if id == "" {
			id = cfg.generator()
		}

		c.Set(ContextKey, id)
		c.SetHeader(cfg.headerName, id)
		return c.Next()
	}
}

// FromContext returns the request ID assigned by the middleware, or "" when
// the middleware did not run.
func FromContext(c *weft.Context) string {
	return c.GetString(ContextKey)
}
