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

// Package basicauth guards routes with HTTP Basic authentication.
package basicauth

import (
	"crypto/subtle"
	"fmt"

	"github.com/wefthttp/weft"
	"github.com/wefthttp/weft/httperror"
)

// ContextKey is the key the authenticated username is stored under.
const ContextKey = "basicauth_user"

// Validator checks a username/password pair. It must be safe for concurrent
// use and should take constant time to reject, which the default
// credential-map validator does.
type Validator func(username, password string) bool

// Option configures the basicauth middleware.
type Option func(*config)

type config struct {
	realm     string
	validator Validator
}

// WithRealm sets the realm announced in the WWW-Authenticate challenge.
func WithRealm(realm string) Option {
	return func(c *config) { c.realm = realm }
}

// WithValidator replaces credential-map lookup with a custom check, e.g.
// against a user store.
func WithValidator(v Validator) Option {
	return func(c *config) { c.validator = v }
}

// New returns middleware that rejects requests lacking valid credentials
// with a 401 carrying a Basic challenge. Credential comparison is constant
// time.
//
// Example:
//
//	admin := r.Group("/admin", basicauth.New(map[string]string{
//	    "ops": os.Getenv("OPS_PASSWORD"),
//	}))
func New(credentials map[string]string, opts ...Option) weft.HandlerFunc {
	cfg := &config{realm: "Restricted"}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.validator == nil {
		cfg.validator = mapValidator(credentials)
	}

	challenge := fmt.Sprintf("Basic realm=%q", cfg.realm)

	return func(c *weft.Context) error {
		username, password, ok := c.Request.BasicAuth()
		if !ok || !cfg.validator(username, password) {
			c.SetHeader("WWW-Authenticate", challenge)
			return httperror.Unauthorized("authentication required")
		}

		c.Set(ContextKey, username)
		return c.Next()
	}
}

// mapValidator compares against a fixed credential map in constant time per
// candidate user, without revealing which of username or password mismatched.
func mapValidator(credentials map[string]string) Validator {
	return func(username, password string) bool {
		expected, ok := credentials[username]
		if !ok {
			// Burn the comparison anyway so unknown users cost the same.
			subtle.ConstantTimeCompare([]byte(password), []byte(password))
			return false
		}
		return subtle.ConstantTimeCompare([]byte(password), []byte(expected)) == 1
	}
}

// User returns the authenticated username, or "" when the middleware did not
// run or rejected the request.
func User(c *weft.Context) string {
	return c.GetString(ContextKey)
}
