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

import "errors"

var (
	// ErrInvalidPathTemplate indicates that a path template could not be
	// compiled, e.g. because a parameter name is duplicated.
	ErrInvalidPathTemplate = errors.New("invalid path template")

	// ErrRouteExists indicates that a handler is already registered for the
	// method and path template.
	ErrRouteExists = errors.New("route already registered")

	// ErrNilHandler indicates that a nil handler or middleware was passed at
	// registration time.
	ErrNilHandler = errors.New("nil handler")

	// ErrInvalidRedirectCode indicates that a redirect was attempted with a
	// status code outside the 3xx range.
	ErrInvalidRedirectCode = errors.New("invalid redirect status code")

	// ErrServerTimeoutInvalid indicates that a server timeout value is negative.
	ErrServerTimeoutInvalid = errors.New("server timeout must not be negative")

	// ErrNilLogger indicates that WithLogger was given a nil logger.
	ErrNilLogger = errors.New("logger must not be nil")

	// ErrNilBinding indicates that WithBinding was given a nil registry.
	ErrNilBinding = errors.New("binding registry must not be nil")
)
