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

package binding

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
)

// Default limits for body buffering and multipart decoding. Each prevents a
// single request from exhausting memory or disk.
const (
	// DefaultMaxBodySize is the maximum buffered body size (10 MiB).
	DefaultMaxBodySize = 10 << 20

	// DefaultMaxParts is the maximum number of multipart fields and files
	// combined.
	DefaultMaxParts = 1000

	// DefaultMaxFieldNameLength is the maximum multipart field-name length
	// in bytes.
	DefaultMaxFieldNameLength = 100

	// DefaultMaxFieldSize is the maximum multipart field-value size (1 MiB).
	DefaultMaxFieldSize = 1 << 20

	// DefaultMaxFileSize is the maximum size of a single multipart file
	// part (8 MiB).
	DefaultMaxFileSize = 8 << 20
)

// noopLogger is a singleton no-op logger used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// ErrInvalidLimit is returned by New when a configured limit is zero or
// negative.
var ErrInvalidLimit = errors.New("binding: limit must be positive")

type config struct {
	maxBodySize        int64
	strictJSON         bool
	maxParts           int
	maxFieldNameLength int
	maxFieldSize       int64
	maxFileSize        int64
	tempDir            string
	keepExtensions     bool
	allowedTypes       []string
	logger             *slog.Logger

	// Deferred option errors (size-string or environment parsing); surfaced
	// by validate so New can report them.
	err error
}

func defaultConfig() *config {
	return &config{
		maxBodySize:        DefaultMaxBodySize,
		maxParts:           DefaultMaxParts,
		maxFieldNameLength: DefaultMaxFieldNameLength,
		maxFieldSize:       DefaultMaxFieldSize,
		maxFileSize:        DefaultMaxFileSize,
		logger:             noopLogger,
	}
}

// validate checks the configuration for errors accumulated by options and
// for nonsensical limits.
func (c *config) validate() error {
	if c.err != nil {
		return c.err
	}
	if c.maxBodySize <= 0 {
		return fmt.Errorf("%w: max body size %d", ErrInvalidLimit, c.maxBodySize)
	}
	if c.maxParts <= 0 {
		return fmt.Errorf("%w: max parts %d", ErrInvalidLimit, c.maxParts)
	}
	if c.maxFieldNameLength <= 0 {
		return fmt.Errorf("%w: max field name length %d", ErrInvalidLimit, c.maxFieldNameLength)
	}
	if c.maxFieldSize <= 0 {
		return fmt.Errorf("%w: max field size %d", ErrInvalidLimit, c.maxFieldSize)
	}
	if c.maxFileSize <= 0 {
		return fmt.Errorf("%w: max file size %d", ErrInvalidLimit, c.maxFileSize)
	}
	if c.logger == nil {
		c.logger = noopLogger
	}
	return nil
}

// Option configures a Registry.
type Option func(*config)

// WithMaxBodySize sets the maximum number of bytes any decoder buffers
// before failing with a payload-too-large error.
func WithMaxBodySize(n int64) Option {
	return func(c *config) { c.maxBodySize = n }
}

// WithMaxBodySizeString sets the maximum buffered body size from a
// human-readable string such as "1mb" or "512kib".
//
// Example:
//
//	reg := binding.MustNew(binding.WithMaxBodySizeString("1mb"))
func WithMaxBodySizeString(s string) Option {
	return func(c *config) { c.maxBodySize = c.parseSize(s, "max body size") }
}

// WithStrictJSON makes the JSON decoder reject empty bodies as malformed
// instead of decoding them to an empty object.
func WithStrictJSON() Option {
	return func(c *config) { c.strictJSON = true }
}

// WithMaxParts sets the maximum number of multipart parts (fields and files
// combined) accepted per decode.
func WithMaxParts(n int) Option {
	return func(c *config) { c.maxParts = n }
}

// WithMaxFieldNameLength sets the maximum multipart field-name length in
// bytes.
func WithMaxFieldNameLength(n int) Option {
	return func(c *config) { c.maxFieldNameLength = n }
}

// WithMaxFieldSize sets the maximum multipart field-value size in bytes.
func WithMaxFieldSize(n int64) Option {
	return func(c *config) { c.maxFieldSize = n }
}

// WithMaxFieldSizeString sets the maximum multipart field-value size from a
// human-readable string such as "256kb".
func WithMaxFieldSizeString(s string) Option {
	return func(c *config) { c.maxFieldSize = c.parseSize(s, "max field size") }
}

// WithMaxFileSize sets the maximum size of a single multipart file part in
// bytes.
func WithMaxFileSize(n int64) Option {
	return func(c *config) { c.maxFileSize = n }
}

// WithMaxFileSizeString sets the maximum multipart file size from a
// human-readable string such as "8mb".
func WithMaxFileSizeString(s string) Option {
	return func(c *config) { c.maxFileSize = c.parseSize(s, "max file size") }
}

// WithTempDir sets the parent directory for per-decode multipart staging
// directories. Defaults to the operating system temp directory.
func WithTempDir(dir string) Option {
	return func(c *config) { c.tempDir = dir }
}

// WithKeepExtensions makes staged multipart files keep the extension of the
// client-declared filename. Off by default: staged names are then pure
// random identifiers.
func WithKeepExtensions() Option {
	return func(c *config) { c.keepExtensions = true }
}

// WithAllowedTypes restricts the opaque fallback decoder to the given media
// types. Without this option the fallback accepts every content type.
//
// Example:
//
//	reg := binding.MustNew(binding.WithAllowedTypes("application/octet-stream", "image/png"))
func WithAllowedTypes(types ...string) Option {
	return func(c *config) { c.allowedTypes = types }
}

// WithLogger sets the logger used for non-fatal decoder events, such as
// multipart cleanup failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// parseSize parses a human-readable byte size, deferring errors to validate.
func (c *config) parseSize(s, what string) int64 {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		c.err = errors.Join(c.err, fmt.Errorf("parsing %s %q: %w", what, s, err))
		return 0
	}
	return int64(n)
}
