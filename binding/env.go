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

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors the configurable limits as environment variables. Size
// variables accept human-readable strings ("1mb", "512kib").
type envConfig struct {
	MaxBodySize  string `env:"WEFT_MAX_BODY_SIZE"`
	MaxFieldSize string `env:"WEFT_MULTIPART_MAX_FIELD_SIZE"`
	MaxFileSize  string `env:"WEFT_MULTIPART_MAX_FILE_SIZE"`
	MaxParts     int    `env:"WEFT_MULTIPART_MAX_PARTS"`
	TempDir      string `env:"WEFT_MULTIPART_TMP_DIR"`
}

// FromEnv overrides limits from the process environment. Unset variables
// leave the configured defaults untouched; parse failures surface as an
// error from [New].
//
// Example:
//
//	// WEFT_MAX_BODY_SIZE=1mb WEFT_MULTIPART_TMP_DIR=/var/tmp/uploads
//	reg, err := binding.New(binding.FromEnv())
func FromEnv() Option {
	return func(c *config) {
		var ec envConfig
		if err := env.Parse(&ec); err != nil {
			c.err = errors.Join(c.err, fmt.Errorf("parsing environment: %w", err))
			return
		}

		if ec.MaxBodySize != "" {
			c.maxBodySize = c.parseSize(ec.MaxBodySize, "WEFT_MAX_BODY_SIZE")
		}
		if ec.MaxFieldSize != "" {
			c.maxFieldSize = c.parseSize(ec.MaxFieldSize, "WEFT_MULTIPART_MAX_FIELD_SIZE")
		}
		if ec.MaxFileSize != "" {
			c.maxFileSize = c.parseSize(ec.MaxFileSize, "WEFT_MULTIPART_MAX_FILE_SIZE")
		}
		if ec.MaxParts != 0 {
			c.maxParts = ec.MaxParts
		}
		if ec.TempDir != "" {
			c.tempDir = ec.TempDir
		}
	}
}
