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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	reg, err := New()
	require.NoError(t, err)

	assert.EqualValues(t, DefaultMaxBodySize, reg.cfg.maxBodySize)
	assert.Equal(t, DefaultMaxParts, reg.cfg.maxParts)
	assert.Equal(t, DefaultMaxFieldNameLength, reg.cfg.maxFieldNameLength)
	assert.EqualValues(t, DefaultMaxFieldSize, reg.cfg.maxFieldSize)
	assert.EqualValues(t, DefaultMaxFileSize, reg.cfg.maxFileSize)
	assert.False(t, reg.cfg.strictJSON)
}

func TestNewRejectsInvalidLimits(t *testing.T) {
	for name, opt := range map[string]Option{
		"body size":  WithMaxBodySize(0),
		"parts":      WithMaxParts(-1),
		"name len":   WithMaxFieldNameLength(0),
		"field size": WithMaxFieldSize(-5),
		"file size":  WithMaxFileSize(0),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(opt)
			assert.ErrorIs(t, err, ErrInvalidLimit)
		})
	}
}

func TestSizeStringOptions(t *testing.T) {
	reg, err := New(
		WithMaxBodySizeString("1mb"),
		WithMaxFileSizeString("512kb"),
		WithMaxFieldSizeString("2kib"),
	)
	require.NoError(t, err)

	assert.EqualValues(t, 1_000_000, reg.cfg.maxBodySize)
	assert.EqualValues(t, 512_000, reg.cfg.maxFileSize)
	assert.EqualValues(t, 2048, reg.cfg.maxFieldSize)
}

func TestSizeStringParseErrorSurfacesFromNew(t *testing.T) {
	_, err := New(WithMaxBodySizeString("a lot"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max body size")
}

func TestMustNewPanicsOnInvalidConfig(t *testing.T) {
	assert.Panics(t, func() {
		MustNew(WithMaxParts(0))
	})
}

func TestFromEnv(t *testing.T) {
	t.Setenv("WEFT_MAX_BODY_SIZE", "2mb")
	t.Setenv("WEFT_MULTIPART_MAX_PARTS", "5")
	t.Setenv("WEFT_MULTIPART_TMP_DIR", "/var/tmp/weft-test")

	reg, err := New(FromEnv())
	require.NoError(t, err)

	assert.EqualValues(t, 2_000_000, reg.cfg.maxBodySize)
	assert.Equal(t, 5, reg.cfg.maxParts)
	assert.Equal(t, "/var/tmp/weft-test", reg.cfg.tempDir)
	// Unset variables keep their defaults.
	assert.EqualValues(t, DefaultMaxFileSize, reg.cfg.maxFileSize)
}

func TestFromEnvParseError(t *testing.T) {
	t.Setenv("WEFT_MAX_BODY_SIZE", "not-a-size")

	_, err := New(FromEnv())
	require.Error(t, err)
}
