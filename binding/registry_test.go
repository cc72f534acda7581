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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// markerDecoder matches a fixed media type and records that it was selected.
type markerDecoder struct {
	accepts string
	marker  string
}

func (d *markerDecoder) Detect(contentType string) bool {
	return mediaType(contentType) == d.accepts
}

func (d *markerDecoder) Decode(req *Request) (*Body, error) {
	return &Body{Value: d.marker, ContentType: d.accepts}, nil
}

func TestFindFirstMatchOverInsertionOrder(t *testing.T) {
	reg := MustNew()

	// Two custom decoders claiming the same type: the one registered first
	// wins, regardless of any notion of specificity.
	a := &markerDecoder{accepts: "application/vnd.example", marker: "a"}
	b := &markerDecoder{accepts: "application/vnd.example", marker: "b"}
	reg.Register(a)
	reg.Register(b)

	d := reg.Find("application/vnd.example")
	require.NotNil(t, d)
	assert.Same(t, a, d)
}

func TestRegisterKeepsFallbackTerminal(t *testing.T) {
	reg := MustNew()
	custom := &markerDecoder{accepts: "application/cbor", marker: "cbor"}
	reg.Register(custom)

	// The fallback accepts everything; a decoder appended after it would be
	// unreachable. Registration inserts before it.
	d := reg.Find("application/cbor")
	require.NotNil(t, d)
	assert.Same(t, custom, d)

	_, isRaw := reg.decoders[len(reg.decoders)-1].(*rawDecoder)
	assert.True(t, isRaw)
}

func TestFindBuiltins(t *testing.T) {
	reg := MustNew()

	tests := []struct {
		contentType string
		decoder     any
	}{
		{"application/json", &jsonDecoder{}},
		{"application/json; charset=utf-8", &jsonDecoder{}},
		{"application/problem+json", &jsonDecoder{}},
		{"application/x-www-form-urlencoded", &formDecoder{}},
		{"multipart/form-data; boundary=xyz", &multipartDecoder{}},
		{"text/plain", &textDecoder{}},
		{"text/csv; header=present", &textDecoder{}},
		{"application/yaml", &yamlDecoder{}},
		{"application/toml", &tomlDecoder{}},
		{"application/msgpack", &msgpackDecoder{}},
		{"application/octet-stream", &rawDecoder{}},
		{"image/png", &rawDecoder{}},
		{"", &rawDecoder{}},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			d := reg.Find(tt.contentType)
			require.NotNil(t, d)
			assert.IsType(t, tt.decoder, d)
		})
	}
}

func TestFindRespectsAllowedTypes(t *testing.T) {
	reg := MustNew(WithAllowedTypes("application/octet-stream"))

	assert.NotNil(t, reg.Find("application/octet-stream"))
	assert.NotNil(t, reg.Find("application/json"))
	assert.Nil(t, reg.Find("image/png"))
}

func TestBodySizeLimitAppliesToEveryDecoder(t *testing.T) {
	reg := MustNew(WithMaxBodySize(8))

	for _, contentType := range []string{"application/json", "text/plain", "image/png"} {
		t.Run(contentType, func(t *testing.T) {
			d := reg.Find(contentType)
			require.NotNil(t, d)

			_, err := d.Decode(&Request{
				ContentType: contentType,
				Body:        strings.NewReader("123456789"),
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "exceeds")
		})
	}
}
