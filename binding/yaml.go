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
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wefthttp/weft/httperror"
)

// yamlDecoder decodes application/yaml, application/x-yaml, text/yaml and
// +yaml vendor types. Empty bodies decode to an empty mapping, mirroring the
// JSON decoder's non-strict behavior.
type yamlDecoder struct {
	cfg *config
}

func (d *yamlDecoder) Detect(contentType string) bool {
	switch mt := mediaType(contentType); {
	case mt == "application/yaml", mt == "application/x-yaml", mt == "text/yaml":
		return true
	default:
		return strings.HasSuffix(mediaType(contentType), "+yaml")
	}
}

func (d *yamlDecoder) Decode(req *Request) (*Body, error) {
	data, err := readLimited(req.Body, d.cfg.maxBodySize)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return &Body{Value: map[string]any{}, Raw: data, ContentType: "application/yaml"}, nil
	}

	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, httperror.Wrap(httperror.KindMalformedBody, err, "invalid YAML body")
	}

	return &Body{Value: value, Raw: data, ContentType: "application/yaml"}, nil
}
