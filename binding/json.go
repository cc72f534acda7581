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
	"encoding/json"
	"strings"

	"github.com/wefthttp/weft/httperror"
)

// jsonDecoder decodes application/json bodies (and +json vendor types) into
// map[string]any or whatever top-level value the document holds.
//
// Empty bodies decode to an empty object unless strict mode is enabled, in
// which case an empty body is itself malformed.
type jsonDecoder struct {
	cfg *config
}

func (d *jsonDecoder) Detect(contentType string) bool {
	mt := mediaType(contentType)
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func (d *jsonDecoder) Decode(req *Request) (*Body, error) {
	data, err := readLimited(req.Body, d.cfg.maxBodySize)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		if d.cfg.strictJSON {
			return nil, httperror.MalformedBody("empty JSON body")
		}
		return &Body{Value: map[string]any{}, Raw: data, ContentType: "application/json"}, nil
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, httperror.Wrap(httperror.KindMalformedBody, err, "invalid JSON body")
	}

	return &Body{Value: value, Raw: data, ContentType: "application/json"}, nil
}
