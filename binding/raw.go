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

// rawDecoder is the opaque-binary fallback. It accepts every content type
// unless restricted to an allow-list, and yields the buffered bytes as-is.
// The registry keeps it terminal in the selection order.
type rawDecoder struct {
	cfg *config
}

func (d *rawDecoder) Detect(contentType string) bool {
	if len(d.cfg.allowedTypes) == 0 {
		return true
	}

	mt := mediaType(contentType)
	for _, allowed := range d.cfg.allowedTypes {
		if mt == mediaType(allowed) {
			return true
		}
	}
	return false
}

func (d *rawDecoder) Decode(req *Request) (*Body, error) {
	data, err := readLimited(req.Body, d.cfg.maxBodySize)
	if err != nil {
		return nil, err
	}

	resolved := mediaType(req.ContentType)
	if resolved == "" {
		resolved = "application/octet-stream"
	}

	return &Body{Value: data, Raw: data, ContentType: resolved}, nil
}
