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

import "strings"

// textDecoder decodes text/* bodies into a plain string. An empty body
// yields an empty string, never an error.
type textDecoder struct {
	cfg *config
}

func (d *textDecoder) Detect(contentType string) bool {
	return strings.HasPrefix(mediaType(contentType), "text/")
}

func (d *textDecoder) Decode(req *Request) (*Body, error) {
	data, err := readLimited(req.Body, d.cfg.maxBodySize)
	if err != nil {
		return nil, err
	}

	return &Body{Value: string(data), Raw: data, ContentType: mediaType(req.ContentType)}, nil
}
