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
	"github.com/BurntSushi/toml"

	"github.com/wefthttp/weft/httperror"
)

// tomlDecoder decodes application/toml bodies into map[string]any.
// An empty body is a valid, empty TOML document.
type tomlDecoder struct {
	cfg *config
}

func (d *tomlDecoder) Detect(contentType string) bool {
	return mediaType(contentType) == "application/toml"
}

func (d *tomlDecoder) Decode(req *Request) (*Body, error) {
	data, err := readLimited(req.Body, d.cfg.maxBodySize)
	if err != nil {
		return nil, err
	}

	value := map[string]any{}
	if err := toml.Unmarshal(data, &value); err != nil {
		return nil, httperror.Wrap(httperror.KindMalformedBody, err, "invalid TOML body")
	}

	return &Body{Value: value, Raw: data, ContentType: "application/toml"}, nil
}
