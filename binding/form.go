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
	"net/url"

	"github.com/wefthttp/weft/httperror"
)

// formDecoder decodes application/x-www-form-urlencoded bodies into
// url.Values. An empty body yields an empty mapping, never an error.
type formDecoder struct {
	cfg *config
}

func (d *formDecoder) Detect(contentType string) bool {
	return mediaType(contentType) == "application/x-www-form-urlencoded"
}

func (d *formDecoder) Decode(req *Request) (*Body, error) {
	data, err := readLimited(req.Body, d.cfg.maxBodySize)
	if err != nil {
		return nil, err
	}

	values, err := url.ParseQuery(string(data))
	if err != nil {
		return nil, httperror.Wrap(httperror.KindMalformedBody, err, "invalid form body")
	}

	return &Body{Value: values, Raw: data, ContentType: "application/x-www-form-urlencoded"}, nil
}
