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
	"github.com/vmihailenco/msgpack/v5"

	"github.com/wefthttp/weft/httperror"
)

// msgpackDecoder decodes application/msgpack and application/x-msgpack
// bodies. MessagePack has no empty document, so an empty body is malformed.
type msgpackDecoder struct {
	cfg *config
}

func (d *msgpackDecoder) Detect(contentType string) bool {
	mt := mediaType(contentType)
	return mt == "application/msgpack" || mt == "application/x-msgpack"
}

func (d *msgpackDecoder) Decode(req *Request) (*Body, error) {
	data, err := readLimited(req.Body, d.cfg.maxBodySize)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, httperror.MalformedBody("empty MessagePack body")
	}

	var value any
	if err := msgpack.Unmarshal(data, &value); err != nil {
		return nil, httperror.Wrap(httperror.KindMalformedBody, err, "invalid MessagePack body")
	}

	return &Body{Value: value, Raw: data, ContentType: "application/msgpack"}, nil
}
