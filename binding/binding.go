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
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/wefthttp/weft/httperror"
)

// Request is the decoder-facing view of an HTTP request: the raw Content-Type
// header (parameters included, e.g. the multipart boundary) and the body
// stream. The connection layer supplies both; decoders never see header-line
// framing.
type Request struct {
	ContentType string
	Body        io.Reader
}

// Body is the result of a successful decode.
type Body struct {
	// Value is the decoded representation; its concrete type depends on the
	// decoder: map[string]any (JSON/YAML/TOML/MsgPack), url.Values (form),
	// string (text), []byte (raw), *Form (multipart).
	Value any

	// Raw is the fully buffered body the value was decoded from.
	Raw []byte

	// ContentType is the resolved media type without parameters.
	ContentType string

	cleanup func() error
}

// Cleanup releases side-channel resources held by the decoded body, such as
// multipart staging directories. It is a no-op for decoders that hold none.
// Callers that accept staged files are responsible for invoking it (or moving
// the files) once done; nothing is released by finalizers.
func (b *Body) Cleanup() error {
	if b == nil || b.cleanup == nil {
		return nil
	}
	return b.cleanup()
}

// Decoder converts a raw byte body into a structured value for one or more
// content types.
//
// Detect is a predicate over the declared content type; Decode buffers and
// parses the body. Decode failures use the httperror taxonomy:
// KindPayloadTooLarge when buffering exceeds the configured limit,
// KindMalformedBody for syntax errors, KindBadRequest for structural
// violations (multipart limits, missing boundary).
type Decoder interface {
	Detect(contentType string) bool
	Decode(req *Request) (*Body, error)
}

// mediaType extracts the lowercased media type from a Content-Type header
// value, dropping parameters.
func mediaType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// readLimited buffers the entire body, failing with KindPayloadTooLarge once
// the accumulated byte count exceeds limit. Bodies are always fully buffered
// before parsing; there is no streaming decode path.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if r == nil {
		return nil, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, httperror.Wrap(httperror.KindBadRequest, err, "reading request body")
	}
	if int64(len(data)) > limit {
		return nil, httperror.PayloadTooLarge("request body exceeds %s", humanize.Bytes(uint64(limit)))
	}

	return data, nil
}
