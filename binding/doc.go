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

// Package binding turns raw request bodies into structured values.
//
// A [Registry] holds an ordered list of [Decoder] implementations and picks
// the first one whose Detect predicate matches the request's declared
// content type. First match wins over insertion order; there is no
// best-match scoring, which makes registration order part of the contract.
//
// Built-in decoders cover JSON (with an optional strict mode), URL-encoded
// forms, plain text, YAML, TOML, MessagePack, multipart/form-data, and an
// opaque fallback that accepts anything. The multipart decoder buffers the
// whole body, splits it on the declared boundary with a raw byte search,
// enforces count and size limits, and stages file parts into a per-decode
// temporary directory that is removed on any failure.
//
// All bodies are fully buffered before decoding; limits such as
// WithMaxBodySize bound that buffering. Limits accept plain byte counts or
// human-readable strings:
//
//	reg := binding.MustNew(
//	    binding.WithMaxBodySizeString("1mb"),
//	    binding.WithStrictJSON(),
//	    binding.WithTempDir("/var/tmp/uploads"),
//	)
package binding
