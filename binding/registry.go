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

import "fmt"

// Registry holds an ordered list of decoders and selects the first one whose
// Detect predicate matches a request's declared content type. Selection is
// first-match over insertion order, not best-match: registration order is a
// load-bearing contract.
//
// A Registry is populated during setup and treated as read-only while
// serving. Registering decoders while requests are in flight is not
// supported.
//
// Example:
//
//	reg := binding.MustNew(
//	    binding.WithStrictJSON(),
//	    binding.WithMaxFileSizeString("8mb"),
//	)
//	reg.Register(&cborDecoder{})
type Registry struct {
	cfg      *config
	decoders []Decoder
}

// New creates a Registry with the built-in decoders in their default order:
// JSON, form, multipart, text, YAML, TOML, MessagePack, and finally the
// opaque fallback. Returns an error if the configuration is invalid.
func New(opts ...Option) (*Registry, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Registry{
		cfg: cfg,
		decoders: []Decoder{
			&jsonDecoder{cfg: cfg},
			&formDecoder{cfg: cfg},
			&multipartDecoder{cfg: cfg},
			&textDecoder{cfg: cfg},
			&yamlDecoder{cfg: cfg},
			&tomlDecoder{cfg: cfg},
			&msgpackDecoder{cfg: cfg},
			&rawDecoder{cfg: cfg},
		},
	}, nil
}

// MustNew creates a Registry and panics if configuration is invalid.
// Use in main() or init() where panic on startup is acceptable.
func MustNew(opts ...Option) *Registry {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("binding.MustNew: %v", err))
	}
	return r
}

// Register appends a decoder to the selection order, immediately before the
// opaque fallback when one is present. The fallback accepts every content
// type, so anything placed after it would be unreachable.
func (r *Registry) Register(d Decoder) {
	if n := len(r.decoders); n > 0 {
		if _, ok := r.decoders[n-1].(*rawDecoder); ok {
			last := r.decoders[n-1]
			r.decoders = append(r.decoders[:n-1], d, last)
			return
		}
	}
	r.decoders = append(r.decoders, d)
}

// Find returns the first decoder whose Detect predicate accepts the content
// type, or nil when none does.
func (r *Registry) Find(contentType string) Decoder {
	for _, d := range r.decoders {
		if d.Detect(contentType) {
			return d
		}
	}
	return nil
}
