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

// Package httperror defines the error taxonomy shared by the weft pipeline.
//
// Failures are represented as a single tagged value, [Error], rather than a
// type hierarchy: a [Kind] fixes the HTTP status code, the message is safe to
// show clients, and an optional Details payload carries structured context
// (used by [Validation]). Underlying causes attached via [Wrap] participate
// in errors.Is/As chains but are never serialized.
//
// Handlers and decoders return these errors; the dispatcher's error chain
// turns them into responses using [Format], which produces the default shape:
//
//	{"error": {"message": "no route for GET /nope", "statusCode": 404}}
package httperror
