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

package httperror

// Body is the wire shape of the default error response:
//
//	{"error": {"message": "...", "statusCode": 404, "details": ...}}
//
// Details is omitted when the error carries none.
type Body struct {
	Error Payload `json:"error"`
}

// Payload is the inner object of the default error response body.
type Payload struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Details    any    `json:"details,omitempty"`
}

// Response pairs the serializable body with the status code and content type
// the dispatcher should use when sending it.
type Response struct {
	Status      int
	ContentType string
	Body        Body
}

// Format converts any error into the default error response. Non-pipeline
// errors are coerced via [From] first, so the result is always sendable.
func Format(err error) Response {
	herr := From(err)

	return Response{
		Status:      herr.HTTPStatus(),
		ContentType: "application/json; charset=utf-8",
		Body: Body{
			Error: Payload{
				Message:    herr.Message,
				StatusCode: herr.HTTPStatus(),
				Details:    herr.Details,
			},
		},
	}
}
