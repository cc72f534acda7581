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

package requestid_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wefthttp/weft"
	"github.com/wefthttp/weft/middleware/requestid"
)

func serve(t *testing.T, mw weft.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var seen string
	r := weft.MustNew()
	r.Use(mw)
	r.GET("/", func(c *weft.Context) error {
		seen = requestid.FromContext(c)
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec, seen
}

func TestAssignsUUIDv7(t *testing.T) {
	rec, seen := serve(t, requestid.New(), httptest.NewRequest(http.MethodGet, "/", nil))

	header := rec.Header().Get(requestid.DefaultHeader)
	require.NotEmpty(t, header)
	assert.Equal(t, header, seen)

	id, err := uuid.Parse(header)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestULIDGenerator(t *testing.T) {
	rec, _ := serve(t, requestid.New(requestid.WithULID()), httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := ulid.Parse(rec.Header().Get(requestid.DefaultHeader))
	assert.NoError(t, err)
}

func TestClientIDIgnoredByDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestid.DefaultHeader, "client-chosen")

	rec, _ := serve(t, requestid.New(), req)
	assert.NotEqual(t, "client-chosen", rec.Header().Get(requestid.DefaultHeader))
}

func TestAllowClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestid.DefaultHeader, "client-chosen")

	rec, seen := serve(t, requestid.New(requestid.AllowClientID()), req)
	assert.Equal(t, "client-chosen", rec.Header().Get(requestid.DefaultHeader))
	assert.Equal(t, "client-chosen", seen)
}

func TestCustomHeaderAndGenerator(t *testing.T) {
	mw := requestid.New(
		requestid.WithHeaderName("X-Trace-ID"),
		requestid.WithGenerator(func() string { return "fixed" }),
	)

	rec, seen := serve(t, mw, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "fixed", rec.Header().Get("X-Trace-ID"))
	assert.Equal(t, "fixed", seen)
}
