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

package accesslog_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wefthttp/weft"
	"github.com/wefthttp/weft/httperror"
	"github.com/wefthttp/weft/middleware/accesslog"
)

func capture(r *weft.Router, method, path string) string {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return path
}

func TestLogsCompletedRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := weft.MustNew()
	r.Use(accesslog.New(accesslog.WithLogger(logger)))
	r.GET("/users/:id", func(c *weft.Context) error {
		return c.String(http.StatusOK, "u")
	})

	capture(r, http.MethodGet, "/users/7")

	line := buf.String()
	assert.Contains(t, line, "level=INFO")
	assert.Contains(t, line, "method=GET")
	assert.Contains(t, line, "path=/users/7")
	assert.Contains(t, line, "template=/users/:id")
	assert.Contains(t, line, "status=200")
	assert.Contains(t, line, "size=1")
}

func TestLogsFailedRequestAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := weft.MustNew()
	r.Use(accesslog.New(accesslog.WithLogger(logger)))
	r.GET("/fail", func(c *weft.Context) error {
		return httperror.BadRequest("nope")
	})

	capture(r, http.MethodGet, "/fail")

	line := buf.String()
	assert.Contains(t, line, "level=ERROR")
	assert.Contains(t, line, "nope")
}

func TestSkipTemplates(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := weft.MustNew()
	r.Use(accesslog.New(accesslog.WithLogger(logger), accesslog.SkipTemplates("/healthz")))
	r.GET("/healthz", func(c *weft.Context) error { return c.NoContent(http.StatusOK) })
	r.GET("/work", func(c *weft.Context) error { return c.NoContent(http.StatusOK) })

	capture(r, http.MethodGet, "/healthz")
	assert.Empty(t, buf.String())

	capture(r, http.MethodGet, "/work")
	assert.Contains(t, buf.String(), "path=/work")
}
