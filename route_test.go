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

package weft

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopHandler(c *Context) error { return nil }

func TestCompileTemplate(t *testing.T) {
	tests := []struct {
		template string
		path     string
		matches  bool
		params   []string
		captures []string
	}{
		{template: "/", path: "/", matches: true},
		{template: "/ping", path: "/ping", matches: true},
		{template: "/ping", path: "/ping/", matches: false},
		{template: "/users/:id", path: "/users/42", matches: true, params: []string{"id"}, captures: []string{"42"}},
		{template: "/users/:id", path: "/users/42/extra", matches: false},
		{template: "/users/:id", path: "/users/", matches: false},
		{template: "/users/:id/posts/:post", path: "/users/7/posts/9", matches: true, params: []string{"id", "post"}, captures: []string{"7", "9"}},
		{template: "/static/*", path: "/static/css/site.css", matches: true, params: []string{"*"}, captures: []string{"css/site.css"}},
		{template: "/static/*", path: "/static/", matches: true, params: []string{"*"}, captures: []string{""}},
		{template: "/a.b/:id", path: "/aXb/1", matches: false},
	}

	for _, tt := range tests {
		t.Run(tt.template+" "+tt.path, func(t *testing.T) {
			pattern, params, err := compileTemplate(tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.params, params)

			m := pattern.FindStringSubmatch(tt.path)
			if !tt.matches {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			assert.Equal(t, tt.captures, m[1:])
		})
	}
}

func TestCompileTemplateRejectsInvalid(t *testing.T) {
	for _, template := range []string{
		"",
		"users/:id",
		"/users/:",
		"/users/:id/friends/:id",
		"/files/*/meta/*",
	} {
		t.Run(template, func(t *testing.T) {
			_, _, err := compileTemplate(template)
			assert.ErrorIs(t, err, ErrInvalidPathTemplate)
		})
	}
}

func TestRegisterRejectsDuplicateRoute(t *testing.T) {
	var table routeTable

	_, err := table.register(http.MethodGet, "/users/:id", noopHandler)
	require.NoError(t, err)

	_, err = table.register(http.MethodGet, "/users/:id", noopHandler)
	assert.ErrorIs(t, err, ErrRouteExists)

	// Same template under a different method shares the entry.
	_, err = table.register(http.MethodDelete, "/users/:id", noopHandler)
	require.NoError(t, err)
	assert.Len(t, table.entries, 1)
}

func TestRegisterRejectsNilHandler(t *testing.T) {
	var table routeTable

	_, err := table.register(http.MethodGet, "/x", nil)
	assert.ErrorIs(t, err, ErrNilHandler)

	_, err = table.register(http.MethodGet, "/x", noopHandler, nil)
	assert.ErrorIs(t, err, ErrNilHandler)
}

func TestResolveFirstMatchWins(t *testing.T) {
	var table routeTable

	first, err := table.register(http.MethodGet, "/users/:id", noopHandler)
	require.NoError(t, err)
	_, err = table.register(http.MethodGet, "/users/me", noopHandler)
	require.NoError(t, err)

	// "/users/me" also matches the earlier ":id" template; registration
	// order decides, not specificity.
	route, entry, captures := table.resolve(http.MethodGet, "/users/me")
	require.NotNil(t, route)
	assert.Same(t, first, route)
	assert.Equal(t, "/users/:id", entry.template)
	assert.Equal(t, []string{"me"}, captures)
}

func TestResolveMethodMissDoesNotFallThrough(t *testing.T) {
	var table routeTable

	_, err := table.register(http.MethodGet, "/things/:id", noopHandler)
	require.NoError(t, err)
	// A later template that would match the path under POST.
	_, err = table.register(http.MethodPost, "/things/special", noopHandler)
	require.NoError(t, err)

	// The path matches the first template, the method does not: resolution
	// fails as a whole instead of trying later templates.
	route, _, _ := table.resolve(http.MethodPost, "/things/special")
	assert.Nil(t, route)
}

func TestResolveNoMatch(t *testing.T) {
	var table routeTable

	_, err := table.register(http.MethodGet, "/ping", noopHandler)
	require.NoError(t, err)

	route, _, _ := table.resolve(http.MethodGet, "/pong")
	assert.Nil(t, route)
}
