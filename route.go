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
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Route is one registered (method, path template) pair with its terminal
// handler and optional route-scoped middleware. Routes are created at
// registration time and immutable afterwards; the route table owns them.
type Route struct {
	Method   string
	Template string

	handler    HandlerFunc
	middleware []HandlerFunc
}

// routeEntry groups every method registered under one path template,
// together with the matcher compiled from it. The capture-group order of
// the compiled pattern matches paramNames exactly.
type routeEntry struct {
	template   string
	pattern    *regexp.Regexp
	paramNames []string
	methods    map[string]*Route
}

// routeTable stores entries in registration order. Resolution scans that
// order and takes the first template whose pattern matches the literal
// path; there is no specificity scoring. Populated during setup and
// read-only while serving.
type routeTable struct {
	entries []*routeEntry
}

// register compiles the template (once per template; later methods reuse the
// entry) and stores the route. Fails with ErrInvalidPathTemplate on a bad
// template and ErrRouteExists when the (method, template) pair is taken.
func (t *routeTable) register(method, template string, handler HandlerFunc, middleware ...HandlerFunc) (*Route, error) {
	if handler == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrNilHandler, method, template)
	}
	for _, mw := range middleware {
		if mw == nil {
			return nil, fmt.Errorf("%w: middleware for %s %s", ErrNilHandler, method, template)
		}
	}

	entry, err := t.entryFor(template)
	if err != nil {
		return nil, err
	}
	if _, taken := entry.methods[method]; taken {
		return nil, fmt.Errorf("%w: %s %s", ErrRouteExists, method, template)
	}

	route := &Route{
		Method:     method,
		Template:   template,
		handler:    handler,
		middleware: middleware,
	}
	entry.methods[method] = route

	return route, nil
}

// entryFor returns the existing entry for template or compiles and appends a
// new one, preserving registration order.
func (t *routeTable) entryFor(template string) (*routeEntry, error) {
	for _, entry := range t.entries {
		if entry.template == template {
			return entry, nil
		}
	}

	pattern, paramNames, err := compileTemplate(template)
	if err != nil {
		return nil, err
	}

	entry := &routeEntry{
		template:   template,
		pattern:    pattern,
		paramNames: paramNames,
		methods:    make(map[string]*Route),
	}
	t.entries = append(t.entries, entry)

	return entry, nil
}

// resolve scans entries in registration order and returns the route for the
// first template whose pattern matches the path. When the path matches a
// template but the method is not registered under it, resolution fails as a
// whole: no fallthrough to later templates, and no distinct
// method-not-allowed outcome.
func (t *routeTable) resolve(method, path string) (*Route, *routeEntry, []string) {
	for _, entry := range t.entries {
		m := entry.pattern.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		route := entry.methods[method]
		if route == nil {
			return nil, nil, nil
		}
		return route, entry, m[1:]
	}
	return nil, nil, nil
}

// compileTemplate turns a path template into an anchored regular expression.
// ":name" segments become single-segment captures, "*" becomes a catch-all
// capture bound to the parameter name "*". Capture order follows parameter
// declaration order.
func compileTemplate(template string) (*regexp.Regexp, []string, error) {
	if template == "" || template[0] != '/' {
		return nil, nil, fmt.Errorf("%w: %q must start with '/'", ErrInvalidPathTemplate, template)
	}

	var (
		b          strings.Builder
		paramNames []string
	)
	b.WriteString("^")

	for _, segment := range strings.Split(template[1:], "/") {
		b.WriteString("/")
		switch {
		case strings.HasPrefix(segment, ":"):
			name := segment[1:]
			if name == "" {
				return nil, nil, fmt.Errorf("%w: %q has an unnamed parameter", ErrInvalidPathTemplate, template)
			}
			if slices.Contains(paramNames, name) {
				return nil, nil, fmt.Errorf("%w: duplicate parameter %q in %q", ErrInvalidPathTemplate, name, template)
			}
			paramNames = append(paramNames, name)
			b.WriteString("([^/]+)")
		case segment == "*":
			if slices.Contains(paramNames, "*") {
				return nil, nil, fmt.Errorf("%w: duplicate parameter %q in %q", ErrInvalidPathTemplate, "*", template)
			}
			paramNames = append(paramNames, "*")
			b.WriteString("(.*)")
		default:
			b.WriteString(regexp.QuoteMeta(segment))
		}
	}
	b.WriteString("$")

	pattern, err := regexp.Compile(b.String())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q: %v", ErrInvalidPathTemplate, template, err)
	}

	return pattern, paramNames, nil
}
