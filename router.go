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
	"log/slog"
	"net/http"
	"sync"

	"github.com/wefthttp/weft/binding"
)

// ErrorHandlerFunc inspects an error that escaped the handler chain. It may
// send a response; the dispatcher stops the error chain as soon as one
// handler has written. Returning a non-nil error replaces the error passed
// to subsequent handlers in the chain.
type ErrorHandlerFunc func(c *Context, err error) error

// Router matches incoming requests against registered path templates, runs
// the middleware chain, and funnels escaped errors through the error chain.
// Registration is not safe for concurrent use with serving: register
// everything first, then serve.
type Router struct {
	table         routeTable
	middleware    []HandlerFunc
	errorHandlers []ErrorHandlerFunc
	noRoute       HandlerFunc

	binding *binding.Registry
	logger  *slog.Logger

	pool sync.Pool

	server   *http.Server
	serverMu sync.Mutex

	readTimeout     timeoutSetting
	writeTimeout    timeoutSetting
	shutdownTimeout timeoutSetting
}

// New creates a Router. Options configure logging, the binding registry, and
// server timeouts; an invalid option fails construction.
//
// Example:
//
//	r, err := weft.New(
//	    weft.WithLogger(slog.Default()),
//	    weft.WithBinding(binding.MustNew(binding.WithStrictJSON())),
//	)
func New(opts ...Option) (*Router, error) {
	cfg := defaultRouterConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	r := &Router{
		binding:         cfg.binding,
		logger:          cfg.logger,
		readTimeout:     cfg.readTimeout,
		writeTimeout:    cfg.writeTimeout,
		shutdownTimeout: cfg.shutdownTimeout,
	}
	r.pool.New = func() any {
		return &Context{Writer: &ResponseWriter{}, router: r}
	}
	return r, nil
}

// MustNew is like [New] but panics on error. Intended for program setup where
// a configuration mistake should stop the process.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("weft: %v", err))
	}
	return r
}

// Use appends middleware to the global chain. Global middleware runs before
// route-scoped middleware for every matched request, in registration order.
// Panics on a nil handler.
func (r *Router) Use(middleware ...HandlerFunc) {
	for _, mw := range middleware {
		if mw == nil {
			panic(fmt.Sprintf("weft: %v", ErrNilHandler))
		}
	}
	r.middleware = append(r.middleware, middleware...)
}

// Handle registers handler for the method and path template. The last
// handler is the terminal one; any preceding handlers are route-scoped
// middleware. Fails with ErrRouteExists when the pair is already taken and
// ErrInvalidPathTemplate when the template cannot be compiled.
func (r *Router) Handle(method, template string, handlers ...HandlerFunc) (*Route, error) {
	if len(handlers) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrNilHandler, method, template)
	}
	terminal := handlers[len(handlers)-1]
	middleware := handlers[:len(handlers)-1]
	return r.table.register(method, template, terminal, middleware...)
}

// GET registers handlers for GET requests. Panics on registration failure;
// use [Router.Handle] to handle the error instead.
func (r *Router) GET(template string, handlers ...HandlerFunc) *Route {
	return r.mustHandle(http.MethodGet, template, handlers...)
}

// POST registers handlers for POST requests.
func (r *Router) POST(template string, handlers ...HandlerFunc) *Route {
	return r.mustHandle(http.MethodPost, template, handlers...)
}

// PUT registers handlers for PUT requests.
func (r *Router) PUT(template string, handlers ...HandlerFunc) *Route {
	return r.mustHandle(http.MethodPut, template, handlers...)
}

// PATCH registers handlers for PATCH requests.
func (r *Router) PATCH(template string, handlers ...HandlerFunc) *Route {
	return r.mustHandle(http.MethodPatch, template, handlers...)
}

// DELETE registers handlers for DELETE requests.
func (r *Router) DELETE(template string, handlers ...HandlerFunc) *Route {
	return r.mustHandle(http.MethodDelete, template, handlers...)
}

// HEAD registers handlers for HEAD requests.
func (r *Router) HEAD(template string, handlers ...HandlerFunc) *Route {
	return r.mustHandle(http.MethodHead, template, handlers...)
}

// OPTIONS registers handlers for OPTIONS requests.
func (r *Router) OPTIONS(template string, handlers ...HandlerFunc) *Route {
	return r.mustHandle(http.MethodOptions, template, handlers...)
}

func (r *Router) mustHandle(method, template string, handlers ...HandlerFunc) *Route {
	route, err := r.Handle(method, template, handlers...)
	if err != nil {
		panic(fmt.Sprintf("weft: %v", err))
	}
	return route
}

// OnError appends a handler to the error chain. Handlers run in registration
// order; the built-in JSON error responder always runs last and cannot be
// removed, so every escaped error produces a response even when no custom
// handler sends one. Errors returned after a response has already been sent
// skip the chain entirely and are only logged.
func (r *Router) OnError(handlers ...ErrorHandlerFunc) {
	r.errorHandlers = append(r.errorHandlers, handlers...)
}

// NoRoute replaces the default not-found behavior for requests that match no
// route. The handler runs after global middleware; returning an error sends
// it through the error chain like any other.
func (r *Router) NoRoute(handler HandlerFunc) {
	r.noRoute = handler
}

// Group returns a registration view that prefixes every template with prefix
// and prepends the given middleware to each route registered through it.
//
// Example:
//
//	api := r.Group("/api/v1", authMiddleware)
//	api.GET("/users/:id", getUser)   // serves GET /api/v1/users/:id
func (r *Router) Group(prefix string, middleware ...HandlerFunc) *Group {
	return &Group{router: r, prefix: prefix, middleware: middleware}
}

// Group registers routes under a shared path prefix with shared route-scoped
// middleware. Groups nest: a child group concatenates prefixes and appends
// middleware after the parent's.
type Group struct {
	router     *Router
	prefix     string
	middleware []HandlerFunc
}

// Group returns a child group under this group's prefix.
func (g *Group) Group(prefix string, middleware ...HandlerFunc) *Group {
	return &Group{
		router:     g.router,
		prefix:     g.prefix + prefix,
		middleware: append(append([]HandlerFunc{}, g.middleware...), middleware...),
	}
}

// Handle registers handler under the group's prefix.
func (g *Group) Handle(method, template string, handlers ...HandlerFunc) (*Route, error) {
	return g.router.Handle(method, g.prefix+template, g.combine(handlers)...)
}

// GET registers handlers for GET requests under the group's prefix.
func (g *Group) GET(template string, handlers ...HandlerFunc) *Route {
	return g.router.mustHandle(http.MethodGet, g.prefix+template, g.combine(handlers)...)
}

// POST registers handlers for POST requests under the group's prefix.
func (g *Group) POST(template string, handlers ...HandlerFunc) *Route {
	return g.router.mustHandle(http.MethodPost, g.prefix+template, g.combine(handlers)...)
}

// PUT registers handlers for PUT requests under the group's prefix.
func (g *Group) PUT(template string, handlers ...HandlerFunc) *Route {
	return g.router.mustHandle(http.MethodPut, g.prefix+template, g.combine(handlers)...)
}

// PATCH registers handlers for PATCH requests under the group's prefix.
func (g *Group) PATCH(template string, handlers ...HandlerFunc) *Route {
	return g.router.mustHandle(http.MethodPatch, g.prefix+template, g.combine(handlers)...)
}

// DELETE registers handlers for DELETE requests under the group's prefix.
func (g *Group) DELETE(template string, handlers ...HandlerFunc) *Route {
	return g.router.mustHandle(http.MethodDelete, g.prefix+template, g.combine(handlers)...)
}

func (g *Group) combine(handlers []HandlerFunc) []HandlerFunc {
	if len(g.middleware) == 0 {
		return handlers
	}
	return append(append([]HandlerFunc{}, g.middleware...), handlers...)
}
