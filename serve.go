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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/wefthttp/weft/httperror"
)

// ServeHTTP implements http.Handler. It runs the global middleware chain
// with route dispatch as its final link, recovers panics into internal
// errors, and routes any escaped error through the error chain. A request
// that completes without a response and without an error is itself an error.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	c := r.pool.Get().(*Context)
	c.reset(w, req)
	defer r.pool.Put(c)

	c.handlers = append(c.handlers, r.middleware...)
	c.handlers = append(c.handlers, r.dispatch)

	err := r.run(c)
	if err == nil && !c.Writer.Written() {
		err = httperror.New(httperror.KindNoResponseSent, "handler completed without sending a response")
	}
	if err != nil {
		r.handleError(c, err)
	}

	if body := c.body; body != nil {
		if cerr := body.Cleanup(); cerr != nil {
			r.logger.Error("request body cleanup failed", "error", cerr)
		}
	}
}

// run starts the chain and converts panics into internal errors so that a
// panicking handler degrades to a 500 instead of killing the connection.
func (r *Router) run(c *Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("handler panicked",
				"panic", rec,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
			err = httperror.New(httperror.KindInternal, "internal server error")
		}
	}()
	return c.Next()
}

// dispatch is the final link of the global chain: it resolves the route,
// binds path parameters, and extends the chain with the route's middleware
// and terminal handler.
func (r *Router) dispatch(c *Context) error {
	route, entry, captures := r.table.resolve(c.Request.Method, c.Request.URL.Path)
	if route == nil {
		if r.noRoute != nil {
			return r.noRoute(c)
		}
		return httperror.NotFound("no route for %s %s", c.Request.Method, c.Request.URL.Path)
	}

	c.routeTemplate = entry.template
	c.paramKeys = entry.paramNames
	c.paramValues = captures

	c.handlers = append(c.handlers, route.middleware...)
	c.handlers = append(c.handlers, route.handler)

	return c.Next()
}

// handleError runs the error chain in registration order. A handler that
// sends a response ends the chain; a handler that returns a non-nil error
// replaces the error seen by the rest of the chain; a panicking handler is
// contained and skipped. The built-in responder runs last and always sends.
//
// A response that is already out is never mutated: an error returned after
// writing is logged and dropped, because appending an error body to a
// started response would corrupt the wire output.
func (r *Router) handleError(c *Context, err error) {
	if c.Writer.Written() {
		r.logger.Error("error after response sent",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		return
	}

	for _, handler := range r.errorHandlers {
		if replaced := r.runErrorHandler(c, handler, err); replaced != nil {
			err = replaced
		}
		if c.Writer.Written() {
			return
		}
	}
	r.defaultErrorHandler(c, err)
}

func (r *Router) runErrorHandler(c *Context, handler ErrorHandlerFunc, err error) (replaced error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("error handler panicked", "panic", rec, "error", err)
			replaced = nil
		}
	}()
	return handler(c, err)
}

// defaultErrorHandler sends the canonical JSON error shape. It never reveals
// the message of an unclassified error; httperror.From substitutes a generic
// one for those.
func (r *Router) defaultErrorHandler(c *Context, err error) {
	if c.Writer.Written() {
		return
	}

	herr := httperror.From(err)
	if herr.Kind == httperror.KindInternal {
		r.logger.Error("request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
	}

	resp := httperror.Format(herr)
	data, merr := json.Marshal(resp.Body)
	if merr != nil {
		data = []byte(`{"error":{"message":"internal server error","statusCode":500}}`)
		resp.Status = http.StatusInternalServerError
	}

	c.Writer.Header().Set("Content-Type", resp.ContentType)
	c.Writer.WriteHeader(resp.Status)
	if _, werr := c.Writer.Write(data); werr != nil {
		r.logger.Error("writing error response failed", "error", werr)
	}
}

// Serve listens on addr and serves until [Router.Shutdown] or a listener
// error. Configured read/write timeouts are applied to the server.
func (r *Router) Serve(addr string) error {
	srv := r.newServer(addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ServeTLS is like [Router.Serve] with TLS enabled using the given
// certificate and key files.
func (r *Router) ServeTLS(addr, certFile, keyFile string) error {
	srv := r.newServer(addr)
	err := srv.ListenAndServeTLS(certFile, keyFile)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server started by Serve, waiting up to the
// configured shutdown timeout for in-flight requests. A no-op when the
// router is not serving.
func (r *Router) Shutdown(ctx context.Context) error {
	r.serverMu.Lock()
	srv := r.server
	r.server = nil
	r.serverMu.Unlock()
	if srv == nil {
		return nil
	}

	if r.shutdownTimeout.set {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.shutdownTimeout.value)
		defer cancel()
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

func (r *Router) newServer(addr string) *http.Server {
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}
	if r.readTimeout.set {
		srv.ReadTimeout = r.readTimeout.value
	}
	if r.writeTimeout.set {
		srv.WriteTimeout = r.writeTimeout.value
	}

	r.serverMu.Lock()
	r.server = srv
	r.serverMu.Unlock()
	return srv
}
