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
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/wefthttp/weft/binding"
	"github.com/wefthttp/weft/httperror"
)

// HandlerFunc is the signature shared by terminal handlers and middleware. A
// middleware calls [Context.Next] to hand control to the next handler in the
// chain; returning without calling Next terminates the chain without error.
type HandlerFunc func(c *Context) error

// Context carries one request through the middleware chain and into its
// terminal handler. A Context is only valid for the duration of the request
// and must not be retained or used from other goroutines after the handler
// returns.
type Context struct {
	Request *http.Request
	Writer  *ResponseWriter

	router *Router

	handlers []HandlerFunc
	index    int

	// Parallel slices: paramValues[i] is the capture for paramKeys[i].
	paramKeys   []string
	paramValues []string

	routeTemplate string

	body     *binding.Body
	bodyErr  error
	bodyDone bool

	values map[string]any
}

// Set stores a request-scoped value, typically from middleware for handlers
// further down the chain.
func (c *Context) Set(key string, value any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = value
}

// Get returns a request-scoped value stored with [Context.Set].
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// GetString returns a request-scoped string value, or "" when the key is
// absent or holds a non-string.
func (c *Context) GetString(key string) string {
	if v, ok := c.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Next advances the chain cursor by one and invokes that handler, returning
// its error. The cursor is shared across the whole chain, so each handler's
// single Next call resumes where the previous one left off. Calling Next
// after the chain is exhausted is a no-op.
func (c *Context) Next() error {
	c.index++
	if c.index >= len(c.handlers) {
		return nil
	}
	return c.handlers[c.index](c)
}

// Param returns the path parameter captured under name, or "" when the
// matched template declares no such parameter. The catch-all segment is
// available under the name "*".
//
// Example:
//
//	r.GET("/users/:id", func(c *weft.Context) error {
//	    return c.String(http.StatusOK, "user %s", c.Param("id"))
//	})
func (c *Context) Param(name string) string {
	for i, key := range c.paramKeys {
		if key == name {
			return c.paramValues[i]
		}
	}
	return ""
}

// Query returns the first query string value for key, or "".
func (c *Context) Query(key string) string {
	return c.Request.URL.Query().Get(key)
}

// DefaultQuery returns the first query string value for key, or fallback when
// the key is absent.
func (c *Context) DefaultQuery(key, fallback string) string {
	if v := c.Request.URL.Query().Get(key); v != "" {
		return v
	}
	return fallback
}

// RouteTemplate returns the path template of the matched route, e.g.
// "/users/:id", or "" before routing has resolved.
func (c *Context) RouteTemplate() string {
	return c.routeTemplate
}

// Logger returns the router's logger.
func (c *Context) Logger() *slog.Logger {
	return c.router.logger
}

// Body decodes the request body through the router's binding registry and
// memoizes the result: the first call consumes and decodes the body, later
// calls return the same value (or the same error) without touching the
// request again.
func (c *Context) Body() (*binding.Body, error) {
	if c.bodyDone {
		return c.body, c.bodyErr
	}
	c.bodyDone = true

	contentType := c.Request.Header.Get("Content-Type")
	decoder := c.router.binding.Find(contentType)
	if decoder == nil {
		c.bodyErr = httperror.BadRequest("unsupported content type %q", contentType)
		return nil, c.bodyErr
	}

	c.body, c.bodyErr = decoder.Decode(&binding.Request{
		ContentType: contentType,
		Body:        c.Request.Body,
	})
	return c.body, c.bodyErr
}

// SetHeader sets a response header. Headers set after the response has been
// sent are ignored by the underlying connection.
func (c *Context) SetHeader(key, value string) {
	c.Writer.Header().Set(key, value)
}

// JSON sends a JSON response with the given status code. Fails with
// [httperror.KindResponseAlreadySent] when a response was already written for
// this request.
func (c *Context) JSON(status int, v any) error {
	if c.Writer.Written() {
		return httperror.New(httperror.KindResponseAlreadySent, "response already sent")
	}

	data, err := json.Marshal(v)
	if err != nil {
		return httperror.Wrap(httperror.KindInternal, err, "encoding JSON response")
	}

	c.Writer.Header().Set("Content-Type", "application/json")
	c.Writer.WriteHeader(status)
	_, err = c.Writer.Write(data)
	return err
}

// String sends a plain-text response, formatting the message with fmt rules
// when args are given.
func (c *Context) String(status int, format string, args ...any) error {
	if c.Writer.Written() {
		return httperror.New(httperror.KindResponseAlreadySent, "response already sent")
	}

	c.Writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.Writer.WriteHeader(status)
	if len(args) > 0 {
		format = fmt.Sprintf(format, args...)
	}
	_, err := c.Writer.Write([]byte(format))
	return err
}

// Data sends raw bytes with an explicit content type.
func (c *Context) Data(status int, contentType string, data []byte) error {
	if c.Writer.Written() {
		return httperror.New(httperror.KindResponseAlreadySent, "response already sent")
	}

	c.Writer.Header().Set("Content-Type", contentType)
	c.Writer.WriteHeader(status)
	_, err := c.Writer.Write(data)
	return err
}

// NoContent sends a status-only response with an empty body.
func (c *Context) NoContent(status int) error {
	if c.Writer.Written() {
		return httperror.New(httperror.KindResponseAlreadySent, "response already sent")
	}
	c.Writer.WriteHeader(status)
	return nil
}

// Redirect sends an HTTP redirect to location. The status code must be in
// the 3xx range.
func (c *Context) Redirect(status int, location string) error {
	if status < http.StatusMultipleChoices || status > http.StatusPermanentRedirect {
		return fmt.Errorf("%w: %d", ErrInvalidRedirectCode, status)
	}
	if c.Writer.Written() {
		return httperror.New(httperror.KindResponseAlreadySent, "response already sent")
	}
	http.Redirect(c.Writer, c.Request, location, status)
	return nil
}

// reset prepares a pooled Context for a new request.
func (c *Context) reset(w http.ResponseWriter, req *http.Request) {
	c.Request = req
	c.Writer.reset(w)
	c.handlers = c.handlers[:0]
	c.index = -1
	c.paramKeys = nil
	c.paramValues = nil
	c.routeTemplate = ""
	c.body = nil
	c.bodyErr = nil
	c.bodyDone = false
	c.values = nil
}

// ResponseWriter wraps the server's http.ResponseWriter and records whether
// a response has been started, along with its status and size. The written
// flag is what lets the dispatcher distinguish "handler finished without
// responding" from a completed response.
type ResponseWriter struct {
	http.ResponseWriter

	status  int
	size    int
	written bool
}

// WriteHeader sends the status line once; repeated calls are ignored.
func (w *ResponseWriter) WriteHeader(status int) {
	if w.written {
		return
	}
	w.written = true
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Write sends body bytes, implying a 200 status when WriteHeader was not
// called first.
func (w *ResponseWriter) Write(data []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(data)
	w.size += n
	return n, err
}

// Written reports whether the response has been started.
func (w *ResponseWriter) Written() bool { return w.written }

// Status returns the sent status code, or 0 before the response starts.
func (w *ResponseWriter) Status() int { return w.status }

// Size returns the number of body bytes written so far.
func (w *ResponseWriter) Size() int { return w.size }

func (w *ResponseWriter) reset(inner http.ResponseWriter) {
	w.ResponseWriter = inner
	w.status = 0
	w.size = 0
	w.written = false
}
