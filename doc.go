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

// Package weft is an HTTP request-processing pipeline: a template router
// with path parameters, an ordered middleware chain with explicit
// continuation, content-type driven body decoding, and a centralized error
// chain.
//
// Handlers return errors instead of writing error responses inline. Any
// error that escapes the chain flows through registered error handlers and,
// last, a built-in JSON responder, so every failed request gets exactly one
// well-formed response.
//
//	r := weft.MustNew(weft.WithLogger(slog.Default()))
//
//	r.Use(requestid.New())
//
//	r.GET("/users/:id", func(c *weft.Context) error {
//	    user, err := store.Find(c.Param("id"))
//	    if err != nil {
//	        return httperror.NotFound("no user %s", c.Param("id"))
//	    }
//	    return c.JSON(http.StatusOK, user)
//	})
//
//	if err := r.Serve(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// Routing is first-match-wins over registration order: templates are tried
// in the order they were registered and the first one whose pattern matches
// the path is taken, whether or not the method is registered under it.
//
// Middleware shares a single chain cursor with the terminal handler. Each
// handler calls [Context.Next] at most once to continue the chain; a handler
// that returns without calling Next terminates the request, and whatever it
// wrote (or didn't) stands.
package weft
