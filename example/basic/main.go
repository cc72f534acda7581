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

// A small API server showing routing, middleware, body decoding, and the
// error chain working together.
package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/wefthttp/weft"
	"github.com/wefthttp/weft/binding"
	"github.com/wefthttp/weft/httperror"
	"github.com/wefthttp/weft/middleware/accesslog"
	"github.com/wefthttp/weft/middleware/requestid"
)

type user struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	r := weft.MustNew(
		weft.WithLogger(logger),
		weft.WithBinding(binding.MustNew(
			binding.WithStrictJSON(),
			binding.WithMaxBodySizeString("1mb"),
			binding.FromEnv(),
		)),
	)

	r.Use(requestid.New(requestid.WithULID()))
	r.Use(accesslog.New(accesslog.WithLogger(logger), accesslog.SkipTemplates("/healthz")))

	users := map[string]user{
		"1": {ID: "1", Name: "Ada"},
	}

	r.GET("/healthz", func(c *weft.Context) error {
		return c.NoContent(http.StatusOK)
	})

	r.GET("/users/:id", func(c *weft.Context) error {
		u, ok := users[c.Param("id")]
		if !ok {
			return httperror.NotFound("no user %s", c.Param("id"))
		}
		return c.JSON(http.StatusOK, u)
	})

	r.POST("/users", func(c *weft.Context) error {
		body, err := c.Body()
		if err != nil {
			return err
		}
		doc, ok := body.Value.(map[string]any)
		if !ok {
			return httperror.MalformedBody("expected a JSON object")
		}
		name, _ := doc["name"].(string)
		if name == "" {
			return httperror.Validation("invalid user", []string{"name is required"})
		}

		u := user{ID: requestid.FromContext(c), Name: name}
		users[u.ID] = u
		return c.JSON(http.StatusCreated, u)
	})

	if err := r.Serve(":8080"); err != nil {
		log.Fatal(err)
	}
}
