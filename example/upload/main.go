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

// A file-upload endpoint showing multipart decoding with staged files.
//
//	curl -F "title=report" -F "doc=@report.pdf" localhost:8080/uploads
package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/wefthttp/weft"
	"github.com/wefthttp/weft/binding"
	"github.com/wefthttp/weft/httperror"
	"github.com/wefthttp/weft/middleware/basicauth"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	r := weft.MustNew(
		weft.WithLogger(logger),
		weft.WithBinding(binding.MustNew(
			binding.WithMaxFileSizeString("32mb"),
			binding.WithMaxParts(10),
			binding.WithKeepExtensions(),
		)),
	)

	uploads := r.Group("/uploads", basicauth.New(map[string]string{
		"uploader": os.Getenv("UPLOAD_PASSWORD"),
	}))

	uploads.POST("", func(c *weft.Context) error {
		body, err := c.Body()
		if err != nil {
			return err
		}
		form, ok := body.Value.(*binding.Form)
		if !ok {
			return httperror.BadRequest("expected multipart/form-data")
		}

		doc := form.File("doc")
		if doc == nil {
			return httperror.Validation("invalid upload", []string{"doc file is required"})
		}

		// Move the staged file out before the request-scoped cleanup runs.
		dest := filepath.Join("data", filepath.Base(doc.Path))
		if err := os.Rename(doc.Path, dest); err != nil {
			return httperror.Wrap(httperror.KindInternal, err, "storing upload")
		}

		return c.JSON(http.StatusCreated, map[string]any{
			"title":    form.Value("title"),
			"filename": doc.Filename,
			"size":     doc.Size,
			"stored":   dest,
		})
	})

	if err := r.Serve(":8080"); err != nil {
		log.Fatal(err)
	}
}
