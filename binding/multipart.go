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

package binding

import (
	"bytes"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wefthttp/weft/httperror"
)

// Field is one textual multipart form field.
type Field struct {
	Name  string
	Value string
}

// StagedFile describes one accepted file part, written to temporary storage
// during decode. The application owns the staged file: move it or call
// [Form.Cleanup] when done.
type StagedFile struct {
	FieldName   string // form field the file was posted under
	Filename    string // client-declared original filename
	ContentType string // declared media type of the part, if any
	Encoding    string // declared Content-Transfer-Encoding, if any
	Size        int64  // payload size in bytes
	Path        string // location in the per-decode staging directory
}

// Form is the decoded representation of a multipart/form-data body.
type Form struct {
	Fields []Field
	Files  []*StagedFile

	dir string // per-decode staging directory; "" until a file is accepted
}

// Value returns the first field value for name, or "".
func (f *Form) Value(name string) string {
	for _, field := range f.Fields {
		if field.Name == name {
			return field.Value
		}
	}
	return ""
}

// Values returns all field values for name in order of appearance.
func (f *Form) Values(name string) []string {
	var values []string
	for _, field := range f.Fields {
		if field.Name == name {
			values = append(values, field.Value)
		}
	}
	return values
}

// File returns the first staged file posted under the field name, or nil.
func (f *Form) File(name string) *StagedFile {
	for _, file := range f.Files {
		if file.FieldName == name {
			return file
		}
	}
	return nil
}

// Cleanup removes the staging directory and every file in it. Safe to call
// more than once and when no files were staged.
func (f *Form) Cleanup() error {
	if f.dir == "" {
		return nil
	}
	dir := f.dir
	f.dir = ""
	f.Files = nil
	return os.RemoveAll(dir)
}

// multipartDecoder decodes multipart/form-data bodies.
//
// The body is fully buffered, then split on the boundary token with a raw
// byte-substring search. That search is not content-aware: payload bytes
// that happen to contain the boundary sequence corrupt parsing. The wire
// format offers no escaping mechanism, so this is a property of the format
// itself and is deliberately kept.
//
// The decode is all-or-nothing: any limit violation or framing error aborts
// the whole decode, removes every staged file, and returns the error.
type multipartDecoder struct {
	cfg *config
}

func (d *multipartDecoder) Detect(contentType string) bool {
	return mediaType(contentType) == "multipart/form-data"
}

func (d *multipartDecoder) Decode(req *Request) (*Body, error) {
	_, params, err := mime.ParseMediaType(req.ContentType)
	if err != nil {
		return nil, httperror.Wrap(httperror.KindBadRequest, err, "invalid multipart content type")
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, httperror.BadRequest("multipart content type is missing the boundary parameter")
	}

	data, err := readLimited(req.Body, d.cfg.maxBodySize)
	if err != nil {
		return nil, err
	}

	form := &Form{}
	if err := d.parse(data, boundary, form); err != nil {
		if cerr := form.Cleanup(); cerr != nil {
			d.cfg.logger.Error("multipart cleanup failed", "error", cerr)
		}
		return nil, err
	}

	return &Body{
		Value:       form,
		Raw:         data,
		ContentType: "multipart/form-data",
		cleanup:     form.Cleanup,
	}, nil
}

// parse scans data for parts delimited by "--"+boundary and accepts each one
// into form. Limits are enforced in a fixed order: part count, field-name
// length, field-value size, file size.
func (d *multipartDecoder) parse(data []byte, boundary string, form *Form) error {
	delim := append([]byte("--"), boundary...)

	pos := bytes.Index(data, delim)
	if pos < 0 {
		return httperror.BadRequest("multipart body: opening boundary not found")
	}
	pos += len(delim)

	parts := 0
	for {
		rest := data[pos:]

		// A boundary immediately followed by "--" closes the body.
		if bytes.HasPrefix(rest, []byte("--")) {
			return nil
		}

		switch {
		case bytes.HasPrefix(rest, []byte("\r\n")):
			pos += 2
		case bytes.HasPrefix(rest, []byte("\n")):
			pos++
		default:
			return httperror.BadRequest("multipart body: malformed boundary line")
		}

		headers, payloadStart, err := parsePartHeaders(data, pos)
		if err != nil {
			return err
		}

		end := bytes.Index(data[payloadStart:], append([]byte("\r\n"), delim...))
		if end < 0 {
			return httperror.BadRequest("multipart body: closing boundary not found")
		}
		payload := data[payloadStart : payloadStart+end]
		pos = payloadStart + end + 2 + len(delim)

		parts++
		if parts > d.cfg.maxParts {
			return httperror.BadRequest("multipart body: more than %d parts", d.cfg.maxParts)
		}

		if err := d.acceptPart(form, headers, payload); err != nil {
			return err
		}
	}
}

// parsePartHeaders parses the colon-delimited header block starting at pos,
// terminated by an empty line. Keys are case-insensitive and returned
// lowercased. Returns the headers and the offset of the payload.
func parsePartHeaders(data []byte, pos int) (map[string]string, int, error) {
	end := bytes.Index(data[pos:], []byte("\r\n\r\n"))
	if end < 0 {
		return nil, 0, httperror.BadRequest("multipart body: part headers not terminated")
	}

	headers := make(map[string]string)
	for _, line := range bytes.Split(data[pos:pos+end], []byte("\r\n")) {
		if len(line) == 0 {
			continue
		}
		key, value, ok := bytes.Cut(line, []byte(":"))
		if !ok {
			return nil, 0, httperror.BadRequest("multipart body: malformed part header %q", line)
		}
		headers[strings.ToLower(string(bytes.TrimSpace(key)))] = string(bytes.TrimSpace(value))
	}

	return headers, pos + end + 4, nil
}

// acceptPart classifies a part via its content-disposition header and stores
// it as a field or stages it as a file. Parts without a name attribute are
// silently skipped.
func (d *multipartDecoder) acceptPart(form *Form, headers map[string]string, payload []byte) error {
	disposition := headers["content-disposition"]
	if disposition == "" {
		return nil
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return nil
	}

	name := params["name"]
	if name == "" {
		return nil
	}
	if len(name) > d.cfg.maxFieldNameLength {
		return httperror.BadRequest("multipart field name exceeds %d bytes", d.cfg.maxFieldNameLength)
	}

	filename, isFile := params["filename"]
	if !isFile {
		if int64(len(payload)) > d.cfg.maxFieldSize {
			return httperror.BadRequest("multipart field %q exceeds %d bytes", name, d.cfg.maxFieldSize)
		}
		form.Fields = append(form.Fields, Field{Name: name, Value: string(payload)})
		return nil
	}

	if int64(len(payload)) > d.cfg.maxFileSize {
		return httperror.BadRequest("multipart file %q exceeds %d bytes", name, d.cfg.maxFileSize)
	}

	path, err := d.stage(form, filename, payload)
	if err != nil {
		return err
	}

	form.Files = append(form.Files, &StagedFile{
		FieldName:   name,
		Filename:    filename,
		ContentType: headers["content-type"],
		Encoding:    headers["content-transfer-encoding"],
		Size:        int64(len(payload)),
		Path:        path,
	})
	return nil
}

// stage writes a file payload synchronously into the form's per-decode
// staging directory under a collision-resistant name, creating the directory
// on first use.
func (d *multipartDecoder) stage(form *Form, filename string, payload []byte) (string, error) {
	if form.dir == "" {
		dir, err := os.MkdirTemp(d.cfg.tempDir, "weft-multipart-")
		if err != nil {
			return "", httperror.Wrap(httperror.KindInternal, err, "creating multipart staging directory")
		}
		form.dir = dir
	}

	staged := uuid.NewString()
	if d.cfg.keepExtensions {
		staged += filepath.Ext(filename)
	}

	path := filepath.Join(form.dir, staged)
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return "", httperror.Wrap(httperror.KindInternal, err, "staging multipart file")
	}
	return path, nil
}
