package intake

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// FormField is the multipart field carrying the report file.
const FormField = "file"

type jsonUpload struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
}

// FromRequest reads the report from a multipart form (field "file"), a JSON body
// {"image": base64 or data URL, "mimeType": ...}, or a raw image body.
func FromRequest(r *http.Request, limit int64) (Upload, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case ct == "multipart/form-data":
		return fromMultipart(r, limit)
	case ct == "application/json":
		var in jsonUpload
		// base64 inflates by 4/3; leave room for the envelope
		dec := json.NewDecoder(io.LimitReader(r.Body, limit*4/3+4096))
		if err := dec.Decode(&in); err != nil {
			return Upload{}, &FileReadError{Err: fmt.Errorf("bad json: %w", err)}
		}
		return FromBase64(in.Image, in.MimeType, limit)
	default:
		return Read(r.Body, ct, limit)
	}
}

func fromMultipart(r *http.Request, limit int64) (Upload, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return Upload{}, &FileReadError{Err: err}
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return Upload{}, &FileReadError{Err: fmt.Errorf("%w: no %q field", ErrEmpty, FormField)}
		}
		if err != nil {
			return Upload{}, &FileReadError{Err: err}
		}
		if part.FormName() != FormField {
			part.Close()
			continue
		}
		defer part.Close()
		return Read(part, strings.TrimSpace(part.Header.Get("Content-Type")), limit)
	}
}
