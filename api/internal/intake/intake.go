// Package intake reads one uploaded report file into memory and prepares it for analysis.
package intake

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/ai"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/util"
)

const DefaultLimit = 20 << 20

var (
	ErrEmpty    = errors.New("empty file")
	ErrTooLarge = errors.New("file too large")
)

// FileReadError means the upload could not be read. The user may simply retry.
type FileReadError struct {
	Err error
}

func (e *FileReadError) Error() string { return "read upload: " + e.Err.Error() }
func (e *FileReadError) Unwrap() error { return e.Err }

// Upload is one fully read file.
type Upload struct {
	Data []byte
	MIME string
}

func (u Upload) Base64() string { return base64.StdEncoding.EncodeToString(u.Data) }

// Image hands the upload to the analysis client.
func (u Upload) Image() ai.Image { return ai.Image{Base64: u.Base64(), MIME: u.MIME} }

func (u Upload) Size() int { return len(u.Data) }

// Read reads r fully. declaredMIME is kept when set; otherwise the type is sniffed.
// limit <= 0 means DefaultLimit.
func Read(r io.Reader, declaredMIME string, limit int64) (Upload, error) {
	if r == nil {
		return Upload{}, &FileReadError{Err: ErrEmpty}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return Upload{}, &FileReadError{Err: err}
	}
	return fromBytes(data, declaredMIME, "", limit)
}

// FromBase64 accepts plain base64 or a data: URL, as posted by JSON clients.
func FromBase64(s, declaredMIME string, limit int64) (Upload, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	data, hint, err := util.DecodeBase64MaybeDataURL(s)
	if err != nil {
		if errors.Is(err, util.ErrEmptyImage) {
			err = ErrEmpty
		}
		return Upload{}, &FileReadError{Err: fmt.Errorf("decode base64: %w", err)}
	}
	return fromBytes(data, declaredMIME, hint, limit)
}

func fromBytes(data []byte, declared, hint string, limit int64) (Upload, error) {
	if len(data) == 0 {
		return Upload{}, &FileReadError{Err: ErrEmpty}
	}
	if int64(len(data)) > limit {
		return Upload{}, &FileReadError{Err: fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)}
	}
	// multipart parts often carry application/octet-stream; sniff those instead
	if m := strings.ToLower(strings.TrimSpace(declared)); m == "application/octet-stream" {
		declared = ""
	}
	return Upload{Data: data, MIME: util.PickMIME(declared, hint, data)}, nil
}
