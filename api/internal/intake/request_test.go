package intake

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, field, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("note", "ignored"))
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="report.png"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	w, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/upload", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestFromRequestMultipart(t *testing.T) {
	data := pngBytes(t, 3, 3)
	u, err := FromRequest(multipartRequest(t, FormField, "image/png", data), 0)
	require.NoError(t, err)
	assert.Equal(t, data, u.Data)
	assert.Equal(t, "image/png", u.MIME)

	u, err = FromRequest(multipartRequest(t, FormField, "application/octet-stream", data), 0)
	require.NoError(t, err)
	assert.Equal(t, "image/png", u.MIME)

	_, err = FromRequest(multipartRequest(t, "other", "image/png", data), 0)
	var fre *FileReadError
	require.ErrorAs(t, err, &fre)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestFromRequestJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{"image":"data:image/jpeg;base64,aGVsbG8="}`))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	u, err := FromRequest(r, 0)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", u.MIME)
	assert.Equal(t, []byte("hello"), u.Data)

	r = httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{"image":`))
	r.Header.Set("Content-Type", "application/json")
	_, err = FromRequest(r, 0)
	var fre *FileReadError
	assert.ErrorAs(t, err, &fre)
}

func TestFromRequestRawBody(t *testing.T) {
	data := pngBytes(t, 2, 2)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader(data))
	r.Header.Set("Content-Type", "image/png")
	u, err := FromRequest(r, 0)
	require.NoError(t, err)
	assert.Equal(t, "image/png", u.MIME)

	r = httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader(data))
	_, err = FromRequest(r, 16)
	assert.ErrorIs(t, err, ErrTooLarge)
}
