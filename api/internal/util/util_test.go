package util

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"bare", ` {"a":1} `, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"upper fence", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n[1,2]\n```", `[1,2]`},
		{"inline json tag", "```json{\"a\":1}```", `{"a":1}`},
		{"empty", "   ", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripCodeFences(tc.in))
		})
	}
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "110001", DigitsOnly("110 001", 6))
	assert.Equal(t, "110001", DigitsOnly("1100019", 6))
	assert.Equal(t, "12", DigitsOnly("a1b2", 0))
	assert.Equal(t, "", DigitsOnly("१२३", 6), "non-ASCII digits are dropped")
}

func TestDecodeBase64MaybeDataURL(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	b64 := base64.StdEncoding.EncodeToString(raw)

	b, mime, err := DecodeBase64MaybeDataURL(MakeDataURL("image/png", b64))
	require.NoError(t, err)
	assert.Equal(t, raw, b)
	assert.Equal(t, "image/png", mime)

	b, mime, err = DecodeBase64MaybeDataURL(base64.RawURLEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, b)
	assert.Empty(t, mime)

	_, _, err = DecodeBase64MaybeDataURL("data:image/png;base64,")
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, _, err = DecodeBase64MaybeDataURL("%%%not-base64%%%")
	assert.Error(t, err)
}

func TestPickMIME(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 'J', 'F', 'I', 'F'}
	assert.Equal(t, "image/png", PickMIME("Image/PNG", "image/jpeg", jpeg))
	assert.Equal(t, "image/webp", PickMIME("", "image/webp", jpeg))
	assert.Equal(t, "image/jpeg", PickMIME("", "", jpeg))
	assert.Equal(t, "image/jpeg", PickMIME("", "", nil))
	assert.Equal(t, "text/plain", PickMIME("", "", []byte("hello")))
}
