package stub

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/ai"
)

func TestAnalyzeIsDeterministicAndValid(t *testing.T) {
	e := New()
	c := ai.NewClient(e, nil)
	for _, payload := range []string{"report-one", "report-two", "report-three", "report-four"} {
		img := ai.Image{Base64: base64.StdEncoding.EncodeToString([]byte(payload)), MIME: "image/jpeg"}

		first, err := e.Analyze(context.Background(), img)
		require.NoError(t, err)
		second, err := e.Analyze(context.Background(), img)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		a, err := c.Analyze(context.Background(), img)
		require.NoError(t, err, payload)
		assert.True(t, a.Consistent())
		assert.NotEmpty(t, a.Parameters)
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Analyze(ctx, ai.Image{Base64: "aGVsbG8="})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSuggestDoctors(t *testing.T) {
	docs := ai.NewClient(New(), nil).SuggestDoctors(context.Background(), "Cardiologist", "110001")
	require.Len(t, docs, 3)
	for _, d := range docs {
		assert.Equal(t, "Cardiologist", d.Specialization)
		assert.Contains(t, d.Address, "110001")
		assert.GreaterOrEqual(t, d.Rating, 3.5)
	}
}
