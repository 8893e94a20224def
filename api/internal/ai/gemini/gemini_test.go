package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/ai"
)

type fakeGenerator struct {
	resp  *genai.GenerateContentResponse
	err   error
	calls int
	got   request
}

func (f *fakeGenerator) generate(_ context.Context, req request) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.got = req
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func newTestEngine(gen generator) *Engine {
	e := New("key", "")
	e.gen = gen
	return e
}

func TestAnalyzeRequest(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(`{"testType":`, `"CBC"}`)}
	e := newTestEngine(gen)

	text, err := e.Analyze(context.Background(), ai.Image{Base64: "data:image/png;base64,aGVsbG8="})
	require.NoError(t, err)
	assert.Equal(t, `{"testType":"CBC"}`, text)
	assert.Equal(t, 1, gen.calls)

	req := gen.got
	assert.Equal(t, DefaultModel, req.Model)
	require.NotNil(t, req.Temperature)
	assert.InDelta(t, 0.1, *req.Temperature, 1e-6)
	require.Len(t, req.Parts, 2)
	blob, ok := req.Parts[0].(genai.Blob)
	require.True(t, ok)
	assert.Equal(t, "image/png", blob.MIMEType)
	assert.Equal(t, []byte("hello"), blob.Data)
	assert.Equal(t, genai.Text(ai.AnalysisInstruction), req.Parts[1])

	require.NotNil(t, req.Schema)
	assert.Equal(t, genai.TypeObject, req.Schema.Type)
	assert.Contains(t, req.Schema.Required, "healthScore")
	assert.Equal(t, genai.TypeNumber, req.Schema.Properties["healthScore"].Type)
	params := req.Schema.Properties["parameters"]
	assert.Equal(t, genai.TypeArray, params.Type)
	assert.Equal(t, []string{"Normal", "Low", "High", "Critical"}, params.Items.Properties["status"].Enum)
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := New("", "").Analyze(context.Background(), ai.Image{Base64: "aGVsbG8="})
	assert.ErrorContains(t, err, "GEMINI_API_KEY")

	gen := &fakeGenerator{err: errors.New("429 quota")}
	_, err = newTestEngine(gen).Analyze(context.Background(), ai.Image{Base64: "aGVsbG8="})
	assert.ErrorContains(t, err, "429 quota")
	assert.Equal(t, 1, gen.calls, "no retry")

	gen = &fakeGenerator{}
	_, err = newTestEngine(gen).Analyze(context.Background(), ai.Image{Base64: ""})
	assert.Error(t, err)
	assert.Zero(t, gen.calls)
}

func TestAnalyzeEmptyCandidates(t *testing.T) {
	gen := &fakeGenerator{resp: &genai.GenerateContentResponse{}}
	text, err := newTestEngine(gen).Analyze(context.Background(), ai.Image{Base64: "aGVsbG8="})
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = ai.DecodeAnalysis(text)
	assert.ErrorIs(t, err, ai.ErrEmptyResponse)
}

func TestSuggestDoctorsRequest(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(`[]`)}
	text, err := newTestEngine(gen).SuggestDoctors(context.Background(), "Cardiologist", "110001")
	require.NoError(t, err)
	assert.Equal(t, "[]", text)

	assert.Nil(t, gen.got.Temperature)
	assert.Equal(t, genai.TypeArray, gen.got.Schema.Type)
	assert.Equal(t, genai.TypeObject, gen.got.Schema.Items.Type)
	require.Len(t, gen.got.Parts, 1)
	prompt := string(gen.got.Parts[0].(genai.Text))
	assert.Contains(t, prompt, "Cardiologist")
	assert.Contains(t, prompt, "110001")
}

func TestFirstText(t *testing.T) {
	assert.Empty(t, firstText(nil))
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: nil},
		{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}},
		{Content: &genai.Content{Parts: []genai.Part{genai.Text("ok")}}},
	}}
	assert.Equal(t, "ok", firstText(resp))
}
