package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/ai"
)

const DefaultModel = "gemini-2.5-flash"

const temperature float32 = 0.1

// request is one generateContent call.
type request struct {
	Model       string
	Temperature *float32
	Schema      *genai.Schema
	Parts       []genai.Part
}

// generator is the seam between the engine and the SDK.
type generator interface {
	generate(ctx context.Context, req request) (*genai.GenerateContentResponse, error)
}

type Engine struct {
	APIKey string
	Model  string
	gen    generator
}

func New(apiKey, model string) *Engine {
	e := &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
	if e.Model == "" {
		e.Model = DefaultModel
	}
	e.gen = sdkGenerator{apiKey: e.APIKey}
	return e
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

// Analyze sends the report image with the analysis instruction and schema.
func (e *Engine) Analyze(ctx context.Context, img ai.Image) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	data, mime, err := img.Decode()
	if err != nil {
		return "", fmt.Errorf("gemini analyze: %w", err)
	}
	resp, err := e.gen.generate(ctx, request{
		Model:       e.Model,
		Temperature: ptrFloat32(temperature),
		Schema:      toGenai(ai.AnalysisSchema()),
		Parts: []genai.Part{
			genai.Blob{MIMEType: mime, Data: data},
			genai.Text(ai.AnalysisInstruction),
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini analyze: %w", err)
	}
	return firstText(resp), nil
}

func (e *Engine) SuggestDoctors(ctx context.Context, specialist, pincode string) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	resp, err := e.gen.generate(ctx, request{
		Model:  e.Model,
		Schema: toGenai(ai.DoctorSchema()),
		Parts:  []genai.Part{genai.Text(ai.DoctorInstruction(specialist, pincode))},
	})
	if err != nil {
		return "", fmt.Errorf("gemini doctors: %w", err)
	}
	return firstText(resp), nil
}

type sdkGenerator struct {
	apiKey string
}

func (g sdkGenerator) generate(ctx context.Context, req request) (*genai.GenerateContentResponse, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, err
	}
	defer cl.Close()

	m := cl.GenerativeModel(req.Model)
	if m == nil {
		return nil, fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      req.Temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
	}
	return m.GenerateContent(ctx, req.Parts...)
}

// toGenai converts the neutral schema to the SDK form.
func toGenai(s *ai.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Items:       toGenai(s.Items),
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, p := range s.Properties {
			out.Properties[name] = toGenai(p)
		}
	}
	return out
}

func genaiType(t ai.Type) genai.Type {
	switch t {
	case ai.TypeObject:
		return genai.TypeObject
	case ai.TypeArray:
		return genai.TypeArray
	case ai.TypeNumber:
		return genai.TypeNumber
	case ai.TypeInteger:
		return genai.TypeInteger
	case ai.TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

// firstText concatenates the text parts of the first candidate that has any.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
