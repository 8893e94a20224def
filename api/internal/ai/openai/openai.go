package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/ai"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/util"
)

const (
	DefaultModel   = "gpt-4.1-mini"
	DefaultBaseURL = "https://api.openai.com/v1"
)

type Engine struct {
	APIKey  string
	Model   string
	BaseURL string
	httpc   *http.Client
}

func New(key, model, baseURL string) *Engine {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 120 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
	}
	e := &Engine{
		APIKey:  strings.TrimSpace(key),
		Model:   strings.TrimSpace(model),
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		// the request context bounds the call; a client timeout would cut long reads
		httpc: &http.Client{Timeout: 0, Transport: tr},
	}
	if e.Model == "" {
		e.Model = DefaultModel
	}
	if e.BaseURL == "" {
		e.BaseURL = DefaultBaseURL
	}
	return e
}

// WithHTTPClient overrides the internal HTTP client.
func (e *Engine) WithHTTPClient(c *http.Client) *Engine {
	if c != nil {
		e.httpc = c
	}
	return e
}

func (e *Engine) Name() string     { return "openai" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Analyze(ctx context.Context, img ai.Image) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("OPENAI_API_KEY not set")
	}
	data, mime, err := img.Decode()
	if err != nil {
		return "", fmt.Errorf("openai analyze: %w", err)
	}
	if !isOpenAIImageMIME(mime) {
		return "", fmt.Errorf("openai analyze: unsupported MIME %s (need image/jpeg|png|webp|gif)", mime)
	}
	dataURL := util.MakeDataURL(mime, base64.StdEncoding.EncodeToString(data))

	body := map[string]any{
		"model": e.Model,
		"input": []any{
			map[string]any{
				"type": "message",
				"role": "user",
				"content": []any{
					map[string]any{"type": "input_image", "image_url": dataURL},
					map[string]any{"type": "input_text", "text": ai.AnalysisInstruction},
				},
			},
		},
		"temperature": 0.1,
		"text":        jsonSchemaFormat("report_analysis", ai.AnalysisSchema()),
	}
	return e.respond(ctx, "analyze", body)
}

// SuggestDoctors wraps the doctor array in an object, as structured outputs need an object at
// the top level, and unwraps it again before returning.
func (e *Engine) SuggestDoctors(ctx context.Context, specialist, pincode string) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("OPENAI_API_KEY not set")
	}
	wrapper := &ai.Schema{
		Type:       ai.TypeObject,
		Properties: map[string]*ai.Schema{"doctors": ai.DoctorSchema()},
		Required:   []string{"doctors"},
	}
	body := map[string]any{
		"model": e.Model,
		"input": []any{
			map[string]any{
				"type": "message",
				"role": "user",
				"content": []any{
					map[string]any{"type": "input_text", "text": ai.DoctorInstruction(specialist, pincode)},
				},
			},
		},
		"text": jsonSchemaFormat("doctor_suggestions", wrapper),
	}
	out, err := e.respond(ctx, "doctors", body)
	if err != nil || out == "" {
		return out, err
	}
	var w struct {
		Doctors json.RawMessage `json:"doctors"`
	}
	if err := json.Unmarshal([]byte(util.StripCodeFences(out)), &w); err != nil || len(w.Doctors) == 0 {
		// not the wrapper; let the caller's decoder report it
		return out, nil
	}
	return string(w.Doctors), nil
}

func jsonSchemaFormat(name string, s *ai.Schema) map[string]any {
	return map[string]any{
		"format": map[string]any{
			"type":   "json_schema",
			"name":   name,
			"strict": true,
			"schema": s.JSONSchema(true),
		},
	}
}

// respond posts body to the Responses API and returns the output text.
func (e *Engine) respond(ctx context.Context, op string, body map[string]any) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/responses", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai %s %d: %s", op, resp.StatusCode, truncateBytes(bytes.TrimSpace(raw), 512))
	}
	return strings.TrimSpace(extractResponsesText(raw)), nil
}

// extractResponsesText extracts model text from the Responses API envelope.
// It prefers `output_text`, and otherwise concatenates any text segments
// found in `output[i].content[j].text` where `type` is `output_text` or `text`.
func extractResponsesText(raw []byte) string {
	type content struct {
		Type    string `json:"type"`
		Text    string `json:"text"`
		Refusal string `json:"refusal"`
	}
	type output struct {
		Content []content `json:"content"`
	}
	var env struct {
		Output     []output `json:"output"`
		OutputText string   `json:"output_text"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	if s := strings.TrimSpace(env.OutputText); s != "" {
		return s
	}

	var b strings.Builder
	for _, o := range env.Output {
		for _, c := range o.Content {
			if strings.TrimSpace(c.Text) == "" {
				continue
			}
			if c.Type == "output_text" || c.Type == "text" || c.Type == "" {
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(c.Text)
			}
		}
	}
	return b.String()
}

func truncateBytes(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

func isOpenAIImageMIME(m string) bool {
	switch strings.ToLower(strings.TrimSpace(m)) {
	case "image/jpeg", "image/jpg", "image/png", "image/webp", "image/gif":
		return true
	}
	return false
}
