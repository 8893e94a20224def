// Package ai talks to the external vision model: one strict analysis call per report and a
// best-effort doctor-suggestion call.
package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/util"
)

// Engine is one external model backend. Implementations return the raw JSON text the model
// produced; decoding and validation happen in Client so every engine fails the same way.
type Engine interface {
	Name() string
	GetModel() string
	// Analyze returns the model's JSON text for one report image.
	Analyze(ctx context.Context, img Image) (string, error)
	// SuggestDoctors returns a JSON array of doctor objects as text.
	SuggestDoctors(ctx context.Context, specialist, pincode string) (string, error)
}

// Image is an uploaded report as base64 text (plain or data: URL) plus its MIME type.
type Image struct {
	Base64 string
	MIME   string
}

// Decode returns the raw bytes and the effective MIME type. An empty MIME falls back to
// the data: URL prefix and then to sniffing.
func (i Image) Decode() ([]byte, string, error) {
	data, hint, err := util.DecodeBase64MaybeDataURL(i.Base64)
	if err != nil {
		return nil, "", fmt.Errorf("bad base64: %w", err)
	}
	return data, util.PickMIME(i.MIME, hint, data), nil
}

// Engines is a registry of configured engines by name.
type Engines struct {
	mu sync.RWMutex
	m  map[string]Engine
}

func NewEngines(engines ...Engine) *Engines {
	r := &Engines{m: make(map[string]Engine, len(engines))}
	for _, e := range engines {
		r.Set(e)
	}
	return r
}

func (r *Engines) Set(e Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[strings.ToLower(e.Name())] = e
}

func (r *Engines) GetEngine(name string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.m[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q (have %s)", name, strings.Join(r.namesLocked(), ", "))
	}
	return e, nil
}

func (r *Engines) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Engines) namesLocked() []string {
	names := make([]string, 0, len(r.m))
	for n := range r.m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
