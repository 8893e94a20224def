package ai

import "sort"

// Type is a JSON schema primitive type.
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
)

// Schema is the engine-neutral response schema. Engines convert it to their own form.
type Schema struct {
	Type        Type
	Description string
	Enum        []string
	Items       *Schema
	Properties  map[string]*Schema
	// Order lists properties first in the generated JSON Schema; unlisted ones follow sorted.
	Order    []string
	Required []string
}

func (s *Schema) isRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// JSONSchema renders s as a JSON Schema document. With strict set it follows the OpenAI
// structured-output rules: every property is listed as required, optional ones become
// nullable, and additionalProperties is false.
func (s *Schema) JSONSchema(strict bool) map[string]any {
	return s.jsonSchema(strict, false)
}

func (s *Schema) jsonSchema(strict, nullable bool) map[string]any {
	out := map[string]any{}
	if nullable {
		out["type"] = []string{string(s.Type), "null"}
	} else {
		out["type"] = string(s.Type)
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Items != nil {
		out["items"] = s.Items.jsonSchema(strict, false)
	}
	if s.Type == TypeObject {
		props := map[string]any{}
		for _, name := range s.names() {
			p := s.Properties[name]
			props[name] = p.jsonSchema(strict, strict && !s.isRequired(name))
		}
		out["properties"] = props
		if strict {
			out["required"] = s.names()
			out["additionalProperties"] = false
		} else if len(s.Required) > 0 {
			out["required"] = s.Required
		}
	}
	return out
}

// names returns the property names in declared order, then any undeclared ones.
func (s *Schema) names() []string {
	seen := make(map[string]bool, len(s.Properties))
	out := make([]string, 0, len(s.Properties))
	for _, n := range s.Order {
		if _, ok := s.Properties[n]; ok && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	ordered := len(out)
	for n := range s.Properties {
		if !seen[n] {
			out = append(out, n)
		}
	}
	sort.Strings(out[ordered:])
	return out
}
