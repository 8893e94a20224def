package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisSchemaRequired(t *testing.T) {
	s := AnalysisSchema()
	assert.ElementsMatch(t, []string{
		"testType", "overallResult", "riskLevel", "healthScore", "summary_en", "summary_hi",
		"parameters", "requiredSpecialist", "possibleDiagnosis",
	}, s.Required)
	assert.Equal(t, []string{"name", "value", "status"}, s.Properties["parameters"].Items.Required)
	assert.Equal(t, "patientName", s.names()[0])
	assert.Len(t, s.names(), len(s.Properties))
}

func TestJSONSchemaStrict(t *testing.T) {
	js := AnalysisSchema().JSONSchema(true)
	assert.Equal(t, false, js["additionalProperties"])
	required, ok := js["required"].([]string)
	require.True(t, ok)
	assert.Contains(t, required, "patientName", "strict mode lists every property")

	props := js["properties"].(map[string]any)
	assert.Equal(t, "string", props["testType"].(map[string]any)["type"])
	assert.Equal(t, []string{"string", "null"}, props["patientName"].(map[string]any)["type"])
	assert.Equal(t, []string{"Normal", "Abnormal"}, props["overallResult"].(map[string]any)["enum"])

	items := props["parameters"].(map[string]any)["items"].(map[string]any)
	assert.Equal(t, false, items["additionalProperties"])
}

func TestJSONSchemaLoose(t *testing.T) {
	js := AnalysisSchema().JSONSchema(false)
	_, hasAP := js["additionalProperties"]
	assert.False(t, hasAP)
	props := js["properties"].(map[string]any)
	assert.Equal(t, "string", props["patientName"].(map[string]any)["type"])
}

func TestDoctorInstruction(t *testing.T) {
	p := DoctorInstruction(" Cardiologist ", "110001")
	assert.Contains(t, p, "Cardiologist doctors/clinics")
	assert.Contains(t, p, "Indian Pincode 110001")
}
