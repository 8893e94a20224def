package ai

import (
	"fmt"
	"strings"
)

// AnalysisInstruction is sent with every report image.
const AnalysisInstruction = `You are an expert AI Pathologist and Medical Analyst named 'diagnosmart AI'.
Analyze the attached medical report image (Pathology, Lab Test, X-Ray, etc.).

1. Extract all test parameters, values, units, and reference ranges.
2. Determine the status (Normal/Low/High/Critical) for each parameter.
3. Calculate a 'Health Score' (0-100). 100 is perfect health, <50 is critical.
4. If the report is completely normal, specify: "Patient is Healthy. No abnormal findings."
5. Provide a summary and advice in BOTH English and Hindi.
6. Identify the type of specialist doctor the patient should visit.
7. Translate the diagnosis and specialist type into Hindi as well.

Output strictly JSON matching the schema.`

// DoctorInstruction asks for representative doctors for specialist near pincode.
func DoctorInstruction(specialist, pincode string) string {
	return fmt.Sprintf(`Generate a JSON list of 3-4 realistic (but fictional or representative) %s doctors/clinics that might exist in a city with Indian Pincode %s.
Include: name, specialization, hospital/clinic name, address (with the pincode), approximate distance (e.g. 1.2 km), and rating (3.5-5.0).`,
		strings.TrimSpace(specialist), strings.TrimSpace(pincode))
}

func str(desc string) *Schema { return &Schema{Type: TypeString, Description: desc} }

func enum(values ...string) *Schema { return &Schema{Type: TypeString, Enum: values} }

func strList(desc string) *Schema {
	return &Schema{Type: TypeArray, Description: desc, Items: &Schema{Type: TypeString}}
}

// AnalysisSchema is the response schema for one report.
func AnalysisSchema() *Schema {
	parameter := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"name":              str(""),
			"value":             str(""),
			"unit":              str(""),
			"referenceRange":    str(""),
			"status":            enum("Normal", "Low", "High", "Critical"),
			"interpretation":    str("Brief medical meaning of this specific result in English"),
			"interpretation_hi": str("Brief medical meaning of this specific result in Hindi"),
		},
		Order:    []string{"name", "value", "unit", "referenceRange", "status", "interpretation", "interpretation_hi"},
		Required: []string{"name", "value", "status"},
	}
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"patientName":           str("Name of patient if found, else 'Unknown'"),
			"reportDate":            str("Date of report if found"),
			"testType":              str("Type of test (e.g., CBC, Lipid Profile, X-Ray)"),
			"overallResult":         enum("Normal", "Abnormal"),
			"riskLevel":             enum("Safe", "Moderate", "Critical"),
			"healthScore":           {Type: TypeNumber, Description: "Calculated health score from 0 (Critical) to 100 (Perfect)"},
			"summary_en":            str("Comprehensive summary in English"),
			"summary_hi":            str("Detailed comprehensive summary in Hindi language"),
			"possibleDiagnosis":     str("Most likely disease or condition in English. If normal, state 'Healthy'"),
			"possibleDiagnosis_hi":  str("Most likely disease or condition translated to Hindi. If normal, state 'स्वस्थ'"),
			"advice_en":             strList("List of advice/precautions in English"),
			"advice_hi":             strList("List of advice/precautions in Hindi"),
			"requiredSpecialist":    str("The type of doctor needed in English (e.g., Cardiologist)"),
			"requiredSpecialist_hi": str("The type of doctor needed in Hindi (e.g., हृदय रोग विशेषज्ञ)"),
			"parameters":            {Type: TypeArray, Items: parameter},
		},
		Order: []string{
			"patientName", "reportDate", "testType", "overallResult", "riskLevel", "healthScore",
			"summary_en", "summary_hi", "possibleDiagnosis", "possibleDiagnosis_hi",
			"advice_en", "advice_hi", "requiredSpecialist", "requiredSpecialist_hi", "parameters",
		},
		Required: []string{
			"testType", "overallResult", "riskLevel", "healthScore", "summary_en", "summary_hi",
			"parameters", "requiredSpecialist", "possibleDiagnosis",
		},
	}
}

// DoctorSchema is the response schema for a doctor suggestion: an array of doctor objects.
func DoctorSchema() *Schema {
	return &Schema{
		Type: TypeArray,
		Items: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"name":           str(""),
				"specialization": str(""),
				"hospital":       str(""),
				"address":        str(""),
				"distance":       str(""),
				"rating":         {Type: TypeNumber},
			},
			Order: []string{"name", "specialization", "hospital", "address", "distance", "rating"},
		},
	}
}
