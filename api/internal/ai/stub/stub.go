package stub

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/ai"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/report"
)

// Engine is a deterministic, no-network engine for CI and local runs. It returns
// schema-valid JSON so the full decode, history and rendering path is exercised.
type Engine struct{}

func New() *Engine { return &Engine{} }

func (e *Engine) Name() string     { return "stub" }
func (e *Engine) GetModel() string { return "stub-1" }

// Analyze returns an abnormal CBC for images whose digest starts with an even byte and a
// normal lipid profile otherwise.
func (e *Engine) Analyze(ctx context.Context, img ai.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, _, err := img.Decode()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	short := hex.EncodeToString(sum[:4])

	a := normalLipid(short)
	if sum[0]%2 == 0 {
		a = anemicCBC(short)
	}
	b, err := report.EncodeWire(a)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (e *Engine) SuggestDoctors(ctx context.Context, specialist, pincode string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	specialist = strings.TrimSpace(specialist)
	docs := []report.Doctor{
		{Name: "Dr. Asha Verma", Specialization: specialist, Hospital: "City Care Clinic", Address: "MG Road, " + pincode, Distance: "1.2 km", Rating: 4.6},
		{Name: "Dr. Rohit Nair", Specialization: specialist, Hospital: "Lifeline Hospital", Address: "Station Road, " + pincode, Distance: "2.8 km", Rating: 4.3},
		{Name: "Dr. Meera Iyer", Specialization: specialist, Hospital: "Sunrise Multispeciality", Address: "Civil Lines, " + pincode, Distance: "4.1 km", Rating: 4.1},
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func anemicCBC(ref string) report.Analysis {
	return report.Analysis{
		PatientName:   report.UnknownPatient,
		TestType:      "CBC",
		OverallResult: report.ResultAbnormal,
		RiskLevel:     report.RiskModerate,
		HealthScore:   62,
		Summary: report.Text{
			i18n.English: fmt.Sprintf("Stub analysis %s. Hemoglobin is below the reference range, suggesting mild anemia.", ref),
			i18n.Hindi:   fmt.Sprintf("स्टब विश्लेषण %s। हीमोग्लोबिन संदर्भ सीमा से कम है, जो हल्के एनीमिया का संकेत है।", ref),
		},
		Advice: report.TextList{
			i18n.English: {"Eat iron-rich food", "Repeat CBC in 4 weeks"},
			i18n.Hindi:   {"आयरन युक्त भोजन करें", "4 सप्ताह में सीबीसी दोबारा कराएं"},
		},
		Diagnosis:  report.Text{i18n.English: "Mild anemia", i18n.Hindi: "हल्का एनीमिया"},
		Specialist: report.Text{i18n.English: "Hematologist", i18n.Hindi: "रक्त रोग विशेषज्ञ"},
		Parameters: []report.Parameter{
			{Name: "Hemoglobin", Value: "10.2", Unit: "g/dL", ReferenceRange: "13.5-17.5", Status: report.StatusLow,
				Interpretation: report.Text{i18n.English: "Low oxygen-carrying capacity", i18n.Hindi: "ऑक्सीजन ले जाने की क्षमता कम"}},
			{Name: "WBC", Value: "7,400", Unit: "/µL", ReferenceRange: "4,000-11,000", Status: report.StatusNormal,
				Interpretation: report.Text{i18n.English: "Within range", i18n.Hindi: "सामान्य सीमा में"}},
			{Name: "Platelets", Value: "2.5", Unit: "lakh/µL", ReferenceRange: "1.5-4.5", Status: report.StatusNormal,
				Interpretation: report.Text{i18n.English: "Within range", i18n.Hindi: "सामान्य सीमा में"}},
		},
	}
}

func normalLipid(ref string) report.Analysis {
	return report.Analysis{
		PatientName:   report.UnknownPatient,
		TestType:      "Lipid Profile",
		OverallResult: report.ResultNormal,
		RiskLevel:     report.RiskSafe,
		HealthScore:   94,
		Summary: report.Text{
			i18n.English: fmt.Sprintf("Stub analysis %s. Patient is Healthy. No abnormal findings.", ref),
			i18n.Hindi:   fmt.Sprintf("स्टब विश्लेषण %s। मरीज स्वस्थ है। कोई असामान्य निष्कर्ष नहीं।", ref),
		},
		Advice: report.TextList{
			i18n.English: {"Keep a balanced diet", "Exercise regularly"},
			i18n.Hindi:   {"संतुलित आहार लें", "नियमित व्यायाम करें"},
		},
		Diagnosis:  report.Text{i18n.English: "Healthy", i18n.Hindi: "स्वस्थ"},
		Specialist: report.Text{i18n.English: "General Physician", i18n.Hindi: "सामान्य चिकित्सक"},
		Parameters: []report.Parameter{
			{Name: "Total Cholesterol", Value: "172", Unit: "mg/dL", ReferenceRange: "<200", Status: report.StatusNormal},
			{Name: "LDL", Value: "96", Unit: "mg/dL", ReferenceRange: "<100", Status: report.StatusNormal},
			{Name: "HDL", Value: "52", Unit: "mg/dL", ReferenceRange: ">40", Status: report.StatusNormal},
		},
	}
}
