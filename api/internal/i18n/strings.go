package i18n

type Key string

const (
	HeroTitle          Key = "hero_title"
	HeroTitleHighlight Key = "hero_title_highlight"
	HeroTitleEnd       Key = "hero_title_end"
	HeroDesc           Key = "hero_desc"
	RecentReports      Key = "recent_reports"
	MedicalReport      Key = "medical_report"
	FooterDesc         Key = "footer_desc"
	Disclaimer         Key = "disclaimer"

	FeatureOCRTitle     Key = "feature_ocr_title"
	FeatureOCRDesc      Key = "feature_ocr_desc"
	FeatureDoctorsTitle Key = "feature_doctors_title"
	FeatureDoctorsDesc  Key = "feature_doctors_desc"
	FeatureRiskTitle    Key = "feature_risk_title"
	FeatureRiskDesc     Key = "feature_risk_desc"

	UploadTitle    Key = "upload_title"
	UploadSubtitle Key = "upload_subtitle"
	Analyzing      Key = "analyzing"

	ErrAnalysisFailed Key = "err_analysis_failed"
	ErrFileRead       Key = "err_file_read"
	ErrBusy           Key = "err_busy"

	TabSummary          Key = "tab_summary"
	TabDetails          Key = "tab_details"
	TabDoctors          Key = "tab_doctors"
	HealthScore         Key = "health_score"
	Score               Key = "score"
	Risk                Key = "risk"
	Advice              Key = "advice"
	PossibleDiagnosis   Key = "possible_diagnosis"
	Parameter           Key = "parameter"
	Value               Key = "value"
	Range               Key = "range"
	Status              Key = "status"
	EnterPincode        Key = "enter_pincode"
	Search              Key = "search"
	SpecialistNeeded    Key = "specialist_needed"
	ViewOnMap           Key = "view_on_map"
	ReadAloud           Key = "read_aloud"
	ScanNew             Key = "scan_new"
	Patient             Key = "patient"
	AIAnalysis          Key = "ai_analysis"
	BasedOn             Key = "based_on"
	BookDirections      Key = "book_directions"
	NoDocsFound         Key = "no_docs_found"
	ClickMap            Key = "click_map"
	Near                Key = "near"
	EnterPinPrompt      Key = "enter_pin_prompt"
	SimulatedDisclosure Key = "simulated_disclosure"
	PincodeTooShort     Key = "pincode_too_short"
	HistoryEmpty        Key = "history_empty"

	BotStart      Key = "bot_start"
	BotNotImage   Key = "bot_not_image"
	BotUnknownCmd Key = "bot_unknown_cmd"
	BotPinHint    Key = "bot_pin_hint"
)

var table = map[Key]map[Lang]string{
	HeroTitle:          {English: "Understand Your ", Hindi: "अपनी "},
	HeroTitleHighlight: {English: "Lab Reports ", Hindi: "लैब रिपोर्ट्स "},
	HeroTitleEnd:       {English: "in Seconds", Hindi: "को सेकंडों में समझें"},
	HeroDesc: {
		English: "Upload any Blood Test, X-Ray, or Pathology report. diagnosmart AI analyzes it instantly, explains results in simple language, and guides you on what to do next.",
		Hindi:   "कोई भी ब्लड टेस्ट, एक्स-रे या पैथोलॉजी रिपोर्ट अपलोड करें। diagnosmart AI तुरंत इसका विश्लेषण करता है, सरल भाषा में परिणाम समझाता है, और आगे क्या करना है, इस पर मार्गदर्शन करता है।",
	},
	RecentReports: {English: "Recent Reports", Hindi: "हाल की रिपोर्ट"},
	MedicalReport: {English: "Medical Report", Hindi: "मेडिकल रिपोर्ट"},
	FooterDesc:    {English: "Created By: Shekh Shabir"},
	Disclaimer: {
		English: "Disclaimer: This tool is for informational purposes only and does not replace professional medical advice.",
		Hindi:   "अस्वीकरण: यह उपकरण केवल सूचनात्मक उद्देश्यों के लिए है और पेशेवर चिकित्सा सलाह की जगह नहीं लेता है।",
	},

	FeatureOCRTitle:     {English: "AI OCR ANALYSIS", Hindi: "AI OCR विश्लेषण"},
	FeatureOCRDesc:      {English: "Instantly reads values from scanned images and PDFs.", Hindi: "स्कैन की गई इमेज और PDF से तुरंत वैल्यू पढ़ता है।"},
	FeatureDoctorsTitle: {English: "DOCTOR CONNECT", Hindi: "डॉक्टर कनेक्ट"},
	FeatureDoctorsDesc:  {English: "Finds specialists near you based on your specific condition.", Hindi: "आपकी स्थिति के आधार पर आपके नजदीकी विशेषज्ञ ढूंढता है।"},
	FeatureRiskTitle:    {English: "RISK ASSESSMENT", Hindi: "जोखिम मूल्यांकन"},
	FeatureRiskDesc:     {English: "Identifies critical levels and provides immediate advice.", Hindi: "गंभीर स्तरों की पहचान करता है और तत्काल सलाह देता है।"},

	UploadTitle: {English: "Upload Report", Hindi: "रिपोर्ट अपलोड करें"},
	UploadSubtitle: {
		English: "Click to browse or drag and drop\n(JPG, PNG, Scanned Images)",
		Hindi:   "ब्राउज़ करने के लिए क्लिक करें या यहाँ खींचें\n(JPG, PNG, स्कैन की गई इमेज)",
	},
	Analyzing: {English: "Analyzing Parameters & Vital Signs...", Hindi: "पैरामीटर और वाइटल साइन्स का विश्लेषण किया जा रहा है..."},

	ErrAnalysisFailed: {
		English: "Failed to analyze report. Please ensure the image is clear and contains medical text.",
		Hindi:   "रिपोर्ट का विश्लेषण करने में विफल। कृपया सुनिश्चित करें कि इमेज स्पष्ट है और इसमें मेडिकल टेक्स्ट है।",
	},
	ErrFileRead: {English: "Error reading file.", Hindi: "फाइल पढ़ने में त्रुटि।"},
	ErrBusy: {
		English: "A report is already being analyzed. Please wait.",
		Hindi:   "एक रिपोर्ट का विश्लेषण पहले से चल रहा है। कृपया प्रतीक्षा करें।",
	},

	TabSummary:        {English: "Analysis Summary", Hindi: "रिपोर्ट सारांश"},
	TabDetails:        {English: "Detailed Report", Hindi: "विस्तृत रिपोर्ट"},
	TabDoctors:        {English: "Find Doctors", Hindi: "डॉक्टर खोजें"},
	HealthScore:       {English: "Health Score", Hindi: "हेल्थ स्कोर"},
	Score:             {English: "Score"},
	Risk:              {English: "Immediate Risk", Hindi: "जोखिम स्तर"},
	Advice:            {English: "Medical Advice", Hindi: "चिकित्सीय सलाह"},
	PossibleDiagnosis: {English: "Possible Diagnosis", Hindi: "संभावित निदान"},
	Parameter:         {English: "Parameter", Hindi: "पैरामीटर"},
	Value:             {English: "Result", Hindi: "परिणाम"},
	Range:             {English: "Normal Range", Hindi: "सामान्य सीमा"},
	Status:            {English: "Status", Hindi: "स्थिति"},
	EnterPincode:      {English: "Enter Pincode", Hindi: "पिन कोड डालें"},
	Search:            {English: "Search Doctors", Hindi: "डॉक्टर खोजें"},
	SpecialistNeeded:  {English: "Recommended Specialist", Hindi: "अनुशंसित विशेषज्ञ"},
	ViewOnMap:         {English: "View on Google Maps", Hindi: "गूगल मैप्स पर देखें"},
	ReadAloud:         {English: "Listen", Hindi: "सुनें"},
	ScanNew:           {English: "Scan New Report", Hindi: "नई रिपोर्ट स्कैन करें"},
	Patient:           {English: "Patient Report", Hindi: "मरीज की रिपोर्ट"},
	AIAnalysis:        {English: "AI Analysis", Hindi: "AI विश्लेषण"},
	BasedOn:           {English: "Based on your report results", Hindi: "आपकी रिपोर्ट के परिणामों के आधार पर"},
	BookDirections:    {English: "Book / Directions", Hindi: "बुकिंग / रास्ता देखें"},
	NoDocsFound:       {English: "No direct recommendations found in simulation.", Hindi: "सिमुलेशन में कोई सीधा सुझाव नहीं मिला।"},
	ClickMap:          {English: "Click here to search Google Maps directly for", Hindi: "सीधे गूगल मैप्स पर खोजने के लिए यहाँ क्लिक करें:"},
	Near:              {English: "near", Hindi: "के पास"},
	EnterPinPrompt: {
		English: "Enter your Pincode to find relevant specialists near you.",
		Hindi:   "अपने आस-पास के विशेषज्ञों को खोजने के लिए अपना पिन कोड डालें।",
	},
	SimulatedDisclosure: {
		English: "Suggestions are AI-generated and representative, not a verified directory.",
		Hindi:   "सुझाव AI द्वारा बनाए गए प्रतिनिधि उदाहरण हैं, सत्यापित निर्देशिका नहीं।",
	},
	PincodeTooShort: {English: "Pincode must have 6 digits.", Hindi: "पिन कोड में 6 अंक होने चाहिए।"},
	HistoryEmpty:    {English: "No reports yet.", Hindi: "अभी कोई रिपोर्ट नहीं।"},

	BotStart: {
		English: "Send a clear photo of your lab report and I will explain it.\nCommands: /history, /lang, /health",
		Hindi:   "अपनी लैब रिपोर्ट की साफ फोटो भेजें, मैं इसे समझाऊंगा।\nकमांड: /history, /lang, /health",
	},
	BotNotImage: {
		English: "Please send the report as a photo or an image file.",
		Hindi:   "कृपया रिपोर्ट फोटो या इमेज फाइल के रूप में भेजें।",
	},
	BotUnknownCmd: {English: "Unknown command.", Hindi: "अज्ञात कमांड।"},
	BotPinHint: {
		English: "Reply with your 6-digit pincode to search.",
		Hindi:   "खोजने के लिए अपना 6 अंकों का पिन कोड भेजें।",
	},
}

// T returns the string for key in lang, falling back to English and then to the key itself.
func T(lang Lang, key Key) string {
	row, ok := table[key]
	if !ok {
		return string(key)
	}
	if s, ok := row[lang]; ok {
		return s
	}
	if s, ok := row[English]; ok {
		return s
	}
	return string(key)
}

// Keys lists every key in the table; used to check both languages stay covered.
func Keys() []Key {
	out := make([]Key, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	return out
}
