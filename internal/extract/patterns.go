package extract

import "regexp"

// The field parser is table-driven: one pattern family per schema field, kept
// as data so label synonyms can be extended and tested without touching the
// extraction control flow.

type valueKind int

const (
	kindNumber valueKind = iota
	kindEnum
	kindYesNo
	kindBloodPressure
	kindBMI
)

// numTok matches a 1-3 character numeric token, tolerating the digit
// confusions tesseract produces (O/0, l/1, S/5, ...). repairDigits fixes the
// token before parsing.
const numTok = `([0-9OoQDIl|!ZzSsB]{1,3})`

type fieldPattern struct {
	field    string
	kind     valueKind
	min, max int               // numeric domain; values outside are discarded
	mapping  map[string]string // normalized captured token -> canonical label
	patterns []*regexp.Regexp
}

func rx(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

var fieldPatterns = []fieldPattern{
	{
		field: "age", kind: kindNumber, min: 18, max: 120,
		patterns: rx(
			`age[:\s]+`+numTok+`\b`,
			numTok+`\s*years?\s*old\b`,
			`age[:\s]+`+numTok+`\s*(?:years?|yrs?)\b`,
		),
	},
	{
		field: "cholesterol", kind: kindNumber, min: 100, max: 600,
		patterns: rx(
			`(?:total\s*)?cholesterol(?:\s*level)?[:\s]+`+numTok+`\b`,
			`chol[:\s]+`+numTok+`\b`,
			`\btc[:\s]+`+numTok+`\b`,
			numTok+`\s*mg/dl\s*cholesterol\b`,
		),
	},
	{
		field: "blood_pressure", kind: kindBloodPressure, min: 60, max: 250,
		patterns: rx(
			`blood\s*pressure[:\s]+`+numTok+`(?:\s*/\s*[0-9OoQDIl|!ZzSsB]{1,3})?`,
			`\bbp[:\s]+`+numTok+`(?:\s*/\s*[0-9OoQDIl|!ZzSsB]{1,3})?`,
			`systolic[:\s]+`+numTok+`\b`,
			numTok+`\s*/\s*[0-9OoQDIl|!ZzSsB]{1,3}\s*mmhg\b`,
			numTok+`\s*/\s*[0-9OoQDIl|!ZzSsB]{1,3}\b`,
		),
	},
	{
		field: "heart_rate", kind: kindNumber, min: 40, max: 200,
		patterns: rx(
			`heart\s*(?:rate|beat)[:\s]+`+numTok+`\b`,
			`pulse(?:\s*rate)?[:\s]+`+numTok+`\b`,
			`\bhr[:\s]+`+numTok+`\b`,
			numTok+`\s*bpm\b`,
		),
	},
	{
		field: "blood_sugar", kind: kindNumber, min: 70, max: 300,
		patterns: rx(
			`blood\s*sugar[:\s]+`+numTok+`\b`,
			`(?:fasting\s*)?glucose(?:\s*level)?[:\s]+`+numTok+`\b`,
			`\bfbs[:\s]+`+numTok+`\b`,
			`sugar[:\s]+`+numTok+`\s*mg/dl\b`,
		),
	},
	{
		field: "exercise_hours", kind: kindNumber, min: 0, max: 24,
		patterns: rx(
			`exercise(?:\s*hours)?[:\s]+`+numTok+`\b`,
			`physical\s*activity[:\s]+`+numTok+`\b`,
			numTok+`\s*hours?\s*(?:of\s*exercise\s*)?per\s*week\b`,
		),
	},
	{
		field: "stress_level", kind: kindNumber, min: 1, max: 10,
		patterns: rx(
			`stress(?:\s*level)?[:\s]+`+numTok+`\b`,
			`anxiety[:\s]+`+numTok+`\b`,
		),
	},
	{
		field: "gender", kind: kindEnum,
		mapping: map[string]string{"male": "Male", "female": "Female"},
		patterns: rx(
			`(?:gender|sex)[:\s]+(male|female)\b`,
			`(male|female)\s*patient\b`,
		),
	},
	{
		field: "smoking", kind: kindEnum,
		mapping: map[string]string{
			"yes": "Current", "current": "Current",
			"no": "Never", "never": "Never",
			"former": "Former",
		},
		patterns: rx(
			`smok(?:ing|er|e)[:\s]+(yes|no|never|former|current)\b`,
			`(?:tobacco|cigarette)[:\s]+(yes|no|never|former|current)\b`,
		),
	},
	{
		field: "alcohol_intake", kind: kindEnum,
		mapping: map[string]string{"none": "None", "moderate": "Moderate", "heavy": "Heavy"},
		patterns: rx(
			`alcohol(?:\s*(?:intake|consumption))?[:\s]+(none|moderate|heavy)\b`,
			`(?:drinking|drinks)[:\s]+(none|moderate|heavy)\b`,
		),
	},
	{
		field: "family_history", kind: kindYesNo,
		patterns: rx(
			`family\s*history(?:\s*of\s*heart\s*disease)?[:\s]+(yes|no)\b`,
			`(?:hereditary|\bfh)[:\s]+(yes|no)\b`,
		),
	},
	{
		field: "diabetes", kind: kindYesNo,
		patterns: rx(
			`diabet(?:es|ic)(?:\s*mellitus)?[:\s]+(yes|no)\b`,
			`\bdm[:\s]+(yes|no)\b`,
		),
	},
	{
		field: "obesity", kind: kindYesNo,
		patterns: rx(
			`obes(?:ity|e)[:\s]+(yes|no)\b`,
			`overweight[:\s]+(yes|no)\b`,
		),
	},
	{
		// BMI implies obesity at >= 30 when no explicit flag was found.
		field: "obesity", kind: kindBMI,
		patterns: rx(
			`\bbmi[:\s]+(\d{1,2}(?:\.\d{1,2})?)\b`,
			`body\s*mass\s*index[:\s]+(\d{1,2}(?:\.\d{1,2})?)\b`,
		),
	},
	{
		field: "exercise_induced_angina", kind: kindYesNo,
		patterns: rx(
			`exercise[\s-]*induced\s*angina[:\s]+(yes|no)\b`,
			`angina[:\s]+(yes|no)\b`,
			`chest\s*pain[:\s]+(yes|no)\b`,
		),
	},
	{
		field: "chest_pain_type", kind: kindEnum,
		mapping: map[string]string{
			"typical angina":   "Typical Angina",
			"atypical angina":  "Atypical Angina",
			"non anginal pain": "Non-anginal Pain",
			"asymptomatic":     "Asymptomatic",
		},
		patterns: rx(
			`chest\s*pain(?:\s*type)?[:\s]+(typical\s*angina|atypical\s*angina|non[\s-]*anginal\s*pain|asymptomatic)\b`,
		),
	},
}

// RequiredFieldCount is the denominator of the aggregate confidence: all 15
// schema fields count as required.
const RequiredFieldCount = 15
