package extract

import (
	"strconv"
	"strings"

	"github.com/cardioscan/heartrisk/internal/schema"
)

// Local confidence levels: 1.0 for an exact structured match, lower when the
// value needed OCR repair or was inferred rather than read.
const (
	confExact    = 1.0
	confRepaired = 0.8
	confInferred = 0.8
)

// ParseFields scans recovered text with the pattern table and returns the
// sparse schema it could recover. Values that fail domain validation are
// discarded, not returned invalid. A field keeps its first successful match.
func ParseFields(text string) schema.Partial {
	var p schema.Partial
	for i := range fieldPatterns {
		fp := &fieldPatterns[i]
		if p.Has(fp.field) {
			continue
		}
		for _, re := range fp.patterns {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			if applyMatch(&p, fp, m[0], m[1]) {
				break
			}
		}
	}
	return p
}

// applyMatch converts one regex match into a typed field value. Returns false
// when the captured token cannot produce a valid value, so the next pattern
// in the family gets a chance.
func applyMatch(p *schema.Partial, fp *fieldPattern, raw, tok string) bool {
	switch fp.kind {
	case kindNumber, kindBloodPressure:
		repaired, wasRepaired := repairDigits(tok)
		n, err := strconv.Atoi(repaired)
		if err != nil || n < fp.min || n > fp.max {
			return false
		}
		conf := confExact
		if wasRepaired {
			conf = confRepaired
		}
		setNumber(p, fp.field, n)
		p.SetProvenance(fp.field, raw, conf)
		return true

	case kindEnum:
		canonical, ok := fp.mapping[normalizeToken(tok)]
		if !ok {
			return false
		}
		setEnum(p, fp.field, canonical)
		p.SetProvenance(fp.field, raw, confExact)
		return true

	case kindYesNo:
		v := strings.EqualFold(tok, "yes")
		setBool(p, fp.field, v)
		p.SetProvenance(fp.field, raw, confExact)
		return true

	case kindBMI:
		bmi, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return false
		}
		v := bmi >= 30
		setBool(p, fp.field, v)
		p.SetProvenance(fp.field, raw, confInferred)
		return true
	}
	return false
}

// normalizeToken lowercases and collapses whitespace/hyphens so "Non-Anginal
// Pain" and "non anginal  pain" hit the same mapping key.
func normalizeToken(tok string) string {
	tok = strings.ToLower(strings.ReplaceAll(tok, "-", " "))
	return strings.Join(strings.Fields(tok), " ")
}

func setNumber(p *schema.Partial, field string, n int) {
	switch field {
	case "age":
		p.Age = &n
	case "cholesterol":
		p.Cholesterol = &n
	case "blood_pressure":
		p.BloodPressure = &n
	case "heart_rate":
		p.HeartRate = &n
	case "blood_sugar":
		p.BloodSugar = &n
	case "exercise_hours":
		p.ExerciseHours = &n
	case "stress_level":
		p.StressLevel = &n
	}
}

func setEnum(p *schema.Partial, field, canonical string) {
	switch field {
	case "gender":
		v := schema.Gender(canonical)
		p.Gender = &v
	case "smoking":
		v := schema.Smoking(canonical)
		p.Smoking = &v
	case "alcohol_intake":
		v := schema.AlcoholIntake(canonical)
		p.AlcoholIntake = &v
	case "chest_pain_type":
		v := schema.ChestPainType(canonical)
		p.ChestPainType = &v
	}
}

func setBool(p *schema.Partial, field string, v bool) {
	switch field {
	case "family_history":
		p.FamilyHistory = &v
	case "diabetes":
		p.Diabetes = &v
	case "obesity":
		p.Obesity = &v
	case "exercise_induced_angina":
		p.ExerciseInducedAngina = &v
	}
}

// aggregateConfidence is the fraction of required fields matched, weighted by
// the mean local confidence of those matches.
func aggregateConfidence(p *schema.Partial) float64 {
	set := p.FieldsSet()
	if len(set) == 0 {
		return 0
	}
	var sum float64
	var n int
	for _, field := range set {
		if prov, ok := p.Provenance[field]; ok {
			sum += prov.Confidence
			n++
		}
	}
	mean := 1.0
	if n > 0 {
		mean = sum / float64(n)
	}
	return float64(len(set)) / float64(RequiredFieldCount) * mean
}
