package schema

// Provenance records where an extracted field value came from.
type Provenance struct {
	// Raw is the matched text span from the document.
	Raw string `json:"raw"`
	// Confidence is the local parser confidence for this field, 0..1.
	Confidence float64 `json:"confidence"`
}

// Partial is a sparse FeatureInput as recovered from a document. Unset fields
// stay nil; the caller completes them before prediction.
type Partial struct {
	Age                   *int           `json:"age,omitempty"`
	Gender                *Gender        `json:"gender,omitempty"`
	Cholesterol           *int           `json:"cholesterol,omitempty"`
	BloodPressure         *int           `json:"blood_pressure,omitempty"`
	HeartRate             *int           `json:"heart_rate,omitempty"`
	Smoking               *Smoking       `json:"smoking,omitempty"`
	AlcoholIntake         *AlcoholIntake `json:"alcohol_intake,omitempty"`
	ExerciseHours         *int           `json:"exercise_hours,omitempty"`
	FamilyHistory         *bool          `json:"family_history,omitempty"`
	Diabetes              *bool          `json:"diabetes,omitempty"`
	Obesity               *bool          `json:"obesity,omitempty"`
	StressLevel           *int           `json:"stress_level,omitempty"`
	BloodSugar            *int           `json:"blood_sugar,omitempty"`
	ExerciseInducedAngina *bool          `json:"exercise_induced_angina,omitempty"`
	ChestPainType         *ChestPainType `json:"chest_pain_type,omitempty"`

	// Provenance maps JSON field names to the matched span and confidence.
	Provenance map[string]Provenance `json:"provenance,omitempty"`
}

// SetProvenance records the source span and confidence for a field.
func (p *Partial) SetProvenance(field, raw string, confidence float64) {
	if p.Provenance == nil {
		p.Provenance = make(map[string]Provenance)
	}
	p.Provenance[field] = Provenance{Raw: raw, Confidence: confidence}
}

// FieldsSet returns the JSON names of the fields that were recovered,
// in canonical order.
func (p *Partial) FieldsSet() []string {
	var set []string
	for _, name := range FieldNames {
		if p.Has(name) {
			set = append(set, name)
		}
	}
	return set
}

// Missing returns the JSON names of the fields still unset, in canonical order.
func (p *Partial) Missing() []string {
	var missing []string
	for _, name := range FieldNames {
		if !p.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Complete converts to a FeatureInput when every field is set. The second
// return lists missing field names when it is not.
func (p *Partial) Complete() (FeatureInput, []string) {
	if missing := p.Missing(); len(missing) > 0 {
		return FeatureInput{}, missing
	}
	return FeatureInput{
		Age:                   *p.Age,
		Gender:                *p.Gender,
		Cholesterol:           *p.Cholesterol,
		BloodPressure:         *p.BloodPressure,
		HeartRate:             *p.HeartRate,
		Smoking:               *p.Smoking,
		AlcoholIntake:         *p.AlcoholIntake,
		ExerciseHours:         *p.ExerciseHours,
		FamilyHistory:         *p.FamilyHistory,
		Diabetes:              *p.Diabetes,
		Obesity:               *p.Obesity,
		StressLevel:           *p.StressLevel,
		BloodSugar:            *p.BloodSugar,
		ExerciseInducedAngina: *p.ExerciseInducedAngina,
		ChestPainType:         *p.ChestPainType,
	}, nil
}

// Has reports whether a field (by JSON name) is set.
func (p *Partial) Has(field string) bool {
	switch field {
	case "age":
		return p.Age != nil
	case "gender":
		return p.Gender != nil
	case "cholesterol":
		return p.Cholesterol != nil
	case "blood_pressure":
		return p.BloodPressure != nil
	case "heart_rate":
		return p.HeartRate != nil
	case "smoking":
		return p.Smoking != nil
	case "alcohol_intake":
		return p.AlcoholIntake != nil
	case "exercise_hours":
		return p.ExerciseHours != nil
	case "family_history":
		return p.FamilyHistory != nil
	case "diabetes":
		return p.Diabetes != nil
	case "obesity":
		return p.Obesity != nil
	case "stress_level":
		return p.StressLevel != nil
	case "blood_sugar":
		return p.BloodSugar != nil
	case "exercise_induced_angina":
		return p.ExerciseInducedAngina != nil
	case "chest_pain_type":
		return p.ChestPainType != nil
	default:
		return false
	}
}
