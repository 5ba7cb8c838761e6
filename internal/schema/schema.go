// Package schema holds the canonical typed representation of the 15 health
// indicators shared by the form and document entry paths.
package schema

import (
	"fmt"
	"strings"

	"github.com/cardioscan/heartrisk/internal/common"
)

// Gender is the patient gender as recorded in the training data.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }

// Smoking is the smoking status category.
type Smoking string

const (
	SmokingNever   Smoking = "Never"
	SmokingFormer  Smoking = "Former"
	SmokingCurrent Smoking = "Current"
)

func (s Smoking) Valid() bool {
	return s == SmokingNever || s == SmokingFormer || s == SmokingCurrent
}

// AlcoholIntake is the alcohol consumption category.
type AlcoholIntake string

const (
	AlcoholNone     AlcoholIntake = "None"
	AlcoholModerate AlcoholIntake = "Moderate"
	AlcoholHeavy    AlcoholIntake = "Heavy"
)

func (a AlcoholIntake) Valid() bool {
	return a == AlcoholNone || a == AlcoholModerate || a == AlcoholHeavy
}

// ChestPainType is the chest pain classification.
type ChestPainType string

const (
	ChestPainTypical      ChestPainType = "Typical Angina"
	ChestPainAtypical     ChestPainType = "Atypical Angina"
	ChestPainNonAnginal   ChestPainType = "Non-anginal Pain"
	ChestPainAsymptomatic ChestPainType = "Asymptomatic"
)

func (c ChestPainType) Valid() bool {
	switch c {
	case ChestPainTypical, ChestPainAtypical, ChestPainNonAnginal, ChestPainAsymptomatic:
		return true
	}
	return false
}

// RiskLevel is the discrete risk tier derived from the model probability.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// Domain bounds for the continuous fields. Out-of-range values are rejected,
// never clamped.
const (
	AgeMin, AgeMax                     = 18, 120
	CholesterolMin, CholesterolMax     = 100, 600
	BloodPressureMin, BloodPressureMax = 60, 250
	HeartRateMin, HeartRateMax         = 40, 200
	ExerciseHoursMin, ExerciseHoursMax = 0, 24
	StressLevelMin, StressLevelMax     = 1, 10
	BloodSugarMin, BloodSugarMax       = 70, 300
)

// FeatureInput is a complete set of the 15 health indicators.
type FeatureInput struct {
	Age                   int           `json:"age"`
	Gender                Gender        `json:"gender"`
	Cholesterol           int           `json:"cholesterol"`
	BloodPressure         int           `json:"blood_pressure"`
	HeartRate             int           `json:"heart_rate"`
	Smoking               Smoking       `json:"smoking"`
	AlcoholIntake         AlcoholIntake `json:"alcohol_intake"`
	ExerciseHours         int           `json:"exercise_hours"`
	FamilyHistory         bool          `json:"family_history"`
	Diabetes              bool          `json:"diabetes"`
	Obesity               bool          `json:"obesity"`
	StressLevel           int           `json:"stress_level"`
	BloodSugar            int           `json:"blood_sugar"`
	ExerciseInducedAngina bool          `json:"exercise_induced_angina"`
	ChestPainType         ChestPainType `json:"chest_pain_type"`
}

// FieldNames lists the JSON field names in canonical order.
var FieldNames = []string{
	"age", "gender", "cholesterol", "blood_pressure", "heart_rate",
	"smoking", "alcohol_intake", "exercise_hours", "family_history",
	"diabetes", "obesity", "stress_level", "blood_sugar",
	"exercise_induced_angina", "chest_pain_type",
}

// Validate checks every field against its domain and returns a single
// ValidationError listing all violations, or nil.
func (f FeatureInput) Validate() error {
	var errs []string
	inRange := func(name string, v, min, max int, unit string) {
		if v < min || v > max {
			errs = append(errs, fmt.Sprintf("%s must be between %d and %d%s", name, min, max, unit))
		}
	}
	inRange("age", f.Age, AgeMin, AgeMax, " years")
	inRange("cholesterol", f.Cholesterol, CholesterolMin, CholesterolMax, " mg/dL")
	inRange("blood_pressure", f.BloodPressure, BloodPressureMin, BloodPressureMax, " mmHg")
	inRange("heart_rate", f.HeartRate, HeartRateMin, HeartRateMax, " bpm")
	inRange("exercise_hours", f.ExerciseHours, ExerciseHoursMin, ExerciseHoursMax, " per week")
	inRange("stress_level", f.StressLevel, StressLevelMin, StressLevelMax, "")
	inRange("blood_sugar", f.BloodSugar, BloodSugarMin, BloodSugarMax, " mg/dL")

	if !f.Gender.Valid() {
		errs = append(errs, fmt.Sprintf("gender must be one of Male, Female (got %q)", string(f.Gender)))
	}
	if !f.Smoking.Valid() {
		errs = append(errs, fmt.Sprintf("smoking must be one of Never, Former, Current (got %q)", string(f.Smoking)))
	}
	if !f.AlcoholIntake.Valid() {
		errs = append(errs, fmt.Sprintf("alcohol_intake must be one of None, Moderate, Heavy (got %q)", string(f.AlcoholIntake)))
	}
	if !f.ChestPainType.Valid() {
		errs = append(errs, fmt.Sprintf("chest_pain_type must be one of Typical Angina, Atypical Angina, Non-anginal Pain, Asymptomatic (got %q)", string(f.ChestPainType)))
	}

	if len(errs) > 0 {
		return common.ValidationError(strings.Join(errs, "; "))
	}
	return nil
}
