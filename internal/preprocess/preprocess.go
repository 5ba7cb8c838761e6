// Package preprocess converts a complete feature schema into the numeric
// vector the model expects, using the standardization constants and label
// tables fixed at training time.
package preprocess

import (
	"fmt"

	"github.com/cardioscan/heartrisk/internal/common"
	"github.com/cardioscan/heartrisk/internal/model"
	"github.com/cardioscan/heartrisk/internal/schema"
)

// Transformer is a deterministic, side-effect-free mapping from schema to
// vector. Safe for concurrent use.
type Transformer struct {
	artifact *model.Artifact
}

func NewTransformer(a *model.Artifact) *Transformer {
	return &Transformer{artifact: a}
}

// FeatureValue pairs a training-time feature name with the original
// human-readable input value.
type FeatureValue struct {
	Feature string
	Value   any
}

// Transform maps a validated input to the model vector, ordered by the
// artifact's feature_names. Continuous fields are standardized with the
// persisted mean/scale; categorical fields go through the persisted label
// tables. Unknown labels fail, never coerce.
func (t *Transformer) Transform(in schema.FeatureInput) ([]float64, error) {
	names := t.artifact.FeatureNames
	vector := make([]float64, len(names))
	for i, name := range names {
		v, err := t.featureValue(name, in)
		if err != nil {
			return nil, err
		}
		vector[i] = v
	}
	return vector, nil
}

// Labels returns the human-readable (feature, value) pairs in vector order.
// The explainer attaches these to contributors so responses show the original
// input, not the standardized number.
func (t *Transformer) Labels(in schema.FeatureInput) []FeatureValue {
	names := t.artifact.FeatureNames
	out := make([]FeatureValue, len(names))
	for i, name := range names {
		out[i] = FeatureValue{Feature: name, Value: rawValue(name, in)}
	}
	return out
}

func (t *Transformer) featureValue(name string, in schema.FeatureInput) (float64, error) {
	if sc, ok := t.artifact.NumericFeatures[name]; ok {
		raw, err := numericValue(name, in)
		if err != nil {
			return 0, err
		}
		return (raw - sc.Mean) / sc.Scale, nil
	}
	if classes, ok := t.artifact.LabelEncoders[name]; ok {
		label, err := categoricalLabel(name, in)
		if err != nil {
			return 0, err
		}
		for idx, c := range classes {
			if c == label {
				return float64(idx), nil
			}
		}
		return 0, common.UnknownCategoryError(name, label)
	}
	return 0, common.NewAppError(common.CodeInternal,
		fmt.Sprintf("feature %q has no transform", name), common.ErrInternal)
}

func numericValue(name string, in schema.FeatureInput) (float64, error) {
	switch name {
	case "Age":
		return float64(in.Age), nil
	case "Cholesterol":
		return float64(in.Cholesterol), nil
	case "Blood Pressure":
		return float64(in.BloodPressure), nil
	case "Heart Rate":
		return float64(in.HeartRate), nil
	case "Exercise Hours":
		return float64(in.ExerciseHours), nil
	case "Stress Level":
		return float64(in.StressLevel), nil
	case "Blood Sugar":
		return float64(in.BloodSugar), nil
	}
	return 0, common.NewAppError(common.CodeInternal,
		fmt.Sprintf("unmapped numeric feature %q", name), common.ErrInternal)
}

// categoricalLabel produces the training-data label for a field. The training
// set encodes booleans as Yes/No and the "None" alcohol level as the literal
// string "nan"; that quirk stays confined to this function.
func categoricalLabel(name string, in schema.FeatureInput) (string, error) {
	yesNo := func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	}
	switch name {
	case "Gender":
		return string(in.Gender), nil
	case "Smoking":
		return string(in.Smoking), nil
	case "Alcohol Intake":
		if in.AlcoholIntake == schema.AlcoholNone {
			return "nan", nil
		}
		return string(in.AlcoholIntake), nil
	case "Family History":
		return yesNo(in.FamilyHistory), nil
	case "Diabetes":
		return yesNo(in.Diabetes), nil
	case "Obesity":
		return yesNo(in.Obesity), nil
	case "Exercise Induced Angina":
		return yesNo(in.ExerciseInducedAngina), nil
	case "Chest Pain Type":
		return string(in.ChestPainType), nil
	}
	return "", common.NewAppError(common.CodeInternal,
		fmt.Sprintf("unmapped categorical feature %q", name), common.ErrInternal)
}

func rawValue(name string, in schema.FeatureInput) any {
	switch name {
	case "Age":
		return in.Age
	case "Gender":
		return string(in.Gender)
	case "Cholesterol":
		return in.Cholesterol
	case "Blood Pressure":
		return in.BloodPressure
	case "Heart Rate":
		return in.HeartRate
	case "Smoking":
		return string(in.Smoking)
	case "Alcohol Intake":
		return string(in.AlcoholIntake)
	case "Exercise Hours":
		return in.ExerciseHours
	case "Family History":
		return in.FamilyHistory
	case "Diabetes":
		return in.Diabetes
	case "Obesity":
		return in.Obesity
	case "Stress Level":
		return in.StressLevel
	case "Blood Sugar":
		return in.BloodSugar
	case "Exercise Induced Angina":
		return in.ExerciseInducedAngina
	case "Chest Pain Type":
		return string(in.ChestPainType)
	}
	return nil
}
