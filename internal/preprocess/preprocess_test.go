package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardioscan/heartrisk/internal/common"
	"github.com/cardioscan/heartrisk/internal/model"
	"github.com/cardioscan/heartrisk/internal/schema"
)

func loadArtifact(t *testing.T) *model.Artifact {
	t.Helper()
	a, err := model.ReadArtifact("")
	require.NoError(t, err)
	return a
}

func sampleInput() schema.FeatureInput {
	return schema.FeatureInput{
		Age:                   50,
		Gender:                schema.GenderMale,
		Cholesterol:           200,
		BloodPressure:         120,
		HeartRate:             72,
		Smoking:               schema.SmokingNever,
		AlcoholIntake:         schema.AlcoholNone,
		ExerciseHours:         3,
		FamilyHistory:         false,
		Diabetes:              false,
		Obesity:               false,
		StressLevel:           5,
		BloodSugar:            100,
		ExerciseInducedAngina: false,
		ChestPainType:         schema.ChestPainAsymptomatic,
	}
}

func TestTransform_LengthAndDeterminism(t *testing.T) {
	a := loadArtifact(t)
	tr := NewTransformer(a)

	v1, err := tr.Transform(sampleInput())
	require.NoError(t, err)
	v2, err := tr.Transform(sampleInput())
	require.NoError(t, err)
	assert.Len(t, v1, len(a.FeatureNames))
	assert.Equal(t, v1, v2)
}

func TestTransform_Standardization(t *testing.T) {
	a := loadArtifact(t)
	tr := NewTransformer(a)

	v, err := tr.Transform(sampleInput())
	require.NoError(t, err)

	sc := a.NumericFeatures["Age"]
	want := (50.0 - sc.Mean) / sc.Scale
	assert.InDelta(t, want, v[a.FeatureIndex("Age")], 1e-9)
}

func TestTransform_CategoricalEncoding(t *testing.T) {
	a := loadArtifact(t)
	tr := NewTransformer(a)

	in := sampleInput()
	in.Diabetes = true
	v, err := tr.Transform(in)
	require.NoError(t, err)

	// encoder tables are sorted: No=0, Yes=1
	assert.Equal(t, 1.0, v[a.FeatureIndex("Diabetes")])
	assert.Equal(t, 0.0, v[a.FeatureIndex("Obesity")])
}

func TestTransform_AlcoholNoneMapsToNaNLabel(t *testing.T) {
	a := loadArtifact(t)
	tr := NewTransformer(a)

	// classes sorted at training time: Heavy=0, Moderate=1, nan=2
	require.Equal(t, []string{"Heavy", "Moderate", "nan"}, a.LabelEncoders["Alcohol Intake"])

	v, err := tr.Transform(sampleInput())
	require.NoError(t, err)
	assert.Equal(t, 2.0, v[a.FeatureIndex("Alcohol Intake")])

	in := sampleInput()
	in.AlcoholIntake = schema.AlcoholHeavy
	v, err = tr.Transform(in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v[a.FeatureIndex("Alcohol Intake")])
}

func TestTransform_UnknownLabel(t *testing.T) {
	a := loadArtifact(t)
	// drop a class so a valid schema value has no encoding
	a.LabelEncoders["Gender"] = []string{"Female"}
	tr := NewTransformer(a)

	_, err := tr.Transform(sampleInput())
	require.Error(t, err)
	assert.Equal(t, common.CodeUnknownCategory, common.Kind(err))
	assert.Contains(t, err.Error(), "Gender")
}

func TestLabels_OrderAndRawValues(t *testing.T) {
	a := loadArtifact(t)
	tr := NewTransformer(a)

	labels := tr.Labels(sampleInput())
	require.Len(t, labels, len(a.FeatureNames))
	for i, l := range labels {
		assert.Equal(t, a.FeatureNames[i], l.Feature)
	}
	assert.Equal(t, 50, labels[a.FeatureIndex("Age")].Value)
	assert.Equal(t, "None", labels[a.FeatureIndex("Alcohol Intake")].Value)
	assert.Equal(t, false, labels[a.FeatureIndex("Diabetes")].Value)
}
