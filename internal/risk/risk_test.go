package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardioscan/heartrisk/internal/explain"
	"github.com/cardioscan/heartrisk/internal/schema"
)

func defaultCategorizer(t *testing.T) *Categorizer {
	t.Helper()
	c, err := NewCategorizer(DefaultThresholds())
	require.NoError(t, err)
	return c
}

func TestLevel_Boundaries(t *testing.T) {
	c := defaultCategorizer(t)

	assert.Equal(t, schema.RiskLow, c.Level(0.0))
	assert.Equal(t, schema.RiskLow, c.Level(0.3299))
	assert.Equal(t, schema.RiskModerate, c.Level(0.33))
	assert.Equal(t, schema.RiskModerate, c.Level(0.6699))
	assert.Equal(t, schema.RiskHigh, c.Level(0.67))
	assert.Equal(t, schema.RiskHigh, c.Level(1.0))
}

func TestLevel_CustomThresholds(t *testing.T) {
	c, err := NewCategorizer(Thresholds{Moderate: 0.2, High: 0.5})
	require.NoError(t, err)
	assert.Equal(t, schema.RiskModerate, c.Level(0.25))
	assert.Equal(t, schema.RiskHigh, c.Level(0.5))
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())
	assert.Error(t, Thresholds{Moderate: 0, High: 0.5}.Validate())
	assert.Error(t, Thresholds{Moderate: 0.7, High: 0.3}.Validate())
	assert.Error(t, Thresholds{Moderate: 0.5, High: 0.5}.Validate())
	assert.Error(t, Thresholds{Moderate: 0.5, High: 1.1}.Validate())
}

func TestNotes_TierLinesAndDisclaimer(t *testing.T) {
	c := defaultCategorizer(t)

	for _, level := range []schema.RiskLevel{schema.RiskLow, schema.RiskModerate, schema.RiskHigh} {
		notes := c.Notes(level, nil)
		require.NotEmpty(t, notes)
		assert.Contains(t, notes[len(notes)-1], "educational use only")
	}

	high := c.Notes(schema.RiskHigh, nil)
	assert.Contains(t, high[0], "High risk")
}

func TestNotes_TopContributorLines(t *testing.T) {
	c := defaultCategorizer(t)

	contributors := []explain.Contributor{
		{Feature: "Smoking", Value: "Current", Importance: 40},
		{Feature: "Blood Pressure", Value: 160, Importance: 30},
		{Feature: "Age", Value: 68, Importance: 20},
		{Feature: "Cholesterol", Value: 280, Importance: 10},
	}
	notes := c.Notes(schema.RiskHigh, contributors)

	joined := ""
	for _, n := range notes {
		joined += n + "\n"
	}
	assert.Contains(t, joined, "smoking cessation")
	assert.Contains(t, joined, "blood pressure")
	assert.Contains(t, joined, "health screenings")
	// only the top three contributors get feature notes
	assert.NotContains(t, joined, "dietary changes")
}

func TestCategorize(t *testing.T) {
	c := defaultCategorizer(t)
	level, notes := c.Categorize(0.36, nil)
	assert.Equal(t, schema.RiskModerate, level)
	assert.NotEmpty(t, notes)
}
