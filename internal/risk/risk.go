// Package risk maps a calibrated probability to a discrete tier and selects
// guidance notes from a static catalog.
package risk

import (
	"fmt"
	"strings"

	"github.com/cardioscan/heartrisk/internal/explain"
	"github.com/cardioscan/heartrisk/internal/schema"
)

// Thresholds are the tier boundaries: Low = [0, Moderate), Moderate =
// [Moderate, High), High = [High, 1].
type Thresholds struct {
	Moderate float64
	High     float64
}

// DefaultThresholds returns the serving defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{Moderate: 0.33, High: 0.67}
}

func (t Thresholds) Validate() error {
	if t.Moderate <= 0 || t.Moderate >= t.High || t.High > 1 {
		return fmt.Errorf("thresholds must satisfy 0 < moderate < high <= 1, got %v/%v", t.Moderate, t.High)
	}
	return nil
}

// Categorizer buckets probabilities. Immutable after construction.
type Categorizer struct {
	thresholds Thresholds
}

func NewCategorizer(t Thresholds) (*Categorizer, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Categorizer{thresholds: t}, nil
}

// Level returns the tier for a probability.
func (c *Categorizer) Level(p float64) schema.RiskLevel {
	switch {
	case p >= c.thresholds.High:
		return schema.RiskHigh
	case p >= c.thresholds.Moderate:
		return schema.RiskModerate
	default:
		return schema.RiskLow
	}
}

// tierNotes is the fixed per-tier guidance catalog.
var tierNotes = map[schema.RiskLevel][]string{
	schema.RiskHigh: {
		"High risk detected. Please consult a healthcare professional immediately.",
		"Consider lifestyle changes: quit smoking, increase exercise, manage stress.",
	},
	schema.RiskModerate: {
		"Moderate risk detected. Regular health checkups are recommended.",
		"Focus on preventive measures: maintain healthy diet, regular exercise.",
	},
	schema.RiskLow: {
		"Low risk detected. Continue maintaining a healthy lifestyle.",
		"Regular exercise and balanced diet help maintain heart health.",
	},
}

// featureNotes adds one line per recognized top contributor.
var featureNotes = []struct {
	keyword string
	note    string
}{
	{"age", "Age is a significant factor. Regular health screenings become more important with age."},
	{"smoking", "Smoking significantly increases heart disease risk. Consider smoking cessation programs."},
	{"exercise", "Regular physical activity helps reduce heart disease risk."},
	{"stress", "High stress levels can impact heart health. Consider stress management techniques."},
	{"cholesterol", "High cholesterol increases heart disease risk. Consider dietary changes and medication."},
	{"blood pressure", "High blood pressure is a major risk factor. Monitor regularly and consider treatment."},
}

const disclaimer = "This tool is for educational use only and not for medical diagnosis."

// Notes selects the guidance lines for a tier and its top contributors.
// Always non-empty.
func (c *Categorizer) Notes(level schema.RiskLevel, contributors []explain.Contributor) []string {
	notes := make([]string, 0, 8)
	notes = append(notes, tierNotes[level]...)

	top := contributors
	if len(top) > 3 {
		top = top[:3]
	}
	for _, contrib := range top {
		feature := strings.ToLower(contrib.Feature)
		for _, fn := range featureNotes {
			if strings.Contains(feature, fn.keyword) {
				notes = append(notes, fn.note)
				break
			}
		}
	}

	return append(notes, disclaimer)
}

// Categorize returns the tier and its guidance notes together.
func (c *Categorizer) Categorize(p float64, contributors []explain.Contributor) (schema.RiskLevel, []string) {
	level := c.Level(p)
	return level, c.Notes(level, contributors)
}
