package model

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/cardioscan/heartrisk/internal/common"
)

// Variant tags which model served a request.
type Variant string

const (
	VariantPrimary  Variant = "primary"
	VariantFallback Variant = "fallback"
)

// Model wraps the loaded artifact behind a read-only scoring interface.
// Safe for concurrent use once Load returns.
type Model struct {
	artifact *Artifact
	variant  Variant
}

// Load reads the artifact and selects the serving variant: the boosted
// ensemble when it is present and non-degenerate, the linear fallback
// otherwise. The selection is recorded in Version().
func Load(dir string, logger *slog.Logger) (*Model, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a, err := ReadArtifact(dir)
	if err != nil {
		return nil, err
	}

	variant := VariantFallback
	if a.GBT != nil && len(a.GBT.Trees) > 0 {
		variant = VariantPrimary
	} else if a.Linear == nil {
		return nil, common.ModelUnavailableError(fmt.Errorf("artifact has neither a usable ensemble nor a fallback"))
	}
	if variant == VariantFallback && a.GBT != nil {
		logger.Warn("model.load.degenerate_primary", "trees", len(a.GBT.Trees))
	}

	logger.Info("model.load.ok",
		"version", a.ModelVersion,
		"variant", string(variant),
		"features", len(a.FeatureNames),
	)
	return &Model{artifact: a, variant: variant}, nil
}

// Artifact exposes the read-only artifact for the preprocessor and explainer.
func (m *Model) Artifact() *Artifact { return m.artifact }

// Variant reports which model serves predictions.
func (m *Model) Variant() Variant { return m.variant }

// Version is the artifact version, suffixed when the fallback serves.
func (m *Model) Version() string {
	if m.variant == VariantFallback {
		return m.artifact.ModelVersion + "+fallback"
	}
	return m.artifact.ModelVersion
}

// Predict returns the calibrated positive-class probability for a
// preprocessed vector.
func (m *Model) Predict(vector []float64) (float64, error) {
	if len(vector) != len(m.artifact.FeatureNames) {
		return 0, common.NewAppError(common.CodeInternal,
			fmt.Sprintf("vector length %d != %d features", len(vector), len(m.artifact.FeatureNames)),
			common.ErrInternal)
	}
	return sigmoid(m.margin(vector)), nil
}

func (m *Model) margin(vector []float64) float64 {
	if m.variant == VariantPrimary {
		g := m.artifact.GBT
		margin := g.BaseScore
		for i := range g.Trees {
			margin += g.LearningRate * g.Trees[i].Score(vector)
		}
		return margin
	}
	l := m.artifact.Linear
	margin := l.Bias
	for i, w := range l.Weights {
		margin += w * vector[i]
	}
	return margin
}

// Score walks the tree for one vector and returns the leaf value.
func (t *Tree) Score(vector []float64) float64 {
	i := 0
	for t.Left[i] != -1 {
		if vector[t.SplitFeature[i]] <= t.Threshold[i] {
			i = t.Left[i]
		} else {
			i = t.Right[i]
		}
	}
	return t.Value[i]
}

// PathContributions accumulates per-feature decision-path contributions into
// contrib: each step adds (child value - node value) to the split feature.
// The sum of contributions plus the root value equals the leaf value.
func (t *Tree) PathContributions(vector, contrib []float64) {
	i := 0
	for t.Left[i] != -1 {
		next := t.Right[i]
		if vector[t.SplitFeature[i]] <= t.Threshold[i] {
			next = t.Left[i]
		}
		contrib[t.SplitFeature[i]] += t.Value[next] - t.Value[i]
		i = next
	}
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
