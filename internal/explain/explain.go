// Package explain computes per-feature attributions for a single prediction
// and renormalizes them into a presentable percentage distribution.
package explain

import (
	"math"
	"sort"

	"github.com/cardioscan/heartrisk/internal/model"
	"github.com/cardioscan/heartrisk/internal/preprocess"
)

// Contributor is one entry of the ranked explanation. Value is the original
// input value, not the transformed number.
type Contributor struct {
	Feature    string  `json:"feature"`
	Value      any     `json:"value"`
	Importance float64 `json:"importance"`
}

// Explainer derives attributions from the loaded model. Read-only, safe for
// concurrent use.
type Explainer struct {
	m *model.Model
}

func NewExplainer(m *model.Model) *Explainer {
	return &Explainer{m: m}
}

// Attributions returns the signed per-feature contribution toward the
// positive class for one vector.
//
// For the boosted ensemble this is the decision-path attribution: every split
// moves the expected margin from the node value to the child value, and that
// delta is credited to the split feature. For the linear fallback it is
// weight times input.
func (e *Explainer) Attributions(vector []float64) []float64 {
	a := e.m.Artifact()
	contrib := make([]float64, len(a.FeatureNames))

	if e.m.Variant() == model.VariantPrimary {
		perTree := make([]float64, len(contrib))
		for ti := range a.GBT.Trees {
			for i := range perTree {
				perTree[i] = 0
			}
			a.GBT.Trees[ti].PathContributions(vector, perTree)
			for i := range contrib {
				contrib[i] += a.GBT.LearningRate * perTree[i]
			}
		}
		return contrib
	}

	for i, w := range a.Linear.Weights {
		contrib[i] = w * vector[i]
	}
	return contrib
}

// Normalize converts raw attributions into percentages over the FULL feature
// set: absolute values, exact zeros dropped, survivors scaled to sum to 100.
// When every attribution is zero the mass is split equally across all
// features. The result is ordered by importance descending with a stable
// tie-break on feature order.
//
// Truncation to the top K happens after this step, so displayed percentages
// are a prefix of a 100-summing distribution; the remaining mass is implicit
// "other factors" rather than being inflated into the shown entries.
func (e *Explainer) Normalize(raw []float64, labels []preprocess.FeatureValue) []Contributor {
	n := len(raw)
	out := make([]Contributor, 0, n)

	var total float64
	for _, v := range raw {
		total += math.Abs(v)
	}

	if total == 0 {
		share := 100.0 / float64(n)
		for i := 0; i < n; i++ {
			out = append(out, Contributor{
				Feature:    labels[i].Feature,
				Value:      labels[i].Value,
				Importance: share,
			})
		}
		return out
	}

	type ranked struct {
		idx        int
		importance float64
	}
	var kept []ranked
	for i, v := range raw {
		abs := math.Abs(v)
		if abs == 0 {
			continue
		}
		kept = append(kept, ranked{idx: i, importance: abs / total * 100.0})
	}
	sort.SliceStable(kept, func(a, b int) bool {
		if kept[a].importance != kept[b].importance {
			return kept[a].importance > kept[b].importance
		}
		return kept[a].idx < kept[b].idx
	})
	for _, r := range kept {
		out = append(out, Contributor{
			Feature:    labels[r.idx].Feature,
			Value:      labels[r.idx].Value,
			Importance: r.importance,
		})
	}
	return out
}

// TopK truncates a normalized distribution to its first k entries.
func TopK(contributors []Contributor, k int) []Contributor {
	if k <= 0 || k >= len(contributors) {
		return contributors
	}
	return contributors[:k]
}

// Explain runs attribution, normalization and truncation in one step.
func (e *Explainer) Explain(vector []float64, labels []preprocess.FeatureValue, k int) []Contributor {
	return TopK(e.Normalize(e.Attributions(vector), labels), k)
}
