// Package model loads the persisted training artifact and serves calibrated
// probabilities from it. The artifact is produced offline; everything here is
// read-only after Load.
package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cardioscan/heartrisk/internal/common"
)

//go:embed artifact.json
var embeddedArtifact []byte

// Scaler holds the standardization constants for one continuous feature,
// fixed at training time.
type Scaler struct {
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

// Tree is one regression tree in the boosted ensemble, stored as parallel
// arrays. A node i is a leaf when Left[i] == -1. Value holds the expected
// margin at every node, not just leaves; the explainer walks it.
type Tree struct {
	SplitFeature []int     `json:"split_feature"`
	Threshold    []float64 `json:"threshold"`
	Left         []int     `json:"left"`
	Right        []int     `json:"right"`
	Value        []float64 `json:"value"`
}

// GBT is the gradient-boosted ensemble block of the artifact.
type GBT struct {
	BaseScore    float64 `json:"base_score"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []Tree  `json:"trees"`
}

// Linear is the logistic-regression fallback block of the artifact.
type Linear struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// Artifact is the persisted model document (artifact.json).
type Artifact struct {
	ModelVersion      string              `json:"model_version"`
	FeatureNames      []string            `json:"feature_names"`
	NumericFeatures   map[string]Scaler   `json:"numeric_features"`
	LabelEncoders     map[string][]string `json:"label_encoders"`
	FeatureImportance map[string]float64  `json:"feature_importance"`
	Metrics           map[string]float64  `json:"metrics,omitempty"`
	GBT               *GBT                `json:"gbt,omitempty"`
	Linear            *Linear             `json:"linear,omitempty"`
}

const artifactFileName = "artifact.json"

// ReadArtifact loads and validates artifact.json from dir, or the embedded
// default when dir is empty.
func ReadArtifact(dir string) (*Artifact, error) {
	raw := embeddedArtifact
	if dir != "" {
		path := filepath.Join(dir, artifactFileName)
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, common.ModelUnavailableError(fmt.Errorf("read artifact: %w", err))
		}
		raw = b
	}

	if err := validateArtifactJSON(raw); err != nil {
		return nil, common.ModelUnavailableError(err)
	}

	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, common.ModelUnavailableError(fmt.Errorf("decode artifact: %w", err))
	}
	if err := a.check(); err != nil {
		return nil, common.ModelUnavailableError(err)
	}
	return &a, nil
}

// check enforces the structural invariants the JSON schema cannot express.
func (a *Artifact) check() error {
	n := len(a.FeatureNames)
	if n == 0 {
		return fmt.Errorf("artifact has no feature names")
	}
	for name := range a.NumericFeatures {
		if !a.hasFeature(name) {
			return fmt.Errorf("numeric feature %q not in feature_names", name)
		}
	}
	for name, classes := range a.LabelEncoders {
		if !a.hasFeature(name) {
			return fmt.Errorf("encoded feature %q not in feature_names", name)
		}
		if len(classes) == 0 {
			return fmt.Errorf("encoder for %q has no classes", name)
		}
	}
	if a.Linear != nil && len(a.Linear.Weights) != n {
		return fmt.Errorf("linear weights length %d != %d features", len(a.Linear.Weights), n)
	}
	if a.GBT != nil {
		for ti, t := range a.GBT.Trees {
			nodes := len(t.Value)
			if len(t.SplitFeature) != nodes || len(t.Threshold) != nodes ||
				len(t.Left) != nodes || len(t.Right) != nodes {
				return fmt.Errorf("tree %d has ragged node arrays", ti)
			}
			for i := 0; i < nodes; i++ {
				if t.Left[i] == -1 {
					continue
				}
				if t.Left[i] < 0 || t.Left[i] >= nodes || t.Right[i] < 0 || t.Right[i] >= nodes {
					return fmt.Errorf("tree %d node %d has out-of-range children", ti, i)
				}
				if t.SplitFeature[i] < 0 || t.SplitFeature[i] >= n {
					return fmt.Errorf("tree %d node %d splits on unknown feature %d", ti, i, t.SplitFeature[i])
				}
			}
		}
	}
	return nil
}

func (a *Artifact) hasFeature(name string) bool {
	for _, f := range a.FeatureNames {
		if f == name {
			return true
		}
	}
	return false
}

// FeatureIndex returns the vector position of a feature name, or -1.
func (a *Artifact) FeatureIndex(name string) int {
	for i, f := range a.FeatureNames {
		if f == name {
			return i
		}
	}
	return -1
}
