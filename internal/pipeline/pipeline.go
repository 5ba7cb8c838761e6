// Package pipeline wires validation, preprocessing, scoring, explanation and
// categorization into the per-request prediction flow. A Service is built
// once at startup and is immutable afterwards; every request runs an
// independent, synchronous pass through it.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/cardioscan/heartrisk/internal/common"
	"github.com/cardioscan/heartrisk/internal/explain"
	"github.com/cardioscan/heartrisk/internal/extract"
	"github.com/cardioscan/heartrisk/internal/model"
	"github.com/cardioscan/heartrisk/internal/preprocess"
	"github.com/cardioscan/heartrisk/internal/risk"
	"github.com/cardioscan/heartrisk/internal/schema"
)

// Prediction is the response payload for one scored input.
type Prediction struct {
	RiskScore       float64               `json:"risk_score"`
	RiskLevel       schema.RiskLevel      `json:"risk_level"`
	TopContributors []explain.Contributor `json:"top_contributors"`
	ModelVersion    string                `json:"model_version"`
	Notes           []string              `json:"notes"`
}

type Service struct {
	model       *model.Model
	transformer *preprocess.Transformer
	explainer   *explain.Explainer
	categorizer *risk.Categorizer
	extractor   *extract.Extractor
	topK        int
	logger      *slog.Logger
}

func NewService(
	m *model.Model,
	tr *preprocess.Transformer,
	ex *explain.Explainer,
	cat *risk.Categorizer,
	doc *extract.Extractor,
	topK int,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if topK < 1 {
		topK = 5
	}
	return &Service{
		model:       m,
		transformer: tr,
		explainer:   ex,
		categorizer: cat,
		extractor:   doc,
		topK:        topK,
		logger:      logger,
	}
}

// Predict validates a complete feature set and runs it through the model.
// Either the full, trustworthy prediction comes back or an error does;
// there are no partial predictions.
func (s *Service) Predict(ctx context.Context, in schema.FeatureInput) (Prediction, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return Prediction{}, common.TimeoutError()
	}
	if err := in.Validate(); err != nil {
		return Prediction{}, err
	}

	vector, err := s.transformer.Transform(in)
	if err != nil {
		return Prediction{}, err
	}

	score, err := s.model.Predict(vector)
	if err != nil {
		return Prediction{}, err
	}

	contributors := s.explainer.Explain(vector, s.transformer.Labels(in), s.topK)
	level, notes := s.categorizer.Categorize(score, contributors)

	s.logger.Info("pipeline.predict.ok",
		"request_id", common.RequestIDFromContext(ctx),
		"risk_score", score,
		"risk_level", string(level),
		"model_version", s.model.Version(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return Prediction{
		RiskScore:       score,
		RiskLevel:       level,
		TopContributors: contributors,
		ModelVersion:    s.model.Version(),
		Notes:           notes,
	}, nil
}

// ExtractDocument recovers a sparse feature set from report bytes. The caller
// completes any missing fields and calls Predict separately.
func (s *Service) ExtractDocument(ctx context.Context, data []byte, declaredType string) (extract.Result, error) {
	res, err := s.extractor.Extract(ctx, data, declaredType)
	if err != nil {
		s.logger.Warn("pipeline.extract.failed",
			"request_id", common.RequestIDFromContext(ctx),
			"error", err,
		)
		return res, err
	}
	s.logger.Info("pipeline.extract.ok",
		"request_id", common.RequestIDFromContext(ctx),
		"method", res.Method,
		"fields", len(res.Fields.FieldsSet()),
		"confidence", res.Confidence,
	)
	return res, nil
}

// ModelInfo describes the loaded artifact for the info endpoint.
// FeatureImportance is the training-time global ranking, distinct from the
// per-prediction contributors.
type ModelInfo struct {
	ModelVersion      string             `json:"model_version"`
	Variant           string             `json:"variant"`
	TotalFeatures     int                `json:"total_features"`
	FeatureNames      []string           `json:"feature_names"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
	Metrics           map[string]float64 `json:"metrics"`
}

func (s *Service) ModelInfo() ModelInfo {
	a := s.model.Artifact()
	return ModelInfo{
		ModelVersion:      a.ModelVersion,
		Variant:           string(s.model.Variant()),
		TotalFeatures:     len(a.FeatureNames),
		FeatureNames:      a.FeatureNames,
		FeatureImportance: a.FeatureImportance,
		Metrics:           a.Metrics,
	}
}

// Healthy reports whether the service can serve predictions.
func (s *Service) Healthy() bool {
	return s.model != nil
}
