// Package ml trains and serves the fare regression models. Three model
// families are compared on a held-out split and the one with the lowest MAE
// becomes the serving artifact.
package ml

import (
	"encoding/json"
	"fmt"
	"os"
)

// Model is a trained regressor over a fixed feature vector.
type Model interface {
	Name() string
	Predict(x []float64) float64
	FeatureImportance() []float64
}

// Trainable is a model that can be fitted to a design matrix.
type Trainable interface {
	Model
	Fit(X [][]float64, y []float64) error
}

// Metrics are the held-out evaluation results of a single model.
type Metrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// Artifact is the on-disk form of a trained model together with the feature
// schema it expects.
type Artifact struct {
	Name     string          `json:"name"`
	Features []string        `json:"features"`
	Metrics  Metrics         `json:"metrics"`
	Model    json.RawMessage `json:"model"`
}

// Model names used in artifacts and API responses.
const (
	NameLinearRegression = "LinearRegression"
	NameRandomForest     = "RandomForest"
	NameGradientBoosting = "GradientBoosting"
)

// SaveArtifact serializes a trained model to path.
func SaveArtifact(path string, features []string, model Model, metrics Metrics) error {
	raw, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}

	artifact := Artifact{
		Name:     model.Name(),
		Features: features,
		Metrics:  metrics,
		Model:    raw,
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadArtifact restores a model artifact from path.
func LoadArtifact(path string) (*Artifact, Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read model artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, nil, fmt.Errorf("decode model artifact: %w", err)
	}

	var model Model
	switch artifact.Name {
	case NameLinearRegression:
		model = &LinearRegression{}
	case NameRandomForest:
		model = &RandomForest{}
	case NameGradientBoosting:
		model = &GradientBoosting{}
	default:
		return nil, nil, fmt.Errorf("unknown model %q in artifact", artifact.Name)
	}

	if err := json.Unmarshal(artifact.Model, model); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", artifact.Name, err)
	}

	// Tree models rebuild importances on first use; do it here while the
	// model is still private to this goroutine so later reads never write.
	model.FeatureImportance()

	return &artifact, model, nil
}
