package ml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArtifactRoundTrip(t *testing.T) {
	featureNames := []string{"x1", "x2"}
	metrics := Metrics{MAE: 1.5, RMSE: 2.0, R2: 0.9}

	t.Run("Linear regression", func(t *testing.T) {
		m := &LinearRegression{Intercept: 1, Coefficients: []float64{2, 3}}
		path := filepath.Join(t.TempDir(), "model.json")

		assert.NoError(t, SaveArtifact(path, featureNames, m, metrics))

		artifact, loaded, err := LoadArtifact(path)
		assert.NoError(t, err)
		assert.Equal(t, NameLinearRegression, artifact.Name)
		assert.Equal(t, featureNames, artifact.Features)
		assert.Equal(t, metrics, artifact.Metrics)
		assert.Equal(t, m.Predict([]float64{4, 5}), loaded.Predict([]float64{4, 5}))
	})

	t.Run("Random forest keeps its trees", func(t *testing.T) {
		X, y := stepData()
		m := NewRandomForest(5, 1)
		assert.NoError(t, m.Fit(X, y))

		path := filepath.Join(t.TempDir(), "model.json")
		assert.NoError(t, SaveArtifact(path, featureNames, m, metrics))

		_, loaded, err := LoadArtifact(path)
		assert.NoError(t, err)
		assert.Equal(t, m.Predict([]float64{5, 0}), loaded.Predict([]float64{5, 0}))
		assert.Equal(t, m.Predict([]float64{35, 0}), loaded.Predict([]float64{35, 0}))

		// Importances rebuild from split counts after a round trip.
		imp := loaded.FeatureImportance()
		assert.Len(t, imp, 2)
	})

	t.Run("Gradient boosting keeps its ensemble", func(t *testing.T) {
		X, y := stepData()
		m := NewGradientBoosting()
		m.NumTrees = 10
		assert.NoError(t, m.Fit(X, y))

		path := filepath.Join(t.TempDir(), "model.json")
		assert.NoError(t, SaveArtifact(path, featureNames, m, metrics))

		_, loaded, err := LoadArtifact(path)
		assert.NoError(t, err)
		assert.Equal(t, m.Predict([]float64{5, 0}), loaded.Predict([]float64{5, 0}))
	})

	t.Run("Unknown model name is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.json")
		assert.NoError(t, os.WriteFile(path, []byte(`{"name":"SVM","features":[],"model":{}}`), 0o644))

		_, _, err := LoadArtifact(path)
		assert.Error(t, err)
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		_, _, err := LoadArtifact(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})
}
