package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/wahdanz1/taxipred/internal/dataset"
	"github.com/wahdanz1/taxipred/internal/features"
)

const targetColumn = "trip_price"

// Trainer fits the candidate models on a cleaned table and persists the best
// one (lowest held-out MAE) along with metrics and feature importances.
type Trainer struct {
	TestSize float64
	Seed     int64
	log      *zap.SugaredLogger
}

func NewTrainer(log *zap.SugaredLogger) *Trainer {
	return &Trainer{TestSize: 0.2, Seed: 42, log: log}
}

// Result holds everything a training run produced.
type Result struct {
	Best       Model
	BestName   string
	AllMetrics map[string]Metrics
	Importance []FeatureWeight
	Features   []string
}

type FeatureWeight struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// matrixFromTable pulls X in the canonical feature order and y from the
// target column. Every cell must be present; the pipeline guarantees that.
func matrixFromTable(t *dataset.Table) ([][]float64, []float64, error) {
	for _, col := range append(append([]string(nil), features.Columns...), targetColumn) {
		if !t.HasColumn(col) {
			return nil, nil, fmt.Errorf("cleaned table is missing column %s", col)
		}
	}

	n := t.Len()
	X := make([][]float64, n)
	y := make([]float64, n)

	for row := 0; row < n; row++ {
		vec := make([]float64, len(features.Columns))
		for j, col := range features.Columns {
			v, ok := t.Float(col, row)
			if !ok {
				return nil, nil, fmt.Errorf("row %d: missing %s in cleaned table", row, col)
			}
			vec[j] = v
		}
		X[row] = vec

		price, ok := t.Float(targetColumn, row)
		if !ok {
			return nil, nil, fmt.Errorf("row %d: missing %s in cleaned table", row, targetColumn)
		}
		y[row] = price
	}
	return X, y, nil
}

// Train runs the full compare-and-select cycle on a cleaned table.
func (tr *Trainer) Train(t *dataset.Table) (*Result, error) {
	X, y, err := matrixFromTable(t)
	if err != nil {
		return nil, err
	}

	XTrain, XTest, yTrain, yTest := TrainTestSplit(X, y, tr.TestSize, tr.Seed)
	tr.log.Infow("split dataset", "train", len(XTrain), "test", len(XTest))

	candidates := []Trainable{
		NewLinearRegression(),
		NewRandomForest(100, tr.Seed),
		NewGradientBoosting(),
	}

	result := &Result{
		AllMetrics: make(map[string]Metrics),
		Features:   append([]string(nil), features.Columns...),
	}

	for _, model := range candidates {
		if err := model.Fit(XTrain, yTrain); err != nil {
			return nil, fmt.Errorf("train %s: %w", model.Name(), err)
		}

		preds := make([]float64, len(XTest))
		for i, x := range XTest {
			preds[i] = model.Predict(x)
		}
		metrics := Evaluate(yTest, preds)
		result.AllMetrics[model.Name()] = metrics

		tr.log.Infow("evaluated model", "model", model.Name(),
			"mae", metrics.MAE, "rmse", metrics.RMSE, "r2", metrics.R2)

		if result.Best == nil || metrics.MAE < result.AllMetrics[result.BestName].MAE {
			result.Best = model
			result.BestName = model.Name()
		}
	}

	imp := result.Best.FeatureImportance()
	for j, col := range features.Columns {
		result.Importance = append(result.Importance, FeatureWeight{Feature: col, Importance: imp[j]})
	}
	sort.Slice(result.Importance, func(a, b int) bool {
		return result.Importance[a].Importance > result.Importance[b].Importance
	})

	tr.log.Infow("selected best model", "model", result.BestName,
		"mae", result.AllMetrics[result.BestName].MAE)
	return result, nil
}

// Save writes model.json, metrics.json and feature_importance.json into dir.
func (r *Result) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := SaveArtifact(filepath.Join(dir, "model.json"), r.Features, r.Best, r.AllMetrics[r.BestName]); err != nil {
		return err
	}

	metrics := struct {
		Best   string             `json:"best"`
		Models map[string]Metrics `json:"models"`
	}{Best: r.BestName, Models: r.AllMetrics}

	if err := writeJSON(filepath.Join(dir, "metrics.json"), metrics); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "feature_importance.json"), r.Importance)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
