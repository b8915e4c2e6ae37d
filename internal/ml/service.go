package ml

import (
	"fmt"
	"sync"

	"github.com/wahdanz1/taxipred/internal/features"
	"github.com/wahdanz1/taxipred/internal/models"
)

// Predictor serves fare predictions from a trained model artifact.
type Predictor struct {
	mu       sync.RWMutex
	model    Model
	artifact *Artifact
}

// NewPredictor loads the model artifact at path.
func NewPredictor(path string) (*Predictor, error) {
	artifact, model, err := LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	if len(artifact.Features) != len(features.Columns) {
		return nil, fmt.Errorf("artifact expects %d features, service provides %d",
			len(artifact.Features), len(features.Columns))
	}
	return &Predictor{model: model, artifact: artifact}, nil
}

func (p *Predictor) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model != nil
}

// ModelName reports which model family is serving.
func (p *Predictor) ModelName() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.model == nil {
		return ""
	}
	return p.model.Name()
}

// Metrics returns the held-out metrics recorded at training time.
func (p *Predictor) Metrics() Metrics {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.artifact.Metrics
}

// FeatureImportance pairs the artifact's feature names with importances.
func (p *Predictor) FeatureImportance() []FeatureWeight {
	p.mu.RLock()
	defer p.mu.RUnlock()

	imp := p.model.FeatureImportance()
	out := make([]FeatureWeight, len(p.artifact.Features))
	for j, name := range p.artifact.Features {
		out[j] = FeatureWeight{Feature: name, Importance: imp[j]}
	}
	return out
}

// Predict engineers the request into the training feature space and runs the
// model.
func (p *Predictor) Predict(req *models.PredictionRequest) (*models.PredictionResponse, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.model == nil {
		return nil, fmt.Errorf("model not loaded")
	}
	if req.TripDistanceKM <= 0 {
		return nil, fmt.Errorf("distance must be greater than 0 km")
	}

	set, err := features.FromInput(req.TripDistanceKM, req.PassengerCount,
		req.PickupDatetime.Time, req.Weather, req.TrafficConditions)
	if err != nil {
		return nil, err
	}

	price := p.model.Predict(set.Vector())

	return &models.PredictionResponse{
		EstimatedPrice: price,
		TripDetails: models.TripDetails{
			OriginalDistance:        req.TripDistanceKM,
			OriginalPassengers:      req.PassengerCount,
			PickupTime:              req.PickupDatetime.Format("2006-01-02 15:04"),
			WeatherUsed:             req.Weather,
			TrafficUsed:             req.TrafficConditions,
			WeatherImpactMultiplier: set.WeatherImpact,
			IsRushHour:              set.IsPeakHours == 1,
		},
		Status: "Prediction completed!",
	}, nil
}
