package handlers

import (
	"net/http"

	apperrors "github.com/wahdanz1/taxipred/internal/errors"
	"github.com/wahdanz1/taxipred/internal/ml"
)

// ModelHandler exposes training-time information about the serving model for
// the dashboard's performance page.
type ModelHandler struct {
	predictor *ml.Predictor
}

func NewModelHandler(predictor *ml.Predictor) *ModelHandler {
	return &ModelHandler{predictor: predictor}
}

// GetMetrics handles GET /model/metrics.
func (h *ModelHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if h.predictor == nil || !h.predictor.Ready() {
		respondError(w, r, apperrors.NewModelNotLoadedError())
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Model   string     `json:"model"`
		Metrics ml.Metrics `json:"metrics"`
	}{
		Model:   h.predictor.ModelName(),
		Metrics: h.predictor.Metrics(),
	})
}

// GetFeatureImportance handles GET /model/importance.
func (h *ModelHandler) GetFeatureImportance(w http.ResponseWriter, r *http.Request) {
	if h.predictor == nil || !h.predictor.Ready() {
		respondError(w, r, apperrors.NewModelNotLoadedError())
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Model      string             `json:"model"`
		Importance []ml.FeatureWeight `json:"importance"`
	}{
		Model:      h.predictor.ModelName(),
		Importance: h.predictor.FeatureImportance(),
	})
}
