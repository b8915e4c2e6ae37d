package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/wahdanz1/taxipred/internal/errors"
	"github.com/wahdanz1/taxipred/internal/middleware"
	"github.com/wahdanz1/taxipred/internal/ml"
	"github.com/wahdanz1/taxipred/internal/models"
	"github.com/wahdanz1/taxipred/internal/monitoring"
	"github.com/wahdanz1/taxipred/internal/repository"
	"github.com/wahdanz1/taxipred/internal/validator"
)

// PredictHandler runs the fare model for API clients. The prediction log is
// optional; when absent, served predictions are simply not recorded.
type PredictHandler struct {
	predictor *ml.Predictor
	repo      *repository.PredictionRepository
	metrics   *monitoring.Metrics
	log       *zap.SugaredLogger
}

func NewPredictHandler(predictor *ml.Predictor, repo *repository.PredictionRepository, metrics *monitoring.Metrics, log *zap.SugaredLogger) *PredictHandler {
	return &PredictHandler{
		predictor: predictor,
		repo:      repo,
		metrics:   metrics,
		log:       log,
	}
}

// Predict handles POST /predict.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	if h.predictor == nil || !h.predictor.Ready() {
		respondError(w, r, apperrors.NewModelNotLoadedError())
		return
	}

	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.NewValidationError("Invalid request body", err))
		return
	}

	v := validator.New()
	v.ValidatePredictionRequest(&req)
	if !v.Valid() {
		respondError(w, r, apperrors.NewInvalidTripError("Invalid prediction request", v.Errors))
		return
	}

	start := time.Now()
	resp, err := h.predictor.Predict(&req)
	if err != nil {
		respondError(w, r, apperrors.NewPredictionError(h.predictor.ModelName(), err))
		return
	}
	h.metrics.ObservePrediction(h.predictor.ModelName(), resp.EstimatedPrice, time.Since(start))

	if h.repo != nil {
		h.logPrediction(middleware.RequestIDFromContext(r.Context()), &req, resp)
	}

	respondJSON(w, http.StatusOK, resp)
}

// logPrediction writes to the prediction log in the background; a log failure
// must not fail the request.
func (h *PredictHandler) logPrediction(requestID string, req *models.PredictionRequest, resp *models.PredictionResponse) {
	rec := &models.PredictionRecord{
		RequestID:         requestID,
		TripDistanceKM:    req.TripDistanceKM,
		PassengerCount:    req.PassengerCount,
		PickupDatetime:    req.PickupDatetime.Time,
		Weather:           req.Weather,
		TrafficConditions: req.TrafficConditions,
		EstimatedPrice:    resp.EstimatedPrice,
		ModelName:         h.predictor.ModelName(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := h.repo.Insert(ctx, rec); err != nil {
			h.log.Warnw("failed to record prediction", "error", err, "request_id", requestID)
		}
	}()
}
