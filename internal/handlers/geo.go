package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/wahdanz1/taxipred/internal/cache"
	apperrors "github.com/wahdanz1/taxipred/internal/errors"
	"github.com/wahdanz1/taxipred/internal/features"
	"github.com/wahdanz1/taxipred/internal/geo"
	"github.com/wahdanz1/taxipred/internal/models"
	"github.com/wahdanz1/taxipred/internal/monitoring"
)

// GeoHandler fronts the Google lookups, consulting the Redis cache first when
// one is configured.
type GeoHandler struct {
	client  *geo.Client
	cache   *cache.GeoCache
	metrics *monitoring.Metrics
	log     *zap.SugaredLogger
}

func NewGeoHandler(client *geo.Client, geoCache *cache.GeoCache, metrics *monitoring.Metrics, log *zap.SugaredLogger) *GeoHandler {
	return &GeoHandler{client: client, cache: geoCache, metrics: metrics, log: log}
}

// Suggest handles POST /suggestion.
func (h *GeoHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if !h.client.Configured() {
		respondError(w, r, apperrors.NewUnavailableError("Address suggestions are not configured", nil))
		return
	}

	var req models.SuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.NewValidationError("Invalid request body", err))
		return
	}

	ctx := r.Context()

	if h.cache != nil {
		if cached, err := h.cache.GetSuggestions(ctx, req.Query); err != nil {
			h.log.Warnw("suggestion cache read failed", "error", err)
		} else if cached != nil {
			h.metrics.ObserveGeoLookup("suggestion", "hit")
			respondJSON(w, http.StatusOK, toSuggestionResponse(cached))
			return
		}
	}

	suggestions, err := h.client.SuggestAddresses(ctx, req.Query)
	if err != nil {
		respondError(w, r, apperrors.NewGeoServiceError("address suggestions", err))
		return
	}
	h.metrics.ObserveGeoLookup("suggestion", "miss")

	if h.cache != nil {
		if err := h.cache.SetSuggestions(ctx, req.Query, suggestions); err != nil {
			h.log.Warnw("suggestion cache write failed", "error", err)
		}
	}

	respondJSON(w, http.StatusOK, toSuggestionResponse(suggestions))
}

// Distance handles POST /distance. Besides the road distance it reports a
// traffic estimate for the pickup time, which the dashboard feeds straight
// into the prediction form.
func (h *GeoHandler) Distance(w http.ResponseWriter, r *http.Request) {
	if !h.client.Configured() {
		respondError(w, r, apperrors.NewUnavailableError("Distance lookups are not configured", nil))
		return
	}

	var req models.DistanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.NewValidationError("Invalid request body", err))
		return
	}
	if req.Origin == "" || req.Destination == "" {
		respondError(w, r, apperrors.NewValidationError("origin and destination are required", nil))
		return
	}

	ctx := r.Context()

	km, found := 0.0, false
	if h.cache != nil {
		var err error
		km, found, err = h.cache.GetDistance(ctx, req.Origin, req.Destination)
		if err != nil {
			h.log.Warnw("distance cache read failed", "error", err)
			found = false
		}
	}

	if found {
		h.metrics.ObserveGeoLookup("distance", "hit")
	} else {
		var err error
		km, err = h.client.Distance(ctx, req.Origin, req.Destination)
		if errors.Is(err, geo.ErrNoRoute) {
			respondError(w, r, apperrors.NewRouteNotFoundError(req.Origin, req.Destination))
			return
		}
		if err != nil {
			respondError(w, r, apperrors.NewGeoServiceError("distance calculation", err))
			return
		}
		h.metrics.ObserveGeoLookup("distance", "miss")

		if h.cache != nil {
			if err := h.cache.SetDistance(ctx, req.Origin, req.Destination, km); err != nil {
				h.log.Warnw("distance cache write failed", "error", err)
			}
		}
	}

	respondJSON(w, http.StatusOK, models.DistanceResponse{
		DistanceKM:        km,
		TrafficConditions: features.EstimateTraffic(req.PickupDatetime.Time),
	})
}

func toSuggestionResponse(suggestions []geo.Suggestion) models.SuggestionResponse {
	resp := models.SuggestionResponse{Suggestions: make([]models.AddressSuggestion, 0, len(suggestions))}
	for _, s := range suggestions {
		resp.Suggestions = append(resp.Suggestions, models.AddressSuggestion{
			PlaceID:     s.PlaceID,
			Description: s.Description,
		})
	}
	return resp
}
