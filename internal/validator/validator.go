package validator

import (
	"github.com/wahdanz1/taxipred/internal/models"
)

// Validator accumulates field errors so a response can report every problem
// at once.
type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

func (v *Validator) ValidateDistance(km float64) {
	v.Check(km > 0, "trip_distance_km", "must be greater than 0")
}

func (v *Validator) ValidatePassengerCount(n int) {
	v.Check(n >= 1 && n <= 4, "passenger_count", "must be between 1 and 4")
}

func (v *Validator) ValidateWeather(weather string) {
	switch weather {
	case models.WeatherClear, models.WeatherRain, models.WeatherSnow:
	default:
		v.AddError("weather", "must be one of Clear, Rain, Snow")
	}
}

func (v *Validator) ValidateTraffic(traffic string) {
	switch traffic {
	case models.TrafficLow, models.TrafficMedium, models.TrafficHigh:
	default:
		v.AddError("traffic_conditions", "must be one of Low, Medium, High")
	}
}

// ValidatePredictionRequest runs every check a /predict body must pass.
func (v *Validator) ValidatePredictionRequest(req *models.PredictionRequest) {
	v.ValidateDistance(req.TripDistanceKM)
	v.ValidatePassengerCount(req.PassengerCount)
	v.ValidateWeather(req.Weather)
	v.ValidateTraffic(req.TrafficConditions)
	v.Check(!req.PickupDatetime.IsZero(), "pickup_datetime", "is required")
}
