package models

import (
	"fmt"
	"strings"
	"time"
)

// Categorical levels as they appear in the raw dataset.
const (
	WeatherClear = "Clear"
	WeatherRain  = "Rain"
	WeatherSnow  = "Snow"

	TrafficLow    = "Low"
	TrafficMedium = "Medium"
	TrafficHigh   = "High"

	TimeMorning   = "Morning"
	TimeAfternoon = "Afternoon"
	TimeEvening   = "Evening"
	TimeNight     = "Night"

	DayWeekday = "Weekday"
	DayWeekend = "Weekend"
)

const pickupLayout = "2006-01-02T15:04"

// PickupTime accepts both RFC 3339 timestamps and the dashboard's
// "2006-01-02T15:04" form.
type PickupTime struct {
	time.Time
}

func (t *PickupTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return fmt.Errorf("pickup_datetime is required")
	}

	for _, layout := range []string{time.RFC3339, pickupLayout} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid pickup_datetime: %q", s)
}

func (t PickupTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(pickupLayout) + `"`), nil
}

type PredictionRequest struct {
	TripDistanceKM    float64    `json:"trip_distance_km"`
	PassengerCount    int        `json:"passenger_count"`
	PickupDatetime    PickupTime `json:"pickup_datetime"`
	Weather           string     `json:"weather"`
	TrafficConditions string     `json:"traffic_conditions"`
}

type TripDetails struct {
	OriginalDistance        float64 `json:"original_distance"`
	OriginalPassengers      int     `json:"original_passengers"`
	PickupTime              string  `json:"pickup_time"`
	WeatherUsed             string  `json:"weather_used"`
	TrafficUsed             string  `json:"traffic_used"`
	WeatherImpactMultiplier float64 `json:"weather_impact_multiplier"`
	IsRushHour              bool    `json:"is_rush_hour"`
}

type PredictionResponse struct {
	EstimatedPrice float64     `json:"estimated_price"`
	TripDetails    TripDetails `json:"trip_details"`
	Status         string      `json:"status"`
}

type PriceStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

type DistanceStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

type DatasetStats struct {
	TotalRecords  int           `json:"total_records"`
	Columns       []string      `json:"columns"`
	PriceStats    PriceStats    `json:"price_stats"`
	DistanceStats DistanceStats `json:"distance_stats"`
}

type SuggestionRequest struct {
	Query string `json:"query"`
}

type AddressSuggestion struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

type SuggestionResponse struct {
	Suggestions []AddressSuggestion `json:"suggestions"`
}

type DistanceRequest struct {
	Origin         string     `json:"origin"`
	Destination    string     `json:"destination"`
	PickupDatetime PickupTime `json:"pickup_datetime"`
}

type DistanceResponse struct {
	DistanceKM        float64 `json:"distance_km"`
	TrafficConditions string  `json:"traffic_conditions"`
}

// PredictionRecord is a row in the prediction log.
type PredictionRecord struct {
	ID                int64     `json:"id"`
	RequestID         string    `json:"request_id"`
	TripDistanceKM    float64   `json:"trip_distance_km"`
	PassengerCount    int       `json:"passenger_count"`
	PickupDatetime    time.Time `json:"pickup_datetime"`
	Weather           string    `json:"weather"`
	TrafficConditions string    `json:"traffic_conditions"`
	EstimatedPrice    float64   `json:"estimated_price"`
	ModelName         string    `json:"model_name"`
	CreatedAt         time.Time `json:"created_at"`
}
