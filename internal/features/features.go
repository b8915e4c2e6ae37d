// Package features builds the engineered feature set shared by offline
// cleaning and online prediction. The training table and live requests must
// go through the exact same transformations or the model sees columns it was
// never fitted on.
package features

import (
	"fmt"
	"time"

	"github.com/wahdanz1/taxipred/internal/models"
)

// Multipliers applied to trips under degraded conditions.
var (
	WeatherImpact = map[string]float64{
		models.WeatherClear: 1.0,
		models.WeatherRain:  1.15,
		models.WeatherSnow:  1.3,
	}

	TrafficMultiplier = map[string]float64{
		models.TrafficLow:    1.0,
		models.TrafficMedium: 1.1,
		models.TrafficHigh:   1.25,
	}
)

// Columns is the model input order: the cleaned table's columns minus the
// trip_price target, order preserved.
var Columns = []string{
	"trip_distance_km",
	"passenger_count",
	"weather_impact",
	"traffic_multiplier",
	"is_morning_rush",
	"is_evening_rush",
	"is_peak_hours",
	"is_weekend",
	"high_impact_trip",
	"condition_score",
	"distance_x_conditions",
}

// Set holds one engineered feature row.
type Set struct {
	TripDistanceKM      float64
	PassengerCount      float64
	WeatherImpact       float64
	TrafficMultiplier   float64
	IsMorningRush       float64
	IsEveningRush       float64
	IsPeakHours         float64
	IsWeekend           float64
	HighImpactTrip      float64
	ConditionScore      float64
	DistanceXConditions float64
}

// Vector lays the set out in Columns order.
func (s Set) Vector() []float64 {
	return []float64{
		s.TripDistanceKM,
		s.PassengerCount,
		s.WeatherImpact,
		s.TrafficMultiplier,
		s.IsMorningRush,
		s.IsEveningRush,
		s.IsPeakHours,
		s.IsWeekend,
		s.HighImpactTrip,
		s.ConditionScore,
		s.DistanceXConditions,
	}
}

// TimeOfDay buckets an hour the way the raw dataset labels it.
func TimeOfDay(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return models.TimeMorning
	case hour >= 12 && hour < 18:
		return models.TimeAfternoon
	case hour >= 18 && hour < 24:
		return models.TimeEvening
	default:
		return models.TimeNight
	}
}

// EstimateTraffic guesses a traffic level from the pickup time: rush-hour
// buckets are High, afternoons Medium, nights Low.
func EstimateTraffic(pickup time.Time) string {
	switch TimeOfDay(pickup.Hour()) {
	case models.TimeMorning, models.TimeEvening:
		return models.TrafficHigh
	case models.TimeAfternoon:
		return models.TrafficMedium
	default:
		return models.TrafficLow
	}
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// FromInput converts raw request attributes into the engineered feature row
// used at prediction time. Weather and traffic must be known categorical
// levels; callers validate beforehand, this is the last line of defense.
func FromInput(distanceKM float64, passengers int, pickup time.Time, weather, traffic string) (Set, error) {
	wi, ok := WeatherImpact[weather]
	if !ok {
		return Set{}, fmt.Errorf("unknown weather %q", weather)
	}
	tm, ok := TrafficMultiplier[traffic]
	if !ok {
		return Set{}, fmt.Errorf("unknown traffic conditions %q", traffic)
	}

	timeOfDay := TimeOfDay(pickup.Hour())
	morningRush := timeOfDay == models.TimeMorning
	eveningRush := timeOfDay == models.TimeEvening

	// Monday=0 .. Sunday=6, matching the training data's weekday convention.
	weekday := (int(pickup.Weekday()) + 6) % 7

	conditionScore := wi * tm

	return Set{
		TripDistanceKM:      distanceKM,
		PassengerCount:      float64(passengers),
		WeatherImpact:       wi,
		TrafficMultiplier:   tm,
		IsMorningRush:       indicator(morningRush),
		IsEveningRush:       indicator(eveningRush),
		IsPeakHours:         indicator(morningRush || eveningRush),
		IsWeekend:           indicator(weekday > 4),
		HighImpactTrip:      indicator(weather == models.WeatherSnow || traffic == models.TrafficHigh),
		ConditionScore:      conditionScore,
		DistanceXConditions: distanceKM * conditionScore,
	}, nil
}
