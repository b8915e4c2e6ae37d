// Package pipeline turns the raw trip-pricing CSV into the numeric training
// table. The order of steps matters: pricing components are recovered before
// they are dropped as leakage, and categorical fills happen before the
// engineered columns are derived from them.
package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wahdanz1/taxipred/internal/dataset"
	"github.com/wahdanz1/taxipred/internal/features"
	"github.com/wahdanz1/taxipred/internal/models"
)

// Columns the fare identity is defined over.
const (
	colPrice    = "trip_price"
	colDistance = "trip_distance_km"
	colDuration = "trip_duration_minutes"
	colBaseFare = "base_fare"
	colPerKM    = "per_km_rate"
	colPerMin   = "per_minute_rate"
)

// leakageColumns trivially reconstruct trip_price and must never reach
// training.
var leakageColumns = []string{colBaseFare, colPerKM, colPerMin, colDuration}

// categoricalDefaults are used only when a categorical column has no mode at
// all (every cell missing).
var categoricalDefaults = map[string]string{
	"time_of_day":        models.TimeAfternoon,
	"day_of_week":        models.DayWeekday,
	"traffic_conditions": models.TrafficMedium,
	"weather":            models.WeatherClear,
}

var categoricalColumns = []string{"time_of_day", "day_of_week", "traffic_conditions", "weather"}

// Report summarizes a cleaning run.
type Report struct {
	OriginalRows      int            `json:"original_rows"`
	FinalRows         int            `json:"final_rows"`
	RemovedImpossible int            `json:"removed_impossible"`
	RemovedFinal      int            `json:"removed_final"`
	FilledPricing     map[string]int `json:"filled_pricing"`
	FilledCategorical int            `json:"filled_categorical"`
	RetentionRate     float64        `json:"retention_rate"`
	Columns           []string       `json:"columns"`
}

type Cleaner struct {
	log *zap.SugaredLogger
}

func NewCleaner(log *zap.SugaredLogger) *Cleaner {
	return &Cleaner{log: log}
}

// Clean runs the full preparation sequence on a raw table and returns the
// model-ready table plus a report of what happened to the data.
func (c *Cleaner) Clean(raw *dataset.Table) (*dataset.Table, *Report, error) {
	report := &Report{
		OriginalRows:  raw.Len(),
		FilledPricing: make(map[string]int),
	}

	// Step 1: rows where a core value is present but impossible are beyond
	// repair; rows where it is merely missing may still be recovered.
	t := raw.FilterRows(func(row int) bool {
		for _, col := range []string{colPrice, colDistance, colDuration} {
			if v, ok := raw.Float(col, row); ok && v <= 0 {
				return false
			}
		}
		return true
	})
	report.RemovedImpossible = raw.Len() - t.Len()
	c.log.Infow("removed rows with impossible core values",
		"removed", report.RemovedImpossible, "remaining", t.Len())

	// Step 2: recover missing pricing components from the fare identity.
	c.fillPricingComponents(t, report)

	// Step 3: drop the components that reconstruct the target.
	t.DropColumns(leakageColumns...)
	c.log.Infow("dropped leakage columns", "columns", leakageColumns)

	// Step 4: categorical and passenger fills.
	c.fillCategoricals(t, report)

	// Step 5: engineered features.
	if err := engineerFeatures(t); err != nil {
		return nil, nil, err
	}
	c.log.Infow("added engineered features")

	// Step 6: rows still missing a critical value are unusable.
	before := t.Len()
	t = t.FilterRows(func(row int) bool {
		_, hasDist := t.Float(colDistance, row)
		_, hasPrice := t.Float(colPrice, row)
		return hasDist && hasPrice
	})
	report.RemovedFinal = before - t.Len()

	// Step 7: the raw categoricals are fully encoded in the engineered
	// columns now.
	t.DropColumns(categoricalColumns...)

	report.FinalRows = t.Len()
	report.Columns = t.Columns()
	if report.OriginalRows > 0 {
		report.RetentionRate = float64(report.FinalRows) / float64(report.OriginalRows) * 100
	}

	if err := verify(t); err != nil {
		return nil, nil, err
	}

	c.log.Infow("cleaning complete",
		"original_rows", report.OriginalRows,
		"final_rows", report.FinalRows,
		"retention_pct", fmt.Sprintf("%.1f", report.RetentionRate),
	)

	return t, report, nil
}

// fillPricingComponents applies the fare identity
//
//	trip_price = base_fare + distance*per_km_rate + duration*per_minute_rate
//
// to recover exactly one missing component per row. Inverse solutions for
// distance and duration are only accepted when positive; recovered fares and
// rates are clamped at zero.
func (c *Cleaner) fillPricingComponents(t *dataset.Table, report *Report) {
	allPresent := func(row int, cols ...string) bool {
		for _, col := range cols {
			if _, ok := t.Float(col, row); !ok {
				return false
			}
		}
		return true
	}
	val := func(col string, row int) float64 {
		v, _ := t.Float(col, row)
		return v
	}

	for row := 0; row < t.Len(); row++ {
		_, hasPrice := t.Float(colPrice, row)

		switch {
		case !hasPrice && allPresent(row, colBaseFare, colPerKM, colPerMin, colDistance, colDuration):
			price := val(colBaseFare, row) +
				val(colDistance, row)*val(colPerKM, row) +
				val(colDuration, row)*val(colPerMin, row)
			t.SetFloat(colPrice, row, price)
			report.FilledPricing[colPrice]++

		case !hasPrice:
			// Nothing else can be solved without the price.

		case !allPresent(row, colDistance) && allPresent(row, colPrice, colBaseFare, colPerKM, colPerMin, colDuration):
			if rate := val(colPerKM, row); rate != 0 {
				d := (val(colPrice, row) - val(colBaseFare, row) - val(colDuration, row)*val(colPerMin, row)) / rate
				if d > 0 {
					t.SetFloat(colDistance, row, d)
					report.FilledPricing[colDistance]++
				}
			}

		case !allPresent(row, colDuration) && allPresent(row, colPrice, colBaseFare, colPerKM, colPerMin, colDistance):
			if rate := val(colPerMin, row); rate != 0 {
				dur := (val(colPrice, row) - val(colBaseFare, row) - val(colDistance, row)*val(colPerKM, row)) / rate
				if dur > 0 {
					t.SetFloat(colDuration, row, dur)
					report.FilledPricing[colDuration]++
				}
			}

		case !allPresent(row, colBaseFare) && allPresent(row, colPrice, colPerKM, colPerMin, colDistance, colDuration):
			base := val(colPrice, row) -
				val(colDistance, row)*val(colPerKM, row) -
				val(colDuration, row)*val(colPerMin, row)
			t.SetFloat(colBaseFare, row, max(0, base))
			report.FilledPricing[colBaseFare]++

		case !allPresent(row, colPerKM) && allPresent(row, colPrice, colBaseFare, colPerMin, colDistance, colDuration):
			if d := val(colDistance, row); d > 0 {
				rate := (val(colPrice, row) - val(colBaseFare, row) - val(colDuration, row)*val(colPerMin, row)) / d
				t.SetFloat(colPerKM, row, max(0, rate))
				report.FilledPricing[colPerKM]++
			}

		case !allPresent(row, colPerMin) && allPresent(row, colPrice, colBaseFare, colPerKM, colDistance, colDuration):
			if dur := val(colDuration, row); dur > 0 {
				rate := (val(colPrice, row) - val(colBaseFare, row) - val(colDistance, row)*val(colPerKM, row)) / dur
				t.SetFloat(colPerMin, row, max(0, rate))
				report.FilledPricing[colPerMin]++
			}
		}
	}

	total := 0
	for _, n := range report.FilledPricing {
		total += n
	}
	if total > 0 {
		c.log.Infow("recovered missing pricing components", "filled", report.FilledPricing)
	}
}

// fillCategoricals imputes categorical columns with their mode (fixed default
// when the column is entirely empty) and passenger_count with its median.
func (c *Cleaner) fillCategoricals(t *dataset.Table, report *Report) {
	for _, col := range categoricalColumns {
		missing := t.MissingCount(col)
		if missing == 0 {
			continue
		}
		fill, ok := t.Mode(col)
		if !ok {
			fill = categoricalDefaults[col]
		}
		for row := 0; row < t.Len(); row++ {
			if _, present := t.String(col, row); !present {
				t.SetString(col, row, fill)
			}
		}
		report.FilledCategorical += missing
	}

	if missing := t.MissingCount("passenger_count"); missing > 0 {
		if median, ok := t.Median("passenger_count"); ok {
			for row := 0; row < t.Len(); row++ {
				if _, present := t.Float("passenger_count", row); !present {
					t.SetFloat("passenger_count", row, median)
				}
			}
			report.FilledCategorical += missing
		}
	}

	if report.FilledCategorical > 0 {
		c.log.Infow("filled missing categorical/passenger values", "filled", report.FilledCategorical)
	}
}

// engineerFeatures derives the numeric columns the model is trained on from
// the (now fully populated) categoricals.
func engineerFeatures(t *dataset.Table) error {
	n := t.Len()
	weatherImpact := make([]float64, n)
	trafficMult := make([]float64, n)
	morningRush := make([]float64, n)
	eveningRush := make([]float64, n)
	peakHours := make([]float64, n)
	weekend := make([]float64, n)
	highImpact := make([]float64, n)
	conditionScore := make([]float64, n)
	distanceXCond := make([]float64, n)

	for row := 0; row < n; row++ {
		weather, _ := t.String("weather", row)
		traffic, _ := t.String("traffic_conditions", row)
		timeOfDay, _ := t.String("time_of_day", row)
		dayOfWeek, _ := t.String("day_of_week", row)

		wi, ok := features.WeatherImpact[weather]
		if !ok {
			return fmt.Errorf("row %d: unknown weather %q", row, weather)
		}
		tm, ok := features.TrafficMultiplier[traffic]
		if !ok {
			return fmt.Errorf("row %d: unknown traffic conditions %q", row, traffic)
		}

		weatherImpact[row] = wi
		trafficMult[row] = tm
		if timeOfDay == models.TimeMorning {
			morningRush[row] = 1
		}
		if timeOfDay == models.TimeEvening {
			eveningRush[row] = 1
		}
		if morningRush[row] == 1 || eveningRush[row] == 1 {
			peakHours[row] = 1
		}
		if dayOfWeek == models.DayWeekend {
			weekend[row] = 1
		}
		if weather == models.WeatherSnow || traffic == models.TrafficHigh {
			highImpact[row] = 1
		}
		conditionScore[row] = wi * tm
		if d, ok := t.Float(colDistance, row); ok {
			distanceXCond[row] = d * conditionScore[row]
		}
	}

	t.AddFloatColumn("weather_impact", weatherImpact)
	t.AddFloatColumn("traffic_multiplier", trafficMult)
	t.AddFloatColumn("is_morning_rush", morningRush)
	t.AddFloatColumn("is_evening_rush", eveningRush)
	t.AddFloatColumn("is_peak_hours", peakHours)
	t.AddFloatColumn("is_weekend", weekend)
	t.AddFloatColumn("high_impact_trip", highImpact)
	t.AddFloatColumn("condition_score", conditionScore)
	t.AddFloatColumn("distance_x_conditions", distanceXCond)
	return nil
}

// verify rejects a cleaned table that still contains text columns, missing
// cells, or non-positive prices and distances.
func verify(t *dataset.Table) error {
	if cols := t.NonNumericColumns(); len(cols) > 0 {
		return fmt.Errorf("non-numeric columns remain after cleaning: %v", cols)
	}
	for _, col := range t.Columns() {
		if n := t.MissingCount(col); n > 0 {
			return fmt.Errorf("column %s still has %d missing values", col, n)
		}
	}
	for row := 0; row < t.Len(); row++ {
		if v, _ := t.Float(colPrice, row); v <= 0 {
			return fmt.Errorf("row %d: non-positive trip_price after cleaning", row)
		}
		if v, _ := t.Float(colDistance, row); v <= 0 {
			return fmt.Errorf("row %d: non-positive trip_distance_km after cleaning", row)
		}
	}
	return nil
}
