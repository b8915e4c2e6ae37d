package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wahdanz1/taxipred/internal/dataset"
	"github.com/wahdanz1/taxipred/internal/logger"
)

const rawHeader = "Trip_Distance_KM,Time_of_Day,Day_of_Week,Passenger_Count,Traffic_Conditions,Weather,Base_Fare,Per_Km_Rate,Per_Minute_Rate,Trip_Duration_Minutes,Trip_Price\n"

func loadRaw(t *testing.T, csvBody string) *dataset.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw.csv")
	if err := os.WriteFile(path, []byte(rawHeader+csvBody), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	table, err := dataset.ReadCSV(path)
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}
	return table
}

func TestCleaner_Clean(t *testing.T) {
	cleaner := NewCleaner(logger.NewNop())

	t.Run("Full run keeps recoverable rows and drops the rest", func(t *testing.T) {
		raw := loadRaw(t,
			// complete row: price = 3 + 5*2 + 20*0.5 = 23
			"5,Morning,Weekday,2,Low,Clear,3,2,0.5,20,23\n"+
				// missing price, all components present: 2 + 4*1 + 10*1 = 16
				"4,Afternoon,Weekend,1,Medium,Rain,2,1,1,10,\n"+
				// negative price present, beyond repair
				"3,Evening,Weekday,2,High,Clear,2,1,1,10,-5\n"+
				// missing distance, solvable: (20 - 2 - 20*0.5) / 2 = 4
				",Night,Weekday,3,Low,Clear,2,2,0.5,20,20\n"+
				// missing price and base fare, unsolvable
				"6,Evening,Weekday,2,High,Snow,,1,1,10,\n")

		clean, report, err := cleaner.Clean(raw)
		assert.NoError(t, err)

		assert.Equal(t, 5, report.OriginalRows)
		assert.Equal(t, 1, report.RemovedImpossible)
		assert.Equal(t, 1, report.FilledPricing["trip_price"])
		assert.Equal(t, 1, report.FilledPricing["trip_distance_km"])
		assert.Equal(t, 1, report.RemovedFinal)
		assert.Equal(t, 3, report.FinalRows)
		assert.InDelta(t, 60.0, report.RetentionRate, 0.01)

		assert.Equal(t, 3, clean.Len())

		// Recovered values survive into the cleaned table.
		price, ok := clean.Float("trip_price", 1)
		assert.True(t, ok)
		assert.InDelta(t, 16.0, price, 1e-9)

		dist, ok := clean.Float("trip_distance_km", 2)
		assert.True(t, ok)
		assert.InDelta(t, 4.0, dist, 1e-9)

		// Leakage and raw categorical columns are gone.
		for _, col := range []string{"base_fare", "per_km_rate", "per_minute_rate",
			"trip_duration_minutes", "weather", "traffic_conditions", "time_of_day", "day_of_week"} {
			assert.False(t, clean.HasColumn(col), "column %s should be dropped", col)
		}
	})

	t.Run("Engineered columns encode the categoricals", func(t *testing.T) {
		raw := loadRaw(t,
			"5,Morning,Weekday,2,Low,Clear,3,2,0.5,20,23\n"+
				"8,Evening,Weekend,1,High,Snow,2,1,1,10,20\n"+
				"2,Night,Weekday,1,Medium,Rain,2,1,1,10,13\n")

		clean, _, err := cleaner.Clean(raw)
		assert.NoError(t, err)

		get := func(col string, row int) float64 {
			v, ok := clean.Float(col, row)
			assert.True(t, ok, "missing %s at row %d", col, row)
			return v
		}

		// Morning / Weekday / Low / Clear
		assert.InDelta(t, 1.0, get("weather_impact", 0), 1e-9)
		assert.InDelta(t, 1.0, get("traffic_multiplier", 0), 1e-9)
		assert.Equal(t, 1.0, get("is_morning_rush", 0))
		assert.Equal(t, 0.0, get("is_evening_rush", 0))
		assert.Equal(t, 1.0, get("is_peak_hours", 0))
		assert.Equal(t, 0.0, get("is_weekend", 0))
		assert.Equal(t, 0.0, get("high_impact_trip", 0))
		assert.InDelta(t, 1.0, get("condition_score", 0), 1e-9)
		assert.InDelta(t, 5.0, get("distance_x_conditions", 0), 1e-9)

		// Evening / Weekend / High / Snow
		assert.InDelta(t, 1.3, get("weather_impact", 1), 1e-9)
		assert.InDelta(t, 1.25, get("traffic_multiplier", 1), 1e-9)
		assert.Equal(t, 1.0, get("is_evening_rush", 1))
		assert.Equal(t, 1.0, get("is_peak_hours", 1))
		assert.Equal(t, 1.0, get("is_weekend", 1))
		assert.Equal(t, 1.0, get("high_impact_trip", 1))
		assert.InDelta(t, 1.3*1.25, get("condition_score", 1), 1e-9)
		assert.InDelta(t, 8*1.3*1.25, get("distance_x_conditions", 1), 1e-9)

		// Night / Weekday / Medium / Rain
		assert.Equal(t, 0.0, get("is_morning_rush", 2))
		assert.Equal(t, 0.0, get("is_evening_rush", 2))
		assert.Equal(t, 0.0, get("is_peak_hours", 2))
		assert.InDelta(t, 1.15*1.1, get("condition_score", 2), 1e-9)
	})

	t.Run("Categoricals fill with mode, passengers with median", func(t *testing.T) {
		raw := loadRaw(t,
			"5,,Weekday,1,Low,Rain,3,2,0.5,20,23\n"+
				"4,,Weekday,2,Low,Rain,2,1,1,10,16\n"+
				"3,,Weekday,,Low,,2,1,1,10,15\n"+
				"6,,Weekday,4,Low,Clear,2,1,1,10,18\n")

		clean, report, err := cleaner.Clean(raw)
		assert.NoError(t, err)
		assert.Equal(t, 4, clean.Len())

		// time_of_day was entirely empty; the Afternoon default means no row
		// counts as rush hour.
		for row := 0; row < clean.Len(); row++ {
			v, _ := clean.Float("is_peak_hours", row)
			assert.Equal(t, 0.0, v)
		}

		// weather mode is Rain, so row 2 gets the rain multiplier.
		wi, _ := clean.Float("weather_impact", 2)
		assert.InDelta(t, 1.15, wi, 1e-9)

		// passenger median of {1, 2, 4} is 2.
		pax, ok := clean.Float("passenger_count", 2)
		assert.True(t, ok)
		assert.InDelta(t, 2.0, pax, 1e-9)

		// 4 empty time_of_day cells + 1 weather + 1 passenger count.
		assert.Equal(t, 6, report.FilledCategorical)
	})

	t.Run("Recovered fares and rates clamp at zero", func(t *testing.T) {
		// base fare solves to 10 - 5*2 - 10*0.5 = -5, clamped to 0.
		raw := loadRaw(t,
			"5,Morning,Weekday,2,Low,Clear,,2,0.5,10,10\n" +
				"4,Afternoon,Weekday,1,Medium,Rain,2,1,1,10,16\n")

		_, report, err := cleaner.Clean(raw)
		assert.NoError(t, err)
		assert.Equal(t, 1, report.FilledPricing["base_fare"])
	})

	t.Run("Negative inverse distance is not accepted", func(t *testing.T) {
		// distance solves to (5 - 2 - 20*0.5) / 2 = -3.5; the row keeps its
		// missing distance and is dropped at the end.
		raw := loadRaw(t,
			",Morning,Weekday,2,Low,Clear,2,2,0.5,20,5\n" +
				"4,Afternoon,Weekday,1,Medium,Rain,2,1,1,10,16\n")

		clean, report, err := cleaner.Clean(raw)
		assert.NoError(t, err)
		assert.Equal(t, 0, report.FilledPricing["trip_distance_km"])
		assert.Equal(t, 1, report.RemovedFinal)
		assert.Equal(t, 1, clean.Len())
	})

	t.Run("Unknown categorical level fails the run", func(t *testing.T) {
		raw := loadRaw(t, "5,Morning,Weekday,2,Low,Fog,3,2,0.5,20,23\n")

		_, _, err := cleaner.Clean(raw)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown weather")
	})

	t.Run("Cleaned table passes all-numeric verification", func(t *testing.T) {
		raw := loadRaw(t,
			"5,Morning,Weekday,2,Low,Clear,3,2,0.5,20,23\n"+
				"4,Afternoon,Weekend,1,Medium,Rain,2,1,1,10,16\n")

		clean, _, err := cleaner.Clean(raw)
		assert.NoError(t, err)
		assert.Empty(t, clean.NonNumericColumns())
		for _, col := range clean.Columns() {
			assert.Equal(t, 0, clean.MissingCount(col), "column %s has missing cells", col)
		}
	})
}
