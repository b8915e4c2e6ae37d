package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	t.Run("Headers are lowercased and types detected", func(t *testing.T) {
		path := writeCSV(t, "Trip_Price,Weather\n10.5,Clear\n20,Rain\n")

		table, err := ReadCSV(path)
		assert.NoError(t, err)
		assert.Equal(t, 2, table.Len())
		assert.Equal(t, []string{"trip_price", "weather"}, table.Columns())

		price, ok := table.Float("trip_price", 0)
		assert.True(t, ok)
		assert.Equal(t, 10.5, price)

		weather, ok := table.String("weather", 1)
		assert.True(t, ok)
		assert.Equal(t, "Rain", weather)
	})

	t.Run("Empty cells are missing, not zero", func(t *testing.T) {
		path := writeCSV(t, "trip_price,weather\n10,Clear\n,Rain\n30,Snow\n")

		table, err := ReadCSV(path)
		assert.NoError(t, err)
		assert.Equal(t, 1, table.MissingCount("trip_price"))

		_, ok := table.Float("trip_price", 1)
		assert.False(t, ok)
	})

	t.Run("A single text cell makes the column non-numeric", func(t *testing.T) {
		path := writeCSV(t, "passenger_count\n1\ntwo\n3\n")

		table, err := ReadCSV(path)
		assert.NoError(t, err)
		assert.Equal(t, []string{"passenger_count"}, table.NonNumericColumns())
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
	})
}

func TestTable_Mode(t *testing.T) {
	path := writeCSV(t, "weather,x\nRain,1\nClear,2\nRain,3\n,4\n")
	table, err := ReadCSV(path)
	assert.NoError(t, err)

	t.Run("Most frequent value wins", func(t *testing.T) {
		mode, ok := table.Mode("weather")
		assert.True(t, ok)
		assert.Equal(t, "Rain", mode)
	})

	t.Run("Ties break alphabetically", func(t *testing.T) {
		tied, err := ReadCSV(writeCSV(t, "weather\nSnow\nClear\n"))
		assert.NoError(t, err)

		mode, ok := tied.Mode("weather")
		assert.True(t, ok)
		assert.Equal(t, "Clear", mode)
	})

	t.Run("Fully empty column has no mode", func(t *testing.T) {
		empty, err := ReadCSV(writeCSV(t, "weather,x\n,1\n,2\n"))
		assert.NoError(t, err)

		_, ok := empty.Mode("weather")
		assert.False(t, ok)
	})
}

func TestTable_FilterRows(t *testing.T) {
	path := writeCSV(t, "trip_price,weather\n10,Clear\n-5,Rain\n30,Snow\n")
	table, err := ReadCSV(path)
	assert.NoError(t, err)

	kept := table.FilterRows(func(row int) bool {
		v, ok := table.Float("trip_price", row)
		return ok && v > 0
	})

	assert.Equal(t, 2, kept.Len())
	assert.Equal(t, 3, table.Len(), "source table is untouched")

	weather, _ := kept.String("weather", 1)
	assert.Equal(t, "Snow", weather)
}

func TestTable_DropColumns(t *testing.T) {
	path := writeCSV(t, "a,b,c\n1,2,3\n")
	table, err := ReadCSV(path)
	assert.NoError(t, err)

	table.DropColumns("b", "not_there")
	assert.Equal(t, []string{"a", "c"}, table.Columns())
	assert.False(t, table.HasColumn("b"))
}

func TestTable_AddFloatColumn(t *testing.T) {
	path := writeCSV(t, "trip_price\n10\n20\n")
	table, err := ReadCSV(path)
	assert.NoError(t, err)

	table.AddFloatColumn("doubled", []float64{20, 40})
	assert.Equal(t, []string{"trip_price", "doubled"}, table.Columns())

	v, ok := table.Float("doubled", 1)
	assert.True(t, ok)
	assert.Equal(t, 40.0, v)
}

func TestTable_Stats(t *testing.T) {
	path := writeCSV(t, "trip_price,trip_distance_km\n10,2\n20,4\n30,6\n")
	table, err := ReadCSV(path)
	assert.NoError(t, err)

	t.Run("Median ignores missing cells", func(t *testing.T) {
		withGap, err := ReadCSV(writeCSV(t, "trip_price,x\n10,1\n,2\n30,3\n20,4\n"))
		assert.NoError(t, err)

		median, ok := withGap.Median("trip_price")
		assert.True(t, ok)
		assert.Equal(t, 20.0, median)
	})

	t.Run("Summary covers price and distance", func(t *testing.T) {
		stats := table.Stats()
		assert.Equal(t, 3, stats.TotalRecords)
		assert.Equal(t, 10.0, stats.PriceStats.Min)
		assert.Equal(t, 30.0, stats.PriceStats.Max)
		assert.InDelta(t, 20.0, stats.PriceStats.Mean, 1e-9)
		assert.Equal(t, 20.0, stats.PriceStats.Median)
		assert.Equal(t, 2.0, stats.DistanceStats.Min)
		assert.InDelta(t, 4.0, stats.DistanceStats.Mean, 1e-9)
	})
}

func TestTable_Records(t *testing.T) {
	path := writeCSV(t, "trip_price,weather\n10,Clear\n,Rain\n")
	table, err := ReadCSV(path)
	assert.NoError(t, err)

	records := table.Records()
	assert.Len(t, records, 2)
	assert.Equal(t, 10.0, records[0]["trip_price"])
	assert.Equal(t, "Clear", records[0]["weather"])
	assert.Nil(t, records[1]["trip_price"])
}

func TestTable_WriteCSV(t *testing.T) {
	path := writeCSV(t, "trip_price,weather\n10.25,Clear\n,Rain\n")
	table, err := ReadCSV(path)
	assert.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.csv")
	assert.NoError(t, table.WriteCSV(out))

	back, err := ReadCSV(out)
	assert.NoError(t, err)
	assert.Equal(t, table.Columns(), back.Columns())
	assert.Equal(t, table.Len(), back.Len())

	v, ok := back.Float("trip_price", 0)
	assert.True(t, ok)
	assert.Equal(t, 10.25, v)
	assert.Equal(t, 1, back.MissingCount("trip_price"))
}
