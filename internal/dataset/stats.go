package dataset

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/wahdanz1/taxipred/internal/models"
)

// present collects the non-missing values of a numeric column.
func (t *Table) present(name string) []float64 {
	col := t.column(name)
	if !col.Numeric {
		panic(fmt.Sprintf("dataset: column %q is not numeric", name))
	}
	out := make([]float64, 0, t.rows)
	for i, v := range col.Floats {
		if !col.Missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// Median computes the median of a numeric column, ignoring missing cells.
func (t *Table) Median(name string) (float64, bool) {
	values := t.present(name)
	if len(values) == 0 {
		return 0, false
	}
	sort.Float64s(values)
	return stat.Quantile(0.5, stat.Empirical, values, nil), true
}

// Min returns the smallest present value of a numeric column.
func (t *Table) Min(name string) float64 {
	values := t.present(name)
	if len(values) == 0 {
		return 0
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest present value of a numeric column.
func (t *Table) Max(name string) float64 {
	values := t.present(name)
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Mean averages the present values of a numeric column.
func (t *Table) Mean(name string) float64 {
	values := t.present(name)
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Stats summarizes the cleaned dataset for the stats endpoint.
func (t *Table) Stats() models.DatasetStats {
	priceMedian, _ := t.Median("trip_price")
	return models.DatasetStats{
		TotalRecords: t.rows,
		Columns:      t.Columns(),
		PriceStats: models.PriceStats{
			Min:    t.Min("trip_price"),
			Max:    t.Max("trip_price"),
			Mean:   t.Mean("trip_price"),
			Median: priceMedian,
		},
		DistanceStats: models.DistanceStats{
			Min:  t.Min("trip_distance_km"),
			Max:  t.Max("trip_distance_km"),
			Mean: t.Mean("trip_distance_km"),
		},
	}
}
