package ml

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Evaluate computes MAE, RMSE and R² of predictions against the truth.
func Evaluate(yTrue, yPred []float64) Metrics {
	n := len(yTrue)
	if n == 0 || n != len(yPred) {
		return Metrics{}
	}

	var absSum, sqSum float64
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		absSum += math.Abs(d)
		sqSum += d * d
	}

	return Metrics{
		MAE:  absSum / float64(n),
		RMSE: math.Sqrt(sqSum / float64(n)),
		R2:   stat.RSquaredFrom(yPred, yTrue, nil),
	}
}
