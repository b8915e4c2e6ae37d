package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LinearRegression is an ordinary least-squares fit with intercept, solved by
// QR decomposition of the design matrix.
type LinearRegression struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

func (m *LinearRegression) Name() string { return NameLinearRegression }

func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 || n != len(y) {
		return fmt.Errorf("linear regression: %d samples, %d targets", n, len(y))
	}
	p := len(X[0])
	if n <= p {
		return fmt.Errorf("linear regression: %d samples for %d features", n, p)
	}

	// Design matrix with a leading bias column.
	design := mat.NewDense(n, p+1, nil)
	for i, row := range X {
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}
	target := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(design)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, target); err != nil {
		return fmt.Errorf("linear regression: %w", err)
	}

	m.Intercept = beta.AtVec(0)
	m.Coefficients = make([]float64, p)
	for j := 0; j < p; j++ {
		m.Coefficients[j] = beta.AtVec(j + 1)
	}
	return nil
}

func (m *LinearRegression) Predict(x []float64) float64 {
	sum := m.Intercept
	for j, c := range m.Coefficients {
		sum += c * x[j]
	}
	return sum
}

// FeatureImportance ranks features by absolute coefficient, normalized to sum
// to one. Coefficients are not scale-adjusted; the engineered features all
// live on comparable ranges.
func (m *LinearRegression) FeatureImportance() []float64 {
	out := make([]float64, len(m.Coefficients))
	total := 0.0
	for j, c := range m.Coefficients {
		out[j] = math.Abs(c)
		total += out[j]
	}
	if total > 0 {
		for j := range out {
			out[j] /= total
		}
	}
	return out
}
