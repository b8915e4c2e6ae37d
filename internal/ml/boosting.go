package ml

import "fmt"

// GradientBoosting fits shallow trees to the running residuals, shrunk by the
// learning rate. Defaults follow the common 100-tree, depth-3, 0.1-rate setup.
type GradientBoosting struct {
	NumTrees       int               `json:"num_trees"`
	LearningRate   float64           `json:"learning_rate"`
	MaxDepth       int               `json:"max_depth"`
	MinSamplesLeaf int               `json:"min_samples_leaf"`
	Init           float64           `json:"init"`
	Trees          []*regressionTree `json:"trees"`

	importance []float64
}

func NewGradientBoosting() *GradientBoosting {
	return &GradientBoosting{
		NumTrees:       100,
		LearningRate:   0.1,
		MaxDepth:       3,
		MinSamplesLeaf: 1,
	}
}

func (m *GradientBoosting) Name() string { return NameGradientBoosting }

func (m *GradientBoosting) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 || n != len(y) {
		return fmt.Errorf("gradient boosting: %d samples, %d targets", n, len(y))
	}

	sum := 0.0
	for _, v := range y {
		sum += v
	}
	m.Init = sum / float64(n)

	residuals := make([]float64, n)
	for i, v := range y {
		residuals[i] = v - m.Init
	}

	params := treeParams{maxDepth: m.MaxDepth, minSamplesLeaf: m.MinSamplesLeaf}
	m.Trees = make([]*regressionTree, 0, m.NumTrees)
	m.importance = make([]float64, len(X[0]))

	for t := 0; t < m.NumTrees; t++ {
		tree := &regressionTree{}
		if err := tree.fit(X, residuals, params); err != nil {
			return err
		}
		m.Trees = append(m.Trees, tree)

		for i, row := range X {
			residuals[i] -= m.LearningRate * tree.predict(row)
		}
		for f, g := range tree.gains {
			m.importance[f] += g
		}
	}

	normalize(m.importance)
	return nil
}

func (m *GradientBoosting) Predict(x []float64) float64 {
	sum := m.Init
	for _, tree := range m.Trees {
		sum += m.LearningRate * tree.predict(x)
	}
	return sum
}

func (m *GradientBoosting) FeatureImportance() []float64 {
	if m.importance == nil {
		m.importance = importanceFromTrees(m.Trees)
	}
	return m.importance
}
