package ml

import (
	"fmt"
	"math/rand"
)

// RandomForest averages deep trees grown on bootstrap resamples.
type RandomForest struct {
	NumTrees       int               `json:"num_trees"`
	MaxDepth       int               `json:"max_depth"`
	MinSamplesLeaf int               `json:"min_samples_leaf"`
	Seed           int64             `json:"seed"`
	Trees          []*regressionTree `json:"trees"`

	importance []float64
}

func NewRandomForest(numTrees int, seed int64) *RandomForest {
	return &RandomForest{
		NumTrees:       numTrees,
		MaxDepth:       12,
		MinSamplesLeaf: 2,
		Seed:           seed,
	}
}

func (m *RandomForest) Name() string { return NameRandomForest }

func (m *RandomForest) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 || n != len(y) {
		return fmt.Errorf("random forest: %d samples, %d targets", n, len(y))
	}

	rng := rand.New(rand.NewSource(m.Seed))
	params := treeParams{maxDepth: m.MaxDepth, minSamplesLeaf: m.MinSamplesLeaf}

	m.Trees = make([]*regressionTree, 0, m.NumTrees)
	m.importance = make([]float64, len(X[0]))

	bootX := make([][]float64, n)
	bootY := make([]float64, n)

	for t := 0; t < m.NumTrees; t++ {
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			bootX[i] = X[j]
			bootY[i] = y[j]
		}

		tree := &regressionTree{}
		if err := tree.fit(bootX, bootY, params); err != nil {
			return err
		}
		m.Trees = append(m.Trees, tree)

		for f, g := range tree.gains {
			m.importance[f] += g
		}
	}

	normalize(m.importance)
	return nil
}

func (m *RandomForest) Predict(x []float64) float64 {
	if len(m.Trees) == 0 {
		return 0
	}
	sum := 0.0
	for _, tree := range m.Trees {
		sum += tree.predict(x)
	}
	return sum / float64(len(m.Trees))
}

func (m *RandomForest) FeatureImportance() []float64 {
	if m.importance == nil {
		// Artifact round-trips lose the training-time gains; rebuild from
		// the trees' split structure.
		m.importance = importanceFromTrees(m.Trees)
	}
	return m.importance
}

func normalize(values []float64) {
	total := 0.0
	for _, v := range values {
		total += v
	}
	if total > 0 {
		for i := range values {
			values[i] /= total
		}
	}
}

// importanceFromTrees counts splits per feature when per-split gains are no
// longer available.
func importanceFromTrees(trees []*regressionTree) []float64 {
	var out []float64
	for _, tree := range trees {
		if out == nil {
			out = make([]float64, tree.NumFeatures)
		}
		for _, node := range tree.Nodes {
			if !node.Leaf {
				out[node.Feature]++
			}
		}
	}
	normalize(out)
	return out
}
