package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegressionTree_Fit(t *testing.T) {
	t.Run("Learns a step function exactly", func(t *testing.T) {
		var X [][]float64
		var y []float64
		for i := 0; i < 20; i++ {
			X = append(X, []float64{float64(i)})
			if i < 10 {
				y = append(y, 10)
			} else {
				y = append(y, 20)
			}
		}

		tree := &regressionTree{}
		assert.NoError(t, tree.fit(X, y, treeParams{maxDepth: 3, minSamplesLeaf: 1}))

		assert.Equal(t, 10.0, tree.predict([]float64{4}))
		assert.Equal(t, 20.0, tree.predict([]float64{15}))

		// The split lands on the midpoint between the two halves.
		root := tree.Nodes[0]
		assert.False(t, root.Leaf)
		assert.Equal(t, 0, root.Feature)
		assert.InDelta(t, 9.5, root.Threshold, 1e-9)
	})

	t.Run("Constant target yields a single leaf", func(t *testing.T) {
		X := [][]float64{{1}, {2}, {3}, {4}}
		y := []float64{7, 7, 7, 7}

		tree := &regressionTree{}
		assert.NoError(t, tree.fit(X, y, treeParams{maxDepth: 5, minSamplesLeaf: 1}))

		assert.Len(t, tree.Nodes, 1)
		assert.True(t, tree.Nodes[0].Leaf)
		assert.Equal(t, 7.0, tree.predict([]float64{99}))
	})

	t.Run("Depth zero forces a leaf at the mean", func(t *testing.T) {
		X := [][]float64{{1}, {2}, {3}, {4}}
		y := []float64{10, 10, 20, 20}

		tree := &regressionTree{}
		assert.NoError(t, tree.fit(X, y, treeParams{maxDepth: 0, minSamplesLeaf: 1}))

		assert.Len(t, tree.Nodes, 1)
		assert.Equal(t, 15.0, tree.predict([]float64{1}))
	})

	t.Run("Leaf size constraint blocks unbalanced splits", func(t *testing.T) {
		X := [][]float64{{1}, {2}, {3}}
		y := []float64{1, 1, 100}

		tree := &regressionTree{}
		assert.NoError(t, tree.fit(X, y, treeParams{maxDepth: 5, minSamplesLeaf: 2}))

		// 3 samples cannot split into two leaves of 2.
		assert.Len(t, tree.Nodes, 1)
	})
}
