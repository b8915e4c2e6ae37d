package ml

import (
	"fmt"
	"sort"
)

// treeNode is one node of a regression tree, stored flat so trees serialize
// to JSON without recursion. Leaf nodes carry Value; internal nodes route on
// Feature <= Threshold to Left, otherwise Right.
type treeNode struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Value     float64 `json:"v"`
	Leaf      bool    `json:"leaf"`
}

// regressionTree is a CART regressor minimizing squared error.
type regressionTree struct {
	Nodes       []treeNode `json:"nodes"`
	NumFeatures int        `json:"num_features"`

	// accumulated variance reduction per feature, for importances
	gains []float64
}

type treeParams struct {
	maxDepth       int
	minSamplesLeaf int
}

func (t *regressionTree) fit(X [][]float64, y []float64, params treeParams) error {
	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("regression tree: %d samples, %d targets", len(X), len(y))
	}
	t.NumFeatures = len(X[0])
	t.gains = make([]float64, t.NumFeatures)
	t.Nodes = t.Nodes[:0]

	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.grow(X, y, idx, 0, params)
	return nil
}

// grow appends the subtree over idx and returns its node index.
func (t *regressionTree) grow(X [][]float64, y []float64, idx []int, depth int, params treeParams) int {
	mean := meanAt(y, idx)

	node := treeNode{Value: mean, Leaf: true}
	pos := len(t.Nodes)
	t.Nodes = append(t.Nodes, node)

	if depth >= params.maxDepth || len(idx) < 2*params.minSamplesLeaf {
		return pos
	}

	feature, threshold, gain, ok := t.bestSplit(X, y, idx, params)
	if !ok {
		return pos
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	t.gains[feature] += gain

	leftPos := t.grow(X, y, left, depth+1, params)
	rightPos := t.grow(X, y, right, depth+1, params)

	t.Nodes[pos] = treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      leftPos,
		Right:     rightPos,
		Value:     mean,
	}
	return pos
}

// bestSplit scans every feature for the threshold with the largest weighted
// variance reduction. Candidate thresholds are midpoints between consecutive
// distinct sorted values.
func (t *regressionTree) bestSplit(X [][]float64, y []float64, idx []int, params treeParams) (feature int, threshold, gain float64, ok bool) {
	n := float64(len(idx))
	parentSSE := sseAt(y, idx)

	order := make([]int, len(idx))

	for f := 0; f < t.NumFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		// Running sums from the left; the complement gives the right side.
		var leftSum, leftSq float64
		var totalSum, totalSq float64
		for _, i := range order {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}

		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			leftSum += y[i]
			leftSq += y[i] * y[i]

			if X[order[k]][f] == X[order[k+1]][f] {
				continue
			}
			nLeft := k + 1
			nRight := len(order) - nLeft
			if nLeft < params.minSamplesLeaf || nRight < params.minSamplesLeaf {
				continue
			}

			leftSSE := leftSq - leftSum*leftSum/float64(nLeft)
			rightSum := totalSum - leftSum
			rightSSE := (totalSq - leftSq) - rightSum*rightSum/float64(nRight)

			g := parentSSE - leftSSE - rightSSE
			if g > gain {
				gain = g
				feature = f
				threshold = (X[order[k]][f] + X[order[k+1]][f]) / 2
				ok = true
			}
		}
	}

	// Require a measurable improvement relative to the node size.
	if ok && gain/n < 1e-12 {
		ok = false
	}
	return feature, threshold, gain, ok
}

func (t *regressionTree) predict(x []float64) float64 {
	pos := 0
	for {
		node := t.Nodes[pos]
		if node.Leaf {
			return node.Value
		}
		if x[node.Feature] <= node.Threshold {
			pos = node.Left
		} else {
			pos = node.Right
		}
	}
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

// sseAt is the sum of squared errors around the subset mean.
func sseAt(y []float64, idx []int) float64 {
	mean := meanAt(y, idx)
	sse := 0.0
	for _, i := range idx {
		d := y[i] - mean
		sse += d * d
	}
	return sse
}
