package ml

import "math/rand"

// TrainTestSplit shuffles the samples with a seeded source and carves off the
// trailing fraction as the test set.
func TrainTestSplit(X [][]float64, y []float64, testSize float64, seed int64) (XTrain, XTest [][]float64, yTrain, yTest []float64) {
	n := len(X)
	idx := rand.New(rand.NewSource(seed)).Perm(n)

	nTest := int(float64(n) * testSize)
	if nTest < 1 && n > 1 {
		nTest = 1
	}
	nTrain := n - nTest

	XTrain = make([][]float64, 0, nTrain)
	yTrain = make([]float64, 0, nTrain)
	XTest = make([][]float64, 0, nTest)
	yTest = make([]float64, 0, nTest)

	for k, i := range idx {
		if k < nTrain {
			XTrain = append(XTrain, X[i])
			yTrain = append(yTrain, y[i])
		} else {
			XTest = append(XTest, X[i])
			yTest = append(yTest, y[i])
		}
	}
	return XTrain, XTest, yTrain, yTest
}
