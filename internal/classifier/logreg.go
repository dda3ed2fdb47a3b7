package classifier

import "math"

// LogisticRegression is a multinomial (softmax) linear classifier
type LogisticRegression struct {
	weights    [][]float64 // [class][feature]
	intercepts []float64
}

// fitLogistic minimizes mean cross-entropy plus ||W||²/(2·C·n) with full-batch
// gradient descent. Intercepts are not regularized. The result depends only on
// the inputs, so training is deterministic.
func fitLogistic(x []SparseVector, y []int, classes, features int, c, learningRate float64, iterations int) *LogisticRegression {
	lr := &LogisticRegression{
		weights:    make([][]float64, classes),
		intercepts: make([]float64, classes),
	}
	gradW := make([][]float64, classes)
	for k := range lr.weights {
		lr.weights[k] = make([]float64, features)
		gradW[k] = make([]float64, features)
	}
	gradB := make([]float64, classes)

	n := float64(len(x))
	if n == 0 {
		return lr
	}
	penalty := 1 / (c * n)

	for it := 0; it < iterations; it++ {
		for k := range gradW {
			clear(gradW[k])
		}
		clear(gradB)

		for i, row := range x {
			p := lr.probabilities(row)
			p[y[i]] -= 1
			for k, residual := range p {
				gradB[k] += residual
				for _, f := range row {
					gradW[k][f.Index] += residual * f.Value
				}
			}
		}

		for k := range lr.weights {
			lr.intercepts[k] -= learningRate * gradB[k] / n
			w := lr.weights[k]
			for j := range w {
				w[j] -= learningRate * (gradW[k][j]/n + w[j]*penalty)
			}
		}
	}
	return lr
}

// probabilities returns the softmax distribution over classes for one row
func (lr *LogisticRegression) probabilities(row SparseVector) []float64 {
	scores := make([]float64, len(lr.intercepts))
	maxScore := math.Inf(-1)
	for k := range scores {
		s := lr.intercepts[k]
		for _, f := range row {
			s += lr.weights[k][f.Index] * f.Value
		}
		scores[k] = s
		if s > maxScore {
			maxScore = s
		}
	}

	var sum float64
	for k, s := range scores {
		scores[k] = math.Exp(s - maxScore)
		sum += scores[k]
	}
	for k := range scores {
		scores[k] /= sum
	}
	return scores
}
