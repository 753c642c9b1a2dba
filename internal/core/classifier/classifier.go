// Package classifier runs a trained emotion model over encoded text and returns
// one probability per category of the active scheme
package classifier

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"

	"mbgsense/internal/core/sequence"
)

// Classifier is the model seam used by the predictor
type Classifier interface {
	Predict(ctx context.Context, in sequence.Input) ([]float64, error)
	// InputWidth is the vector length the model accepts, 0 when the model does not pin it
	InputWidth() int
	// Classes is the number of output categories
	Classes() int
	Close() error
}

// Softmax returns exp-normalized probabilities for logits
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}
	out := make([]float64, len(logits))
	copy(out, logits)
	floats.AddConst(-floats.Max(out), out)
	for i, v := range out {
		out[i] = math.Exp(v)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}

// AsProbabilities passes through vectors that already look like a distribution
// and softmaxes anything else (raw logits from exports without a final activation)
func AsProbabilities(v []float64) []float64 {
	if len(v) == 0 {
		return nil
	}
	for _, p := range v {
		if p < 0 || p > 1 || math.IsNaN(p) {
			return Softmax(v)
		}
	}
	if math.Abs(floats.Sum(v)-1) > 1e-3 {
		return Softmax(v)
	}
	return v
}
