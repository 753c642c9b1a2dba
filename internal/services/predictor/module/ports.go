package module

import (
	"context"

	"mbgsense/internal/core/keywords"
	"mbgsense/internal/core/normalize"
	"mbgsense/internal/core/predict"
)

// PredictPort is what API modules call to classify comments
type PredictPort interface {
	Predict(ctx context.Context, raw string) (predict.Result, error)
	Explain(ctx context.Context, raw string) (predict.Result, predict.Debug, error)
	State() (predict.State, error)
	// Predictor returns the loaded Predictor, loading it if needed
	Predictor() (*predict.Predictor, error)
}

// Ports holds the ports exposed by the predictor module
type Ports struct {
	Predictor PredictPort
	// Normalizer works without a model so it stays usable when loading failed
	Normalizer *normalize.Normalizer
	// Keywords is bound to Options.Scheme and serves override checks without a model.
	// Nil when the keyword table could not be read
	Keywords *keywords.Engine
}

// loaderPort adapts predict.Loader to PredictPort
type loaderPort struct{ *predict.Loader }

func (l loaderPort) Predictor() (*predict.Predictor, error) { return l.Load() }
