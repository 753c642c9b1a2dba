// Package module wires the prediction pipeline and exposes it as ports.
// It mounts no routes; API modules receive its ports instead
package module

import (
	"mbgsense/internal/adapters/sastrawi"
	"mbgsense/internal/core/emotion"
	"mbgsense/internal/core/normalize"
	"mbgsense/internal/core/predict"
	"mbgsense/internal/modkit"
	"mbgsense/internal/modkit/httpkit"
	"mbgsense/internal/platform/logger"
)

// Module is the predictor worker module
type Module struct {
	deps   modkit.Deps
	opts   Options
	loader *predict.Loader
	ports  Ports
}

// open is swapped by tests
var open = predict.Open

// New builds the normalizer and a lazy Loader from config. Non-zero overrides win
func New(deps modkit.Deps, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.ManifestPath != "" {
		opts.ManifestPath = overrides.ManifestPath
	}
	if overrides.ORTLibrary != "" {
		opts.ORTLibrary = overrides.ORTLibrary
	}
	if overrides.KeywordsFile != "" {
		opts.KeywordsFile = overrides.KeywordsFile
	}
	if len(overrides.ExtraStopWords) > 0 {
		opts.ExtraStopWords = overrides.ExtraStopWords
	}
	if overrides.StopWordSpan != 0 {
		opts.StopWordSpan = overrides.StopWordSpan
	}
	if overrides.Scheme != "" {
		opts.Scheme = overrides.Scheme
	}

	log := logger.Named("predictor")
	norm := NewNormalizer(opts)
	loader := predict.NewLoader(func() (*predict.Predictor, error) {
		return open(predict.OpenOptions{
			ManifestPath: opts.ManifestPath,
			ORTLibrary:   opts.ORTLibrary,
			KeywordsFile: opts.KeywordsFile,
			Normalizer:   norm,
			Log:          log,
		})
	})

	m := &Module{deps: deps, opts: opts, loader: loader}
	m.ports = Ports{Predictor: loaderPort{loader}, Normalizer: norm}
	if scheme, err := emotion.Lookup(opts.Scheme); err != nil {
		log.Error().Err(err).Msg("keyword scheme")
	} else if kw, err := predict.BindKeywords(opts.KeywordsFile, scheme); err != nil {
		log.Error().Err(err).Str("file", opts.KeywordsFile).Msg("keyword table unavailable")
	} else {
		m.ports.Keywords = kw
	}

	if opts.Eager {
		// a failure is cached by the loader and surfaces as 503s and a failed readiness check
		if _, err := loader.Load(); err != nil {
			log.Error().Err(err).Str("manifest", opts.ManifestPath).Msg("model load failed")
		}
	}
	return m
}

// NewNormalizer builds the Sastrawi backed normalizer described by opts
func NewNormalizer(opts Options) *normalize.Normalizer {
	nopts := []normalize.Option{
		normalize.WithStopWords(sastrawi.NewStopWords(opts.ExtraStopWords, opts.StopWordSpan)),
	}
	if opts.Stem {
		nopts = append(nopts, normalize.WithStemmer(sastrawi.NewStemmer()))
	}
	return normalize.New(nopts...)
}

// Options returns the resolved options
func (m *Module) Options() Options { return m.opts }

// Close releases the model if it was loaded
func (m *Module) Close() error { return m.loader.Close() }

// Ports returns the module ports (Predictor, Normalizer)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "predictor" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
