// Package service turns predictor results into presentation ready payloads
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"mbgsense/internal/core/emotion"
	"mbgsense/internal/core/keywords"
	"mbgsense/internal/core/normalize"
	"mbgsense/internal/core/predict"
	perr "mbgsense/internal/platform/errors"
	"mbgsense/internal/platform/logger"
	"mbgsense/internal/services/api/emotion/domain"
	predictor "mbgsense/internal/services/predictor/module"

	"github.com/google/uuid"
)

// Service is the emotion service contract
type Service = domain.ServicePort

// Options are the service collaborators
type Options struct {
	Predictor  predictor.PredictPort
	Normalizer *normalize.Normalizer
	// Keywords answers override checks while the model is not loaded
	Keywords *keywords.Engine
}

type svc struct {
	opts  Options
	newID func() string
}

// New builds the service. Predictor and Normalizer are required
func New(opts Options) Service {
	if opts.Predictor == nil || opts.Normalizer == nil {
		panic("emotion service requires Predictor and Normalizer")
	}
	return &svc{opts: opts, newID: uuid.NewString}
}

func (s *svc) Predict(ctx context.Context, in domain.TextInput) (domain.Prediction, error) {
	res, err := s.opts.Predictor.Predict(ctx, in.Text)
	if err != nil {
		return domain.Prediction{}, err
	}
	out, err := s.present(res)
	if err != nil {
		return domain.Prediction{}, err
	}
	logger.C(ctx).Info().
		Str("prediction_id", out.ID).
		Str("label", out.Key).
		Str("method", out.Method).
		Float64("confidence", out.Confidence).
		Msg("comment classified")
	return out, nil
}

func (s *svc) Debug(ctx context.Context, in domain.TextInput) (domain.DebugView, error) {
	res, dbg, err := s.opts.Predictor.Explain(ctx, in.Text)
	if err != nil {
		return domain.DebugView{}, err
	}
	out, err := s.present(res)
	if err != nil {
		return domain.DebugView{}, err
	}
	return domain.DebugView{Prediction: out, Debug: dbg}, nil
}

func (s *svc) Normalize(_ context.Context, in domain.TextInput) (domain.NormalizeOutput, error) {
	if err := predict.CheckInput(in.Text); err != nil {
		return domain.NormalizeOutput{}, err
	}
	clean := s.opts.Normalizer.Normalize(in.Text)
	return domain.NormalizeOutput{
		Raw:     in.Text,
		Lowered: normalize.Lower(in.Text),
		Cleaned: clean,
		Words:   len(strings.Fields(clean)),
		Empty:   clean == "",
	}, nil
}

func (s *svc) Override(_ context.Context, in domain.TextInput) (domain.OverrideOutput, error) {
	if err := predict.CheckInput(in.Text); err != nil {
		return domain.OverrideOutput{}, err
	}
	kw, err := s.keywords()
	if err != nil {
		return domain.OverrideOutput{}, err
	}
	m, ok := kw.Check(in.Text)
	if !ok {
		return domain.OverrideOutput{}, nil
	}
	label, _ := kw.Scheme().Label(m.Index)
	return domain.OverrideOutput{Matched: true, Match: &m, Label: &label}, nil
}

func (s *svc) Labels(context.Context) (domain.LabelsOutput, error) {
	kw, err := s.keywords()
	if err != nil {
		return domain.LabelsOutput{}, err
	}
	sc := kw.Scheme()
	return domain.LabelsOutput{Scheme: sc.Name, Labels: append([]emotion.Label(nil), sc.Labels...)}, nil
}

// keywords prefers the loaded model's engine so overrides agree with Predict
func (s *svc) keywords() (*keywords.Engine, error) {
	if st, _ := s.opts.Predictor.State(); st == predict.StateReady {
		if p, err := s.opts.Predictor.Predictor(); err == nil {
			return p.Keywords(), nil
		}
	}
	if s.opts.Keywords == nil {
		return nil, perr.Unavailablef("keyword table unavailable")
	}
	return s.opts.Keywords, nil
}

func (s *svc) present(res predict.Result) (domain.Prediction, error) {
	kw, err := s.keywords()
	if err != nil {
		return domain.Prediction{}, err
	}
	return Present(kw.Scheme(), res, s.newID()), nil
}

// Present renders res against scheme. The distribution is sorted by probability,
// highest first, ties keeping index order
func Present(scheme *emotion.Scheme, res predict.Result, id string) domain.Prediction {
	dist := make([]domain.Share, 0, len(res.Probabilities))
	for i, p := range res.Probabilities {
		l, ok := scheme.Label(i)
		if !ok {
			continue
		}
		dist = append(dist, domain.Share{
			Key:         l.Key,
			Name:        l.Name,
			Icon:        l.Icon,
			ChartColor:  l.ChartColor,
			Probability: p,
			Percent:     Percent(p * 100),
		})
	}
	sort.SliceStable(dist, func(a, b int) bool { return dist[a].Probability > dist[b].Probability })

	return domain.Prediction{
		ID:             id,
		Scheme:         scheme.Name,
		Index:          res.Index,
		Key:            res.Label.Key,
		Label:          res.Label.Name,
		Icon:           res.Label.Icon,
		BgColor:        res.Label.BgColor,
		TextColor:      res.Label.TextColor,
		Confidence:     res.Confidence,
		ConfidenceText: Percent(res.Confidence),
		Method:         string(res.Method),
		Phrase:         res.Phrase,
		Distribution:   dist,
	}
}

// Percent formats a 0..100 value with two decimals
func Percent(v float64) string { return fmt.Sprintf("%.2f%%", v) }
