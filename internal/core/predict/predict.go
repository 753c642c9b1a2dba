// Package predict orchestrates one emotion prediction: keyword override first,
// then normalization, encoding and classification. A Predictor is built once
// from loaded artifacts and is read only afterwards
package predict

import (
	"context"
	"math"
	"strings"
	"sync"

	"gonum.org/v1/gonum/floats"

	"mbgsense/internal/core/classifier"
	"mbgsense/internal/core/emotion"
	"mbgsense/internal/core/keywords"
	"mbgsense/internal/core/normalize"
	"mbgsense/internal/core/sequence"
	perr "mbgsense/internal/platform/errors"
	"mbgsense/internal/platform/logger"
)

// Method tells how a result was produced
type Method string

// Methods
const (
	MethodKeyword Method = "keyword override"
	MethodModel   Method = "model inference"
)

// Result is the outcome of one prediction
type Result struct {
	Index         int           `json:"index"`
	Label         emotion.Label `json:"label"`
	Confidence    float64       `json:"confidence"` // percent of the winning probability
	Probabilities []float64     `json:"probabilities"`
	Method        Method        `json:"method"`
	Phrase        string        `json:"phrase,omitempty"` // matched keyword for overrides
}

// Debug exposes the intermediate stages of a prediction
type Debug struct {
	Raw             string          `json:"raw_input"`
	Lowered         string          `json:"lowered"`
	Cleaned         string          `json:"cleaned"`
	EmptyAfterClean bool            `json:"empty_after_clean"`
	Input           *sequence.Input `json:"input,omitempty"`
	Keyword         *keywords.Match `json:"keyword,omitempty"`
	Index           int             `json:"detected_index"`
	Method          Method          `json:"method"`
	Probabilities   []float64       `json:"probabilities"`
}

// Deps are the loaded collaborators of a Predictor
type Deps struct {
	Scheme     *emotion.Scheme
	Keywords   *keywords.Engine
	Normalizer *normalize.Normalizer
	Encoder    sequence.Encoder
	Classifier classifier.Classifier
	// VocabHash is the fingerprint the model was trained against; empty skips the check
	VocabHash string
	Log       *logger.Logger
	// Info is descriptive only; encoder and keyword fields are filled in by New
	Info ModelInfo
}

// ModelInfo describes the loaded artifacts
type ModelInfo struct {
	Variant        string        `json:"variant"`
	Scheme         string        `json:"scheme"`
	Model          string        `json:"model"`
	Manifest       string        `json:"manifest,omitempty"`
	Encoder        sequence.Kind `json:"encoder"`
	InputWidth     int           `json:"input_width"`
	VocabHash      string        `json:"vocab_sha256"`
	KeywordVersion int           `json:"keyword_version"`
	KeywordPhrases int           `json:"keyword_phrases"`
}

// Predictor runs predictions. Model calls are serialized
type Predictor struct {
	mu     sync.Mutex
	scheme *emotion.Scheme
	kw     *keywords.Engine
	norm   *normalize.Normalizer
	enc    sequence.Encoder
	clf    classifier.Classifier
	log    *logger.Logger
	info   ModelInfo
}

// New checks that the collaborators agree with each other and builds a Predictor
func New(d Deps) (*Predictor, error) {
	switch {
	case d.Scheme == nil:
		return nil, perr.Artifactf("predict: no emotion scheme")
	case d.Keywords == nil:
		return nil, perr.Artifactf("predict: no keyword engine")
	case d.Encoder == nil:
		return nil, perr.Artifactf("predict: no encoder")
	case d.Classifier == nil:
		return nil, perr.Artifactf("predict: no classifier")
	}
	if ks := d.Keywords.Scheme(); ks.Name != d.Scheme.Name {
		return nil, perr.Artifactf("predict: keyword table bound to scheme %s, model uses %s", ks.Name, d.Scheme.Name)
	}
	if n := d.Classifier.Classes(); n != d.Scheme.Size() {
		return nil, perr.Artifactf("predict: classifier emits %d classes, scheme %s has %d", n, d.Scheme.Name, d.Scheme.Size())
	}
	if w := d.Classifier.InputWidth(); w != 0 && w != d.Encoder.Width() {
		return nil, perr.Artifactf("predict: classifier expects width %d, encoder produces %d", w, d.Encoder.Width())
	}
	if d.VocabHash != "" && !strings.EqualFold(d.VocabHash, d.Encoder.VocabHash()) {
		return nil, perr.Artifactf("predict: encoder vocabulary %s does not match the model's %s", short(d.Encoder.VocabHash()), short(d.VocabHash))
	}
	if d.Normalizer == nil {
		d.Normalizer = normalize.New()
	}
	if d.Log == nil {
		d.Log = logger.Named("predict")
	}
	info := d.Info
	info.Scheme = d.Scheme.Name
	info.Encoder = d.Encoder.Kind()
	info.InputWidth = d.Encoder.Width()
	info.VocabHash = d.Encoder.VocabHash()
	info.KeywordVersion = d.Keywords.Table().Version
	info.KeywordPhrases = d.Keywords.Table().PhraseCount()
	return &Predictor{
		info:   info,
		scheme: d.Scheme,
		kw:     d.Keywords,
		norm:   d.Normalizer,
		enc:    d.Encoder,
		clf:    d.Classifier,
		log:    d.Log,
	}, nil
}

func short(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// Scheme returns the active label scheme
func (p *Predictor) Scheme() *emotion.Scheme { return p.scheme }

// Keywords returns the override engine
func (p *Predictor) Keywords() *keywords.Engine { return p.kw }

// Normalizer returns the text normalizer
func (p *Predictor) Normalizer() *normalize.Normalizer { return p.norm }

// Encoder returns the encoder
func (p *Predictor) Encoder() sequence.Encoder { return p.enc }

// Info describes the loaded artifacts
func (p *Predictor) Info() ModelInfo { return p.info }

// Predict classifies raw
func (p *Predictor) Predict(ctx context.Context, raw string) (Result, error) {
	res, _, err := p.Explain(ctx, raw)
	return res, err
}

// Explain classifies raw and returns the intermediate stages alongside the result
func (p *Predictor) Explain(ctx context.Context, raw string) (Result, Debug, error) {
	if err := CheckInput(raw); err != nil {
		return Result{}, Debug{}, err
	}

	dbg := Debug{Raw: raw, Lowered: normalize.Lower(raw)}
	if m, ok := p.kw.CheckLowered(dbg.Lowered); ok {
		res := p.forced(m)
		dbg.Keyword = &m
		dbg.Index, dbg.Method, dbg.Probabilities = res.Index, res.Method, res.Probabilities
		return res, dbg, nil
	}

	res, err := p.infer(ctx, raw, &dbg)
	if err != nil {
		return Result{}, dbg, err
	}
	dbg.Index, dbg.Method, dbg.Probabilities = res.Index, res.Method, res.Probabilities
	return res, dbg, nil
}

// CheckInput rejects text that is empty once surrounding whitespace is dropped
func CheckInput(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return perr.WithField(perr.Validationf("text is required"), "text")
	}
	return nil
}

func (p *Predictor) forced(m keywords.Match) Result {
	label, _ := p.scheme.Label(m.Index)
	return Result{
		Index:         m.Index,
		Label:         label,
		Confidence:    keywords.ForcedConfidence,
		Probabilities: keywords.Probabilities(m.Index, p.scheme.Size()),
		Method:        MethodKeyword,
		Phrase:        m.Phrase,
	}
}

func (p *Predictor) infer(ctx context.Context, raw string, dbg *Debug) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	dbg.Cleaned = p.norm.Normalize(raw)
	if dbg.Cleaned == "" {
		dbg.EmptyAfterClean = true
		p.log.Debug().Int("raw_len", len(raw)).Msg("comment is empty after cleaning; classifying padding only")
	}
	in := p.enc.Encode(dbg.Cleaned)
	dbg.Input = &in

	probs, err := p.clf.Predict(ctx, in)
	if err != nil {
		return Result{}, perr.Wrap(err, perr.ErrorCodeInference, "classifier failed")
	}
	if len(probs) != p.scheme.Size() {
		return Result{}, perr.Inferencef("classifier returned %d probabilities for %d categories", len(probs), p.scheme.Size())
	}
	for _, v := range probs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, perr.Inferencef("classifier returned a non-finite probability")
		}
		if v < 0 {
			return Result{}, perr.Inferencef("classifier returned a negative probability")
		}
	}

	idx := floats.MaxIdx(probs)
	label, _ := p.scheme.Label(idx)
	return Result{
		Index:         idx,
		Label:         label,
		Confidence:    probs[idx] * 100,
		Probabilities: probs,
		Method:        MethodModel,
	}, nil
}

// Close releases the classifier
func (p *Predictor) Close() error { return p.clf.Close() }
