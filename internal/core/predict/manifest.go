package predict

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mbgsense/internal/core/classifier"
	"mbgsense/internal/core/emotion"
	"mbgsense/internal/core/keywords"
	"mbgsense/internal/core/normalize"
	"mbgsense/internal/core/sequence"
	perr "mbgsense/internal/platform/errors"
	"mbgsense/internal/platform/logger"

	"gopkg.in/yaml.v3"
)

// Model variants
const (
	VariantLSTM   = "lstm"
	VariantLinear = "linear"
)

// Manifest ties a trained model to the encoder and label scheme it was trained with.
// Relative paths resolve against the manifest's directory
type Manifest struct {
	Variant     string `json:"variant" yaml:"variant"`
	Scheme      string `json:"scheme" yaml:"scheme"`
	Model       string `json:"model" yaml:"model"`
	Tokenizer   string `json:"tokenizer,omitempty" yaml:"tokenizer"`
	Vectorizer  string `json:"vectorizer,omitempty" yaml:"vectorizer"`
	MaxLen      int    `json:"max_len,omitempty" yaml:"max_len"`
	Padding     string `json:"padding,omitempty" yaml:"padding"`
	Truncating  string `json:"truncating,omitempty" yaml:"truncating"`
	VocabSHA256 string `json:"vocab_sha256,omitempty" yaml:"vocab_sha256"`
	InputName   string `json:"input_name,omitempty" yaml:"input_name"`
	OutputName  string `json:"output_name,omitempty" yaml:"output_name"`

	dir string
}

// ReadManifest loads and validates a manifest file. Files ending in .yaml or .yml are
// read as YAML, anything else as JSON
func ReadManifest(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeArtifact, "model manifest %s not found", path)
	}
	var m Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &m); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeArtifact, "model manifest %s is not valid yaml", path)
		}
	default:
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeArtifact, "model manifest %s is not valid json", path)
		}
	}
	m.dir = filepath.Dir(path)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks required fields for the variant and fills defaults
func (m *Manifest) Validate() error {
	m.Variant = strings.ToLower(strings.TrimSpace(m.Variant))
	if m.Variant == "" {
		m.Variant = VariantLSTM
	}
	if m.Model == "" {
		return perr.Artifactf("manifest: model path is required")
	}
	switch m.Variant {
	case VariantLSTM:
		if m.Tokenizer == "" {
			return perr.Artifactf("manifest: lstm variant needs a tokenizer")
		}
		if m.MaxLen == 0 {
			m.MaxLen = sequence.DefaultMaxLen
		}
		if m.MaxLen < 0 {
			return perr.Artifactf("manifest: max_len must be positive, got %d", m.MaxLen)
		}
	case VariantLinear:
		if m.Vectorizer == "" {
			return perr.Artifactf("manifest: linear variant needs a vectorizer")
		}
	default:
		return perr.Artifactf("manifest: unknown variant %q", m.Variant)
	}
	if _, err := emotion.Lookup(m.Scheme); err != nil {
		return perr.Wrap(err, perr.ErrorCodeArtifact, "manifest: bad scheme")
	}
	return nil
}

// Path resolves p against the manifest directory
func (m *Manifest) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.dir, p)
}

// OpenOptions configures Open
type OpenOptions struct {
	ManifestPath string
	ORTLibrary   string
	// KeywordsFile replaces the embedded keyword table when set
	KeywordsFile string
	Normalizer   *normalize.Normalizer
	Log          *logger.Logger
}

// seams for tests
var (
	openONNX   = func(o classifier.ONNXOptions) (classifier.Classifier, error) { return classifier.OpenONNX(o) }
	openLinear = func(path string) (classifier.Classifier, error) { return classifier.LoadLinear(path) }
)

// Open reads the manifest and every artifact it names, then builds a Predictor.
// Any failure is an artifact error naming the file at fault
func Open(opts OpenOptions) (*Predictor, error) {
	log := opts.Log
	if log == nil {
		log = logger.Named("predict")
	}
	if opts.ManifestPath == "" {
		return nil, perr.Artifactf("model manifest path is not configured")
	}
	m, err := ReadManifest(opts.ManifestPath)
	if err != nil {
		return nil, err
	}
	scheme, err := emotion.Lookup(m.Scheme)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeArtifact, "bad scheme")
	}

	kw, err := BindKeywords(opts.KeywordsFile, scheme)
	if err != nil {
		return nil, err
	}

	enc, err := openEncoder(m)
	if err != nil {
		return nil, err
	}

	clf, err := openClassifier(m, opts.ORTLibrary, scheme.Size())
	if err != nil {
		return nil, err
	}

	p, err := New(Deps{
		Scheme:     scheme,
		Keywords:   kw,
		Normalizer: opts.Normalizer,
		Encoder:    enc,
		Classifier: clf,
		VocabHash:  m.VocabSHA256,
		Log:        log,
		Info: ModelInfo{
			Variant:  m.Variant,
			Model:    m.Path(m.Model),
			Manifest: opts.ManifestPath,
		},
	})
	if err != nil {
		_ = clf.Close()
		return nil, err
	}
	log.Info().
		Str("variant", m.Variant).
		Str("scheme", scheme.Name).
		Str("model", m.Path(m.Model)).
		Int("input_width", enc.Width()).
		Int("keyword_phrases", kw.Table().PhraseCount()).
		Msg("predictor ready")
	return p, nil
}

// BindKeywords loads the table at path, or the embedded one when path is empty, and binds it to scheme
func BindKeywords(path string, scheme *emotion.Scheme) (*keywords.Engine, error) {
	var (
		tb  *keywords.Table
		err error
	)
	if path != "" {
		tb, err = keywords.LoadFile(path)
	} else {
		tb, err = keywords.Load()
	}
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeArtifact, "keyword table")
	}
	e, err := tb.Bind(scheme)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeArtifact, "keyword table")
	}
	return e, nil
}

func openEncoder(m *Manifest) (sequence.Encoder, error) {
	switch m.Variant {
	case VariantLinear:
		v, err := sequence.LoadTFIDF(m.Path(m.Vectorizer))
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeArtifact, "vectorizer")
		}
		return v, nil
	default:
		t, err := sequence.LoadKeras(m.Path(m.Tokenizer), sequence.KerasOptions{
			MaxLen:     m.MaxLen,
			Padding:    m.Padding,
			Truncating: m.Truncating,
		})
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeArtifact, "tokenizer")
		}
		return t, nil
	}
}

func openClassifier(m *Manifest, ortLib string, classes int) (classifier.Classifier, error) {
	var (
		c   classifier.Classifier
		err error
	)
	switch m.Variant {
	case VariantLinear:
		c, err = openLinear(m.Path(m.Model))
	default:
		c, err = openONNX(classifier.ONNXOptions{
			ModelPath:   m.Path(m.Model),
			LibraryPath: ortLib,
			InputName:   m.InputName,
			OutputName:  m.OutputName,
			Classes:     classes,
		})
	}
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeArtifact, fmt.Sprintf("model %s", m.Path(m.Model)))
	}
	return c, nil
}
