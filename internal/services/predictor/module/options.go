package module

import (
	"mbgsense/internal/adapters/sastrawi"
	"mbgsense/internal/core/emotion"
	"mbgsense/internal/platform/config"
)

// Options controls where the predictor finds its artifacts and how text is normalized
type Options struct {
	ManifestPath   string
	ORTLibrary     string
	KeywordsFile   string
	ExtraStopWords []string
	StopWordSpan   int

	// Scheme binds the keyword table used while no model is loaded
	Scheme string
	// Stem toggles the Sastrawi stemmer; stop word removal is always on
	Stem bool
	// Eager loads the model when the module is built instead of on first use
	Eager bool
}

// FromConfig reads MODEL_*, KEYWORDS_FILE and TEXT_* from cfg (usually prefixed CORE_).
// A KEYWORDS_FILE that does not exist panics at startup
func FromConfig(cfg config.Conf) Options {
	mc := cfg.Prefix("MODEL_")
	tc := cfg.Prefix("TEXT_")
	return Options{
		ManifestPath:   mc.MayString("MANIFEST", "models/manifest.json"),
		ORTLibrary:     mc.MayString("ORT_LIB", ""),
		Eager:          mc.MayBool("EAGER", true),
		Scheme:         mc.MayEnum("SCHEME", emotion.Basic4, emotion.Names()...),
		KeywordsFile:   cfg.MayFile("KEYWORDS_FILE"),
		ExtraStopWords: tc.MayCSV("EXTRA_STOPWORDS", nil),
		StopWordSpan:   tc.MayInt("STOPWORD_SPAN", sastrawi.DefaultSpan),
		Stem:           tc.MayBool("STEM", true),
	}
}
