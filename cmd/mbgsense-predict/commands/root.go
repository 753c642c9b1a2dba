// Package commands implements the mbgsense-predict command tree
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"mbgsense/cmd/mbgsense-predict/ui"
	"mbgsense/internal/platform/config"
	"mbgsense/internal/platform/logger"
	predictormod "mbgsense/internal/services/predictor/module"
)

// flags shared by every subcommand. Empty values fall back to CORE_* config
type globals struct {
	envFiles []string
	verbose  bool
	noColor  bool

	manifest string
	ortLib   string
	keywords string
	scheme   string
}

// overrides maps the flags onto predictor options
func (g *globals) overrides() predictormod.Options {
	return predictormod.Options{
		ManifestPath: g.manifest,
		ORTLibrary:   g.ortLib,
		KeywordsFile: g.keywords,
		Scheme:       g.scheme,
	}
}

// core is the config view the predictor module reads
func (g *globals) core() config.Conf { return config.New().Prefix("CORE_") }

// NewRootCmd builds a fresh command tree
func NewRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "mbgsense-predict",
		Short: "Classify the emotion of public comments on the free meal program",
		Long: `mbgsense-predict runs the same prediction pipeline as the API from a terminal.
It classifies single comments or whole CSV exports and helps inspect the
normalizer and the keyword override table.

Model and text settings come from CORE_* variables (or a .env file) and can
be overridden with flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := config.LoadDotEnv(g.envFiles...); err != nil {
				return err
			}
			ui.Init(g.noColor)

			opts := logger.FromEnv()
			opts.Service = "mbgsense-predict"
			opts.Writer = cmd.ErrOrStderr()
			if g.verbose {
				opts.Level = "debug"
			} else if _, set := os.LookupEnv("LOG_LEVEL"); !set {
				opts.Level = "warn"
			}
			logger.Init(opts)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringSliceVar(&g.envFiles, "env", nil, "dotenv files to load (default .env)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&g.noColor, "no-color", false, "disable colored output")
	pf.StringVarP(&g.manifest, "manifest", "m", "", "model manifest (CORE_MODEL_MANIFEST)")
	pf.StringVar(&g.ortLib, "ort-lib", "", "onnxruntime shared library (CORE_MODEL_ORT_LIB)")
	pf.StringVarP(&g.keywords, "keywords", "k", "", "keyword table file (CORE_KEYWORDS_FILE)")
	pf.StringVar(&g.scheme, "scheme", "", "label scheme used without a model (CORE_MODEL_SCHEME)")

	root.AddCommand(
		newPredictCmd(g),
		newBatchCmd(g),
		newNormalizeCmd(g),
		newKeywordsCmd(g),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
