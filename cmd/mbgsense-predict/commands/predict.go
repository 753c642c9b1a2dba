package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"mbgsense/cmd/mbgsense-predict/ui"
	"mbgsense/internal/services/api/emotion/domain"
)

func newPredictCmd(g *globals) *cobra.Command {
	var (
		asJSON  bool
		explain bool
	)
	cmd := &cobra.Command{
		Use:   "predict [comment...]",
		Short: "Classify one comment, or one comment per stdin line",
		Example: `  mbgsense-predict predict "Makanannya basi, anak saya sakit perut"
  cat comments.txt | mbgsense-predict predict --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := inputs(cmd, args)
			if err != nil {
				return err
			}
			s, err := openSession(cmd, g)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			out := cmd.OutOrStdout()
			if g.verbose {
				ui.Success(cmd.ErrOrStderr(), "model %s (%s, %s)", s.info.Model, s.info.Variant, s.info.Scheme)
			}
			enc := json.NewEncoder(out)
			enc.SetEscapeHTML(false)

			for i, text := range texts {
				in := domain.TextInput{Text: text}
				if explain {
					view, err := s.svc.Debug(cmd.Context(), in)
					if err != nil {
						return fmt.Errorf("comment %d: %w", i+1, err)
					}
					if asJSON {
						if err := enc.Encode(view); err != nil {
							return err
						}
						continue
					}
					printPrediction(out, text, view.Prediction)
					printStages(cmd, view)
					continue
				}

				p, err := s.svc.Predict(cmd.Context(), in)
				if err != nil {
					return fmt.Errorf("comment %d: %w", i+1, err)
				}
				if asJSON {
					if err := enc.Encode(p); err != nil {
						return err
					}
					continue
				}
				printPrediction(out, text, p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per comment")
	cmd.Flags().BoolVar(&explain, "explain", false, "include the intermediate pipeline stages")
	return cmd
}

func printStages(cmd *cobra.Command, v domain.DebugView) {
	w := cmd.OutOrStdout()
	d := v.Debug
	_, _ = fmt.Fprintf(w, "  %s %s\n", ui.Faint("lowered:"), d.Lowered)
	_, _ = fmt.Fprintf(w, "  %s %s\n", ui.Faint("cleaned:"), d.Cleaned)
	if d.EmptyAfterClean {
		ui.Warning(w, "nothing left after cleaning, the model saw an empty text")
	}
	if d.Keyword != nil {
		_, _ = fmt.Fprintf(w, "  %s %q -> %s (priority %d)\n", ui.Faint("keyword:"), d.Keyword.Phrase, d.Keyword.Category, d.Keyword.Priority)
	}
}
