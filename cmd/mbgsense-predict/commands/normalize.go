package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mbgsense/cmd/mbgsense-predict/ui"
	"mbgsense/internal/core/normalize"
	"mbgsense/internal/core/predict"
	"mbgsense/internal/services/api/emotion/domain"
)

func newNormalizeCmd(g *globals) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "normalize [comment...]",
		Short: "Show the cleaned text the classifier would see",
		Long: `normalize runs only the text normalizer. No model is loaded, so it also works
on machines without the model artifacts or onnxruntime.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := inputs(cmd, args)
			if err != nil {
				return err
			}
			norm, _, err := textTools(g)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			enc := json.NewEncoder(w)
			enc.SetEscapeHTML(false)
			for _, text := range texts {
				if err := predict.CheckInput(text); err != nil {
					return err
				}
				clean := norm.Normalize(text)
				if asJSON {
					err := enc.Encode(domain.NormalizeOutput{
						Raw:     text,
						Lowered: normalize.Lower(text),
						Cleaned: clean,
						Words:   len(strings.Fields(clean)),
						Empty:   clean == "",
					})
					if err != nil {
						return err
					}
					continue
				}
				if clean == "" {
					ui.Warning(cmd.ErrOrStderr(), "%q is empty after cleaning", text)
				}
				_, _ = fmt.Fprintln(w, clean)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print every stage as JSON")
	return cmd
}
