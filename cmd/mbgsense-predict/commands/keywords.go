package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mbgsense/cmd/mbgsense-predict/ui"
	"mbgsense/internal/core/predict"
)

func newKeywordsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Inspect the keyword override table",
	}
	cmd.AddCommand(newKeywordsCheckCmd(g), newKeywordsListCmd(g))
	return cmd
}

func newKeywordsCheckCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "check [comment...]",
		Short: "Report which override list, if any, forces the category",
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := inputs(cmd, args)
			if err != nil {
				return err
			}
			_, kw, err := textTools(g)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, text := range texts {
				if err := predict.CheckInput(text); err != nil {
					return err
				}
				m, ok := kw.Check(text)
				if !ok {
					_, _ = fmt.Fprintf(w, "%s  %s\n", ui.Faint("no override"), text)
					continue
				}
				l, _ := kw.Scheme().Label(m.Index)
				_, _ = fmt.Fprintf(w, "%s  %q (priority %d)  %s\n",
					ui.Paint(l.Key, l.Icon+" "+l.Name), m.Phrase, m.Priority, text)
			}
			return nil
		},
	}
}

func newKeywordsListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the override lists in check order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, kw, err := textTools(g)
			if err != nil {
				return err
			}
			t := kw.Table()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "PRIORITY\tCATEGORY\tPHRASES\tFIRST")
			for _, l := range t.Lists {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", l.Priority, l.Category, len(l.Phrases), l.Phrases[0])
			}
			if err := w.Flush(); err != nil {
				return err
			}
			ui.Success(cmd.ErrOrStderr(), "table v%d, %d phrases, scheme %s", t.Version, t.PhraseCount(), kw.Scheme().Name)
			return nil
		},
	}
}
