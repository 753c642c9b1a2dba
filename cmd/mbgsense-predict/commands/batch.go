package commands

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mbgsense/cmd/mbgsense-predict/ui"
	"mbgsense/internal/services/api/emotion/domain"
	"mbgsense/internal/services/api/emotion/service"
)

// columns appended to every output row
var batchColumns = []string{"emotion_key", "emotion_label", "confidence", "method", "phrase", "error"}

func newBatchCmd(g *globals) *cobra.Command {
	var (
		in     string
		out    string
		column string
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Classify every row of a CSV export",
		Long: `batch reads a CSV file with a header row, classifies the comment column of
every row and writes the rows back with the prediction columns appended:
` + strings.Join(batchColumns, ", ") + `.

Rows that cannot be classified keep empty prediction columns and carry the
reason in the error column.`,
		Example: `  mbgsense-predict batch --in komentar.csv --out hasil.csv --column komentar`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := readCSV(cmd, in)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return errors.New("csv has no header row")
			}
			col := slices.Index(rows[0], column)
			if col < 0 {
				return fmt.Errorf("column %q not in header %v", column, rows[0])
			}

			s, err := openSession(cmd, g)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			dst, closeDst, err := openOut(cmd, out)
			if err != nil {
				return err
			}
			defer func() { _ = closeDst() }()

			w := csv.NewWriter(dst)
			if err := w.Write(append(slices.Clone(rows[0]), batchColumns...)); err != nil {
				return err
			}

			sum := summary{counts: map[string]int{}}
			body := rows[1:]
			var bar *ui.Progress
			if len(body) > 0 {
				bar = ui.NewProgress(cmd.ErrOrStderr(), len(body), "classifying")
			}
			for i, row := range body {
				rec := classifyRow(cmd, s.svc, row, col)
				if rec[len(rec)-1] != "" {
					sum.failed++
				} else {
					sum.counts[rec[len(row)]]++
				}
				if err := w.Write(rec); err != nil {
					return fmt.Errorf("write row %d: %w", i+2, err)
				}
				bar.Add()
			}
			if bar != nil {
				bar.Finish()
			}
			if err := finishOut(w, closeDst); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			sum.print(cmd.ErrOrStderr(), len(body))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&in, "in", "i", "-", "input CSV, - for stdin")
	f.StringVarP(&out, "out", "o", "-", "output CSV, - for stdout")
	f.StringVarP(&column, "column", "c", "text", "header of the comment column")
	return cmd
}

// classifyRow returns row with the prediction columns appended
func classifyRow(cmd *cobra.Command, svc service.Service, row []string, col int) []string {
	rec := append(slices.Clone(row), make([]string, len(batchColumns))...)
	tail := rec[len(row):]
	if col >= len(row) {
		tail[5] = "row has no comment column"
		return rec
	}
	p, err := svc.Predict(cmd.Context(), domain.TextInput{Text: row[col]})
	if err != nil {
		tail[5] = err.Error()
		return rec
	}
	tail[0] = p.Key
	tail[1] = p.Label
	tail[2] = strconv.FormatFloat(p.Confidence, 'f', 2, 64)
	tail[3] = p.Method
	tail[4] = p.Phrase
	return rec
}

func readCSV(cmd *cobra.Command, path string) ([][]string, error) {
	var src io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		src = f
	}
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

// openOut returns the destination and its closer. The closer may be called more than once
func openOut(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, sync.OnceValue(f.Close), nil
}

// finishOut flushes w and closes its file, reporting the first failure
func finishOut(w *csv.Writer, closeOut func() error) error {
	w.Flush()
	if err := w.Error(); err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}

type summary struct {
	counts map[string]int
	failed int
}

func (s summary) print(w io.Writer, total int) {
	keys := make([]string, 0, len(s.counts))
	for k := range s.counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if s.counts[keys[i]] != s.counts[keys[j]] {
			return s.counts[keys[i]] > s.counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	ui.Success(w, "%d comments classified", total-s.failed)
	for _, k := range keys {
		share := float64(s.counts[k]) / float64(total)
		_, _ = fmt.Fprintf(w, "  %-8s %s %5d %s\n", k, ui.Paint(k, ui.Bar(share)), s.counts[k], service.Percent(share*100))
	}
	if s.failed > 0 {
		ui.Warning(w, "%d rows skipped, see the error column", s.failed)
	}
}
