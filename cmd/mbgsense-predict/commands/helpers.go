package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mbgsense/cmd/mbgsense-predict/ui"
	"mbgsense/internal/core/emotion"
	"mbgsense/internal/core/keywords"
	"mbgsense/internal/core/normalize"
	"mbgsense/internal/core/predict"
	"mbgsense/internal/modkit"
	"mbgsense/internal/platform/logger"
	"mbgsense/internal/services/api/emotion/domain"
	"mbgsense/internal/services/api/emotion/service"
	predictormod "mbgsense/internal/services/predictor/module"
)

// session is a loaded model behind the same service the API uses
type session struct {
	mod  *predictormod.Module
	svc  service.Service
	info predict.ModelInfo
}

// openSession loads the model eagerly so a broken artifact fails before any input is read
func openSession(cmd *cobra.Command, g *globals) (*session, error) {
	sp := ui.NewSpinner(cmd.ErrOrStderr(), "loading model")
	sp.Start()
	defer sp.Stop()

	mod := predictormod.New(modkit.Deps{Log: *logger.Named("cli"), Cfg: g.core()}, g.overrides())
	ports := mod.Ports().(predictormod.Ports)
	p, err := ports.Predictor.Predictor()
	if err != nil {
		_ = mod.Close()
		return nil, err
	}
	svc := service.New(service.Options{
		Predictor:  ports.Predictor,
		Normalizer: ports.Normalizer,
		Keywords:   ports.Keywords,
	})
	return &session{mod: mod, svc: svc, info: p.Info()}, nil
}

func (s *session) Close() error { return s.mod.Close() }

// textTools builds the normalizer and keyword engine without touching the model
func textTools(g *globals) (*normalize.Normalizer, *keywords.Engine, error) {
	opts := predictormod.FromConfig(g.core())
	if g.keywords != "" {
		opts.KeywordsFile = g.keywords
	}
	if g.scheme != "" {
		opts.Scheme = g.scheme
	}
	scheme, err := emotion.Lookup(opts.Scheme)
	if err != nil {
		return nil, nil, err
	}
	kw, err := predict.BindKeywords(opts.KeywordsFile, scheme)
	if err != nil {
		return nil, nil, err
	}
	return predictormod.NewNormalizer(opts), kw, nil
}

// inputs returns the joined args as one comment, or one comment per non blank stdin line
func inputs(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return []string{strings.Join(args, " ")}, nil
	}
	var out []string
	sc := bufio.NewScanner(cmd.InOrStdin())
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no comment given: pass it as arguments or on stdin")
	}
	return out, nil
}

// printPrediction renders one result with its distribution
func printPrediction(w io.Writer, text string, p domain.Prediction) {
	head := fmt.Sprintf("%s %s", p.Icon, p.Label)
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n", ui.Paint(p.Key, head), p.ConfidenceText, ui.Faint(method(p)))
	_, _ = fmt.Fprintf(w, "  %s\n", ui.Faint(fmt.Sprintf("%q", text)))
	for _, s := range p.Distribution {
		_, _ = fmt.Fprintf(w, "  %-8s %s %7s\n", s.Key, ui.Paint(s.Key, ui.Bar(s.Probability)), s.Percent)
	}
}

func method(p domain.Prediction) string {
	if p.Phrase != "" {
		return fmt.Sprintf("%s: %s", p.Method, p.Phrase)
	}
	return p.Method
}
