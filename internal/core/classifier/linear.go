package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"mbgsense/internal/core/sequence"
)

type linearDoc struct {
	Classes   []string    `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

// Linear is a multinomial linear model over a weighted term vector
type Linear struct {
	w       *mat.Dense
	b       *mat.VecDense
	classes []string
}

// LoadLinear reads a {classes, coef, intercept} export from disk
func LoadLinear(path string) (*Linear, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("classifier: read linear model %s: %w", path, err)
	}
	return ParseLinear(b)
}

// ParseLinear decodes a linear model export. coef is classes x features
func ParseLinear(b []byte) (*Linear, error) {
	var doc linearDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("classifier: parse linear model: %w", err)
	}
	rows := len(doc.Coef)
	if rows == 0 || len(doc.Coef[0]) == 0 {
		return nil, fmt.Errorf("classifier: linear model has no coefficients")
	}
	cols := len(doc.Coef[0])
	if len(doc.Intercept) != rows {
		return nil, fmt.Errorf("classifier: %d intercepts for %d classes", len(doc.Intercept), rows)
	}
	if len(doc.Classes) != 0 && len(doc.Classes) != rows {
		return nil, fmt.Errorf("classifier: %d class names for %d classes", len(doc.Classes), rows)
	}
	data := make([]float64, 0, rows*cols)
	for i, row := range doc.Coef {
		if len(row) != cols {
			return nil, fmt.Errorf("classifier: coef row %d has %d features, want %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return &Linear{
		w:       mat.NewDense(rows, cols, data),
		b:       mat.NewVecDense(rows, doc.Intercept),
		classes: doc.Classes,
	}, nil
}

// InputWidth implements Classifier
func (l *Linear) InputWidth() int {
	_, c := l.w.Dims()
	return c
}

// Classes implements Classifier
func (l *Linear) Classes() int {
	r, _ := l.w.Dims()
	return r
}

// ClassNames returns the names stored with the model, if any
func (l *Linear) ClassNames() []string { return l.classes }

// Predict implements Classifier
func (l *Linear) Predict(_ context.Context, in sequence.Input) ([]float64, error) {
	if in.Dense == nil {
		return nil, fmt.Errorf("classifier: linear model needs a weighted term vector")
	}
	if len(in.Dense) != l.InputWidth() {
		return nil, fmt.Errorf("classifier: input width %d, model expects %d", len(in.Dense), l.InputWidth())
	}
	var z mat.VecDense
	z.MulVec(l.w, mat.NewVecDense(len(in.Dense), in.Dense))
	z.AddVec(&z, l.b)
	logits := make([]float64, z.Len())
	copy(logits, z.RawVector().Data)
	return Softmax(logits), nil
}

// Close implements Classifier
func (l *Linear) Close() error { return nil }
