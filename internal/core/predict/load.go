package predict

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	perr "mbgsense/internal/platform/errors"
)

// State of a Loader
type State string

// Loader states
const (
	StatePending State = "pending"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Loader builds the Predictor at most once and caches the outcome, success or failure,
// for the life of the process
type Loader struct {
	once  sync.Once
	build func() (*Predictor, error)
	p     *Predictor
	err   error
	done  atomic.Bool
}

// NewLoader wraps build in a one shot guard
func NewLoader(build func() (*Predictor, error)) *Loader {
	return &Loader{build: build}
}

// Loaded wraps an already built Predictor
func Loaded(p *Predictor) *Loader {
	l := &Loader{build: func() (*Predictor, error) { return p, nil }}
	l.Load()
	return l
}

// Load runs the build on first call. Later calls return the cached outcome
func (l *Loader) Load() (*Predictor, error) {
	l.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				l.p = nil
				l.err = perr.Wrap(fmt.Errorf("panic: %v", r), perr.ErrorCodeUnavailable, "model unavailable")
			}
			l.done.Store(true)
		}()
		p, err := l.build()
		if err != nil {
			l.err = perr.Wrap(err, perr.ErrorCodeUnavailable, "model unavailable")
		} else {
			l.p = p
		}
	})
	return l.p, l.err
}

// State reports the load state without triggering a load
func (l *Loader) State() (State, error) {
	if !l.done.Load() {
		return StatePending, nil
	}
	if l.err != nil {
		return StateFailed, l.err
	}
	return StateReady, nil
}

// Predict validates raw, then predicts with the loaded Predictor
func (l *Loader) Predict(ctx context.Context, raw string) (Result, error) {
	res, _, err := l.Explain(ctx, raw)
	return res, err
}

// Explain is Predict with the debug view
func (l *Loader) Explain(ctx context.Context, raw string) (Result, Debug, error) {
	if err := CheckInput(raw); err != nil {
		return Result{}, Debug{}, err
	}
	p, err := l.Load()
	if err != nil {
		return Result{}, Debug{}, err
	}
	return p.Explain(ctx, raw)
}

// Close releases the Predictor if it was built
func (l *Loader) Close() error {
	if !l.done.Load() || l.p == nil {
		return nil
	}
	return l.p.Close()
}
