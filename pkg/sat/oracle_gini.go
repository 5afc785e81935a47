package sat

import (
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// giniEngine keeps a single incremental gini instance: clauses accumulate across checks and every check
// is driven by assumptions, so learnt clauses are reused while enumerating
type giniEngine struct {
	g       *gini.Gini
	timeout time.Duration
}

// WithTimeout bounds every check of an in-process session; a check that runs out of time is Unknown.
// Batch sessions take their timeout from the SATSolver instead and BatchFactory rejects this option.
func WithTimeout(timeout time.Duration) Option {
	return func(s *session) {
		s.timeout = timeout
		if engine, ok := s.engine.(*giniEngine); ok {
			engine.timeout = timeout
		}
	}
}

// NewGiniOracle opens an incremental in-process session
func NewGiniOracle(opts ...Option) Oracle {
	return newSession(&giniEngine{g: gini.New()}, opts...)
}

// GiniFactory opens in-process sessions with the given options
func GiniFactory(opts ...Option) Factory {
	return func() (Oracle, error) {
		return NewGiniOracle(opts...), nil
	}
}

func (e *giniEngine) Add(m z.Lit) {
	e.g.Add(m)
}

func (e *giniEngine) solve(assumptions []z.Lit) (Status, error) {
	e.g.Assume(assumptions...)
	return solveWithin(e.g, e.timeout), nil
}

func (e *giniEngine) value(m z.Lit) bool {
	if m.Var() > e.g.MaxVar() {
		return false
	}
	return e.g.Value(m)
}

func (e *giniEngine) failed() []z.Lit {
	return append([]z.Lit{}, e.g.Why(nil)...)
}
