package planner

import (
	"context"
	"fmt"

	"github.com/limaJavier/studyplan/pkg/sat"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Outcome is the reason an enumeration stopped. None of them is a failure.
type Outcome int

const (
	// Exhausted means every selection of modules has been found
	Exhausted Outcome = iota
	// Unsatisfiable means the very first check failed, so no plan exists
	Unsatisfiable
	// Undetermined means the oracle could not decide a check
	Undetermined
	// Cancelled means the context was done or the solution limit was reached
	Cancelled
)

var outcomeNames = []string{"exhausted", "unsatisfiable", "undetermined", "cancelled"}

func (outcome Outcome) String() string {
	if int(outcome) < 0 || int(outcome) >= len(outcomeNames) {
		return fmt.Sprintf("outcome(%d)", int(outcome))
	}
	return outcomeNames[outcome]
}

// Enumeration is the raw result of the solve, extract and block loop
type Enumeration struct {
	Solutions []Solution
	Outcome   Outcome
	Core      []string // Labels of the constraints that cannot be met together, for Unsatisfiable only
}

// Observer is notified as an enumeration progresses
type Observer interface {
	Checked(status sat.Status)
	SolutionFound(count int)
}

type nopObserver struct{}

func (nopObserver) Checked(sat.Status) {}
func (nopObserver) SolutionFound(int)  {}

type settings struct {
	logger   logrus.FieldLogger
	observer Observer
	limit    int
}

type Option func(*settings)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func WithObserver(observer Observer) Option {
	return func(s *settings) {
		s.observer = observer
	}
}

// WithLimit stops the enumeration once n raw solutions have been found
func WithLimit(n int) Option {
	return func(s *settings) {
		s.limit = n
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:   logrus.StandardLogger(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Enumerate asserts the compiled constraints and then collects one solution per distinct selection of modules
// until the oracle runs out of them. Cancellation is only observed between checks, and the solutions found so
// far are always returned. An oracle failure while solving ends the enumeration as Undetermined; an error is only
// returned when the compiled constraints cannot be asserted.
func Enumerate(ctx context.Context, oracle sat.Oracle, compilation *Compilation, opts ...Option) (Enumeration, error) {
	s := newSettings(opts)
	logger := s.logger.WithField("modules", len(compilation.Bundles))

	for _, constraint := range compilation.Constraints {
		if err := oracle.Assert(constraint.Expr, constraint.Label); err != nil {
			return Enumeration{Outcome: Undetermined}, errors.Wrapf(err, "cannot assert %q", constraint.Label)
		}
	}
	logger.WithField("constraints", len(compilation.Constraints)).Debug("constraints asserted")

	result := Enumeration{Solutions: make([]Solution, 0)}
	undetermined := func(err error, message string) (Enumeration, error) {
		logger.WithError(err).WithField("solutions", len(result.Solutions)).Error(message + ", enumeration stopped")
		result.Outcome = Undetermined
		return result, nil
	}
	for {
		if err := ctx.Err(); err != nil {
			logger.WithField("solutions", len(result.Solutions)).Info("enumeration cancelled")
			result.Outcome = Cancelled
			return result, nil
		}
		if s.limit > 0 && len(result.Solutions) >= s.limit {
			logger.WithField("solutions", len(result.Solutions)).Info("solution limit reached")
			result.Outcome = Cancelled
			return result, nil
		}

		status, err := oracle.CheckSat()
		if err != nil {
			return undetermined(err, "satisfiability check failed")
		}
		s.observer.Checked(status)
		logger.WithField("status", status).Debugf("check #%d", len(result.Solutions)+1)

		switch status {
		case sat.Unsatisfiable:
			if len(result.Solutions) > 0 {
				logger.WithField("solutions", len(result.Solutions)).Info("enumeration exhausted")
				result.Outcome = Exhausted
				return result, nil
			}
			core, err := oracle.UnsatCore()
			if err != nil {
				return undetermined(err, "cannot explain unsatisfiability")
			}
			logger.Warnf("no plan satisfies the regulations, %d rules conflict:", len(core))
			for _, label := range core {
				logger.Warn(label)
			}
			result.Outcome = Unsatisfiable
			result.Core = core
			return result, nil
		case sat.Unknown:
			logger.WithField("solutions", len(result.Solutions)).Warn("oracle could not decide, enumeration stopped")
			result.Outcome = Undetermined
			return result, nil
		}

		model, err := oracle.Model()
		if err != nil {
			return undetermined(err, "cannot read model")
		}
		result.Solutions = append(result.Solutions, extract(model, compilation))
		s.observer.SolutionFound(len(result.Solutions))

		label := fmt.Sprintf("block solution #%d", len(result.Solutions))
		if err := oracle.Assert(blockingClause(model, compilation), label); err != nil {
			return undetermined(err, "cannot block solution")
		}
	}
}
