package sat

import (
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// batchEngine hands the whole instance to a SATSolver on every check, turning assumptions into unit
// clauses. It lets external solver binaries back an oracle session.
type batchEngine struct {
	solver  SATSolver
	sat     SAT
	clause  []int64
	trueVar map[int64]bool
}

// NewBatchOracle opens a session that re-solves the accumulated instance from scratch with solver on
// every check. Unsatisfiable cores are found by deletion over every assertion.
func NewBatchOracle(solver SATSolver, opts ...Option) Oracle {
	return newSession(&batchEngine{solver: solver}, opts...)
}

// BatchFactory opens batch sessions backed by solver. The timeout of a batch session belongs to solver, so
// WithTimeout is refused.
func BatchFactory(solver SATSolver, opts ...Option) Factory {
	return func() (Oracle, error) {
		if solver == nil {
			return nil, errors.New("no SAT solver given")
		}
		s := newSession(&batchEngine{solver: solver}, opts...)
		if s.timeout != 0 {
			return nil, errors.New("batch sessions take their timeout from the SAT solver")
		}
		return s, nil
	}
}

func (e *batchEngine) Add(m z.Lit) {
	if m == z.LitNull {
		e.sat.Clauses = append(e.sat.Clauses, e.clause)
		e.clause = nil
		return
	}
	literal := int64(m.Dimacs())
	e.clause = append(e.clause, literal)
	if variable := uint64(max(literal, -literal)); variable > e.sat.Variables {
		e.sat.Variables = variable
	}
}

func (e *batchEngine) solve(assumptions []z.Lit) (Status, error) {
	e.trueVar = nil
	instance := e.sat.With(lo.Map(assumptions, func(m z.Lit, _ int) int64 { return int64(m.Dimacs()) })...)
	status, solution, err := e.solver.Solve(instance)
	if err != nil {
		return Unknown, err
	}
	if status == Satisfiable {
		e.trueVar = make(map[int64]bool, len(solution))
		for _, literal := range solution {
			if literal > 0 {
				e.trueVar[literal] = true
			}
		}
	}
	return status, nil
}

func (e *batchEngine) value(m z.Lit) bool {
	literal := int64(m.Dimacs())
	if literal > 0 {
		return e.trueVar[literal]
	}
	return !e.trueVar[-literal]
}

func (e *batchEngine) failed() []z.Lit {
	return nil
}

// Instance returns the CNF accumulated by a batch session, with every assertion enabled. It is what the
// session would hand to its solver on the next check.
func Instance(o Oracle) (SAT, error) {
	s, ok := o.(*session)
	if !ok {
		return SAT{}, errors.Errorf("cannot export the instance of %T", o)
	}
	engine, ok := s.engine.(*batchEngine)
	if !ok {
		return SAT{}, errors.New("only batch sessions keep their instance")
	}
	if err := s.circuit.err(); err != nil {
		return SAT{}, err
	}
	s.circuit.flush(engine)
	return engine.sat.With(lo.Map(s.circuit.guards(), func(m z.Lit, _ int) int64 { return int64(m.Dimacs()) })...), nil
}
