package sat

import (
	"slices"
	"time"

	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
)

// engine decides the CNF emitted by a circuit under a set of assumed literals
type engine interface {
	inter.Adder
	solve(assumptions []z.Lit) (Status, error)
	value(m z.Lit) bool
	// failed returns a subset of the last assumptions that suffices for unsatisfiability,
	// or nil when the engine cannot tell
	failed() []z.Lit
}

// session implements Oracle on top of a circuit and an engine
type session struct {
	circuit  *circuit
	engine   engine
	minimize bool
	timeout  time.Duration
	closed   bool

	status Status
	model  *model
	core   []string
}

type Option func(*session)

// WithoutCoreMinimization makes UnsatCore return the first explanation the engine offers instead of
// shrinking it to a minimal one
func WithoutCoreMinimization() Option {
	return func(s *session) {
		s.minimize = false
	}
}

func newSession(engine engine, opts ...Option) *session {
	s := &session{
		circuit:  newCircuit(),
		engine:   engine,
		minimize: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *session) DeclareBool(name string) BoolVar {
	return s.circuit.declareBool(name)
}

func (s *session) DeclareInt(name string, lo, hi int) IntVar {
	return s.circuit.declareInt(name, lo, hi)
}

func (s *session) DeclareEnum(name string, domain []string) EnumVar {
	return s.circuit.declareEnum(name, domain)
}

func (s *session) Assert(expr Expr, label string) error {
	if s.closed {
		return errClosed
	}
	return s.circuit.assert(expr, label)
}

func (s *session) CheckSat() (Status, error) {
	if s.closed {
		return Unknown, errClosed
	}
	if err := s.circuit.err(); err != nil {
		return Unknown, err
	}
	s.model, s.core = nil, nil
	s.circuit.flush(s.engine)

	status, err := s.engine.solve(s.circuit.guards())
	if err != nil {
		s.status = Unknown
		return Unknown, err
	}
	s.status = status
	if status == Satisfiable {
		s.model = s.snapshot()
	}
	return status, nil
}

func (s *session) Model() (Model, error) {
	if s.model == nil {
		return nil, errors.Errorf("no model available after a %v check", s.status)
	}
	return s.model, nil
}

func (s *session) UnsatCore() ([]string, error) {
	if s.status != Unsatisfiable {
		return nil, errors.Errorf("no unsatisfiable core available after a %v check", s.status)
	}
	if s.core != nil {
		return s.core, nil
	}
	core, err := s.explain()
	if err != nil {
		return nil, err
	}
	s.core = core
	return core, nil
}

func (s *session) Close() error {
	s.closed = true
	s.model = nil
	return nil
}

// explain shrinks the failed assumptions of the last check by deletion: every guard whose removal
// keeps the rest unsatisfiable is dropped
func (s *session) explain() ([]string, error) {
	core := s.engine.failed()
	if core == nil {
		core = s.circuit.guards()
	}
	core = slices.Clone(core)

	for i := 0; s.minimize && i < len(core); {
		candidate := slices.Delete(slices.Clone(core), i, i+1)
		status, err := s.engine.solve(candidate)
		if err != nil {
			return nil, errors.Wrap(err, "cannot minimize unsatisfiable core")
		}
		if status != Unsatisfiable {
			i++
			continue
		}
		core = candidate
		if failed := s.engine.failed(); failed != nil {
			// Guards before i are necessary, so the refined core keeps them in place
			core = slices.DeleteFunc(core, func(m z.Lit) bool { return !slices.Contains(failed, m) })
		}
	}
	return s.circuit.labelOf(core), nil
}

func (s *session) snapshot() *model {
	b := s.circuit
	m := &model{
		bools: make([]bool, len(b.bools)),
		ints:  make([]int, len(b.ints)),
		enums: make([]string, len(b.enums)),
	}
	for i, lit := range b.bools {
		m.bools[i] = s.engine.value(lit)
	}
	for i, encoding := range b.ints {
		m.ints[i] = encoding.v.lo
		if j := slices.IndexFunc(encoding.values, s.engine.value); j >= 0 {
			m.ints[i] = encoding.v.lo + j
		}
	}
	for i, encoding := range b.enums {
		m.enums[i] = encoding.domain[0]
		if j := slices.IndexFunc(encoding.values, s.engine.value); j >= 0 {
			m.enums[i] = encoding.domain[j]
		}
	}
	return m
}

var errClosed = errors.New("oracle session is closed")

// model is a copy of the values of every declared variable
type model struct {
	bools []bool
	ints  []int
	enums []string
}

func (m *model) Bool(v BoolVar) bool {
	if v.id >= len(m.bools) {
		return false
	}
	return m.bools[v.id]
}

func (m *model) Int(v IntVar) int {
	if v.id >= len(m.ints) {
		return v.lo
	}
	return m.ints[v.id]
}

func (m *model) Enum(v EnumVar) string {
	if v.id >= len(m.enums) {
		return ""
	}
	return m.enums[v.id]
}

func (m *model) Eval(expr Expr) bool {
	return evaluate(expr, m)
}
