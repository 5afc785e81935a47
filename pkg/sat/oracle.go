package sat

import (
	"fmt"
)

// Status is the outcome of a satisfiability check. The values follow the usual solver convention.
type Status int

const (
	Unsatisfiable Status = -1
	Unknown       Status = 0
	Satisfiable   Status = 1
)

func (status Status) String() string {
	switch status {
	case Satisfiable:
		return "sat"
	case Unsatisfiable:
		return "unsat"
	}
	return "unknown"
}

// BoolVar is a declared Boolean decision variable. It is itself an expression.
type BoolVar struct {
	id   int
	name string
}

func (v BoolVar) Name() string { return v.name }

// IntVar is a declared integer decision variable over the domain [Lo, Hi)
type IntVar struct {
	id     int
	name   string
	lo, hi int
}

func (v IntVar) Name() string { return v.name }

func (v IntVar) Lo() int { return v.lo }

func (v IntVar) Hi() int { return v.hi }

// EnumVar is a declared variable over a finite domain of names
type EnumVar struct {
	id   int
	name string
}

func (v EnumVar) Name() string { return v.name }

// Oracle is the capability a constraint backend offers to the planner: declare variables, assert
// labelled constraints, check, and read back models or unsatisfiable cores. One Oracle is one
// session: its assertion stack only grows until Close.
type Oracle interface {
	DeclareBool(name string) BoolVar
	DeclareInt(name string, lo, hi int) IntVar
	DeclareEnum(name string, domain []string) EnumVar

	// Assert adds a constraint under a label that must be unique within the session
	Assert(expr Expr, label string) error

	CheckSat() (Status, error)

	// Model returns the assignment found by the last check; it fails unless that check was Satisfiable
	Model() (Model, error)

	// UnsatCore returns the labels of a minimal set of asserted constraints that are jointly unsatisfiable.
	// It is only meaningful right after an Unsatisfiable check and may issue further checks to shrink the set.
	UnsatCore() ([]string, error)

	Close() error
}

// Factory opens a fresh oracle session
type Factory func() (Oracle, error)

// Model is a snapshot of a satisfying assignment. It stays valid after the oracle moves on.
type Model interface {
	Bool(v BoolVar) bool
	Int(v IntVar) int
	Enum(v EnumVar) string
	Eval(expr Expr) bool
}

type declarationError struct {
	name   string
	reason string
}

func (err declarationError) Error() string {
	return fmt.Sprintf("invalid variable %q: %v", err.name, err.reason)
}
