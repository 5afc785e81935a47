package sat

import (
	"fmt"
	"strings"
)

// SATSolution holds the signed DIMACS literals of a model
type SATSolution []int64

type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// With returns a copy of the instance extended by the given unit clauses
func (s SAT) With(units ...int64) SAT {
	clauses := make([][]int64, 0, len(s.Clauses)+len(units))
	clauses = append(clauses, s.Clauses...)
	for _, unit := range units {
		clauses = append(clauses, []int64{unit})
		if variable := uint64(max(unit, -unit)); variable > s.Variables {
			s.Variables = variable
		}
	}
	s.Clauses = clauses
	return s
}

// SATSolver decides a complete SAT instance from scratch. A solution is only returned along with Satisfiable.
type SATSolver interface {
	Solve(SAT) (Status, SATSolution, error)
}
