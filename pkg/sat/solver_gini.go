package sat

import (
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// giniSolver decides instances in-process, so it needs no external binary
type giniSolver struct {
	timeout time.Duration
}

func NewGiniSolver(timeout time.Duration) SATSolver {
	return &giniSolver{timeout: timeout}
}

func (solver *giniSolver) Solve(sat SAT) (Status, SATSolution, error) {
	g := gini.NewVc(int(sat.Variables), len(sat.Clauses))
	for _, clause := range sat.Clauses {
		for _, literal := range clause {
			g.Add(z.Dimacs2Lit(int(literal)))
		}
		g.Add(z.LitNull)
	}

	status := solveWithin(g, solver.timeout)
	if status != Satisfiable {
		return status, nil, nil
	}

	solution := make(SATSolution, 0, sat.Variables)
	for variable := 1; variable <= int(sat.Variables); variable++ {
		if z.Var(variable) <= g.MaxVar() && g.Value(z.Var(variable).Pos()) {
			solution = append(solution, int64(variable))
		} else {
			solution = append(solution, -int64(variable))
		}
	}
	return Satisfiable, solution, nil
}

// solveWithin runs a (possibly bounded) search on g
func solveWithin(g *gini.Gini, timeout time.Duration) Status {
	if timeout <= 0 {
		return Status(g.Solve())
	}
	return Status(g.GoSolve().Try(timeout))
}
