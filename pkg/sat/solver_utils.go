package sat

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// processSolver runs a DIMACS solver binary that reads the instance from its standard input and prints
// the competition output format ("s ..." and "v ..." lines).
type processSolver struct {
	name    string
	path    string
	args    []string
	timeout time.Duration
}

func (solver *processSolver) Solve(sat SAT) (Status, SATSolution, error) {
	dimacs := sat.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	ctx := context.Background()
	if solver.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, solver.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, solver.path, solver.args...)
	cmd.Stdin = strings.NewReader(dimacs) // Feed dimacs into the solver's standard input

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return Unknown, nil, nil
	}
	// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
	switch exitCode := cmd.ProcessState.ExitCode(); {
	case exitCode == 20:
		return Unsatisfiable, nil, nil
	case exitCode == 10:
		solution, err := parseSolution(stdOut.String())
		if err != nil {
			return Unknown, nil, errors.Wrapf(err, "invalid %v output", solver.name)
		}
		return Satisfiable, solution, nil
	case err == nil:
		// Limits reached without an answer
		return Unknown, nil, nil
	default:
		return Unknown, nil, errors.Errorf("an error occurred during %v execution: %v : %v", solver.name, err, stderr.String())
	}
}

func parseSolution(solverOutput string) (SATSolution, error) {
	fields := lo.FlatMap(
		lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
			return len(line) > 0 && line[0] == 'v'
		}),
		func(line string, _ int) []string {
			return strings.Fields(line[1:])
		},
	)

	solution := make(SATSolution, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid literal %q in solver output", field)
		}
		if value == 0 {
			break
		}
		solution = append(solution, value)
	}
	return solution, nil
}
