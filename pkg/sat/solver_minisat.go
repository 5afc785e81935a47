package sat

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const DefaultMinisatPath = "minisat"

// minisatSolver drives minisat, which reads the instance from a file and writes the model to another one
type minisatSolver struct {
	path    string
	timeout time.Duration
}

func NewMinisatSolver(path string, timeout time.Duration) SATSolver {
	if path == "" {
		path = DefaultMinisatPath
	}
	return &minisatSolver{path: path, timeout: timeout}
}

func (solver *minisatSolver) Solve(sat SAT) (Status, SATSolution, error) {
	dimacs := sat.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	// Create the temporary files holding the instance and the model
	inputTempFile, err := os.CreateTemp("", "dimacs-*.cnf")
	if err != nil {
		return Unknown, nil, errors.Wrap(err, "failed to create temporary file")
	}
	defer os.Remove(inputTempFile.Name())

	outputTempFile, err := os.CreateTemp("", "minisat_output-*.cnf")
	if err != nil {
		inputTempFile.Close()
		return Unknown, nil, errors.Wrap(err, "failed to create temporary file")
	}
	outputTempFile.Close()
	defer os.Remove(outputTempFile.Name())

	if _, err := inputTempFile.WriteString(dimacs); err != nil {
		inputTempFile.Close()
		return Unknown, nil, errors.Wrap(err, "failed to write DIMACS to temporary file")
	}
	if err := inputTempFile.Close(); err != nil {
		return Unknown, nil, errors.Wrap(err, "failed to close temporary file")
	}

	args := []string{"-verb=0"}
	if solver.timeout > 0 {
		args = append(args, "-cpu-lim="+strconv.Itoa(max(1, int(solver.timeout.Seconds()))))
	}
	args = append(args, inputTempFile.Name(), outputTempFile.Name())

	cmd := exec.CommandContext(context.Background(), solver.path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
	err = cmd.Run()
	switch exitCode := cmd.ProcessState.ExitCode(); {
	case exitCode == 20:
		return Unsatisfiable, nil, nil
	case exitCode == 10:
		output, err := os.ReadFile(outputTempFile.Name())
		if err != nil {
			return Unknown, nil, errors.Wrap(err, "failed to read output file")
		}
		solution, err := parseMinisatSolution(string(output))
		if err != nil {
			return Unknown, nil, err
		}
		return Satisfiable, solution, nil
	case err == nil || exitCode == 0:
		return Unknown, nil, nil
	default:
		return Unknown, nil, errors.Errorf("an error occurred during minisat execution: %v : %v", err, stderr.String())
	}
}

// parseMinisatSolution reads the output file format: a "SAT" header followed by the model line
func parseMinisatSolution(solverOutput string) (SATSolution, error) {
	lines := lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
		return strings.TrimSpace(line) != ""
	})
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != "SAT" {
		return nil, errors.Errorf("invalid minisat output %q", solverOutput)
	}
	return parseSolution("v " + lines[1])
}
