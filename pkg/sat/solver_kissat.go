package sat

import "time"

const DefaultKissatPath = "kissat"

func NewKissatSolver(path string, timeout time.Duration) SATSolver {
	if path == "" {
		path = DefaultKissatPath
	}
	return &processSolver{
		name:    "kissat",
		path:    path,
		args:    []string{"-q", "--relaxed"},
		timeout: timeout,
	}
}
