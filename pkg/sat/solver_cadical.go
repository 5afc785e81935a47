package sat

import "time"

const DefaultCadicalPath = "cadical"

func NewCadicalSolver(path string, timeout time.Duration) SATSolver {
	if path == "" {
		path = DefaultCadicalPath
	}
	return &processSolver{
		name:    "cadical",
		path:    path,
		args:    []string{"-q"},
		timeout: timeout,
	}
}
