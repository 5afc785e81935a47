package planner

import "slices"

// Deduplication is the distinct part of a raw solution list
type Deduplication struct {
	Solutions []Solution
	Raw       int
	Distinct  int
}

// Dedupe keeps one solution per canonical key, ordered by key. Solutions differing only in where modules
// are placed collapse into the first of them.
func Dedupe(raw []Solution) Deduplication {
	type keyed struct {
		key      Key
		solution Solution
	}
	entries := make([]keyed, len(raw))
	for i, solution := range raw {
		entries[i] = keyed{solution.Key(), solution}
	}

	slices.SortStableFunc(entries, func(a, b keyed) int { return a.key.Compare(b.key) })
	entries = slices.CompactFunc(entries, func(a, b keyed) bool { return a.key.Equal(b.key) })

	solutions := make([]Solution, len(entries))
	for i, entry := range entries {
		solutions[i] = entry.solution
	}
	return Deduplication{
		Solutions: solutions,
		Raw:       len(raw),
		Distinct:  len(solutions),
	}
}
