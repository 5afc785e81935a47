package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/limaJavier/studyplan/pkg/planner"
	"github.com/samber/lo"
)

// ECTS formats a half-credit amount as ECTS, with at most one decimal
func ECTS(halfCredits int) string {
	return strconv.FormatFloat(float64(halfCredits)/2, 'f', -1, 64)
}

// Text writes a plan semester by semester, followed by the degree totals and the chosen specialities
func Text(w io.Writer, solution planner.Solution, c *catalog.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for _, semester := range solution.Semesters {
		header := fmt.Sprintf("Semester %d", semester.Number())
		if semester.Index < c.SemesterCount() {
			bounds := c.Semester(semester.Index)
			phases := lo.Map(bounds.Phases, func(phase catalog.Phase, _ int) string { return phase.String() })
			header = fmt.Sprintf("%v (%v, %v)", header, bounds.Season, strings.Join(phases, "/"))
		}
		fmt.Fprintf(tw, "%v: %v ECTS\n", header, ECTS(semester.Credits()))
		if len(semester.Assignments) == 0 {
			fmt.Fprintln(tw, "\t-")
		}
		for _, assignment := range semester.Assignments {
			fmt.Fprintf(tw, "\t%v\t%v\t%v\t%v ECTS\t%v\n",
				assignment.ModuleID, assignment.Name, assignment.Type, ECTS(assignment.Credits), assignment.Branch)
		}
	}

	fmt.Fprintf(tw, "Bachelor: %v ECTS\n", ECTS(solution.Credits(catalog.Bachelor)))
	fmt.Fprintf(tw, "Master: %v ECTS\n", ECTS(solution.Credits(catalog.Master)))
	fmt.Fprintf(tw, "Specialities: %v, %v\n", solution.Specialities[0], solution.Specialities[1])
	return tw.Flush()
}

// Summary writes one line per plan, identifying it by its fingerprint
func Summary(w io.Writer, solutions []planner.Solution) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, solution := range solutions {
		fingerprint, err := Fingerprint(solution)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "#%d\t%v\t%d modules\t%v + %v ECTS\t%v, %v\n",
			i+1, fingerprint, len(solution.Assignments()),
			ECTS(solution.Credits(catalog.Bachelor)), ECTS(solution.Credits(catalog.Master)),
			solution.Specialities[0], solution.Specialities[1])
	}
	return tw.Flush()
}
