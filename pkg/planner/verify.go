package planner

import (
	"fmt"
	"strings"

	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/samber/lo"
)

// VerificationError lists every regulation a solution breaks
type VerificationError struct {
	Violations []string
}

func (err *VerificationError) Error() string {
	return fmt.Sprintf("plan breaks %d rules: %v", len(err.Violations), strings.Join(err.Violations, "; "))
}

// Verify checks a solution against the catalog and the regulations without an oracle. Only the selected
// modules are visible in a solution, so rules about unselected modules are not checked.
func Verify(solution Solution, c *catalog.Catalog, regulations Regulations) error {
	violations := make([]string, 0)
	violate := func(format string, args ...any) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	if len(solution.Semesters) != c.SemesterCount() {
		violate("plan has %d semesters, the catalog %d", len(solution.Semesters), c.SemesterCount())
		return &VerificationError{Violations: violations}
	}

	placement := make(map[string]int)
	taken := make(map[string]Assignment)
	order := make([]string, 0)
	for s, semester := range solution.Semesters {
		for _, assignment := range semester.Assignments {
			if _, ok := taken[assignment.ModuleID]; ok {
				violate("%v is taken more than once", assignment.ModuleID)
				continue
			}
			placement[assignment.ModuleID] = s
			taken[assignment.ModuleID] = assignment
			order = append(order, assignment.ModuleID)
		}
	}

	for _, id := range order {
		assignment := taken[id]
		module, ok := c.Module(id)
		if !ok {
			violate("%v is not in the catalog", id)
			continue
		}
		s := placement[id]
		semester := c.Semester(s)

		if assignment.Credits != module.Credits {
			violate("%v carries %v half-credits instead of %v", describe(module), assignment.Credits, module.Credits)
		}
		if module.Degree.Phase == catalog.Bachelor && assignment.Branch.Phase != catalog.Bachelor {
			violate("%v counts towards the %v", describe(module), assignment.Branch.Phase)
		}
		if assignment.Branch.Specialised && !module.Degree.Admits(assignment.Branch.Speciality) {
			violate("%v does not belong to %v", describe(module), assignment.Branch.Speciality)
		}
		if pin, ok := c.Pin(id); ok && pin != s {
			violate("%v is taken in semester %d instead of %d", describe(module), s+1, pin+1)
		}
		if season, ok := module.PinnedSeason(); ok && semester.Season != season {
			violate("%v is only offered in %v", describe(module), season)
		}
		if phase, ok := semester.PinnedPhase(); ok && assignment.Branch.Phase != phase {
			violate("semester %d only holds %v modules, %v counts towards the %v", semester.Number(), phase, describe(module), assignment.Branch.Phase)
		}
		for _, required := range module.Requires {
			r, ok := placement[required]
			switch {
			case !ok:
				violate("%v requires %v, which is not taken", describe(module), required)
			case r >= s:
				violate("%v requires %v, which is taken in semester %d", describe(module), required, r+1)
			}
		}
	}

	for _, module := range c.Modules() {
		if _, ok := taken[module.ID]; !ok {
			if _, pinned := c.Pin(module.ID); pinned || module.Forced {
				violate("%v is mandatory", describe(module))
			}
		}
	}

	for s, semester := range solution.Semesters {
		bounds := c.Semester(s)
		if credits := semester.Credits(); credits < bounds.MinCredits || credits > bounds.MaxCredits {
			violate("semester %d carries %v half-credits, outside [%v, %v]", s+1, credits, bounds.MinCredits, bounds.MaxCredits)
		}
	}

	assignments := lo.Map(order, func(id string, _ int) Assignment { return taken[id] })
	inPhase := func(phase catalog.Phase, filter func(a Assignment) bool) []Assignment {
		return lo.Filter(assignments, func(a Assignment, _ int) bool { return a.Branch.Phase == phase && filter(a) })
	}
	credits := func(as []Assignment) int {
		return lo.SumBy(as, func(a Assignment) int { return a.Credits })
	}
	all := func(Assignment) bool { return true }
	ofKind := func(kind catalog.Kind) func(a Assignment) bool {
		return func(a Assignment) bool { return a.Type.Kind == kind }
	}

	if bachelor := credits(inPhase(catalog.Bachelor, all)); !regulations.BachelorCredits.Contains(bachelor) {
		violate("bachelor totals %v half-credits, outside [%v, %v]", bachelor, regulations.BachelorCredits.Min, regulations.BachelorCredits.Max)
	}
	labs := credits(inPhase(catalog.Master, ofKind(catalog.Lab)))
	seminars := credits(inPhase(catalog.Master, ofKind(catalog.Seminar)))
	master := credits(inPhase(catalog.Master, all)) - max(0, regulations.OverlapCeiling-(labs+seminars))
	if !regulations.MasterCredits.Contains(master) {
		violate("master totals %v half-credits after the overlap discount, outside [%v, %v]", master, regulations.MasterCredits.Min, regulations.MasterCredits.Max)
	}
	if labs < regulations.MasterLabMinimum {
		violate("master labs total %v half-credits, below %v", labs, regulations.MasterLabMinimum)
	}
	if seminars < regulations.MasterSeminarMinimum {
		violate("master seminars total %v half-credits, below %v", seminars, regulations.MasterSeminarMinimum)
	}
	if labs+seminars < regulations.MasterSeminarMinimum {
		violate("master labs and seminars total %v half-credits, below %v", labs+seminars, regulations.MasterSeminarMinimum)
	}

	root := func(a Assignment) bool { return a.Type.IsRoot() }
	if n := len(inPhase(catalog.Bachelor, root)); n < regulations.BachelorRootLectures {
		violate("%d root lectures count towards the bachelor, below %d", n, regulations.BachelorRootLectures)
	}
	if n := len(inPhase(catalog.Master, root)); n < regulations.MasterRootLectures {
		violate("%d root lectures count towards the master, below %d", n, regulations.MasterRootLectures)
	}
	introductory := func(a Assignment) bool { return a.Type.IsIntroductory() }
	if regulations.RequireIntroductorySeminar && len(inPhase(catalog.Bachelor, introductory)) == 0 {
		violate("no introductory seminar counts towards the bachelor")
	}

	if solution.Specialities[0] == solution.Specialities[1] {
		violate("both chosen specialities are %v", solution.Specialities[0])
	}
	for _, speciality := range solution.Specialities {
		if total := solution.SpecialityCredits(speciality, true); total < regulations.SpecialityMinimum {
			violate("speciality %v is covered by %v half-credits, below %v", speciality, total, regulations.SpecialityMinimum)
		}
		floor := regulations.SpecialityFloor(speciality)
		if total := solution.SpecialityCredits(speciality, false); total < floor {
			violate("speciality %v is covered by %v half-credits without root lectures, below %v", speciality, total, floor)
		}
	}

	if len(violations) > 0 {
		return &VerificationError{Violations: violations}
	}
	return nil
}
