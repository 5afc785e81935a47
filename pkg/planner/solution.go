package planner

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/limaJavier/studyplan/pkg/sat"
	"github.com/samber/lo"
)

// Branch is the degree a module is counted towards. The speciality is only kept for Master modules that
// declare specialities.
type Branch struct {
	Phase       catalog.Phase
	Speciality  catalog.Speciality
	Specialised bool
}

func (branch Branch) String() string {
	if !branch.Specialised {
		return branch.Phase.String()
	}
	return fmt.Sprintf("%v/%v", branch.Phase, branch.Speciality)
}

func (branch Branch) compare(other Branch) int {
	return cmp.Or(
		cmp.Compare(branch.Phase, other.Phase),
		compareBool(branch.Specialised, other.Specialised),
		cmp.Compare(branch.Speciality, other.Speciality),
	)
}

// Assignment is a module taken in a plan
type Assignment struct {
	ModuleID string
	Name     string
	Type     catalog.ModuleType
	Credits  int
	Branch   Branch
}

type SemesterPlan struct {
	Index       int
	Assignments []Assignment
}

func (semester SemesterPlan) Number() int {
	return semester.Index + 1
}

func (semester SemesterPlan) Credits() int {
	return lo.SumBy(semester.Assignments, func(a Assignment) int { return a.Credits })
}

// Solution is one study plan: the modules taken in every semester and the two chosen specialities
type Solution struct {
	Semesters    []SemesterPlan
	Specialities [2]catalog.Speciality
}

func (solution Solution) Assignments() []Assignment {
	return lo.FlatMap(solution.Semesters, func(semester SemesterPlan, _ int) []Assignment { return semester.Assignments })
}

// Find returns the assignment of a module and the index of the semester it is taken in
func (solution Solution) Find(moduleID string) (Assignment, int, bool) {
	for _, semester := range solution.Semesters {
		for _, assignment := range semester.Assignments {
			if assignment.ModuleID == moduleID {
				return assignment, semester.Index, true
			}
		}
	}
	return Assignment{}, 0, false
}

// Credits totals the modules counted towards phase
func (solution Solution) Credits(phase catalog.Phase) int {
	return lo.SumBy(solution.Assignments(), func(a Assignment) int {
		if a.Branch.Phase != phase {
			return 0
		}
		return a.Credits
	})
}

// SpecialityCredits totals the Master modules counted towards speciality
func (solution Solution) SpecialityCredits(speciality catalog.Speciality, withRoot bool) int {
	return lo.SumBy(solution.Assignments(), func(a Assignment) int {
		if a.Branch.Phase != catalog.Master || !a.Branch.Specialised || a.Branch.Speciality != speciality {
			return 0
		}
		if !withRoot && a.Type.IsRoot() {
			return 0
		}
		return a.Credits
	})
}

// KeyEntry is a module with the branch it is counted towards
type KeyEntry struct {
	ModuleID string
	Branch   Branch
}

// Key identifies a solution regardless of where its modules are placed
type Key []KeyEntry

func (solution Solution) Key() Key {
	key := lo.Map(solution.Assignments(), func(a Assignment, _ int) KeyEntry {
		return KeyEntry{ModuleID: a.ModuleID, Branch: a.Branch}
	})
	slices.SortFunc(key, compareEntries)
	return key
}

func compareEntries(a, b KeyEntry) int {
	return cmp.Or(cmp.Compare(a.ModuleID, b.ModuleID), a.Branch.compare(b.Branch))
}

// Compare orders keys lexicographically by their entries
func (key Key) Compare(other Key) int {
	return slices.CompareFunc(key, other, compareEntries)
}

func (key Key) Equal(other Key) bool {
	return slices.Equal(key, other)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

// extract materialises the solution a model describes: only the selected modules appear
func extract(model sat.Model, compilation *Compilation) Solution {
	semesters := make([]SemesterPlan, compilation.Catalog.SemesterCount())
	for i := range semesters {
		semesters[i] = SemesterPlan{Index: i, Assignments: make([]Assignment, 0)}
	}

	for _, b := range compilation.Bundles {
		if !model.Bool(b.Selected) {
			continue
		}
		module := b.Module
		phase, _ := catalog.ParsePhase(model.Enum(b.Degree))
		branch := Branch{Phase: phase}
		if phase == catalog.Master && len(module.Degree.Specialities) > 0 {
			branch.Speciality, _ = catalog.ParseSpeciality(model.Enum(b.Speciality))
			branch.Specialised = true
		}
		s := model.Int(b.Semester)
		semesters[s].Assignments = append(semesters[s].Assignments, Assignment{
			ModuleID: module.ID,
			Name:     module.Name,
			Type:     module.Type,
			Credits:  b.Credits,
			Branch:   branch,
		})
	}

	first, _ := catalog.ParseSpeciality(model.Enum(compilation.FirstSpeciality))
	second, _ := catalog.ParseSpeciality(model.Enum(compilation.SecondSpeciality))
	return Solution{Semesters: semesters, Specialities: [2]catalog.Speciality{first, second}}
}

// blockingClause is satisfied by every model selecting a different set of modules than model does
func blockingClause(model sat.Model, compilation *Compilation) sat.Expr {
	return sat.Or(lo.Map(compilation.Bundles, func(b Bundle, _ int) sat.Expr {
		if model.Bool(b.Selected) {
			return sat.Not(b.Selected)
		}
		return b.Selected
	})...)
}
