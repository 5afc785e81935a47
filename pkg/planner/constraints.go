package planner

import (
	"fmt"
	"slices"

	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/limaJavier/studyplan/pkg/sat"
	"github.com/samber/lo"
)

func moduleConstraints(state constraintState) []Constraint {
	constraints := make([]Constraint, 0)
	for _, b := range state.bundles {
		module := b.Module
		// A Bachelor module is only ever counted towards the Bachelor degree
		if module.Degree.Phase == catalog.Bachelor {
			constraints = append(constraints, Constraint{
				Label: fmt.Sprintf("%v counts towards the bachelor", describe(module)),
				Expr:  b.Degree.Is(catalog.Bachelor.String()),
			})
		}
		if module.Degree.Phase == catalog.Master && len(module.Degree.Specialities) > 0 {
			constraints = append(constraints, Constraint{
				Label: fmt.Sprintf("%v belongs to one of its specialities", describe(module)),
				Expr: sat.Or(lo.Map(module.Degree.Specialities, func(speciality catalog.Speciality, _ int) sat.Expr {
					return b.Speciality.Is(speciality.String())
				})...),
			})
		}
		if module.Forced {
			constraints = append(constraints, Constraint{
				Label: fmt.Sprintf("%v is mandatory", describe(module)),
				Expr:  b.Selected,
			})
		}
	}
	return constraints
}

func boundConstraints(state constraintState) []Constraint {
	last := state.catalog.SemesterCount() - 1
	return lo.Map(state.bundles, func(b Bundle, _ int) Constraint {
		return Constraint{
			Label: fmt.Sprintf("%v is placed within the plan", describe(b.Module)),
			Expr:  b.Semester.Between(0, last),
		}
	})
}

func pinConstraints(state constraintState) []Constraint {
	constraints := make([]Constraint, 0)
	for _, b := range state.bundles {
		if s, ok := state.catalog.Pin(b.Module.ID); ok {
			constraints = append(constraints, Constraint{
				Label: fmt.Sprintf("%v is taken in semester %d", describe(b.Module), s+1),
				Expr:  sat.And(b.Selected, b.Semester.Eq(s)),
			})
		}
	}
	return constraints
}

func semesterLoadConstraints(state constraintState) []Constraint {
	return lo.Map(state.catalog.Semesters(), func(semester catalog.Semester, s int) Constraint {
		terms := make([]sat.Term, 0)
		for i, b := range state.bundles {
			if state.mayOccupy(i, s) {
				terms = append(terms, sat.Weighted(sat.And(b.Selected, b.Semester.Eq(s)), b.Credits))
			}
		}
		return Constraint{
			Label: fmt.Sprintf("semester %d carries between %v and %v half-credits", semester.Number(), semester.MinCredits, semester.MaxCredits),
			Expr:  sat.NewSum(terms...).Within(semester.MinCredits, semester.MaxCredits),
		}
	})
}

func bachelorCreditConstraints(state constraintState) []Constraint {
	bounds := state.regulations.BachelorCredits
	sum := state.credits(func(i int) sat.Expr { return state.inBachelor[i] }, anyModule)
	return []Constraint{{
		Label: fmt.Sprintf("bachelor totals between %v and %v half-credits", bounds.Min, bounds.Max),
		Expr:  sum.Within(bounds.Min, bounds.Max),
	}}
}

// masterCreditConstraints bounds the Master total after discounting the part of the lab and seminar credits
// missing to reach the overlap ceiling
func masterCreditConstraints(state constraintState) []Constraint {
	bounds, ceiling := state.regulations.MasterCredits, state.regulations.OverlapCeiling
	inMaster := func(i int) sat.Expr { return state.inMaster[i] }

	raw := make([]sat.Term, 0, len(state.bundles))
	overlap := make([]sat.Term, 0)
	for i, b := range state.bundles {
		if !countsTowards(catalog.Master)(b.Module) {
			continue
		}
		raw = append(raw, sat.Weighted(inMaster(i), b.Credits))
		if isLabOrSeminar(b.Module) {
			overlap = append(overlap, sat.Weighted(inMaster(i), b.Credits))
		}
	}
	overlapSum := sat.NewSum(overlap...)

	return []Constraint{{
		Label: fmt.Sprintf("master totals between %v and %v half-credits", bounds.Min, bounds.Max),
		Expr: sat.Or(
			sat.And(overlapSum.AtLeast(ceiling), sat.NewSum(raw...).Within(bounds.Min, bounds.Max)),
			// raw - (ceiling - overlap) within the bounds
			sat.And(overlapSum.AtMost(ceiling-1), sat.NewSum(slices.Concat(raw, overlap)...).Within(bounds.Min+ceiling, bounds.Max+ceiling)),
		),
	}}
}

func rootLectureConstraints(state constraintState) []Constraint {
	return lo.Map(catalog.Phases(), func(phase catalog.Phase, _ int) Constraint {
		minimum := state.regulations.BachelorRootLectures
		if phase == catalog.Master {
			minimum = state.regulations.MasterRootLectures
		}
		sum := state.count(func(i int) sat.Expr { return state.in(phase, i) }, func(module catalog.Module) bool {
			return isRoot(module) && countsTowards(phase)(module)
		})
		return Constraint{
			Label: fmt.Sprintf("at least %d root lectures count towards the %v", minimum, phase),
			Expr:  sum.AtLeast(minimum),
		}
	})
}

func labSeminarConstraints(state constraintState) []Constraint {
	inMaster := func(i int) sat.Expr { return state.inMaster[i] }
	master := countsTowards(catalog.Master)
	labs := state.credits(inMaster, func(module catalog.Module) bool { return master(module) && module.Type.Kind == catalog.Lab })
	seminars := state.credits(inMaster, func(module catalog.Module) bool { return master(module) && module.Type.Kind == catalog.Seminar })
	combined := state.credits(inMaster, func(module catalog.Module) bool { return master(module) && isLabOrSeminar(module) })

	labMinimum, seminarMinimum := state.regulations.MasterLabMinimum, state.regulations.MasterSeminarMinimum
	return []Constraint{
		{
			Label: fmt.Sprintf("master labs total at least %v half-credits", labMinimum),
			Expr:  labs.AtLeast(labMinimum),
		},
		{
			Label: fmt.Sprintf("master seminars total at least %v half-credits", seminarMinimum),
			Expr:  seminars.AtLeast(seminarMinimum),
		},
		{
			Label: fmt.Sprintf("master labs and seminars total at least %v half-credits", seminarMinimum),
			Expr:  combined.AtLeast(seminarMinimum),
		},
	}
}

// prerequisiteConstraints orders every required module before the module requiring it, whether or not
// either is selected
func prerequisiteConstraints(state constraintState) []Constraint {
	constraints := make([]Constraint, 0)
	for _, b := range state.bundles {
		for _, id := range lo.Uniq(b.Module.Requires) {
			required := state.bundles[state.index[id]]
			constraints = append(constraints, Constraint{
				Label: fmt.Sprintf("%v requires %v", describe(b.Module), describe(required.Module)),
				Expr: sat.And(
					required.Semester.Less(b.Semester),
					sat.Implies(b.Selected, required.Selected),
				),
			})
		}
	}
	return constraints
}

func introductorySeminarConstraints(state constraintState) []Constraint {
	if !state.regulations.RequireIntroductorySeminar {
		return nil
	}
	candidates := make([]sat.Expr, 0)
	for i, b := range state.bundles {
		if b.Module.Type.IsIntroductory() {
			candidates = append(candidates, state.inBachelor[i])
		}
	}
	return []Constraint{{
		Label: "an introductory seminar counts towards the bachelor",
		Expr:  sat.Or(candidates...),
	}}
}

func seasonConstraints(state constraintState) []Constraint {
	semesters := state.catalog.Semesters()
	constraints := make([]Constraint, 0)
	for _, b := range state.bundles {
		season, ok := b.Module.PinnedSeason()
		if !ok {
			continue
		}
		matching := lo.FilterMap(semesters, func(semester catalog.Semester, s int) (sat.Expr, bool) {
			return b.Semester.Eq(s), semester.Season == season
		})
		constraints = append(constraints, Constraint{
			Label: fmt.Sprintf("%v is only offered in %v", describe(b.Module), season),
			Expr:  sat.Or(matching...),
		})
	}
	return constraints
}

func phaseConstraints(state constraintState) []Constraint {
	constraints := make([]Constraint, 0)
	for s, semester := range state.catalog.Semesters() {
		phase, ok := semester.PinnedPhase()
		if !ok {
			continue
		}
		rules := make([]sat.Expr, 0)
		for i, b := range state.bundles {
			if state.mayOccupy(i, s) {
				rules = append(rules, sat.Implies(sat.And(b.Selected, b.Semester.Eq(s)), b.Degree.Is(phase.String())))
			}
		}
		constraints = append(constraints, Constraint{
			Label: fmt.Sprintf("semester %d only holds %v modules", semester.Number(), phase),
			Expr:  sat.And(rules...),
		})
	}
	return constraints
}

func specialityConstraints(state constraintState) []Constraint {
	minimum := state.regulations.SpecialityMinimum
	requirements := make([]sat.Expr, 0)
	for _, speciality := range catalog.Specialities() {
		inSpeciality := func(i int) sat.Expr {
			return sat.And(state.inMaster[i], state.bundles[i].Speciality.Is(speciality.String()))
		}
		declares := func(module catalog.Module) bool {
			return module.Degree.Phase == catalog.Master && module.Degree.Admits(speciality)
		}
		total := state.credits(inSpeciality, declares)
		withoutRoot := state.credits(inSpeciality, func(module catalog.Module) bool {
			return declares(module) && !module.Type.IsRoot()
		})
		requirements = append(requirements, sat.And(
			total.AtLeast(minimum),
			withoutRoot.AtLeast(state.regulations.SpecialityFloor(speciality)),
		))
	}

	constraints := []Constraint{{
		Label: "the two chosen specialities differ",
		Expr:  sat.Not(state.first.Same(state.second)),
	}}
	for _, choice := range []struct {
		name string
		v    sat.EnumVar
	}{{"first", state.first}, {"second", state.second}} {
		constraints = append(constraints, Constraint{
			Label: fmt.Sprintf("the %v chosen speciality is covered by enough credits", choice.name),
			Expr: sat.And(lo.Map(catalog.Specialities(), func(speciality catalog.Speciality, i int) sat.Expr {
				return sat.Implies(choice.v.Is(speciality.String()), requirements[i])
			})...),
		})
	}
	return constraints
}

func anyModule(catalog.Module) bool {
	return true
}

func isRoot(module catalog.Module) bool {
	return module.Type.IsRoot()
}

func isLabOrSeminar(module catalog.Module) bool {
	return module.Type.Kind == catalog.Lab || module.Type.Kind == catalog.Seminar
}

// countsTowards tells whether a module can be counted towards a degree: Bachelor modules never count towards
// the Master
func countsTowards(phase catalog.Phase) func(module catalog.Module) bool {
	return func(module catalog.Module) bool {
		return phase == catalog.Bachelor || module.Degree.Phase == catalog.Master
	}
}
