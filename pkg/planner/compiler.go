package planner

import (
	"fmt"

	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/limaJavier/studyplan/pkg/sat"
	"github.com/samber/lo"
)

// Bundle holds the decision variables of one module
type Bundle struct {
	Module     catalog.Module
	Selected   sat.BoolVar
	Semester   sat.IntVar // Index of the semester the module is taken in
	Degree     sat.EnumVar
	Speciality sat.EnumVar // Meaningful for the Master branch only
	Credits    int
}

// Constraint is a rule under the label it is reported by when it cannot be met
type Constraint struct {
	Label string
	Expr  sat.Expr
}

// Compilation is the constraint problem of one catalog within one oracle session
type Compilation struct {
	Catalog     *catalog.Catalog
	Regulations Regulations
	Bundles     []Bundle
	Constraints []Constraint

	// The two specialities every plan commits to
	FirstSpeciality  sat.EnumVar
	SecondSpeciality sat.EnumVar

	index map[string]int
}

func (compilation *Compilation) Bundle(id string) (Bundle, bool) {
	i, ok := compilation.index[id]
	if !ok {
		return Bundle{}, false
	}
	return compilation.Bundles[i], true
}

var phaseDomain = lo.Map(catalog.Phases(), func(phase catalog.Phase, _ int) string { return phase.String() })

// Compile declares the decision variables of every module through the oracle and derives the constraints of
// the regulations. The constraints are returned, not asserted. Prerequisites naming unknown modules are
// reported as a configuration error before the oracle is touched.
func Compile(oracle sat.Oracle, c *catalog.Catalog, regulations Regulations) (*Compilation, error) {
	if c.SemesterCount() == 0 {
		return nil, catalog.Configurationf("the catalog has no semesters")
	}
	modules := c.Modules()
	if err := checkPrerequisites(c, modules); err != nil {
		return nil, err
	}

	compilation := &Compilation{
		Catalog:     c,
		Regulations: regulations.clone(),
		Bundles:     make([]Bundle, len(modules)),
		index:       make(map[string]int, len(modules)),
	}
	for i, module := range modules {
		name := module.ID
		compilation.Bundles[i] = Bundle{
			Module:     module,
			Selected:   oracle.DeclareBool(fmt.Sprintf("selected_%v", name)),
			Semester:   oracle.DeclareInt(fmt.Sprintf("semester_%v", name), 0, c.SemesterCount()),
			Degree:     oracle.DeclareEnum(fmt.Sprintf("degree_%v", name), phaseDomain),
			Speciality: oracle.DeclareEnum(fmt.Sprintf("speciality_%v", name), catalog.SpecialityNames()),
			Credits:    module.Credits,
		}
		compilation.index[module.ID] = i
	}
	compilation.FirstSpeciality = oracle.DeclareEnum("first_speciality", catalog.SpecialityNames())
	compilation.SecondSpeciality = oracle.DeclareEnum("second_speciality", catalog.SpecialityNames())

	state := newConstraintState(compilation)

	// Constraint builders, in the order their constraints are asserted
	builders := []func(state constraintState) []Constraint{
		moduleConstraints,
		boundConstraints,
		pinConstraints,
		semesterLoadConstraints,
		bachelorCreditConstraints,
		masterCreditConstraints,
		rootLectureConstraints,
		labSeminarConstraints,
		prerequisiteConstraints,
		introductorySeminarConstraints,
		seasonConstraints,
		phaseConstraints,
		specialityConstraints,
	}

	compilation.Constraints = lo.FlatMap(builders, func(builder func(state constraintState) []Constraint, _ int) []Constraint {
		return builder(state)
	})
	return compilation, nil
}

func checkPrerequisites(c *catalog.Catalog, modules []catalog.Module) error {
	problems := make([]string, 0)
	for _, module := range modules {
		for _, required := range module.Requires {
			if _, ok := c.Module(required); !ok {
				problems = append(problems, fmt.Sprintf("%v (%v) requires unknown module %q", module.Name, module.ID, required))
			}
		}
	}
	if len(problems) > 0 {
		return &catalog.ConfigurationError{Problems: problems}
	}
	return nil
}

// constraintState gives the builders shared, read-only access to the compilation and to the expressions
// several rules are phrased in
type constraintState struct {
	catalog     *catalog.Catalog
	regulations Regulations
	bundles     []Bundle
	index       map[string]int
	first       sat.EnumVar
	second      sat.EnumVar

	inBachelor []sat.Expr // Selected and counted towards the Bachelor degree
	inMaster   []sat.Expr // Selected and counted towards the Master degree
}

func newConstraintState(compilation *Compilation) constraintState {
	bachelor, master := catalog.Bachelor.String(), catalog.Master.String()
	return constraintState{
		catalog:     compilation.Catalog,
		regulations: compilation.Regulations,
		bundles:     compilation.Bundles,
		index:       compilation.index,
		first:       compilation.FirstSpeciality,
		second:      compilation.SecondSpeciality,
		inBachelor: lo.Map(compilation.Bundles, func(b Bundle, _ int) sat.Expr {
			return sat.And(b.Selected, b.Degree.Is(bachelor))
		}),
		inMaster: lo.Map(compilation.Bundles, func(b Bundle, _ int) sat.Expr {
			return sat.And(b.Selected, b.Degree.Is(master))
		}),
	}
}

func (state constraintState) in(phase catalog.Phase, i int) sat.Expr {
	if phase == catalog.Bachelor {
		return state.inBachelor[i]
	}
	return state.inMaster[i]
}

// mayOccupy tells whether module i can be placed in semester s at all, judging by its pin and season
func (state constraintState) mayOccupy(i, s int) bool {
	module := state.bundles[i].Module
	if pin, ok := state.catalog.Pin(module.ID); ok {
		return pin == s
	}
	if season, ok := module.PinnedSeason(); ok {
		return state.catalog.Semester(s).Season == season
	}
	return true
}

// credits weighs every module matching filter by its credits whenever its condition holds
func (state constraintState) credits(condition func(i int) sat.Expr, filter func(module catalog.Module) bool) *sat.Sum {
	terms := make([]sat.Term, 0)
	for i, b := range state.bundles {
		if filter(b.Module) {
			terms = append(terms, sat.Weighted(condition(i), b.Credits))
		}
	}
	return sat.NewSum(terms...)
}

// count weighs every module matching filter by one whenever its condition holds
func (state constraintState) count(condition func(i int) sat.Expr, filter func(module catalog.Module) bool) *sat.Sum {
	terms := make([]sat.Term, 0)
	for i, b := range state.bundles {
		if filter(b.Module) {
			terms = append(terms, sat.Weighted(condition(i), 1))
		}
	}
	return sat.NewSum(terms...)
}

func describe(module catalog.Module) string {
	return fmt.Sprintf("%v (%v)", module.Name, module.ID)
}
