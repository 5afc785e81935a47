package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// RootCredits is the credit weight (in half-credit units) every root lecture must carry
const RootCredits = 12

// ConfigurationError reports a catalog that cannot be used for planning. It is
// always fatal: no partial catalog is handed out.
type ConfigurationError struct {
	Problems []string
}

func (err *ConfigurationError) Error() string {
	if len(err.Problems) == 1 {
		return fmt.Sprintf("invalid catalog: %v", err.Problems[0])
	}
	return fmt.Sprintf("invalid catalog: %d problems: %v", len(err.Problems), strings.Join(err.Problems, "; "))
}

// Configurationf builds a ConfigurationError with a single formatted problem
func Configurationf(format string, args ...any) error {
	return &ConfigurationError{Problems: []string{fmt.Sprintf(format, args...)}}
}

// Semester is one slot of the fixed semester sequence
type Semester struct {
	Index      int // Position in the sequence, assigned by Build
	Phases     []Phase
	Season     Season
	MinCredits int // Inclusive, half-credit units
	MaxCredits int // Inclusive, half-credit units
	Modules    []Module
}

// PinnedPhase returns the only phase the semester admits, if its tag is a singleton
func (semester Semester) PinnedPhase() (Phase, bool) {
	phases := lo.Uniq(semester.Phases)
	if len(phases) != 1 {
		return 0, false
	}
	return phases[0], true
}

func (semester Semester) clone() Semester {
	semester.Phases = slices.Clone(semester.Phases)
	semester.Modules = lo.Map(semester.Modules, func(module Module, _ int) Module { return module.clone() })
	return semester
}

func (semester Semester) Number() int {
	return semester.Index + 1
}

// Catalog is the ordered semester sequence together with every module known to the planner.
// It is built once and never mutated afterwards.
type Catalog struct {
	semesters []Semester
	modules   []Module
	index     map[string]int
	pins      map[string]int
}

// Build assembles a catalog from the semester sequence (with their pre-bound modules) and the modules
// that are free to be placed anywhere.
func Build(semesters []Semester, looseModules []Module) (*Catalog, error) {
	catalog := &Catalog{
		semesters: make([]Semester, len(semesters)),
		modules:   make([]Module, 0, len(looseModules)),
		index:     make(map[string]int),
		pins:      make(map[string]int),
	}
	problems := make([]string, 0)

	add := func(module Module) {
		if _, ok := catalog.index[module.ID]; ok {
			problems = append(problems, fmt.Sprintf("module identifier %q is used more than once", module.ID))
			return
		}
		catalog.index[module.ID] = len(catalog.modules)
		catalog.modules = append(catalog.modules, module.clone())
	}

	for _, module := range looseModules {
		add(module)
	}
	for i, semester := range semesters {
		semester = semester.clone()
		semester.Index = i
		catalog.semesters[i] = semester

		for _, module := range semester.Modules {
			if _, ok := catalog.pins[module.ID]; !ok {
				catalog.pins[module.ID] = i
			}
			add(module)
		}
	}

	// Root lectures must carry exactly the canonical weight
	for _, module := range catalog.modules {
		if module.Type.IsRoot() && module.Credits != RootCredits {
			problems = append(problems, fmt.Sprintf("root module %v (%v) has %v half-credits, root modules must have %v", module.Name, module.ID, module.Credits, RootCredits))
		}
	}

	if len(problems) > 0 {
		return nil, &ConfigurationError{Problems: problems}
	}
	return catalog, nil
}

// Semesters returns a copy of the semester sequence
func (catalog *Catalog) Semesters() []Semester {
	return lo.Map(catalog.semesters, func(semester Semester, _ int) Semester { return semester.clone() })
}

func (catalog *Catalog) Semester(index int) Semester {
	return catalog.semesters[index].clone()
}

func (catalog *Catalog) SemesterCount() int {
	return len(catalog.semesters)
}

// Modules returns every module of the catalog (loose ones first, then the pre-bound ones in semester order)
func (catalog *Catalog) Modules() []Module {
	return lo.Map(catalog.modules, func(module Module, _ int) Module { return module.clone() })
}

func (catalog *Catalog) Module(id string) (Module, bool) {
	i, ok := catalog.index[id]
	if !ok {
		return Module{}, false
	}
	return catalog.modules[i].clone(), true
}

// Pin returns the semester a module is pre-bound to
func (catalog *Catalog) Pin(id string) (int, bool) {
	semester, ok := catalog.pins[id]
	return semester, ok
}
