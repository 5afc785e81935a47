package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

type Season int

const (
	Unspecified Season = iota
	Winter
	Summer
)

var seasonNames = []string{"unspecified", "winter", "summer"}

func (season Season) String() string {
	if int(season) < 0 || int(season) >= len(seasonNames) {
		return fmt.Sprintf("season(%d)", int(season))
	}
	return seasonNames[season]
}

func ParseSeason(name string) (Season, error) {
	i := slices.Index(seasonNames, strings.ToLower(strings.TrimSpace(name)))
	if i < 0 {
		return 0, Configurationf("unknown season %q", name)
	}
	return Season(i), nil
}

// Phase identifies a degree. It is used both as the degree-phase tag of a semester and as the
// degree branch a selected module is counted towards.
type Phase int

const (
	Bachelor Phase = iota
	Master
)

var phaseNames = []string{"bachelor", "master"}

func (phase Phase) String() string {
	if int(phase) < 0 || int(phase) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(phase))
	}
	return phaseNames[phase]
}

func ParsePhase(name string) (Phase, error) {
	i := slices.Index(phaseNames, strings.ToLower(strings.TrimSpace(name)))
	if i < 0 {
		return 0, Configurationf("unknown degree %q", name)
	}
	return Phase(i), nil
}

// Phases lists every phase in its canonical order
func Phases() []Phase {
	return []Phase{Bachelor, Master}
}

type Kind int

const (
	Lecture Kind = iota
	Lab
	Seminar
)

var kindNames = []string{"lecture", "lab", "seminar"}

func (kind Kind) String() string {
	if int(kind) < 0 || int(kind) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(kind))
	}
	return kindNames[kind]
}

func ParseKind(name string) (Kind, error) {
	i := slices.Index(kindNames, strings.ToLower(strings.TrimSpace(name)))
	if i < 0 {
		return 0, Configurationf("unknown module type %q", name)
	}
	return Kind(i), nil
}

// ModuleType is the tagged variant Lecture(root) | Lab | Seminar(introductory).
// The flags are only meaningful for their own kind.
type ModuleType struct {
	Kind         Kind
	Root         bool
	Introductory bool
}

func LectureType(root bool) ModuleType {
	return ModuleType{Kind: Lecture, Root: root}
}

func LabType() ModuleType {
	return ModuleType{Kind: Lab}
}

func SeminarType(introductory bool) ModuleType {
	return ModuleType{Kind: Seminar, Introductory: introductory}
}

func (moduleType ModuleType) IsRoot() bool {
	return moduleType.Kind == Lecture && moduleType.Root
}

func (moduleType ModuleType) IsIntroductory() bool {
	return moduleType.Kind == Seminar && moduleType.Introductory
}

func (moduleType ModuleType) String() string {
	switch {
	case moduleType.IsRoot():
		return "root lecture"
	case moduleType.IsIntroductory():
		return "introductory seminar"
	}
	return moduleType.Kind.String()
}

// Degree is the degree affiliation of a module: Bachelor, or Master restricted to a set of specialities
type Degree struct {
	Phase        Phase
	Specialities []Speciality
}

func BachelorDegree() Degree {
	return Degree{Phase: Bachelor}
}

func MasterDegree(specialities ...Speciality) Degree {
	return Degree{Phase: Master, Specialities: specialities}
}

func (degree Degree) Admits(speciality Speciality) bool {
	return slices.Contains(degree.Specialities, speciality)
}

func (degree Degree) String() string {
	if degree.Phase == Bachelor || len(degree.Specialities) == 0 {
		return degree.Phase.String()
	}
	names := lo.Map(degree.Specialities, func(speciality Speciality, _ int) string { return speciality.String() })
	return fmt.Sprintf("%v(%v)", degree.Phase, strings.Join(names, ","))
}

type Module struct {
	ID       string
	Name     string
	Type     ModuleType
	Credits  int // Half-credit units
	Degree   Degree
	Requires []string
	Seasons  []Season
	Forced   bool // Must be part of every plan
}

// PinnedSeason returns the season a module must be taken in, if it is offered in exactly one known season
func (module Module) PinnedSeason() (Season, bool) {
	seasons := lo.Uniq(module.Seasons)
	if len(seasons) != 1 || seasons[0] == Unspecified {
		return Unspecified, false
	}
	return seasons[0], true
}

func (module Module) clone() Module {
	module.Requires = slices.Clone(module.Requires)
	module.Seasons = slices.Clone(module.Seasons)
	module.Degree.Specialities = slices.Clone(module.Degree.Specialities)
	return module
}
