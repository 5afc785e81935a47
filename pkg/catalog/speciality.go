package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Speciality is a Master specialisation track. The numeric order of the constants is the
// total order used when plans are canonicalised.
type Speciality int

const (
	Theoretics Speciality = iota
	Algorithms
	Security
	Parallelism
	SoftwareEngineering
	Embedded
	Telematics
	InformationSystems
	ComputerGraphics
	Robotics
	ArtificialIntelligence
	SystemArchitecture
)

var specialityNames = []string{
	"theoretics",
	"algorithms",
	"security",
	"parallelism",
	"software-engineering",
	"embedded",
	"telematics",
	"information-systems",
	"computer-graphics",
	"robotics",
	"artificial-intelligence",
	"system-architecture",
}

func (speciality Speciality) String() string {
	if int(speciality) < 0 || int(speciality) >= len(specialityNames) {
		return fmt.Sprintf("speciality(%d)", int(speciality))
	}
	return specialityNames[speciality]
}

func ParseSpeciality(name string) (Speciality, error) {
	i := slices.Index(specialityNames, strings.ToLower(strings.TrimSpace(name)))
	if i < 0 {
		return 0, Configurationf("unknown speciality %q", name)
	}
	return Speciality(i), nil
}

// Specialities lists the whole enumeration in its canonical order
func Specialities() []Speciality {
	specialities := make([]Speciality, len(specialityNames))
	for i := range specialities {
		specialities[i] = Speciality(i)
	}
	return specialities
}

func SpecialityNames() []string {
	return slices.Clone(specialityNames)
}
