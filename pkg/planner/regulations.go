package planner

import (
	"maps"

	"github.com/limaJavier/studyplan/pkg/catalog"
)

// CreditRange is an inclusive range of half-credits
type CreditRange struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

func (r CreditRange) Contains(credits int) bool {
	return r.Min <= credits && credits <= r.Max
}

// Regulations are the degree rules a plan must satisfy. Every quantity is expressed in half-credits.
type Regulations struct {
	BachelorCredits CreditRange
	MasterCredits   CreditRange

	// Master lab and seminar credits below OverlapCeiling are discounted from the Master total
	OverlapCeiling int

	BachelorRootLectures int
	MasterRootLectures   int

	MasterLabMinimum     int
	MasterSeminarMinimum int // Also the floor for labs and seminars combined

	SpecialityMinimum int
	// Credits a chosen speciality must reach without counting root lectures
	SpecialityFloors map[catalog.Speciality]int

	RequireIntroductorySeminar bool
}

const (
	defaultSpecialityFloor = 10
	appliedSpecialityFloor = 8
	creditSlack            = 8
)

// DefaultRegulations returns the regulations of the Karlsruhe computer-science programme. The Bachelor total
// is 180 ECTS minus 3 (root lecture), 7.5 (internship) and 6 (thesis) accounted for elsewhere, the Master
// total 120 minus 20.5 ECTS.
func DefaultRegulations() Regulations {
	floors := make(map[catalog.Speciality]int)
	for _, speciality := range catalog.Specialities() {
		floors[speciality] = defaultSpecialityFloor
	}
	floors[catalog.SoftwareEngineering] = appliedSpecialityFloor

	return Regulations{
		BachelorCredits:            CreditRange{Min: 327, Max: 327 + creditSlack},
		MasterCredits:              CreditRange{Min: 199, Max: 199 + creditSlack},
		OverlapCeiling:             18,
		BachelorRootLectures:       1,
		MasterRootLectures:         4,
		MasterLabMinimum:           6,
		MasterSeminarMinimum:       3,
		SpecialityMinimum:          15,
		SpecialityFloors:           floors,
		RequireIntroductorySeminar: true,
	}
}

// SpecialityFloor returns the credits without root lectures speciality needs when chosen
func (r Regulations) SpecialityFloor(speciality catalog.Speciality) int {
	return r.SpecialityFloors[speciality]
}

func (r Regulations) clone() Regulations {
	r.SpecialityFloors = maps.Clone(r.SpecialityFloors)
	return r
}
