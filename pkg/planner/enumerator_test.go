package planner

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/limaJavier/studyplan/pkg/sat"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleRootModule(t *testing.T) {
	//** Arrange
	c := buildCatalog(t, []catalog.Semester{
		semester(catalog.Bachelor, catalog.Winter, rootLecture("ROOT")),
		semester(catalog.Bachelor, catalog.Summer),
	})
	regulations := relaxedRegulations()
	regulations.BachelorRootLectures = 1

	//** Act
	enumeration := enumerate(t, c, regulations)
	deduplication := Dedupe(enumeration.Solutions)

	//** Assert
	assert.Equal(t, Exhausted, enumeration.Outcome)
	require.Len(t, enumeration.Solutions, 1)
	assert.Equal(t, Key{{ModuleID: "ROOT", Branch: Branch{Phase: catalog.Bachelor}}}, enumeration.Solutions[0].Key())
	assert.Equal(t, 1, deduplication.Distinct)
	_, s, ok := enumeration.Solutions[0].Find("ROOT")
	assert.True(t, ok)
	assert.Equal(t, 0, s)
}

func TestPrerequisiteOrdering(t *testing.T) {
	g := NewWithT(t)

	//** Arrange
	c := buildCatalog(t,
		[]catalog.Semester{semester(catalog.Bachelor, catalog.Winter), semester(catalog.Bachelor, catalog.Summer)},
		lecture("A", 10), lecture("B", 10, "A"),
	)
	regulations := relaxedRegulations()

	//** Act
	enumeration := enumerate(t, c, regulations)

	//** Assert
	g.Expect(enumeration.Outcome).To(Equal(Exhausted))
	g.Expect(enumeration.Solutions).To(HaveLen(3))
	withB := 0
	for _, solution := range enumeration.Solutions {
		if _, b, ok := solution.Find("B"); ok {
			withB++
			_, a, ok := solution.Find("A")
			g.Expect(ok).To(BeTrue())
			g.Expect(a).To(BeNumerically("<", b))
		}
	}
	g.Expect(withB).To(Equal(1))
	assertValid(t, enumeration.Solutions, c, regulations)
}

func TestUnreachableBachelorMinimum(t *testing.T) {
	//** Arrange
	c := buildCatalog(t,
		[]catalog.Semester{semester(catalog.Bachelor, catalog.Winter), semester(catalog.Bachelor, catalog.Summer)},
		lecture("A", 10), lecture("B", 12),
	)
	regulations := relaxedRegulations()
	regulations.BachelorCredits = CreditRange{Min: 100, Max: 108}

	//** Act
	enumeration := enumerate(t, c, regulations)

	//** Assert
	assert.Equal(t, Unsatisfiable, enumeration.Outcome)
	assert.Empty(t, enumeration.Solutions)
	assert.Contains(t, enumeration.Core, "bachelor totals between 100 and 108 half-credits")
}

func TestUnsatisfiableCoreIsMinimal(t *testing.T) {
	//** Arrange
	mandatory := lecture("A", 40)
	mandatory.Forced = true
	c := buildCatalog(t, []catalog.Semester{semester(catalog.Bachelor, catalog.Winter)}, mandatory, lecture("B", 10))
	regulations := relaxedRegulations()
	regulations.BachelorCredits = CreditRange{Min: 0, Max: 30}

	//** Act
	enumeration := enumerate(t, c, regulations)

	//** Assert
	assert.Equal(t, Unsatisfiable, enumeration.Outcome)
	// Either rule keeps A out of the master
	require.Len(t, enumeration.Core, 3)
	assert.Contains(t, enumeration.Core, "A (A) is mandatory")
	assert.Contains(t, enumeration.Core, "bachelor totals between 0 and 30 half-credits")
	assert.Subset(t, []string{
		"A (A) is mandatory",
		"bachelor totals between 0 and 30 half-credits",
		"A (A) counts towards the bachelor",
		"semester 1 only holds bachelor modules",
	}, enumeration.Core)
}

func TestMasterOverlapDiscount(t *testing.T) {
	//** Arrange
	master := semester(catalog.Master, catalog.Winter)
	modules := []catalog.Module{
		masterModule("L", catalog.LectureType(false), 20, catalog.Theoretics),
		masterModule("LAB", catalog.LabType(), 6),
		masterModule("SEM", catalog.SeminarType(false), 3),
	}
	regulations := relaxedRegulations()
	regulations.MasterCredits = CreditRange{Min: 20, Max: 20}
	regulations.OverlapCeiling = 18
	regulations.MasterLabMinimum = 6
	regulations.MasterSeminarMinimum = 3
	c := buildCatalog(t, []catalog.Semester{master}, modules...)

	//** Act
	enumeration := enumerate(t, c, regulations)

	//** Assert
	assert.Equal(t, Exhausted, enumeration.Outcome)
	require.Len(t, enumeration.Solutions, 1)
	assert.Len(t, enumeration.Solutions[0].Key(), 3)
	assert.Equal(t, 29, enumeration.Solutions[0].Credits(catalog.Master))
	assertValid(t, enumeration.Solutions, c, regulations)

	// Without the discount the raw total would fit
	regulations.MasterCredits = CreditRange{Min: 29, Max: 29}
	assert.Equal(t, Unsatisfiable, enumerate(t, c, regulations).Outcome)
}

func TestSpecialityChoice(t *testing.T) {
	g := NewWithT(t)

	//** Arrange
	c := buildCatalog(t, []catalog.Semester{semester(catalog.Master, catalog.Winter)},
		masterModule("X", catalog.LectureType(false), 12, catalog.Theoretics),
		masterModule("Y", catalog.LectureType(false), 12, catalog.Algorithms),
		masterModule("Z", catalog.LectureType(false), 12, catalog.Security, catalog.Theoretics),
	)
	regulations := relaxedRegulations()
	regulations.SpecialityMinimum = 12
	regulations.SpecialityFloors = map[catalog.Speciality]int{catalog.Algorithms: 12}

	//** Act
	enumeration := enumerate(t, c, regulations)

	//** Assert
	g.Expect(enumeration.Outcome).To(Equal(Exhausted))
	// Any two of the three modules cover two specialities
	g.Expect(enumeration.Solutions).To(HaveLen(4))
	for _, solution := range enumeration.Solutions {
		g.Expect(solution.Specialities[0]).NotTo(Equal(solution.Specialities[1]))
		for _, speciality := range solution.Specialities {
			g.Expect(solution.SpecialityCredits(speciality, true)).To(BeNumerically(">=", 12))
		}
	}
	assertValid(t, enumeration.Solutions, c, regulations)
}

func TestSpecialityFloorExcludesRootLectures(t *testing.T) {
	//** Arrange
	root := masterModule("R", catalog.LectureType(true), catalog.RootCredits, catalog.Theoretics)
	c := buildCatalog(t, []catalog.Semester{semester(catalog.Master, catalog.Winter)},
		root,
		masterModule("Y", catalog.LectureType(false), 12, catalog.Algorithms),
	)
	regulations := relaxedRegulations()
	regulations.SpecialityMinimum = 12
	regulations.SpecialityFloors = map[catalog.Speciality]int{catalog.Theoretics: 1, catalog.Algorithms: 1}

	//** Act
	enumeration := enumerate(t, c, regulations)

	//** Assert
	assert.Equal(t, Unsatisfiable, enumeration.Outcome)
	assert.Contains(t, enumeration.Core, "the two chosen specialities differ")
}

func TestSeasonAndPhaseRestrictions(t *testing.T) {
	//** Arrange
	winterOnly := lecture("W", 10)
	winterOnly.Seasons = []catalog.Season{catalog.Winter}
	elective := masterModule("M", catalog.LectureType(false), 10)
	c := buildCatalog(t, []catalog.Semester{
		semester(catalog.Bachelor, catalog.Summer),
		semester(catalog.Bachelor, catalog.Winter),
		semester(catalog.Master, catalog.Summer),
	}, winterOnly, elective)
	regulations := relaxedRegulations()

	//** Act
	enumeration := enumerate(t, c, regulations)

	//** Assert
	assert.Equal(t, Exhausted, enumeration.Outcome)
	assert.Len(t, enumeration.Solutions, 4)
	for _, solution := range enumeration.Solutions {
		if _, s, ok := solution.Find("W"); ok {
			assert.Equal(t, 1, s)
		}
		if assignment, s, ok := solution.Find("M"); ok {
			assert.Equal(t, []catalog.Phase{catalog.Bachelor, catalog.Bachelor, catalog.Master}[s], assignment.Branch.Phase)
		}
	}
	assertValid(t, enumeration.Solutions, c, regulations)
}

func TestRawCountIsBounded(t *testing.T) {
	//** Arrange
	forced := lecture("F", 6)
	forced.Forced = true
	c := buildCatalog(t,
		[]catalog.Semester{semester(catalog.Bachelor, catalog.Winter, lecture("P", 6)), semester(catalog.Bachelor, catalog.Summer)},
		forced, lecture("A", 6), lecture("B", 6), lecture("C", 6, "A"),
	)
	regulations := relaxedRegulations()

	//** Act
	enumeration := enumerate(t, c, regulations)

	//** Assert
	assert.Equal(t, Exhausted, enumeration.Outcome)
	assert.LessOrEqual(t, len(enumeration.Solutions), int(math.Pow(2, 3)))
	// C needs A, so {C}, {B, C} are impossible
	assert.Len(t, enumeration.Solutions, 6)
	assertValid(t, enumeration.Solutions, c, regulations)
}

func TestEnumerationLimit(t *testing.T) {
	//** Arrange
	c := buildCatalog(t,
		[]catalog.Semester{semester(catalog.Bachelor, catalog.Winter), semester(catalog.Bachelor, catalog.Summer)},
		lecture("A", 10), lecture("B", 10, "A"),
	)

	//** Act
	enumeration := enumerate(t, c, relaxedRegulations(), WithLimit(2))

	//** Assert
	assert.Equal(t, Cancelled, enumeration.Outcome)
	assert.Len(t, enumeration.Solutions, 2)
}

func TestEnumerationCancellation(t *testing.T) {
	//** Arrange
	c := buildCatalog(t, []catalog.Semester{semester(catalog.Bachelor, catalog.Winter)}, lecture("A", 10))
	oracle := sat.NewGiniOracle()
	defer oracle.Close()
	compilation, err := Compile(oracle, c, relaxedRegulations())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	observer := &recordingObserver{
		onFound: func(int) { cancel() },
	}

	//** Act
	enumeration, err := Enumerate(ctx, oracle, compilation, WithObserver(observer))

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, Cancelled, enumeration.Outcome)
	assert.Len(t, enumeration.Solutions, 1)
	assert.Equal(t, []int{1}, observer.found)
	assert.Equal(t, []sat.Status{sat.Satisfiable}, observer.checked)
}

func TestUndecidedOracle(t *testing.T) {
	//** Arrange
	c := buildCatalog(t,
		[]catalog.Semester{semester(catalog.Bachelor, catalog.Winter), semester(catalog.Bachelor, catalog.Summer)},
		lecture("A", 10), lecture("B", 10, "A"),
	)
	oracle := &undecidedOracle{Oracle: sat.NewGiniOracle(), decisions: 2}
	defer oracle.Close()
	compilation, err := Compile(oracle, c, relaxedRegulations())
	require.NoError(t, err)

	//** Act
	enumeration, err := Enumerate(context.Background(), oracle, compilation)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, Undetermined, enumeration.Outcome)
	assert.Len(t, enumeration.Solutions, 2)
}

func TestFailingOracle(t *testing.T) {
	//** Arrange
	c := buildCatalog(t,
		[]catalog.Semester{semester(catalog.Bachelor, catalog.Winter), semester(catalog.Bachelor, catalog.Summer)},
		lecture("A", 10), lecture("B", 10, "A"),
	)
	oracle := &failingOracle{Oracle: sat.NewGiniOracle(), checks: 2}
	defer oracle.Close()
	compilation, err := Compile(oracle, c, relaxedRegulations())
	require.NoError(t, err)

	//** Act
	enumeration, err := Enumerate(context.Background(), oracle, compilation)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, Undetermined, enumeration.Outcome)
	assert.Len(t, enumeration.Solutions, 2)
	assert.Empty(t, enumeration.Core)
}

func TestOracleFailingOnFirstCheck(t *testing.T) {
	//** Arrange
	c := buildCatalog(t, []catalog.Semester{semester(catalog.Bachelor, catalog.Winter)}, lecture("A", 10))
	oracle := &failingOracle{Oracle: sat.NewGiniOracle()}
	defer oracle.Close()
	compilation, err := Compile(oracle, c, relaxedRegulations())
	require.NoError(t, err)

	//** Act
	enumeration, err := Enumerate(context.Background(), oracle, compilation)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, Undetermined, enumeration.Outcome)
	assert.Empty(t, enumeration.Solutions)
}

func TestOutcomeNames(t *testing.T) {
	assert.Equal(t, "exhausted", Exhausted.String())
	assert.Equal(t, "unsatisfiable", Unsatisfiable.String())
	assert.Equal(t, "undetermined", Undetermined.String())
	assert.Equal(t, "cancelled", Cancelled.String())
}

type recordingObserver struct {
	checked []sat.Status
	found   []int
	onFound func(count int)
}

func (observer *recordingObserver) Checked(status sat.Status) {
	observer.checked = append(observer.checked, status)
}

func (observer *recordingObserver) SolutionFound(count int) {
	observer.found = append(observer.found, count)
	if observer.onFound != nil {
		observer.onFound(count)
	}
}

// undecidedOracle gives up after a number of decided checks
type undecidedOracle struct {
	sat.Oracle
	decisions int
}

func (oracle *undecidedOracle) CheckSat() (sat.Status, error) {
	if oracle.decisions == 0 {
		return sat.Unknown, nil
	}
	oracle.decisions--
	return oracle.Oracle.CheckSat()
}

// failingOracle breaks down after a number of successful checks
type failingOracle struct {
	sat.Oracle
	checks int
}

func (oracle *failingOracle) CheckSat() (sat.Status, error) {
	if oracle.checks == 0 {
		return sat.Unknown, errors.New("solver crashed")
	}
	oracle.checks--
	return oracle.Oracle.CheckSat()
}
