package planner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plan(specialities [2]catalog.Speciality, semesters ...[]Assignment) Solution {
	solution := Solution{Specialities: specialities}
	for i, assignments := range semesters {
		solution.Semesters = append(solution.Semesters, SemesterPlan{Index: i, Assignments: assignments})
	}
	return solution
}

func taken(id string, branch Branch) Assignment {
	return Assignment{ModuleID: id, Name: id, Type: catalog.LectureType(false), Credits: 10, Branch: branch}
}

var (
	bachelorBranch = Branch{Phase: catalog.Bachelor}
	masterBranch   = Branch{Phase: catalog.Master}
	defaultPair    = [2]catalog.Speciality{catalog.Theoretics, catalog.Algorithms}
)

func TestDedupeCollapsesPlacements(t *testing.T) {
	//** Arrange
	early := plan(defaultPair, []Assignment{taken("A", bachelorBranch)}, nil)
	late := plan(defaultPair, nil, []Assignment{taken("A", bachelorBranch)})
	other := plan(defaultPair, []Assignment{taken("B", bachelorBranch)}, nil)

	//** Act
	deduplication := Dedupe([]Solution{early, other, late})

	//** Assert
	assert.Equal(t, 3, deduplication.Raw)
	assert.Equal(t, 2, deduplication.Distinct)
	require.Len(t, deduplication.Solutions, 2)
	// The first placement found is the one kept
	if diff := cmp.Diff(early, deduplication.Solutions[0]); diff != "" {
		t.Errorf("kept solution mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(other, deduplication.Solutions[1]); diff != "" {
		t.Errorf("kept solution mismatch (-want +got):\n%s", diff)
	}
}

func TestDedupeKeepsBranchDifferences(t *testing.T) {
	//** Arrange
	theoretics := Branch{Phase: catalog.Master, Speciality: catalog.Theoretics, Specialised: true}
	security := Branch{Phase: catalog.Master, Speciality: catalog.Security, Specialised: true}
	raw := []Solution{
		plan(defaultPair, []Assignment{taken("M", bachelorBranch)}),
		plan(defaultPair, []Assignment{taken("M", masterBranch)}),
		plan(defaultPair, []Assignment{taken("M", theoretics)}),
		plan(defaultPair, []Assignment{taken("M", security)}),
	}

	//** Act
	deduplication := Dedupe(raw)

	//** Assert
	assert.Equal(t, 4, deduplication.Distinct)
}

func TestDedupeIgnoresChosenSpecialities(t *testing.T) {
	//** Arrange
	a := plan(defaultPair, []Assignment{taken("A", bachelorBranch)})
	b := plan([2]catalog.Speciality{catalog.Security, catalog.Theoretics}, []Assignment{taken("A", bachelorBranch)})

	//** Act
	deduplication := Dedupe([]Solution{a, b})

	//** Assert
	assert.Equal(t, 1, deduplication.Distinct)
}

func TestDedupeIsIdempotent(t *testing.T) {
	//** Arrange
	raw := []Solution{
		plan(defaultPair, []Assignment{taken("B", bachelorBranch)}, []Assignment{taken("A", bachelorBranch)}),
		plan(defaultPair, []Assignment{taken("A", bachelorBranch), taken("B", bachelorBranch)}, nil),
		plan(defaultPair, nil, []Assignment{taken("C", masterBranch)}),
		plan(defaultPair, nil, nil),
	}

	//** Act
	once := Dedupe(raw)
	twice := Dedupe(once.Solutions)

	//** Assert
	assert.Equal(t, 3, once.Distinct)
	assert.Equal(t, once.Distinct, twice.Raw)
	assert.Equal(t, once.Distinct, twice.Distinct)
	if diff := cmp.Diff(once.Solutions, twice.Solutions); diff != "" {
		t.Errorf("second pass changed the solutions (-first +second):\n%s", diff)
	}
	for i := 1; i < len(once.Solutions); i++ {
		assert.Negative(t, once.Solutions[i-1].Key().Compare(once.Solutions[i].Key()))
	}
}

func TestDedupeEmpty(t *testing.T) {
	//** Act
	deduplication := Dedupe(nil)

	//** Assert
	assert.Zero(t, deduplication.Raw)
	assert.Zero(t, deduplication.Distinct)
	assert.Empty(t, deduplication.Solutions)
}
