package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/google/go-cmp/cmp"
	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/limaJavier/studyplan/pkg/planner"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Build([]catalog.Semester{
		{Phases: []catalog.Phase{catalog.Bachelor}, Season: catalog.Winter, MaxCredits: 64},
		{Phases: []catalog.Phase{catalog.Master}, Season: catalog.Summer, MaxCredits: 64},
	}, []catalog.Module{
		{ID: "GBI", Name: "Foundations", Type: catalog.LectureType(true), Credits: catalog.RootCredits, Degree: catalog.BachelorDegree()},
		{ID: "ALG", Name: "Algorithms II", Type: catalog.LectureType(false), Credits: 9, Degree: catalog.MasterDegree(catalog.Algorithms)},
	})
	require.NoError(t, err)
	return c
}

func samplePlan() planner.Solution {
	return planner.Solution{
		Semesters: []planner.SemesterPlan{
			{Index: 0, Assignments: []planner.Assignment{{
				ModuleID: "GBI", Name: "Foundations", Type: catalog.LectureType(true), Credits: catalog.RootCredits,
				Branch: planner.Branch{Phase: catalog.Bachelor},
			}}},
			{Index: 1, Assignments: []planner.Assignment{{
				ModuleID: "ALG", Name: "Algorithms II", Type: catalog.LectureType(false), Credits: 9,
				Branch: planner.Branch{Phase: catalog.Master, Speciality: catalog.Algorithms, Specialised: true},
			}}},
		},
		Specialities: [2]catalog.Speciality{catalog.Algorithms, catalog.Theoretics},
	}
}

func sampleResult() planner.Result {
	return planner.Result{Solutions: []planner.Solution{samplePlan()}, Raw: 2, Distinct: 1, Outcome: planner.Exhausted}
}

func TestECTS(t *testing.T) {
	assert.Equal(t, "6", ECTS(12))
	assert.Equal(t, "4.5", ECTS(9))
	assert.Equal(t, "0", ECTS(0))
}

func TestText(t *testing.T) {
	//** Arrange
	var out bytes.Buffer

	//** Act
	err := Text(&out, samplePlan(), sampleCatalog(t))

	//** Assert
	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "Semester 1 (winter, bachelor): 6 ECTS")
	assert.Contains(t, text, "Semester 2 (summer, master): 4.5 ECTS")
	assert.Contains(t, text, "root lecture")
	assert.Contains(t, text, "master/algorithms")
	assert.Contains(t, text, "Bachelor: 6 ECTS")
	assert.Contains(t, text, "Master: 4.5 ECTS")
	assert.Contains(t, text, "Specialities: algorithms, theoretics")
}

func TestFingerprintIgnoresPlacement(t *testing.T) {
	//** Arrange
	plan := samplePlan()
	moved := samplePlan()
	moved.Semesters[0].Assignments, moved.Semesters[1].Assignments = moved.Semesters[1].Assignments, moved.Semesters[0].Assignments
	other := samplePlan()
	other.Semesters[1].Assignments[0].Branch = planner.Branch{Phase: catalog.Master}

	//** Act
	a, errA := Fingerprint(plan)
	b, errB := Fingerprint(moved)
	c, errC := Fingerprint(other)

	//** Assert
	require.NoError(t, errA)
	require.NoError(t, errB)
	require.NoError(t, errC)
	assert.Len(t, a, 16)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestJSON(t *testing.T) {
	//** Arrange
	var out bytes.Buffer
	fingerprint, err := Fingerprint(samplePlan())
	require.NoError(t, err)

	//** Act
	err = JSON(&out, sampleResult())

	//** Assert
	require.NoError(t, err)
	var export Export
	require.NoError(t, json.Unmarshal(out.Bytes(), &export))
	want := Export{
		Outcome: "exhausted",
		Raw:     2,
		Plans: []PlanDocument{{
			Fingerprint:  fingerprint,
			Specialities: []string{"algorithms", "theoretics"},
			Bachelor:     6,
			Master:       4.5,
			Semesters: []SemesterDocument{
				{Number: 1, Credits: 6, Modules: []ModuleDocument{{ID: "GBI", Name: "Foundations", Type: "root lecture", Credits: 6, Branch: "bachelor"}}},
				{Number: 2, Credits: 4.5, Modules: []ModuleDocument{{ID: "ALG", Name: "Algorithms II", Type: "lecture", Credits: 4.5, Branch: "master/algorithms"}}},
			},
		}},
	}
	if diff := cmp.Diff(want, export); diff != "" {
		t.Errorf("JSON export mismatch (-want +got):\n%s", diff)
	}
}

func TestTOML(t *testing.T) {
	//** Arrange
	var out bytes.Buffer

	//** Act
	err := TOML(&out, sampleResult())

	//** Assert
	require.NoError(t, err)
	var export Export
	require.NoError(t, toml.Unmarshal(out.Bytes(), &export))
	require.Len(t, export.Plans, 1)
	assert.Equal(t, "exhausted", export.Outcome)
	assert.Equal(t, 4.5, export.Plans[0].Master)
	assert.Equal(t, "ALG", export.Plans[0].Semesters[1].Modules[0].ID)
}

func TestCSV(t *testing.T) {
	//** Arrange
	var out bytes.Buffer

	//** Act
	err := CSV(&out, sampleResult())

	//** Assert
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "plan,fingerprint,semester,module_id,name,type,ects,branch\n"))
	var rows []*Row
	require.NoError(t, gocsv.UnmarshalString(out.String(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "GBI", rows[0].ModuleID)
	assert.Equal(t, 1, rows[0].Semester)
	assert.Equal(t, "4.5", rows[1].Credits)
	assert.Equal(t, "master/algorithms", rows[1].Branch)
}

func TestWriteText(t *testing.T) {
	//** Arrange
	var out bytes.Buffer

	//** Act
	err := Write(&out, FormatText, sampleResult(), sampleCatalog(t))

	//** Assert
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "Plan #1 ["))
	assert.True(t, strings.HasSuffix(out.String(), "1 distinct plans (2 raw), enumeration exhausted\n"))
}

func TestFooterListsCore(t *testing.T) {
	//** Arrange
	var out bytes.Buffer
	result := planner.Result{Outcome: planner.Unsatisfiable, Core: []string{"first rule", "second rule"}}

	//** Act
	err := Footer(&out, result)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "0 distinct plans (0 raw), enumeration unsatisfiable\n"+
		"No plan satisfies these rules together:\n  - first rule\n  - second rule\n", out.String())
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("toml")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, format)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
