package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/limaJavier/studyplan/pkg/render"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogFile = `
semesters:
  - phases: [bachelor]
    season: winter
    max_credits: 64
    modules:
      - id: A
        name: Analysis
        credits: 10
  - phases: [bachelor]
    season: summer
    max_credits: 64
modules:
  - id: B
    name: Databases
    credits: 10
    requires: [A]
`

// relaxedConfig only keeps the degree totals of the regulations
func relaxedConfig(bachelorMin int) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "regulations:\n")
	fmt.Fprintf(&builder, "  bachelor_credits: {min: %d, max: 100}\n", bachelorMin)
	fmt.Fprintf(&builder, "  master_credits: {min: 0, max: 100}\n")
	for _, key := range []string{"overlap_ceiling", "bachelor_root_lectures", "master_root_lectures", "master_lab_minimum", "master_seminar_minimum", "speciality_minimum"} {
		fmt.Fprintf(&builder, "  %v: 0\n", key)
	}
	fmt.Fprintf(&builder, "  require_introductory_seminar: false\n")
	fmt.Fprintf(&builder, "  speciality_floors:\n")
	for _, name := range catalog.SpecialityNames() {
		fmt.Fprintf(&builder, "    %v: 0\n", name)
	}
	return builder.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	return file
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.Execute()
	return out.String(), err
}

func TestSolveCommand(t *testing.T) {
	//** Arrange
	config := writeFile(t, "studyplan.yaml", relaxedConfig(0))
	input := writeFile(t, "catalog.yaml", catalogFile)

	//** Act
	out, err := execute(t, "--config", config, "solve", input, "--format", "json", "--verify")

	//** Assert
	require.NoError(t, err)
	var export render.Export
	require.NoError(t, json.Unmarshal([]byte(out), &export))
	assert.Equal(t, "exhausted", export.Outcome)
	assert.Len(t, export.Plans, 2)
}

func TestSolveCommandWithBatchSolver(t *testing.T) {
	//** Arrange
	config := writeFile(t, "studyplan.yaml", relaxedConfig(0))
	input := writeFile(t, "catalog.yaml", catalogFile)

	//** Act
	out, err := execute(t, "--config", config, "--solver", "gini-batch", "solve", input)

	//** Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Plan #2")
	assert.Contains(t, out, "2 distinct plans (2 raw), enumeration exhausted")
}

func TestCheckCommand(t *testing.T) {
	//** Arrange
	config := writeFile(t, "studyplan.yaml", relaxedConfig(0))
	input := writeFile(t, "catalog.yaml", catalogFile)
	dimacs := filepath.Join(t.TempDir(), "instance.cnf")

	//** Act
	out, err := execute(t, "--config", config, "check", input, "--dimacs", dimacs)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "sat\n", out)
	content, err := os.ReadFile(dimacs)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "p cnf "))
}

func TestCheckCommandReportsConflicts(t *testing.T) {
	//** Arrange
	config := writeFile(t, "studyplan.yaml", relaxedConfig(60))
	input := writeFile(t, "catalog.yaml", catalogFile)

	//** Act
	out, err := execute(t, "--config", config, "check", input)

	//** Assert
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "unsat\n"))
	assert.Contains(t, out, "bachelor totals between 60 and 100 half-credits")
}

func TestInvalidCatalogFails(t *testing.T) {
	//** Arrange
	input := writeFile(t, "catalog.json", `{"modules": [{"id": "x", "type": "workshop"}]}`)

	//** Act
	_, err := execute(t, "solve", input)

	//** Assert
	var configuration *catalog.ConfigurationError
	assert.ErrorAs(t, err, &configuration)
}
