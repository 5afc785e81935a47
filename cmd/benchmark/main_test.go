package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/studyplan/internal/config"
	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/limaJavier/studyplan/pkg/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tinyCatalog = `{
  "semesters": [{"phases": ["bachelor"], "season": "winter", "max_credits": 64}],
  "modules": [{"id": "A", "credits": 10}, {"id": "B", "credits": 10}]
}`

func relaxedConfig() config.Config {
	floors := make(map[string]int)
	for _, name := range catalog.SpecialityNames() {
		floors[name] = 0
	}
	return config.Config{
		Solver: "gini",
		Regulations: config.RegulationsConfig{
			BachelorCredits:  planner.CreditRange{Min: 0, Max: 100},
			MasterCredits:    planner.CreditRange{Min: 0, Max: 100},
			SpecialityFloors: floors,
		},
	}
}

func TestGetCatalogs(t *testing.T) {
	//** Arrange
	directory := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(directory, "tiny.json"), []byte(tinyCatalog), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(directory, "notes.txt"), []byte("ignored"), 0o600))

	//** Act
	catalogs, err := getCatalogs(directory)
	sample, sampleErr := getCatalogs("")

	//** Assert
	require.NoError(t, err)
	require.Len(t, catalogs, 1)
	assert.Equal(t, "tiny.json", catalogs[0].Name)
	assert.Equal(t, 1, catalogs[0].Semesters)
	assert.Equal(t, 2, catalogs[0].Modules)

	require.NoError(t, sampleErr)
	require.Len(t, sample, 1)
	assert.Equal(t, sampleName, sample[0].Name)
}

func TestGetSolversAlwaysIncludesInProcessSolvers(t *testing.T) {
	//** Arrange
	cfg := relaxedConfig()
	cfg.KissatPath, cfg.CadicalPath, cfg.MinisatPath = "/nonexistent/kissat", "/nonexistent/cadical", "/nonexistent/minisat"

	//** Act
	solvers := getSolvers(cfg)

	//** Assert
	assert.Equal(t, []string{"gini", "gini-batch"}, solvers)
}

func TestMeasureAndExport(t *testing.T) {
	//** Arrange
	directory := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(directory, "tiny.json"), []byte(tinyCatalog), 0o600))
	catalogs, err := getCatalogs(directory)
	require.NoError(t, err)
	out := filepath.Join(directory, "results.csv")

	//** Act
	result, err := measure(context.Background(), relaxedConfig(), catalogs[0])
	require.NoError(t, err)
	err = toCsv([]*BenchmarkResult{result}, out)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, 4, result.Raw)
	assert.Equal(t, 4, result.Distinct)
	assert.Equal(t, "exhausted", result.Result)

	var rows []*BenchmarkResult
	file, err := os.Open(out)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, gocsv.UnmarshalFile(file, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "tiny.json", rows[0].Catalog)
	assert.Equal(t, 4, rows[0].Distinct)
}
