package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/studyplan/internal/config"
	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/limaJavier/studyplan/pkg/planner"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const sampleName = "sample"

type CatalogMetadata struct {
	Name      string
	Semesters int
	Modules   int
	catalog   *catalog.Catalog
}

type BenchmarkResult struct {
	Solver    string  `csv:"solver"`
	Catalog   string  `csv:"catalog"`
	Semesters int     `csv:"semesters"`
	Modules   int     `csv:"modules"`
	Duration  int64   `csv:"duration_ms"`
	Memory    float32 `csv:"allocated_mb"`
	Raw       int     `csv:"raw"`
	Distinct  int     `csv:"distinct"`
	Result    string  `csv:"result"`
}

func main() {
	if err := newBenchmarkCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newBenchmarkCommand() *cobra.Command {
	var (
		configFile string
		out        string
		limit      int
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:          "benchmark [catalog-directory]",
		Short:        "Time the enumeration of every catalog in a directory with every available solver",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(configFile); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.Limit, cfg.Timeout = limit, timeout

			directory := ""
			if len(args) > 0 {
				directory = args[0]
			}
			catalogs, err := getCatalogs(directory)
			if err != nil {
				return err
			}

			results := make([]*BenchmarkResult, 0, len(catalogs)*len(config.Solvers))
			for _, metadata := range catalogs {
				for _, solver := range getSolvers(cfg) {
					logrus.Infof("Benchmarking catalog %q with solver %q", metadata.Name, solver)
					cfg.Solver = solver
					result, err := measure(cmd.Context(), cfg, metadata)
					if err != nil {
						return err
					}
					results = append(results, result)
				}
			}
			return toCsv(results, out)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file holding the regulations")
	flags.StringVarP(&out, "out", "o", "benchmark_results.csv", "CSV file the measurements are written to")
	flags.IntVar(&limit, "limit", 100, "raw solutions after which an enumeration is stopped (0 means all)")
	flags.DurationVar(&timeout, "timeout", time.Minute, "time limit of a single satisfiability check")
	return cmd
}

// getCatalogs loads every catalog file of a directory, or the bundled sample catalog
func getCatalogs(directory string) ([]CatalogMetadata, error) {
	newMetadata := func(name string, c *catalog.Catalog) CatalogMetadata {
		return CatalogMetadata{Name: name, Semesters: c.SemesterCount(), Modules: len(c.Modules()), catalog: c}
	}
	if directory == "" {
		c, err := catalog.SampleCatalog()
		if err != nil {
			return nil, err
		}
		return []CatalogMetadata{newMetadata(sampleName, c)}, nil
	}

	files, err := os.ReadDir(directory)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read directory")
	}
	catalogs := make([]CatalogMetadata, 0, len(files))
	for _, file := range files {
		if file.IsDir() || !lo.Contains([]string{".json", ".toml", ".yaml", ".yml"}, filepath.Ext(file.Name())) {
			continue
		}
		c, err := catalog.LoadFile(filepath.Join(directory, file.Name()))
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, newMetadata(file.Name(), c))
	}
	return catalogs, nil
}

// getSolvers lists the configured solvers whose binaries can be found
func getSolvers(cfg config.Config) []string {
	paths := map[string]string{
		"kissat":  cfg.KissatPath,
		"cadical": cfg.CadicalPath,
		"minisat": cfg.MinisatPath,
	}
	return lo.Filter(config.Solvers, func(solver string, _ int) bool {
		path, external := paths[solver]
		if !external {
			return true
		}
		_, err := exec.LookPath(path)
		return err == nil
	})
}

func measure(ctx context.Context, cfg config.Config, metadata CatalogMetadata) (*BenchmarkResult, error) {
	factory, err := cfg.Factory()
	if err != nil {
		return nil, err
	}
	regulations, err := cfg.PlannerRegulations()
	if err != nil {
		return nil, err
	}
	p := planner.New(factory, regulations, planner.WithLimit(cfg.Limit))

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()
	result, err := p.Build(ctx, metadata.catalog)
	duration := time.Since(start)
	runtime.ReadMemStats(&after)
	if err != nil {
		return nil, errors.Wrapf(err, "an error occurred at catalog %q using solver %q", metadata.Name, cfg.Solver)
	}

	return &BenchmarkResult{
		Solver:    cfg.Solver,
		Catalog:   metadata.Name,
		Semesters: metadata.Semesters,
		Modules:   metadata.Modules,
		Duration:  duration.Milliseconds(),
		Memory:    float32(after.TotalAlloc-before.TotalAlloc) / (1024 * 1024),
		Raw:       result.Raw,
		Distinct:  result.Distinct,
		Result:    result.Outcome.String(),
	}, nil
}

func toCsv(results []*BenchmarkResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "cannot create CSV file")
	}
	defer file.Close()
	return errors.Wrap(gocsv.MarshalFile(&results, file), "cannot write CSV records")
}
