package planner

import (
	"context"

	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/limaJavier/studyplan/pkg/sat"
	"github.com/pkg/errors"
)

type Planner interface {
	// Build enumerates every distinct plan of a catalog within one oracle session
	Build(ctx context.Context, c *catalog.Catalog) (Result, error)

	Verify(solution Solution, c *catalog.Catalog) error
}

// Result holds the distinct plans found along with how the enumeration ended
type Result struct {
	Solutions []Solution
	Raw       int
	Distinct  int
	Outcome   Outcome
	Core      []string
}

type satPlanner struct {
	factory     sat.Factory
	regulations Regulations
	opts        []Option
}

func New(factory sat.Factory, regulations Regulations, opts ...Option) Planner {
	return &satPlanner{
		factory:     factory,
		regulations: regulations.clone(),
		opts:        opts,
	}
}

func (planner *satPlanner) Build(ctx context.Context, c *catalog.Catalog) (result Result, err error) {
	logger := newSettings(planner.opts).logger

	oracle, err := planner.factory()
	if err != nil {
		return Result{}, errors.Wrap(err, "cannot open oracle session")
	}
	defer func() {
		if closeErr := oracle.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "cannot close oracle session")
		}
	}()

	//** Compile catalog
	compilation, err := Compile(oracle, c, planner.regulations)
	if err != nil {
		return Result{}, err
	}
	logger.WithField("constraints", len(compilation.Constraints)).Info("catalog compiled")

	//** Enumerate solutions
	enumeration, err := Enumerate(ctx, oracle, compilation, planner.opts...)

	//** Remove duplicates
	deduplication := Dedupe(enumeration.Solutions)
	logger.WithField("raw", deduplication.Raw).WithField("distinct", deduplication.Distinct).Info("plans deduplicated")

	return Result{
		Solutions: deduplication.Solutions,
		Raw:       deduplication.Raw,
		Distinct:  deduplication.Distinct,
		Outcome:   enumeration.Outcome,
		Core:      enumeration.Core,
	}, err
}

func (planner *satPlanner) Verify(solution Solution, c *catalog.Catalog) error {
	return Verify(solution, c, planner.regulations)
}
