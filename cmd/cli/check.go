package main

import (
	"fmt"
	"os"

	"github.com/limaJavier/studyplan/pkg/planner"
	"github.com/limaJavier/studyplan/pkg/sat"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	var dimacs string
	cmd := &cobra.Command{
		Use:   "check [catalog-file]",
		Short: "Tell whether any plan exists, and which rules conflict if none does",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(catalogArgument(args))
			if err != nil {
				return err
			}
			regulations, err := settings.PlannerRegulations()
			if err != nil {
				return err
			}

			var oracle sat.Oracle
			if dimacs != "" {
				// Only batch sessions keep the instance they solve
				oracle = sat.NewBatchOracle(sat.NewGiniSolver(settings.Timeout))
			} else {
				factory, err := settings.Factory()
				if err != nil {
					return err
				}
				if oracle, err = factory(); err != nil {
					return err
				}
			}
			defer oracle.Close()

			compilation, err := planner.Compile(oracle, c, regulations)
			if err != nil {
				return err
			}
			for _, constraint := range compilation.Constraints {
				if err := oracle.Assert(constraint.Expr, constraint.Label); err != nil {
					return errors.Wrapf(err, "cannot assert %q", constraint.Label)
				}
			}
			logrus.WithFields(logrus.Fields{
				"modules":     len(compilation.Bundles),
				"constraints": len(compilation.Constraints),
			}).Info("catalog compiled")

			if dimacs != "" {
				instance, err := sat.Instance(oracle)
				if err != nil {
					return err
				}
				if err := os.WriteFile(dimacs, []byte(instance.ToDIMACS()), 0o644); err != nil {
					return errors.Wrap(err, "cannot write DIMACS file")
				}
				logrus.WithFields(logrus.Fields{
					"variables": instance.Variables,
					"clauses":   len(instance.Clauses),
				}).Infof("instance written to %v", dimacs)
			}

			status, err := oracle.CheckSat()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, status)
			if status != sat.Unsatisfiable {
				return nil
			}
			core, err := oracle.UnsatCore()
			if err != nil {
				return err
			}
			for _, label := range core {
				fmt.Fprintf(w, "  - %v\n", label)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dimacs, "dimacs", "", "also write the compiled instance to this file in DIMACS format")
	return cmd
}
