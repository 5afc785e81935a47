package main

import (
	"fmt"
	"os"

	"github.com/limaJavier/studyplan/internal/config"
	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// settings is the configuration loaded before any subcommand runs
var settings config.Config

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "studyplan",
		Short:         "Enumerate every study plan a catalog admits",
		Long:          "studyplan compiles a module catalog and the degree regulations into constraints and lists every distinct plan that satisfies them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			file, _ := cmd.Flags().GetString("config")
			if err := config.Init(file); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			settings = cfg
			logrus.SetLevel(cfg.Level())
			logrus.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default .studyplan.yaml)")
	flags.String("solver", "gini", fmt.Sprintf("SAT backend, one of %v", config.Solvers))
	flags.Duration("timeout", 0, "time limit of a single satisfiability check (0 means none)")
	flags.String("log-level", "info", "logging level")
	bindFlags(root, map[string]string{
		"solver":    "solver",
		"timeout":   "timeout",
		"log_level": "log-level",
	})

	root.AddCommand(newSolveCommand(), newCheckCommand(), newWatchCommand())
	return root
}

// bindFlags lets the given flags override the configuration keys they are mapped to
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		lookup := cmd.PersistentFlags().Lookup(flag)
		if lookup == nil {
			lookup = cmd.Flags().Lookup(flag)
		}
		if err := viper.BindPFlag(key, lookup); err != nil {
			logrus.WithError(err).Fatalf("cannot bind flag %v", flag)
		}
	}
}

// loadCatalog reads a catalog file, or returns the bundled sample catalog when no file is given
func loadCatalog(file string) (*catalog.Catalog, error) {
	if file == "" {
		logrus.Debug("using the bundled sample catalog")
		return catalog.SampleCatalog()
	}
	return catalog.LoadFile(file)
}

func catalogArgument(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
