package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/limaJavier/studyplan/internal/metrics"
	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/limaJavier/studyplan/pkg/planner"
	"github.com/limaJavier/studyplan/pkg/render"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newSolveCommand() *cobra.Command {
	var (
		out    string
		verify bool
	)
	cmd := &cobra.Command{
		Use:   "solve [catalog-file]",
		Short: "Enumerate the distinct plans of a catalog",
		Long:  "Enumerate the distinct plans of a catalog file (JSON, TOML or YAML). Without a file the bundled sample catalog is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := loadCatalog(catalogArgument(args))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				file, err := os.Create(out)
				if err != nil {
					return errors.Wrap(err, "cannot create output file")
				}
				defer file.Close()
				w = file
			}
			return solve(ctx, w, c, verify)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&out, "out", "o", "", "file the plans are written to (default standard output)")
	flags.BoolVar(&verify, "verify", false, "re-check every plan against the regulations")
	flags.Int("limit", 0, "stop after this many raw solutions (0 means all)")
	flags.String("format", string(render.FormatText), "output format: text, json, toml or csv")
	flags.String("metrics-addr", "", "address serving Prometheus metrics while solving, e.g. :9090")
	bindFlags(cmd, map[string]string{
		"limit":        "limit",
		"format":       "format",
		"metrics_addr": "metrics-addr",
	})
	return cmd
}

func newPlanner(recorder *metrics.Recorder) (planner.Planner, error) {
	factory, err := settings.Factory()
	if err != nil {
		return nil, err
	}
	regulations, err := settings.PlannerRegulations()
	if err != nil {
		return nil, err
	}
	return planner.New(factory, regulations,
		planner.WithLogger(logrus.StandardLogger()),
		planner.WithObserver(recorder),
		planner.WithLimit(settings.Limit),
	), nil
}

// solve runs one enumeration, serving metrics alongside it when an address is configured
func solve(ctx context.Context, w io.Writer, c *catalog.Catalog, verify bool) error {
	recorder := metrics.NewRecorder()
	p, err := newPlanner(recorder)
	if err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	var result planner.Result
	group.Go(func() error {
		defer close(done)
		start := time.Now()
		built, err := p.Build(ctx, c)
		if err != nil {
			return err
		}
		result = built
		recorder.Finished(result)
		logrus.WithFields(logrus.Fields{
			"outcome":  result.Outcome,
			"distinct": result.Distinct,
			"elapsed":  time.Since(start).Round(time.Millisecond),
		}).Info("enumeration finished")
		return nil
	})
	if settings.MetricsAddr != "" {
		server := &http.Server{Addr: settings.MetricsAddr, Handler: recorder.Handler(), ReadHeaderTimeout: 5 * time.Second}
		group.Go(func() error {
			logrus.WithField("addr", settings.MetricsAddr).Info("serving metrics")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "metrics server failed")
			}
			return nil
		})
		group.Go(func() error {
			<-done
			return server.Shutdown(context.Background())
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	if verify {
		invalid := 0
		for i, solution := range result.Solutions {
			if err := p.Verify(solution, c); err != nil {
				invalid++
				logrus.WithField("plan", i+1).Error(err)
			}
		}
		if invalid > 0 {
			return errors.Errorf("%d of %d plans fail verification", invalid, len(result.Solutions))
		}
		logrus.WithField("plans", len(result.Solutions)).Info("every plan verified")
	}

	format, err := render.ParseFormat(settings.Format)
	if err != nil {
		return err
	}
	return render.Write(w, format, result, c)
}
