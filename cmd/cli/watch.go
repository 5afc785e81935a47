package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Editors tend to write a file in several steps, so changes are only acted upon once they settle
const debounce = 200 * time.Millisecond

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch catalog-file",
		Short: "Re-enumerate the plans of a catalog file whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch(ctx, cmd.OutOrStdout(), args[0])
		},
	}
}

func watch(ctx context.Context, w io.Writer, file string) error {
	file, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "cannot create watcher")
	}
	defer watcher.Close()

	// The directory is watched since editors may replace the file instead of writing to it
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		return errors.Wrapf(err, "cannot watch %v", file)
	}

	run := func() {
		c, err := catalog.LoadFile(file)
		if err != nil {
			logrus.WithError(err).Error("cannot load catalog")
			return
		}
		if err := solve(ctx, w, c, false); err != nil {
			logrus.WithError(err).Error("enumeration failed")
		}
	}
	run()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != file || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logrus.WithError(err).Warn("watch error")
		case <-timer.C:
			logrus.WithField("file", file).Info("catalog changed")
			run()
		}
	}
}
