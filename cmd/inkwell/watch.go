package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dshills/inkwell/internal/sanitize"
	"github.com/dshills/inkwell/internal/watch"
)

func newWatchCmd(c *cli) *cobra.Command {
	var delay = watch.DefaultDelay
	cmd := &cobra.Command{
		Use:   "watch files...",
		Short: "Re-sanitize files whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cleaner := sanitize.New(c.settings.Editing, sanitize.WithLogger(c.logger.Named("sanitize")))
			w, err := watch.New(watch.Cleaner(cleaner),
				watch.WithDelay(delay),
				watch.WithLogger(c.logger.Named("watch")),
			)
			if err != nil {
				return err
			}
			for _, path := range args {
				if _, err := watch.CleanFile(cleaner, path); err != nil {
					w.Close()
					return err
				}
				if err := w.Add(path); err != nil {
					w.Close()
					return err
				}
			}
			err = w.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", delay, "quiet period before a changed file is cleaned")
	return cmd
}
