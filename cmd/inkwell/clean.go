package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/inkwell/internal/sanitize"
	"github.com/dshills/inkwell/internal/watch"
)

func newCleanCmd(c *cli) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "clean [files...]",
		Short: "Sanitize markup files, or stdin when no files are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			cleaner := sanitize.New(c.settings.Editing, sanitize.WithLogger(c.logger.Named("sanitize")))
			if len(args) == 0 {
				return cleanStream(cleaner, cmd.InOrStdin(), cmd.OutOrStdout())
			}
			if write {
				return cleanInPlace(cmd, c.logger, cleaner, args)
			}
			return cleanToStdout(cmd, cleaner, args)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite files in place")
	return cmd
}

func cleanStream(cleaner *sanitize.Cleaner, r io.Reader, w io.Writer) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	out, err := cleaner.CleanString(string(raw))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func cleanInPlace(cmd *cobra.Command, logger *zap.Logger, cleaner *sanitize.Cleaner, paths []string) error {
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			changed, err := watch.CleanFile(cleaner, path)
			if err != nil {
				return err
			}
			logger.Info("cleaned", zap.String("path", path), zap.Bool("changed", changed))
			return nil
		})
	}
	return g.Wait()
}

// cleanToStdout cleans files concurrently and prints them in argument order.
func cleanToStdout(cmd *cobra.Command, cleaner *sanitize.Cleaner, paths []string) error {
	out := make([]string, len(paths))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			out[i], err = cleaner.CleanString(string(raw))
			if err != nil {
				return fmt.Errorf("clean %s: %w", path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, s := range out {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), s); err != nil {
			return err
		}
	}
	return nil
}
