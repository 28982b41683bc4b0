// Command inkwell sanitizes and formats rich-text markup from the command
// line, scripts and over HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// cli is the state shared by every subcommand.
type cli struct {
	configPath string
	logLevel   string
	logOutput  io.Writer

	settings config.Settings
	logger   *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "inkwell",
		Short:         "Whitelisted rich-text sanitizing and formatting",
		Long:          `Inkwell cleans HTML against a constrained markup model and applies formatting operations to it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "settings file (TOML or YAML)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newCleanCmd(c),
		newFormatCmd(c),
		newRunCmd(c),
		newServeCmd(c),
		newWatchCmd(c),
		newVersionCmd(),
	)
	return root
}

// setup loads settings and builds the logger. The flag level wins over
// the settings file.
func (c *cli) setup(cmd *cobra.Command) error {
	s, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.settings = s

	level := s.Logging.Level
	if c.logLevel != "" {
		level = c.logLevel
	}
	out := c.logOutput
	if out == nil {
		out = cmd.ErrOrStderr()
	}
	c.logger, err = logging.New(logging.Config{
		Level:       logging.ParseLevel(level),
		Development: s.Logging.Development,
		Output:      out,
	})
	if err != nil {
		return err
	}
	c.logger.Debug("settings loaded",
		zap.String("config", c.configPath),
		zap.String("default_block", s.Editing.DefaultBlock()),
		zap.Strings("whitelist", s.Editing.Whitelist()),
	)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inkwell %s (%s)\n", strings.TrimSpace(version), commit)
		},
	}
}
