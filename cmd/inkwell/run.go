package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/editor"
	"github.com/dshills/inkwell/internal/script"
)

func newRunCmd(c *cli) *cobra.Command {
	var (
		input     string
		printHTML bool
	)
	cmd := &cobra.Command{
		Use:   "run script.lua",
		Short: "Run a Lua script against an editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := editor.New(dom.NewRoot(),
				editor.WithConfig(c.settings.Editing),
				editor.WithLogger(c.logger),
			)
			if err != nil {
				return err
			}
			defer ed.Close()
			if input != "" {
				raw, err := os.ReadFile(input)
				if err != nil {
					return err
				}
				if err := ed.Load(string(raw)); err != nil {
					return err
				}
			}

			st := script.NewState(
				script.WithOutput(cmd.OutOrStdout()),
				script.WithLogger(c.logger.Named("script")),
			)
			defer st.Close()
			st.Bind(ed)
			if err := st.RunFile(cmd.Context(), args[0]); err != nil {
				return err
			}
			if printHTML {
				out, err := ed.HTML()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "markup file loaded before the script runs")
	cmd.Flags().BoolVarP(&printHTML, "print", "p", false, "print the resulting markup")
	return cmd
}
