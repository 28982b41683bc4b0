package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/editor"
	"github.com/dshills/inkwell/internal/format"
)

func newFormatCmd(c *cli) *cobra.Command {
	var (
		opts     format.Options
		sel      string
		noToggle bool
		write    bool
	)
	cmd := &cobra.Command{
		Use:   "format --style STYLE --select A:B [file]",
		Short: "Apply one formatting operation to a character range",
		Long: `Format loads the markup (a file or stdin), selects normalized characters
[A, B) and applies STYLE. Styles: ` + strings.Join(format.Styles(), ", ") + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := parseSelection(sel)
			if err != nil {
				return err
			}
			var raw []byte
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			ed, err := editor.New(dom.NewRoot(),
				editor.WithConfig(c.settings.Editing),
				editor.WithLogger(c.logger),
			)
			if err != nil {
				return err
			}
			defer ed.Close()
			if err := ed.Load(string(raw)); err != nil {
				return err
			}
			if err := ed.SelectText(from, to); err != nil {
				return err
			}
			opts.Toggle = !noToggle
			applied, err := ed.Apply(opts)
			if err != nil {
				return err
			}
			if !applied {
				return fmt.Errorf("%s cannot be applied to [%d, %d)", opts.Style, from, to)
			}

			out, err := ed.HTML()
			if err != nil {
				return err
			}
			if write && len(args) == 1 {
				return os.WriteFile(args[0], []byte(out), 0o644)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.Style, "style", "s", "", "formatting style")
	cmd.Flags().StringVar(&opts.Href, "href", "", "link target for the link style")
	cmd.Flags().StringVar(&sel, "select", "", "character range A:B")
	cmd.Flags().BoolVar(&noToggle, "no-toggle", false, "apply even when the style is already active")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the file in place")
	_ = cmd.MarkFlagRequired("style")
	_ = cmd.MarkFlagRequired("select")
	return cmd
}

// parseSelection parses "A:B"; a bare "A" is a caret.
func parseSelection(s string) (int, int, error) {
	a, b, found := strings.Cut(s, ":")
	from, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, fmt.Errorf("bad --select %q: %w", s, err)
	}
	if !found {
		return from, from, nil
	}
	to, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, fmt.Errorf("bad --select %q: %w", s, err)
	}
	if to < from {
		return 0, 0, errors.New("bad --select: end before start")
	}
	return from, to, nil
}
