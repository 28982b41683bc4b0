package watch

import (
	"context"
	"fmt"
	"os"

	"github.com/dshills/inkwell/internal/sanitize"
)

// CleanFile sanitizes the markup file at path in place. The file is only
// rewritten when cleaning changed it, so a rewrite does not trigger another
// round.
func CleanFile(c *sanitize.Cleaner, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	out, err := c.CleanString(string(raw))
	if err != nil {
		return false, fmt.Errorf("clean %s: %w", path, err)
	}
	if out == string(raw) {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

// Cleaner returns a Handler running CleanFile with c.
func Cleaner(c *sanitize.Cleaner) Handler {
	return func(_ context.Context, path string) error {
		_, err := CleanFile(c, path)
		return err
	}
}
