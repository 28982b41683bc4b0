// Package config holds the immutable editing configuration shared by the
// sanitizer, the formatting pipeline and the editor.
//
// A Config maps each formatting capability to the tag names it may produce.
// The whitelist of markup that may appear in an editable root is the union of
// those sets. Derived lookups are computed once in New and never change.
//
// Settings files are TOML or YAML (see the loader sub-package) and may be
// overridden by INKWELL_* environment variables:
//
//	default_block = "p"
//	enter_exclusions = ["li", "blockquote", "pre"]
//	debounce = "150ms"
//
//	[capabilities]
//	bold = ["b", "strong"]
//	link = ["a"]
//
//	[logging]
//	level = "info"
//
//	[server]
//	addr = ":8080"
package config
