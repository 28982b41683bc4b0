package config

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Capability names a group of formatting operations sharing a tag set.
type Capability string

// Known capabilities.
const (
	Bold          Capability = "bold"
	Italic        Capability = "italic"
	BlockFormat   Capability = "block-format"
	OrderedList   Capability = "ordered-list"
	UnorderedList Capability = "unordered-list"
	Link          Capability = "link"
)

// AllCapabilities lists every known capability in a stable order.
func AllCapabilities() []Capability {
	return []Capability{Bold, Italic, BlockFormat, OrderedList, UnorderedList, Link}
}

// Capabilities maps a capability to the tag names it may produce.
type Capabilities map[Capability][]string

// DefaultCapabilities returns the stock capability table.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		Bold:          {"b", "strong"},
		Italic:        {"i", "em"},
		BlockFormat:   {"p", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre"},
		OrderedList:   {"ol", "li"},
		UnorderedList: {"ul", "li"},
		Link:          {"a"},
	}
}

// Defaults for the scalar settings.
const (
	DefaultBlock    = "p"
	DefaultMarker   = "\u200b"
	DefaultDebounce = 150 * time.Millisecond
)

// DefaultEnterExclusions are block tags whose Enter behavior is left to the
// host.
func DefaultEnterExclusions() []string {
	return []string{"li", "blockquote", "pre"}
}

// Config is an immutable editing configuration.
type Config struct {
	caps            map[Capability][]string
	whitelist       map[string]struct{}
	enterExclusions map[string]struct{}
	defaultBlock    string
	marker          string
	debounce        time.Duration
}

// Option configures a Config.
type Option func(*Config)

// WithDefaultBlock sets the tag used to wrap orphaned inline content.
func WithDefaultBlock(tag string) Option {
	return func(c *Config) {
		c.defaultBlock = strings.ToLower(tag)
	}
}

// WithEnterExclusions replaces the enter-key exclusion tags.
func WithEnterExclusions(tags ...string) Option {
	return func(c *Config) {
		c.enterExclusions = toSet(tags)
	}
}

// WithMarker sets the boundary marker text.
func WithMarker(marker string) Option {
	return func(c *Config) {
		c.marker = marker
	}
}

// WithDebounce sets the selection-change debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.debounce = d
	}
}

// New builds a Config from caps. Every capability must be known and have at
// least one tag, and the default block must be whitelisted.
func New(caps Capabilities, opts ...Option) (*Config, error) {
	c := &Config{
		caps:            make(map[Capability][]string, len(caps)),
		whitelist:       make(map[string]struct{}),
		enterExclusions: toSet(DefaultEnterExclusions()),
		defaultBlock:    DefaultBlock,
		marker:          DefaultMarker,
		debounce:        DefaultDebounce,
	}
	known := toSet(capNames(AllCapabilities()))
	for name, tags := range caps {
		if _, ok := known[string(name)]; !ok {
			return nil, fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownCapability, name)
		}
		if len(tags) == 0 {
			return nil, fmt.Errorf("%w: capability %q has no tags", ErrInvalidConfig, name)
		}
		norm := make([]string, 0, len(tags))
		for _, tag := range tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" {
				return nil, fmt.Errorf("%w: capability %q has an empty tag", ErrInvalidConfig, name)
			}
			norm = append(norm, tag)
			c.whitelist[tag] = struct{}{}
		}
		c.caps[name] = norm
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, ok := c.whitelist[c.defaultBlock]; !ok {
		return nil, fmt.Errorf("%w: default block %q is not whitelisted", ErrInvalidConfig, c.defaultBlock)
	}
	if c.marker == "" {
		return nil, fmt.Errorf("%w: empty boundary marker", ErrInvalidConfig)
	}
	if c.debounce < 0 {
		return nil, fmt.Errorf("%w: negative debounce %s", ErrInvalidConfig, c.debounce)
	}
	return c, nil
}

// Default returns the stock configuration.
func Default() *Config {
	c, err := New(DefaultCapabilities())
	if err != nil {
		panic(err)
	}
	return c
}

// Tags returns a copy of the tag set for capability.
func (c *Config) Tags(capability Capability) []string {
	return append([]string(nil), c.caps[capability]...)
}

// Has reports whether capability is configured.
func (c *Config) Has(capability Capability) bool {
	_, ok := c.caps[capability]
	return ok
}

// Allowed reports whether tag may appear in an editable root.
func (c *Config) Allowed(tag string) bool {
	_, ok := c.whitelist[tag]
	return ok
}

// Whitelist returns the sorted union of all capability tag sets.
func (c *Config) Whitelist() []string {
	out := make([]string, 0, len(c.whitelist))
	for tag := range c.whitelist {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// DefaultBlock returns the tag used to wrap orphaned inline content.
func (c *Config) DefaultBlock() string {
	return c.defaultBlock
}

// EnterExcluded reports whether tag keeps the host's Enter behavior.
func (c *Config) EnterExcluded(tag string) bool {
	_, ok := c.enterExclusions[tag]
	return ok
}

// Marker returns the boundary marker text.
func (c *Config) Marker() string {
	return c.marker
}

// Debounce returns the selection-change debounce delay.
func (c *Config) Debounce() time.Duration {
	return c.debounce
}

func toSet(tags []string) map[string]struct{} {
	out := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		out[strings.ToLower(t)] = struct{}{}
	}
	return out
}

func capNames(caps []Capability) []string {
	out := make([]string, len(caps))
	for i, c := range caps {
		out[i] = string(c)
	}
	return out
}
