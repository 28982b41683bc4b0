package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/dshills/inkwell/internal/config/loader"
)

// Settings is everything a settings file can hold.
type Settings struct {
	// Editing is the editing configuration.
	Editing *Config
	// Logging configures the process logger.
	Logging LoggingSettings
	// Server configures the HTTP API.
	Server ServerSettings
}

// LoggingSettings configures the process logger.
type LoggingSettings struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// fileSettings is the decoded shape of a settings file.
type fileSettings struct {
	Capabilities    map[string][]string `mapstructure:"capabilities"`
	DefaultBlock    string              `mapstructure:"default_block"`
	EnterExclusions []string            `mapstructure:"enter_exclusions"`
	Marker          string              `mapstructure:"marker"`
	Debounce        time.Duration       `mapstructure:"debounce"`
	Logging         LoggingSettings     `mapstructure:"logging"`
	Server          ServerSettings      `mapstructure:"server"`
}

// DefaultSettings returns the stock settings.
func DefaultSettings() Settings {
	return Settings{
		Editing: Default(),
		Logging: LoggingSettings{Level: "info"},
		Server: ServerSettings{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Load reads path (TOML or YAML by extension) and applies INKWELL_*
// environment overrides. An empty path or a missing file yields defaults
// plus overrides.
func Load(path string) (Settings, error) {
	return LoadFrom(loader.DefaultFS(), path, loader.NewEnvLoader(loader.DefaultEnvPrefix))
}

// LoadFrom is Load with an explicit file system and environment loader. A
// nil env skips environment overrides.
func LoadFrom(fsys loader.FileSystem, path string, env loader.Loader) (Settings, error) {
	raw := map[string]any{}
	if path != "" {
		fileRaw, err := loader.ForPath(fsys, path).Load()
		if err != nil {
			return Settings{}, &LoadError{Path: path, Err: err}
		}
		raw = loader.Merge(raw, fileRaw)
	}
	if env != nil {
		envRaw, err := env.Load()
		if err != nil {
			return Settings{}, &LoadError{Path: path, Err: err}
		}
		raw = loader.Merge(raw, envRaw)
	}
	s, err := Decode(raw)
	if err != nil {
		return Settings{}, &LoadError{Path: path, Err: err}
	}
	return s, nil
}

// Decode builds Settings from a raw map, starting from defaults.
func Decode(raw map[string]any) (Settings, error) {
	def := DefaultSettings()
	fs := fileSettings{
		DefaultBlock:    DefaultBlock,
		EnterExclusions: DefaultEnterExclusions(),
		Marker:          DefaultMarker,
		Debounce:        DefaultDebounce,
		Logging:         def.Logging,
		Server:          def.Server,
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &fs,
	})
	if err != nil {
		return Settings{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	caps := DefaultCapabilities()
	for name, tags := range fs.Capabilities {
		caps[Capability(name)] = tags
	}
	editing, err := New(caps,
		WithDefaultBlock(fs.DefaultBlock),
		WithEnterExclusions(fs.EnterExclusions...),
		WithMarker(fs.Marker),
		WithDebounce(fs.Debounce),
	)
	if err != nil {
		return Settings{}, err
	}
	return Settings{Editing: editing, Logging: fs.Logging, Server: fs.Server}, nil
}
