package format

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Options describe one formatting request.
type Options struct {
	Style  string `mapstructure:"style" json:"style"`
	Toggle bool   `mapstructure:"toggle" json:"toggle"`
	Href   string `mapstructure:"href" json:"href,omitempty"`
}

// DecodeOptions accepts Options, *Options, a style name or a generic map as
// produced by JSON or Lua callers.
func DecodeOptions(args any) (Options, error) {
	switch v := args.(type) {
	case Options:
		return v, nil
	case *Options:
		if v == nil {
			return Options{}, ErrInvalidOptions
		}
		return *v, nil
	case string:
		return Options{Style: v, Toggle: true}, nil
	case nil:
		return Options{}, ErrInvalidOptions
	}

	var opts Options
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if err := dec.Decode(args); err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if opts.Style == "" {
		return Options{}, fmt.Errorf("%w: missing style", ErrInvalidOptions)
	}
	return opts, nil
}

// NormalizeHref prefixes targets that carry no scheme with http://.
func NormalizeHref(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if hasScheme(href) || strings.HasPrefix(href, "/") || strings.HasPrefix(href, "#") {
		return href
	}
	return "http://" + href
}

func hasScheme(s string) bool {
	i := strings.IndexByte(s, ':')
	if i <= 0 {
		return false
	}
	for j, r := range s[:i] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	if strings.HasPrefix(s[i+1:], "//") {
		return true
	}
	switch strings.ToLower(s[:i]) {
	case "mailto", "tel", "ftp", "http", "https":
		return true
	}
	return false
}
