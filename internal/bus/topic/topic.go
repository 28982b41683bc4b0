package topic

import (
	"errors"
	"fmt"
	"strings"
)

// Topic is a dotted message key such as "format.apply" or "selection.changed".
// Handler tables use concrete topics; conceal lists may use wildcards.
type Topic string

const (
	// WildcardSingle stands for exactly one segment in a pattern.
	WildcardSingle = "*"
	// WildcardMulti stands for any run of segments, including none.
	WildcardMulti = "**"
	// Separator splits segments.
	Separator = "."
)

// ErrInvalid is returned by Parse for malformed keys.
var ErrInvalid = errors.New("invalid topic")

// Parse validates s as a concrete message key.
func Parse(s string) (Topic, error) {
	t := Topic(s)
	if !t.IsValidKey() {
		return "", fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return t, nil
}

func (t Topic) String() string { return string(t) }

// Segments splits the topic on Separator. The empty topic has no segments.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Namespace is the first segment: "selection" for "selection.changed".
func (t Topic) Namespace() string {
	ns, _, _ := strings.Cut(string(t), Separator)
	return ns
}

// IsPattern reports whether any segment is a wildcard.
func (t Topic) IsPattern() bool {
	for _, seg := range t.Segments() {
		if seg == WildcardSingle || seg == WildcardMulti {
			return true
		}
	}
	return false
}

// IsValid reports whether t is non-empty with no empty segments.
func (t Topic) IsValid() bool {
	return t != "" && !strings.Contains(string(t), Separator+Separator) &&
		!strings.HasPrefix(string(t), Separator) && !strings.HasSuffix(string(t), Separator)
}

// IsValidKey reports whether t can key a handler table.
func (t Topic) IsValidKey() bool {
	return t.IsValid() && !t.IsPattern()
}

// Matches reports whether t is covered by pattern.
func (t Topic) Matches(pattern Topic) bool {
	return globSegments(t.Segments(), pattern.Segments())
}

// globSegments is a segment-wise glob with single-point backtracking on
// the most recent "**".
func globSegments(segs, pat []string) bool {
	si, pi := 0, 0
	star, mark := -1, 0
	for si < len(segs) {
		switch {
		case pi < len(pat) && pat[pi] == WildcardMulti:
			star, mark = pi, si
			pi++
		case pi < len(pat) && (pat[pi] == WildcardSingle || pat[pi] == segs[si]):
			si++
			pi++
		case star >= 0:
			mark++
			si, pi = mark, star+1
		default:
			return false
		}
	}
	for pi < len(pat) && pat[pi] == WildcardMulti {
		pi++
	}
	return pi == len(pat)
}

// Join builds a topic from segments.
func Join(segments ...string) Topic {
	return Topic(strings.Join(segments, Separator))
}
