package topic

import (
	"sort"
	"testing"
)

func TestMatcher_AddHas(t *testing.T) {
	m := NewMatcher()

	m.Add("selection.changed")
	m.Add("canvas.**")
	m.Add("canvas.**")
	m.Add("")

	if !m.Has("selection.changed") {
		t.Error("expected matcher to have selection.changed")
	}
	if !m.Has("canvas.**") {
		t.Error("expected matcher to have canvas.**")
	}
	if m.Has("canvas") {
		t.Error("expected matcher to not have canvas")
	}
	if m.Count() != 2 {
		t.Errorf("expected count 2, got %d", m.Count())
	}
}

func TestMatcher_Remove(t *testing.T) {
	m := NewMatcher()
	m.Add("selection.*")
	m.Add("editor.focus")

	m.Remove("selection.*")
	m.Remove("not.there")

	if m.Has("selection.*") {
		t.Error("expected selection.* to be removed")
	}
	if m.Match("selection.changed") {
		t.Error("removed pattern still matches")
	}
	if !m.Match("editor.focus") {
		t.Error("expected editor.focus to still match")
	}
	if m.Count() != 1 {
		t.Errorf("expected count 1, got %d", m.Count())
	}
}

func TestMatcher_Match(t *testing.T) {
	m := NewMatcher()
	m.Add("canvas.**")
	m.Add("*.blur")
	m.Add("format.apply")

	tests := []struct {
		topic Topic
		match bool
	}{
		{"canvas", true},
		{"canvas.ready", true},
		{"canvas.ready.late", true},
		{"editor.blur", true},
		{"editor.focus", false},
		{"format.apply", true},
		{"format.apply.now", false},
		{"format", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := m.Match(tt.topic); got != tt.match {
			t.Errorf("Match(%q) = %v, expected %v", tt.topic, got, tt.match)
		}
	}
}

func TestMatcher_MatchAgreesWithTopicMatches(t *testing.T) {
	patterns := []Topic{"a.*.c", "a.**", "**.z", "x.y"}
	topics := []Topic{"a.b.c", "a", "q.z", "x.y", "x.y.z", "b.c"}

	for _, p := range patterns {
		m := NewMatcher()
		m.Add(p)
		for _, tp := range topics {
			if m.Match(tp) != tp.Matches(p) {
				t.Errorf("pattern %q topic %q: matcher=%v topic=%v", p, tp, m.Match(tp), tp.Matches(p))
			}
		}
	}
}

func TestMatcher_Patterns(t *testing.T) {
	m := NewMatcher()
	m.Add("b.c")
	m.Add("a.*")

	got := m.Patterns()
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	if len(got) != 2 || got[0] != "a.*" || got[1] != "b.c" {
		t.Errorf("Patterns() = %v", got)
	}
}
