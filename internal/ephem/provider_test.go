package ephem

import "testing"

func TestParseKind(t *testing.T) {
	tests := []struct {
		input    string
		expected BodyKind
		ok       bool
	}{
		{"sun", KindSun, true},
		{"moon", KindMoon, true},
		{"planet", KindPlanet, true},
		{"comet", KindComet, true},
		{"star", KindStar, true},
		{"", 0, false},
		{"asteroid", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := ParseKind(tc.input)
			if got != tc.expected || ok != tc.ok {
				t.Errorf("ParseKind(%q) = %v, %v, want %v, %v", tc.input, got, ok, tc.expected, tc.ok)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     BodyKind
		expected string
	}{
		{KindSun, "sun"},
		{KindMoon, "moon"},
		{KindPlanet, "planet"},
		{KindComet, "comet"},
		{KindStar, "star"},
		{BodyKind(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			if got := tc.kind.String(); got != tc.expected {
				t.Errorf("BodyKind(%d).String() = %q, want %q", tc.kind, got, tc.expected)
			}
		})
	}
}
