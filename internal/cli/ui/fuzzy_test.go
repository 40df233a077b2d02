package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"widgets", "wigets", 1},
		{"größe", "grosse", 3},
	}

	for _, tt := range tests {
		t.Run(tt.s1+"_"+tt.s2, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevenshteinDistance(tt.s1, tt.s2))
		})
	}
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{
		"Foo.Bar/widgets@2024-01-01",
		"Foo.Bar/widgets@2023-01-01",
		"Foo.Bar/gadgets@v1",
		"Other/things@v2",
	}

	tests := []struct {
		name     string
		target   string
		opts     *FuzzyMatchOptions
		expected []string
	}{
		{
			name:     "typo",
			target:   "foo.bar/wigets@2024-01-01",
			expected: []string{"Foo.Bar/widgets@2024-01-01", "Foo.Bar/widgets@2023-01-01"},
		},
		{
			name:     "substring",
			target:   "gadgets",
			expected: []string{"Foo.Bar/gadgets@v1"},
		},
		{
			name:     "limited",
			target:   "widgets",
			opts:     &FuzzyMatchOptions{MaxSuggestions: 1},
			expected: []string{"Foo.Bar/widgets@2024-01-01"},
		},
		{
			name:     "no match",
			target:   "zzzz",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FindSimilar(tt.target, candidates, tt.opts))
		})
	}
}
