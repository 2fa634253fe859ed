package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"budget", "budgte", 2},
		{"Same", "same", 0},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevenshteinDistance(tt.s1, tt.s2), "%q vs %q", tt.s1, tt.s2)
	}
}

func TestMatch(t *testing.T) {
	text := "Quarterly budget review for the Q3 planning cycle"

	tests := []struct {
		name      string
		query     string
		threshold int
		want      bool
	}{
		{"substring", "budget rev", 0, true},
		{"case insensitive", "QUARTERLY", 0, true},
		{"word prefix", "plan", 0, true},
		{"one typo allowed", "budgte", 2, true},
		{"typo over threshold", "budgte", 1, false},
		{"no match", "invoice", 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.query, text, tt.threshold))
		})
	}
}

func TestThreshold(t *testing.T) {
	assert.Equal(t, 1, Threshold("abc"))
	assert.Equal(t, 2, Threshold("medium"))
	assert.Equal(t, 3, Threshold("verylongquery"))
}
