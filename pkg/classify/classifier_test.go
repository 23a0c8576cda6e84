package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeywords() map[string][]string {
	return map[string][]string{
		"fitness": {"run", "workout", "gym", "pushups", "cardio"},
		"study":   {"read", "book", "chapter", "homework", "exam"},
		"other":   {"misc", "task", "todo"},
	}
}

func TestClassifier_Classify(t *testing.T) {
	c := New(testKeywords())

	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"fitness title", "morning run in the park", "fitness"},
		{"study title", "read a chapter of my book", "study"},
		{"stemmed match", "running and workouts", "fitness"},
		{"no overlap falls back", "zzzzz qqqqq", FallbackCategory},
		{"empty title falls back", "", FallbackCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.title))
		})
	}
}

func TestClassifier_Idempotent(t *testing.T) {
	c := New(testKeywords())

	first := c.Classify("gym session with cardio")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify("gym session with cardio"))
	}
}

func TestClassifier_DeterministicAcrossFits(t *testing.T) {
	// map iteration order must not leak into results
	for i := 0; i < 20; i++ {
		c := New(testKeywords())
		assert.Equal(t, "study", c.Classify("homework for the exam"))
	}
}

func TestClassifier_Categories(t *testing.T) {
	c := New(testKeywords())
	require.Equal(t, []string{"fitness", "other", "study"}, c.Categories())
}

func TestClassifier_EmptyTable(t *testing.T) {
	c := New(map[string][]string{})
	assert.Equal(t, FallbackCategory, c.Classify("anything"))
}
