package match

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oke1234/goalmatch/pkg/domain"
)

func TestNewProfiles(t *testing.T) {
	users := []domain.User{
		{ID: "u1", Items: []domain.Item{
			{Title: "a", Completed: true},
			{Title: "b", Completed: false},
			{Title: "c", Completed: true},
		}},
		{ID: "u2"},
	}

	profiles := newProfiles(users)
	require.Len(t, profiles, 2)

	assert.InDelta(t, 2.0/3, profiles[0].successRate, 1e-9)
	assert.Equal(t, 1.0, profiles[0].completionFactor)
	assert.Equal(t, 0.0, profiles[1].successRate)
	assert.Equal(t, 1.0, profiles[1].completionFactor)

	// items are copied, the caller's slice stays untouched
	profiles[0].items[0].Category = "changed"
	assert.Empty(t, users[0].Items[0].Category)
}

func TestBuildFeatures(t *testing.T) {
	profiles := newProfiles([]domain.User{
		{ID: "u1", StreakDays: 14, Items: []domain.Item{
			{Category: "fitness", Difficulty: 2, TimeTaken: 30, Completed: true},
			{Category: "study", Difficulty: 4, TimeTaken: 60},
		}},
		{ID: "u2", Items: []domain.Item{
			{Category: "fitness", Difficulty: 3, TimeTaken: 45},
		}},
	})
	categories := batchCategories(profiles)
	require.Equal(t, []string{"fitness", "study"}, categories)

	buildFeatures(profiles, categories)

	p := profiles[0]
	require.Len(t, p.features, 7+len(categories))

	assert.InDelta(t, (2.0/30+4.0/60)/2, p.avgSkill, 1e-9)
	assert.InDelta(t, 0.5, p.successRate, 1e-9)
	assert.InDelta(t, 45.0, p.avgTaskTime, 1e-9)
	assert.InDelta(t, 2.0, p.consistency, 1e-9) // 14 days / 7
	assert.InDelta(t, 2.0/90, p.pace, 1e-9)
	assert.InDelta(t, 1.0, p.openness, 1e-9)
	assert.InDelta(t, 0.5, p.categoryDist["fitness"], 1e-9)
	assert.InDelta(t, 0.5, p.categoryDist["study"], 1e-9)

	// u2 touches one of two batch categories
	assert.InDelta(t, 0.5, profiles[1].openness, 1e-9)

	// interest vectors are l2-normalized
	for _, pr := range profiles {
		var norm float64
		for _, v := range pr.interests {
			norm += v * v
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
	}
}

func TestBuildFeatures_NoItems(t *testing.T) {
	profiles := newProfiles([]domain.User{{ID: "u1", StreakDays: 7}})
	categories := batchCategories(profiles)
	require.Empty(t, categories)

	buildFeatures(profiles, categories)

	p := profiles[0]
	require.Len(t, p.features, 7)
	assert.Equal(t, 0.0, p.avgSkill)
	assert.Equal(t, 0.0, p.openness)
	assert.Equal(t, 0.0, p.pace)
	assert.InDelta(t, 1.0, p.consistency, 1e-9)
	for _, v := range p.features {
		assert.False(t, math.IsNaN(v), "no NaN may leak from a user without items")
	}
}

func TestMainCategory(t *testing.T) {
	tests := []struct {
		name     string
		items    []domain.Item
		expected string
	}{
		{"clear mode", []domain.Item{{Category: "study"}, {Category: "study"}, {Category: "fitness"}}, "study"},
		{"tie goes to lowest name", []domain.Item{{Category: "study"}, {Category: "fitness"}}, "fitness"},
		{"no items falls back", nil, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &profile{items: tt.items}
			assert.Equal(t, tt.expected, mainCategory(p))
		})
	}
}

func TestCategorySkillWeights(t *testing.T) {
	profiles := []*profile{
		{items: []domain.Item{{Category: "fitness", Difficulty: 2, TimeTaken: 10}}},
		{items: []domain.Item{{Category: "fitness", Difficulty: 4, TimeTaken: 10}}},
	}

	weights := categorySkillWeights(profiles, []string{"fitness", "study"})
	assert.InDelta(t, 0.3, weights["fitness"], 1e-9) // mean of 0.2 and 0.4
	assert.Equal(t, 1.0, weights["study"], "untouched category defaults to 1.0")
}

func TestApplyWeights(t *testing.T) {
	p := &profile{
		items:    []domain.Item{{Category: "fitness"}},
		features: []float64{1, 1, 1, 1, 1, 1, 1, 1, 1}, // 7 metrics + 2 interests
	}
	catWeights := map[string]float64{"fitness": 2.0}

	weighted := applyWeights(p, catWeights)
	require.Len(t, weighted, 9)

	assert.InDelta(t, 0.40, weighted[0], 1e-9) // 0.20 skill weight * 2.0 category factor
	assert.InDelta(t, 0.10, weighted[1], 1e-9)
	assert.InDelta(t, 0.15, weighted[2], 1e-9)
	assert.InDelta(t, 0.05, weighted[3], 1e-9)
	assert.InDelta(t, 0.15, weighted[4], 1e-9)
	assert.InDelta(t, 0.10, weighted[5], 1e-9)
	assert.InDelta(t, 0.05, weighted[6], 1e-9)
	assert.InDelta(t, 0.20, weighted[7], 1e-9)
	assert.InDelta(t, 0.20, weighted[8], 1e-9)
}
