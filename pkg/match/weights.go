package match

import (
	"math"
	"sort"

	"github.com/oke1234/goalmatch/pkg/classify"
)

// base weights of the feature vector columns; the interests weight applies to
// every interest column
const (
	weightSkill            = 0.20
	weightSuccessRate      = 0.10
	weightCompletionFactor = 0.15
	weightAvgTaskTime      = 0.05
	weightConsistency      = 0.15
	weightPace             = 0.10
	weightOpenness         = 0.05
	weightInterests        = 0.20
)

// categorySkillWeights computes the dynamic per-category skill multiplier:
// the mean skill score over every item of that category across the whole
// batch, 1.0 for categories nobody touched
func categorySkillWeights(profiles []*profile, categories []string) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, p := range profiles {
		for _, item := range p.items {
			sums[item.Category] += skillScore(item)
			counts[item.Category]++
		}
	}

	weights := make(map[string]float64, len(categories))
	for _, cat := range categories {
		if counts[cat] > 0 {
			weights[cat] = sums[cat] / float64(counts[cat])
			continue
		}
		weights[cat] = 1.0
	}
	return weights
}

// mainCategory is the mode of a user's item categories. Ties go to the lowest
// category name; users without items get the fallback category.
func mainCategory(p *profile) string {
	if len(p.items) == 0 {
		return classify.FallbackCategory
	}

	counts := map[string]int{}
	for _, item := range p.items {
		counts[item.Category]++
	}

	cats := make([]string, 0, len(counts))
	for cat := range counts {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	best := cats[0]
	for _, cat := range cats[1:] {
		if counts[cat] > counts[best] {
			best = cat
		}
	}
	return best
}

// applyWeights multiplies a profile's feature vector by the base weights,
// with the skill column additionally scaled by the dynamic weight of the
// user's main category
func applyWeights(p *profile, catWeights map[string]float64) []float64 {
	skillWeight, ok := catWeights[mainCategory(p)]
	if !ok {
		skillWeight = 1.0
	}

	weighted := make([]float64, len(p.features))
	base := []float64{
		weightSkill * skillWeight,
		weightSuccessRate,
		weightCompletionFactor,
		weightAvgTaskTime,
		weightConsistency,
		weightPace,
		weightOpenness,
	}
	for i, v := range p.features {
		w := weightInterests
		if i < len(base) {
			w = base[i]
		}
		weighted[i] = v * w
	}
	return weighted
}

// guard against non-finite values sneaking into the weighted vectors; every
// upstream division is clamped, so anything non-finite is a bug
func sanitize(vec []float64) []float64 {
	for i, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			vec[i] = 0
		}
	}
	return vec
}
