package match

import (
	"math"

	"github.com/oke1234/goalmatch/pkg/config"
	"github.com/oke1234/goalmatch/pkg/domain"
)

// estimator predicts item difficulty from completion times. It runs twice per
// batch: the first pass sees only the manual expected-time table, the second
// pass blends in the history rebuilt from the first pass.
type estimator struct {
	tables        *config.Tables
	history       map[TimeKey]float64
	historyWeight float64
}

// expectedTime returns the expected minutes for an item in the given category
// at its current difficulty bucket, blending history and manual baselines
func (e *estimator) expectedTime(category string, difficulty float64) float64 {
	b := bucket(difficulty)
	manual := e.tables.ExpectedTime(category, b)
	if e.historyWeight <= 0 {
		return manual
	}
	hist, ok := e.history[TimeKey{Category: category, Difficulty: b}]
	if !ok {
		hist = manual
	}
	return e.historyWeight*hist + (1-e.historyWeight)*manual
}

// predict scores one item on the 1-5 scale. Time over expectation raises the
// score, a user who generally finishes faster than expected (completion factor
// above 1) lowers it, and long streaks or high success rates dampen it by up
// to 30% each.
func (e *estimator) predict(item domain.Item, p *profile) float64 {
	expected := e.expectedTime(item.Category, item.Difficulty)
	raw := item.TimeTaken / math.Max(expected, 1)
	raw /= math.Max(p.completionFactor, 0.1)

	adjustment := 1 - math.Min(float64(p.user.StreakDays)/30, 0.3)
	adjustment *= 1 - math.Min(p.successRate, 0.3)

	return clamp(raw*adjustment, 1, 5)
}

// predictAll runs predict over every item of every profile, replacing the
// item difficulties in place
func (e *estimator) predictAll(profiles []*profile) {
	for _, p := range profiles {
		for i := range p.items {
			p.items[i].Difficulty = e.predict(p.items[i], p)
		}
	}
}

// refineCompletionFactors recomputes each user's completion factor as the
// mean ratio of expected to actual time over their items. Users without items
// keep the neutral 1.0.
func (e *estimator) refineCompletionFactors(profiles []*profile) {
	for _, p := range profiles {
		if len(p.items) == 0 {
			p.completionFactor = 1.0
			continue
		}
		var sum float64
		for _, item := range p.items {
			sum += e.expectedTime(item.Category, item.Difficulty) / math.Max(item.TimeTaken, 1)
		}
		p.completionFactor = sum / float64(len(p.items))
	}
}

// rebuildHistory computes the mean observed time per (category, difficulty
// bucket) over the whole batch and merges it over the previously loaded
// table. Every difficulty 1-5 of every category seen in the batch gets an
// entry; buckets without observations fall back to the manual baseline.
func rebuildHistory(profiles []*profile, loaded map[TimeKey]float64, tables *config.Tables) map[TimeKey]float64 {
	sums := map[TimeKey]float64{}
	counts := map[TimeKey]int{}
	categories := map[string]bool{}
	for _, p := range profiles {
		for _, item := range p.items {
			key := TimeKey{Category: item.Category, Difficulty: bucket(item.Difficulty)}
			sums[key] += item.TimeTaken
			counts[key]++
			categories[item.Category] = true
		}
	}

	merged := make(map[TimeKey]float64, len(loaded)+len(categories)*5)
	for k, v := range loaded {
		merged[k] = v
	}
	for cat := range categories {
		for diff := 1; diff <= 5; diff++ {
			key := TimeKey{Category: cat, Difficulty: diff}
			if counts[key] > 0 {
				merged[key] = sums[key] / float64(counts[key])
				continue
			}
			merged[key] = tables.ExpectedTime(cat, diff)
		}
	}
	return merged
}

// bucket rounds a difficulty to its integer 1-5 history bucket
func bucket(difficulty float64) int {
	return int(math.Round(clamp(difficulty, 1, 5)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
