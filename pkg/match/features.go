package match

import (
	"math"
	"sort"

	"github.com/oke1234/goalmatch/pkg/domain"
)

// profile is the pipeline's working record for one user. Items are a private
// copy of the user's items so the two difficulty passes never mutate caller
// data.
type profile struct {
	user             domain.User
	items            []domain.Item
	successRate      float64
	completionFactor float64
	avgSkill         float64
	avgTaskTime      float64
	consistency      float64
	pace             float64
	openness         float64
	categoryDist     map[string]float64
	interests        []float64
	features         []float64
}

// newProfiles builds the initial working records: items copied, success rate
// derived, completion factor at the neutral 1.0
func newProfiles(users []domain.User) []*profile {
	profiles := make([]*profile, 0, len(users))
	for _, u := range users {
		p := &profile{user: u, items: make([]domain.Item, len(u.Items)), completionFactor: 1.0}
		copy(p.items, u.Items)
		if len(p.items) > 0 {
			var completed int
			for _, item := range p.items {
				if item.Completed {
					completed++
				}
			}
			p.successRate = float64(completed) / float64(len(p.items))
		}
		profiles = append(profiles, p)
	}
	return profiles
}

// batchCategories returns the distinct categories observed across all items,
// sorted so feature vector columns are stable within a batch
func batchCategories(profiles []*profile) []string {
	seen := map[string]bool{}
	for _, p := range profiles {
		for _, item := range p.items {
			seen[item.Category] = true
		}
	}
	cats := make([]string, 0, len(seen))
	for cat := range seen {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

// skillScore is difficulty per minute spent, the building block of both the
// avg_skill feature and the dynamic category weights
func skillScore(item domain.Item) float64 {
	return item.Difficulty / math.Max(item.TimeTaken, 1)
}

// buildFeatures fills in the behavioral metrics and assembles each profile's
// feature vector: [avg_skill, success_rate, completion_factor, avg_task_time,
// consistency, pace, openness] followed by one interest column per batch
// category.
func buildFeatures(profiles []*profile, categories []string) {
	interests := interestVectors(profiles, categories)

	for idx, p := range profiles {
		p.consistency = float64(p.user.StreakDays) / 7
		p.categoryDist = map[string]float64{}
		p.interests = interests[idx]

		if len(p.items) > 0 {
			var skillSum, timeSum float64
			userCats := map[string]int{}
			for _, item := range p.items {
				skillSum += skillScore(item)
				timeSum += item.TimeTaken
				userCats[item.Category]++
			}
			p.avgSkill = skillSum / float64(len(p.items))
			p.avgTaskTime = timeSum / float64(len(p.items))
			p.pace = float64(len(p.items)) / math.Max(timeSum, 1)
			if len(categories) > 0 {
				p.openness = float64(len(userCats)) / float64(len(categories))
			}
			for cat, n := range userCats {
				p.categoryDist[cat] = float64(n) / float64(len(p.items))
			}
		}

		p.features = make([]float64, 0, 7+len(categories))
		p.features = append(p.features,
			p.avgSkill, p.successRate, p.completionFactor, p.avgTaskTime,
			p.consistency, p.pace, p.openness)
		p.features = append(p.features, p.interests...)
	}
}

// interestVectors builds a tf-idf weighted category distribution per user
// over the batch's category vocabulary, l2-normalized. Users active in rare
// categories get more weight there than the raw item counts would give.
func interestVectors(profiles []*profile, categories []string) [][]float64 {
	index := make(map[string]int, len(categories))
	for i, cat := range categories {
		index[cat] = i
	}

	// document frequency: how many users touch each category
	df := make([]int, len(categories))
	counts := make([][]float64, len(profiles))
	for i, p := range profiles {
		counts[i] = make([]float64, len(categories))
		for _, item := range p.items {
			counts[i][index[item.Category]]++
		}
		for j, c := range counts[i] {
			if c > 0 {
				df[j]++
			}
		}
	}

	n := float64(len(profiles))
	idf := make([]float64, len(categories))
	for j, d := range df {
		idf[j] = math.Log((1+n)/(1+float64(d))) + 1
	}

	vectors := make([][]float64, len(profiles))
	for i := range profiles {
		vec := counts[i]
		var norm float64
		for j := range vec {
			vec[j] *= idf[j]
			norm += vec[j] * vec[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range vec {
				vec[j] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}
