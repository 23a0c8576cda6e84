package match

import (
	"math"
	"sort"

	"github.com/oke1234/goalmatch/pkg/domain"
)

// minMaxScale rescales every column independently to [0,1] over the given
// rows. A constant column (including the single-row case) maps to 0 for all
// rows, never NaN.
func minMaxScale(vectors [][]float64) [][]float64 {
	if len(vectors) == 0 {
		return nil
	}

	cols := len(vectors[0])
	mins := make([]float64, cols)
	maxs := make([]float64, cols)
	for j := 0; j < cols; j++ {
		mins[j], maxs[j] = math.Inf(1), math.Inf(-1)
	}
	for _, vec := range vectors {
		for j, v := range vec {
			mins[j] = math.Min(mins[j], v)
			maxs[j] = math.Max(maxs[j], v)
		}
	}

	scaled := make([][]float64, len(vectors))
	for i, vec := range vectors {
		scaled[i] = make([]float64, cols)
		for j, v := range vec {
			if span := maxs[j] - mins[j]; span > 0 {
				scaled[i][j] = (v - mins[j]) / span
			}
		}
	}
	return scaled
}

// cosine similarity of two vectors. Two zero vectors are treated as
// identical (1.0); a single zero vector has no direction to compare (0.0).
// This keeps degenerate scaling outputs finite and ordered sensibly.
func cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 && normB == 0 {
		return 1
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// cosineMatrix computes pairwise cosine similarity between two sets of rows
func cosineMatrix(rows, cols [][]float64) [][]float64 {
	matrix := make([][]float64, len(rows))
	for i, r := range rows {
		matrix[i] = make([]float64, len(cols))
		for j, c := range cols {
			matrix[i][j] = cosine(r, c)
		}
	}
	return matrix
}

// locationMatrix builds the location affinity between all user pairs:
// self 1.0, same time zone and country 1.0, same time zone only 0.8, any
// other time zone 0.3 regardless of country
func locationMatrix(profiles []*profile) [][]float64 {
	n := len(profiles)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := range matrix[i] {
			switch {
			case i == j:
				matrix[i][j] = 1.0
			case profiles[i].user.TimeZone != profiles[j].user.TimeZone:
				matrix[i][j] = 0.3
			case profiles[i].user.Country == profiles[j].user.Country:
				matrix[i][j] = 1.0
			default:
				matrix[i][j] = 0.8
			}
		}
	}
	return matrix
}

// combine blends the behavioral and location matrices with the configured
// weights
func combine(behavior, location [][]float64, behaviorWeight, locationWeight float64) [][]float64 {
	combined := make([][]float64, len(behavior))
	for i := range behavior {
		combined[i] = make([]float64, len(behavior[i]))
		for j := range behavior[i] {
			combined[i][j] = behaviorWeight*behavior[i][j] + locationWeight*location[i][j]
		}
	}
	return combined
}

// bestWorstPairs scans the upper triangle of the combined matrix for the
// highest and lowest scoring unordered pair. Nil for batches of fewer than
// two users.
func bestWorstPairs(ids []string, matrix [][]float64) (best, worst *domain.Connection) {
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			val := matrix[i][j]
			if best == nil || val > best.Similarity {
				best = &domain.Connection{Pair: [2]string{ids[i], ids[j]}, Similarity: val}
			}
			if worst == nil || val < worst.Similarity {
				worst = &domain.Connection{Pair: [2]string{ids[i], ids[j]}, Similarity: val}
			}
		}
	}
	return best, worst
}

// rankUsers builds each user's best-to-worst list over all other users,
// descending by score with id as the deterministic tie-break
func rankUsers(ids []string, matrix [][]float64) map[string][]domain.RankedUser {
	ranked := make(map[string][]domain.RankedUser, len(ids))
	for i, id := range ids {
		scores := make([]domain.RankedUser, 0, len(ids)-1)
		for j, other := range ids {
			if i == j {
				continue
			}
			scores = append(scores, domain.RankedUser{OtherID: other, Score: matrix[i][j]})
		}
		sort.Slice(scores, func(a, b int) bool {
			if scores[a].Score != scores[b].Score {
				return scores[a].Score > scores[b].Score
			}
			return scores[a].OtherID < scores[b].OtherID
		})
		ranked[id] = scores
	}
	return ranked
}
