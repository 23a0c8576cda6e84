package match

import (
	"sort"

	"github.com/oke1234/goalmatch/pkg/domain"
)

// groupVectors derives one vector per group as the elementwise mean of its
// resolved members' unweighted feature vectors. Groups whose members are all
// absent from the batch get a zero vector of the same length.
func groupVectors(groups []domain.Group, profiles []*profile) (ids []string, vectors [][]float64) {
	byID := make(map[string]*profile, len(profiles))
	for _, p := range profiles {
		byID[p.user.ID] = p
	}

	var featLen int
	if len(profiles) > 0 {
		featLen = len(profiles[0].features)
	}

	ids = make([]string, 0, len(groups))
	vectors = make([][]float64, 0, len(groups))
	for _, g := range groups {
		vec := make([]float64, featLen)
		var members int
		for _, uid := range g.Members {
			p, ok := byID[uid]
			if !ok {
				continue
			}
			members++
			for j, v := range p.features {
				vec[j] += v
			}
		}
		if members > 0 {
			for j := range vec {
				vec[j] /= float64(members)
			}
		}
		ids = append(ids, g.ID)
		vectors = append(vectors, vec)
	}
	return ids, vectors
}

// rankGroups builds each user's best-to-worst group list from the user-by-group
// similarity matrix
func rankGroups(userIDs, groupIDs []string, matrix [][]float64) map[string][]domain.RankedGroup {
	ranked := make(map[string][]domain.RankedGroup, len(userIDs))
	for i, uid := range userIDs {
		scores := make([]domain.RankedGroup, 0, len(groupIDs))
		for j, gid := range groupIDs {
			scores = append(scores, domain.RankedGroup{Group: gid, Score: matrix[i][j]})
		}
		sort.Slice(scores, func(a, b int) bool {
			if scores[a].Score != scores[b].Score {
				return scores[a].Score > scores[b].Score
			}
			return scores[a].Group < scores[b].Group
		})
		ranked[uid] = scores
	}
	return ranked
}
