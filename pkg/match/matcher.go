// Package match implements the behavioral matching pipeline: category
// classification, two-pass difficulty estimation with a persisted history
// table, feature aggregation, weighting and similarity ranking.
package match

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/oke1234/goalmatch/pkg/classify"
	"github.com/oke1234/goalmatch/pkg/config"
	"github.com/oke1234/goalmatch/pkg/domain"
)

// Matcher runs matching batches. Batches are strictly serialized: the history
// table is read at the start and rewritten at the end of each run, so two
// interleaved runs would lose updates.
type Matcher struct {
	store  HistoryStore
	tables *config.Tables
	cfg    config.MatchingConfig

	mu sync.Mutex // one batch at a time
}

// New creates a Matcher over the given history store and reference tables
func New(store HistoryStore, tables *config.Tables, cfg config.MatchingConfig) *Matcher {
	return &Matcher{store: store, tables: tables, cfg: cfg}
}

// MatchUsers runs the full user-to-user pipeline and returns ranked results.
// An empty user list yields the empty result, not an error.
func (m *Matcher) MatchUsers(ctx context.Context, users []domain.User) (*domain.MatchResult, error) {
	if len(users) == 0 {
		return domain.EmptyMatchResult(), nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	batchID := uuid.New().String()
	log.Printf("[INFO] batch %s: matching %d users", batchID, len(users))

	profiles, categories, err := m.pipeline(ctx, batchID, users)
	if err != nil {
		return nil, err
	}

	// weighted vectors, scaled per column over the batch
	catWeights := categorySkillWeights(profiles, categories)
	weighted := make([][]float64, len(profiles))
	for i, p := range profiles {
		weighted[i] = sanitize(applyWeights(p, catWeights))
	}
	scaled := minMaxScale(weighted)

	behavioral := cosineMatrix(scaled, scaled)
	location := locationMatrix(profiles)
	combined := combine(behavioral, location, m.cfg.BehaviorWeight, m.cfg.LocationWeight)

	ids := make([]string, len(profiles))
	featureVectors := make([][]float64, len(profiles))
	assigned := make(map[string][]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.user.ID
		featureVectors[i] = p.features
		cats := make([]string, len(p.items))
		for j, item := range p.items {
			cats[j] = item.Category
		}
		assigned[p.user.ID] = cats
	}

	best, worst := bestWorstPairs(ids, combined)
	if best != nil {
		log.Printf("[DEBUG] batch %s: best connection %v (%.3f), worst %v (%.3f)",
			batchID, best.Pair, best.Similarity, worst.Pair, worst.Similarity)
	}

	return &domain.MatchResult{
		UserIDs:          ids,
		FeatureVectors:   featureVectors,
		SimilarityMatrix: combined,
		Categories:       assigned,
		BestConnection:   best,
		WorstConnection:  worst,
		BestToWorst:      rankUsers(ids, combined),
	}, nil
}

// MatchGroups runs the user pipeline, derives group vectors from member
// means and ranks groups per user by pure behavioral similarity. Users and
// groups are scaled jointly so their vectors stay comparable; no location
// blend applies in group mode.
func (m *Matcher) MatchGroups(ctx context.Context, users []domain.User, groups []domain.Group) (*domain.GroupMatchResult, error) {
	if len(users) == 0 || len(groups) == 0 {
		return domain.EmptyGroupMatchResult(), nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	batchID := uuid.New().String()
	log.Printf("[INFO] batch %s: matching %d users against %d groups", batchID, len(users), len(groups))

	profiles, _, err := m.pipeline(ctx, batchID, users)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, len(profiles))
	userVectors := make([][]float64, len(profiles))
	for i, p := range profiles {
		userIDs[i] = p.user.ID
		userVectors[i] = p.features
	}
	groupIDs, grpVectors := groupVectors(groups, profiles)

	// one joint min-max fit over users and groups
	joint := make([][]float64, 0, len(userVectors)+len(grpVectors))
	joint = append(joint, userVectors...)
	joint = append(joint, grpVectors...)
	scaled := minMaxScale(joint)
	scaledUsers, scaledGroups := scaled[:len(userVectors)], scaled[len(userVectors):]

	matrix := cosineMatrix(scaledUsers, scaledGroups)

	return &domain.GroupMatchResult{
		BestToWorstGroups: rankGroups(userIDs, groupIDs, matrix),
		SimilarityMatrix:  matrix,
		GroupIDs:          groupIDs,
	}, nil
}

// pipeline runs the shared stages: classification, first difficulty pass,
// history rebuild and persist, second difficulty pass, feature building
func (m *Matcher) pipeline(ctx context.Context, batchID string, users []domain.User) ([]*profile, []string, error) {
	classifier := classify.New(m.tables.Categories)
	profiles := newProfiles(users)
	for _, p := range profiles {
		for i := range p.items {
			p.items[i].Category = classifier.Classify(p.items[i].Title)
		}
	}

	loaded, err := m.store.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load time history: %w", err)
	}

	// first pass sees manual baselines only
	pass1 := &estimator{tables: m.tables, historyWeight: 0}
	pass1.predictAll(profiles)

	history := rebuildHistory(profiles, loaded, m.tables)
	if err := m.store.Save(ctx, history); err != nil {
		return nil, nil, fmt.Errorf("save time history: %w", err)
	}

	// second pass blends the rebuilt history with manual baselines and uses
	// refined per-user completion factors
	pass2 := &estimator{tables: m.tables, history: history, historyWeight: m.cfg.HistoryWeight}
	pass2.refineCompletionFactors(profiles)
	pass2.predictAll(profiles)

	categories := batchCategories(profiles)
	buildFeatures(profiles, categories)

	for _, p := range profiles {
		for _, item := range p.items {
			log.Printf("[DEBUG] batch %s: user %s item %q -> %s, difficulty %.2f",
				batchID, p.user.ID, item.Title, item.Category, item.Difficulty)
		}
	}

	return profiles, categories, nil
}
