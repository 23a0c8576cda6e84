package domain

// Connection is the best or worst scoring unordered user pair in a batch
type Connection struct {
	Pair       [2]string `json:"pair"`
	Similarity float64   `json:"similarity"`
}

// RankedUser is one entry of a user's best-to-worst list
type RankedUser struct {
	OtherID string  `json:"other_id"`
	Score   float64 `json:"score"`
}

// RankedGroup is one entry of a user's best-to-worst group list
type RankedGroup struct {
	Group string  `json:"group"`
	Score float64 `json:"score"`
}

// MatchResult is the full user-to-user matching response. An empty batch
// produces a result with only BestToWorst set to an empty map, everything
// else omitted; that is the degenerate-input contract, not an error.
type MatchResult struct {
	UserIDs          []string                `json:"user_ids,omitempty"`
	FeatureVectors   [][]float64             `json:"feature_vectors,omitempty"`
	SimilarityMatrix [][]float64             `json:"similarity_matrix,omitempty"`
	Categories       map[string][]string     `json:"categories,omitempty"`
	BestConnection   *Connection             `json:"best_connection,omitempty"`
	WorstConnection  *Connection             `json:"worst_connection,omitempty"`
	BestToWorst      map[string][]RankedUser `json:"best_to_worst"`
}

// GroupMatchResult is the user-to-group matching response
type GroupMatchResult struct {
	BestToWorstGroups map[string][]RankedGroup `json:"best_to_worst_groups"`
	SimilarityMatrix  [][]float64              `json:"similarity_matrix,omitempty"`
	GroupIDs          []string                 `json:"group_ids,omitempty"`
}

// EmptyMatchResult is returned for malformed or empty user-mode requests
func EmptyMatchResult() *MatchResult {
	return &MatchResult{BestToWorst: map[string][]RankedUser{}}
}

// EmptyGroupMatchResult is returned for malformed or empty group-mode requests
func EmptyGroupMatchResult() *GroupMatchResult {
	return &GroupMatchResult{BestToWorstGroups: map[string][]RankedGroup{}}
}
