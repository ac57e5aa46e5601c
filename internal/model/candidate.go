package model

// Candidate is a single result returned by the external place directory.
// Candidates are ephemeral: produced by search, scored by the adjudicator,
// and discarded unless they become the accepted match.
type Candidate struct {
	PlaceID     string   `json:"place_id"`
	Name        string   `json:"name"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Rating      float64  `json:"rating,omitempty"`
	RatingCount int      `json:"rating_count,omitempty"`
	Address     string   `json:"address,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Website     string   `json:"website,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Types       []string `json:"types,omitempty"`
	PhotoRefs   []string `json:"photo_refs,omitempty"`
}

// MatchResult is a scored candidate. The searcher retains only the best
// MatchResult seen so far for a given input record.
type MatchResult struct {
	Candidate      Candidate `json:"candidate"`
	DistanceKm     float64   `json:"distance_km"`
	NameSimilarity float64   `json:"name_similarity"`
	DistanceScore  float64   `json:"distance_score"`
	TotalScore     float64   `json:"total_score"`
}
