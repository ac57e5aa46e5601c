package match

import (
	"github.com/sells-group/placelink-cli/internal/geo"
	"github.com/sells-group/placelink-cli/internal/model"
)

// Policy holds the tiered acceptance thresholds and score weights. The
// values are empirically tuned, so they live in configuration; DefaultPolicy
// carries the tuned defaults.
type Policy struct {
	// VeryCloseKm accepts a candidate regardless of name similarity.
	// Tolerates transliteration and typo drift for co-located records.
	VeryCloseKm float64
	// CloseKm accepts when similarity is at least LowSimilarity.
	CloseKm float64
	// FarKm accepts when similarity is at least HighSimilarity; beyond it
	// every candidate is rejected.
	FarKm float64

	LowSimilarity  float64
	HighSimilarity float64

	// DistanceWeight and NameWeight combine into the composite score.
	// Distance dominates: a very close, differently-named record must
	// outrank a farther, better-named one.
	DistanceWeight float64
	NameWeight     float64
}

// DefaultPolicy returns the tuned acceptance policy: 50 m / 100 m / 500 m
// tiers, 0.3 / 0.6 similarity thresholds, 0.7 / 0.3 score weights.
func DefaultPolicy() Policy {
	return Policy{
		VeryCloseKm:    0.05,
		CloseKm:        0.1,
		FarKm:          0.5,
		LowSimilarity:  0.3,
		HighSimilarity: 0.6,
		DistanceWeight: 0.7,
		NameWeight:     0.3,
	}
}

// Accept applies the tiered acceptance policy to a candidate's distance
// (kilometers) and name similarity.
func (p Policy) Accept(distanceKm, similarity float64) bool {
	switch {
	case distanceKm <= p.VeryCloseKm:
		return true
	case distanceKm <= p.CloseKm:
		return similarity >= p.LowSimilarity
	case distanceKm <= p.FarKm:
		return similarity >= p.HighSimilarity
	default:
		return false
	}
}

// Evaluate scores a candidate against the query point and name. The distance
// score decays linearly to zero at FarKm.
func (p Policy) Evaluate(lat, lng float64, name string, cand model.Candidate) model.MatchResult {
	dist := geo.DistanceKm(lat, lng, cand.Lat, cand.Lng)
	sim := Similarity(name, cand.Name)

	distScore := 1 - dist/p.FarKm
	if distScore < 0 {
		distScore = 0
	}

	return model.MatchResult{
		Candidate:      cand,
		DistanceKm:     dist,
		NameSimilarity: sim,
		DistanceScore:  distScore,
		TotalScore:     p.DistanceWeight*distScore + p.NameWeight*sim,
	}
}
