package verify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/placelink-cli/internal/geo"
	"github.com/sells-group/placelink-cli/internal/match"
	"github.com/sells-group/placelink-cli/internal/model"
	"github.com/sells-group/placelink-cli/internal/resilience"
	"github.com/sells-group/placelink-cli/pkg/places"
)

// Searcher finds the single best directory candidate for a local record:
// coordinate-first across an expanding radius ladder, with one free-text
// fallback when proximity alone finds nothing acceptable.
type Searcher struct {
	client      places.Client
	policy      match.Policy
	radiiM      []int
	biasRadiusM float64
	cooldown    time.Duration
}

// NewSearcher creates a Searcher.
func NewSearcher(client places.Client, policy match.Policy, radiiM []int, biasRadiusM int, cooldown time.Duration) *Searcher {
	return &Searcher{
		client:      client,
		policy:      policy,
		radiiM:      radiiM,
		biasRadiusM: float64(biasRadiusM),
		cooldown:    cooldown,
	}
}

// Best returns the best accepted MatchResult for the record, or nil when no
// candidate passes the tiered policy. Rate-limited lookups pay the fixed
// cooldown, transient transport failures skip the radius, and any other
// lookup failure is returned and fails the record.
func (s *Searcher) Best(ctx context.Context, rec model.LocalRecord) (*model.MatchResult, error) {
	log := zap.L().With(zap.String("record_id", rec.ID), zap.String("name", rec.Name))

	var best *model.MatchResult

	for _, radius := range s.radiiM {
		cands, err := s.client.SearchNearby(ctx, rec.Lat, rec.Lng, float64(radius))
		if err != nil {
			if absorbErr := s.absorb(ctx, err, log, "nearby search", radius); absorbErr != nil {
				return nil, absorbErr
			}
			continue
		}

		best = s.pickBest(best, rec, cands)

		// Any candidate inside the very-close tier ends the ladder; wider
		// radii would only add candidates farther out. The score winner can
		// still be a different candidate from the batches already scanned.
		if s.veryCloseHit(rec, cands) {
			log.Debug("very close candidate found, stopping radius expansion",
				zap.Int("radius_m", radius))
			return best, nil
		}
	}

	if best != nil {
		return best, nil
	}

	// Nothing accepted by proximity: one text search biased to the query
	// coordinates, adjudicated under the identical policy.
	cands, err := s.client.SearchText(ctx, rec.Name, rec.Lat, rec.Lng, s.biasRadiusM)
	if err != nil {
		if absorbErr := s.absorb(ctx, err, log, "text search", int(s.biasRadiusM)); absorbErr != nil {
			return nil, absorbErr
		}
		return nil, nil
	}

	return s.pickBest(nil, rec, cands), nil
}

// veryCloseHit reports whether any candidate lies inside the very-close
// tier. Such a candidate is always accepted, so best is non-nil whenever
// this returns true.
func (s *Searcher) veryCloseHit(rec model.LocalRecord, cands []model.Candidate) bool {
	for _, cand := range cands {
		if geo.DistanceKm(rec.Lat, rec.Lng, cand.Lat, cand.Lng) <= s.policy.VeryCloseKm {
			return true
		}
	}
	return false
}

// pickBest scores each candidate and keeps the accepted one with the highest
// composite score, seeded with the current best.
func (s *Searcher) pickBest(best *model.MatchResult, rec model.LocalRecord, cands []model.Candidate) *model.MatchResult {
	for _, cand := range cands {
		mr := s.policy.Evaluate(rec.Lat, rec.Lng, rec.Name, cand)
		if !s.policy.Accept(mr.DistanceKm, mr.NameSimilarity) {
			continue
		}
		if best == nil || mr.TotalScore > best.TotalScore {
			mr := mr
			best = &mr
		}
	}
	return best
}

// absorb classifies a lookup failure: a rate limit pays the fixed cooldown,
// transient transport errors are logged and skipped, anything else is
// returned to the caller.
func (s *Searcher) absorb(ctx context.Context, err error, log *zap.Logger, op string, radiusM int) error {
	if resilience.IsRateLimited(err) {
		log.Warn("lookup rate limited", zap.String("op", op), zap.Int("radius_m", radiusM))
		if cdErr := resilience.Cooldown(ctx, s.cooldown); cdErr != nil {
			return cdErr
		}
		return nil
	}
	if resilience.IsTransient(err) {
		log.Warn("lookup failed, skipping", zap.String("op", op), zap.Int("radius_m", radiusM), zap.Error(err))
		return ctx.Err()
	}
	return err
}
