package verify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/placelink-cli/internal/model"
	"github.com/sells-group/placelink-cli/internal/resilience"
	"github.com/sells-group/placelink-cli/pkg/places"
)

// Fetcher retrieves full detail for an accepted candidate. Detail fetching
// is best-effort: on any failure the search-shaped candidate carries on to
// adjudication, just without expanded fields and photos.
type Fetcher struct {
	client   places.Client
	cooldown time.Duration
}

// NewFetcher creates a Fetcher.
func NewFetcher(client places.Client, cooldown time.Duration) *Fetcher {
	return &Fetcher{client: client, cooldown: cooldown}
}

// Enrich fetches detail for the candidate and merges it in: detail fields
// win on conflict, and the detail photo list wins when non-empty. A rate
// limit triggers the fixed cooldown and the original candidate is returned;
// the call is not retried.
func (f *Fetcher) Enrich(ctx context.Context, cand model.Candidate) model.Candidate {
	log := zap.L().With(zap.String("place_id", cand.PlaceID))

	detail, err := f.client.GetDetails(ctx, cand.PlaceID)
	if err != nil {
		if resilience.IsRateLimited(err) {
			log.Warn("detail fetch rate limited")
			_ = resilience.Cooldown(ctx, f.cooldown)
		} else {
			log.Warn("detail fetch failed", zap.Error(err))
		}
		return cand
	}
	if detail == nil {
		log.Warn("detail fetch returned no place")
		return cand
	}

	return overlay(cand, *detail)
}

// overlay merges detail onto the search candidate, detail winning on every
// non-empty field.
func overlay(base, detail model.Candidate) model.Candidate {
	out := base
	if detail.PlaceID != "" {
		out.PlaceID = detail.PlaceID
	}
	if detail.Name != "" {
		out.Name = detail.Name
	}
	if detail.Lat != 0 || detail.Lng != 0 {
		out.Lat = detail.Lat
		out.Lng = detail.Lng
	}
	if detail.Rating > 0 {
		out.Rating = detail.Rating
	}
	if detail.RatingCount > 0 {
		out.RatingCount = detail.RatingCount
	}
	if detail.Address != "" {
		out.Address = detail.Address
	}
	if detail.Phone != "" {
		out.Phone = detail.Phone
	}
	if detail.Website != "" {
		out.Website = detail.Website
	}
	if detail.Summary != "" {
		out.Summary = detail.Summary
	}
	if len(detail.Types) > 0 {
		out.Types = detail.Types
	}
	if len(detail.PhotoRefs) > 0 {
		out.PhotoRefs = detail.PhotoRefs
	}
	return out
}
