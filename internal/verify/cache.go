package verify

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"github.com/sells-group/placelink-cli/internal/model"
	"github.com/sells-group/placelink-cli/internal/store"
	"github.com/sells-group/placelink-cli/pkg/places"
)

// cachedClient wraps a places.Client with the local lookup cache. Only
// successful responses are cached; rate limits and failures pass through so
// the caller's error handling is unchanged.
type cachedClient struct {
	inner places.Client
	cache *store.Cache
}

// WithCache returns a places.Client that answers repeated lookups from the
// local cache.
func WithCache(inner places.Client, cache *store.Cache) places.Client {
	return &cachedClient{inner: inner, cache: cache}
}

func (c *cachedClient) SearchNearby(ctx context.Context, lat, lng float64, radiusM float64) ([]model.Candidate, error) {
	key := store.Key("nearby", coord(lat), coord(lng), strconv.FormatFloat(radiusM, 'f', 0, 64))

	var cands []model.Candidate
	if hit(ctx, c.cache, key, &cands) {
		return cands, nil
	}

	cands, err := c.inner.SearchNearby(ctx, lat, lng, radiusM)
	if err != nil {
		return nil, err
	}
	remember(ctx, c.cache, key, cands)
	return cands, nil
}

func (c *cachedClient) SearchText(ctx context.Context, query string, lat, lng float64, biasRadiusM float64) ([]model.Candidate, error) {
	key := store.Key("text", query, coord(lat), coord(lng), strconv.FormatFloat(biasRadiusM, 'f', 0, 64))

	var cands []model.Candidate
	if hit(ctx, c.cache, key, &cands) {
		return cands, nil
	}

	cands, err := c.inner.SearchText(ctx, query, lat, lng, biasRadiusM)
	if err != nil {
		return nil, err
	}
	remember(ctx, c.cache, key, cands)
	return cands, nil
}

func (c *cachedClient) GetDetails(ctx context.Context, placeID string) (*model.Candidate, error) {
	key := store.Key("details", placeID)

	var cand model.Candidate
	if hit(ctx, c.cache, key, &cand) {
		return &cand, nil
	}

	detail, err := c.inner.GetDetails(ctx, placeID)
	if err != nil || detail == nil {
		return detail, err
	}
	remember(ctx, c.cache, key, detail)
	return detail, nil
}

// coord normalizes a coordinate for cache keying; 6 decimals (~0.1 m) keeps
// keys stable across float formatting.
func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func hit(ctx context.Context, cache *store.Cache, key string, out any) bool {
	payload, ok := cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		zap.L().Debug("cache payload corrupt, ignoring", zap.Error(err))
		return false
	}
	return true
}

func remember(ctx context.Context, cache *store.Cache, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := cache.Put(ctx, key, payload); err != nil {
		zap.L().Debug("cache write failed", zap.Error(err))
	}
}
