package verify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/placelink-cli/internal/match"
	"github.com/sells-group/placelink-cli/internal/model"
	"github.com/sells-group/placelink-cli/internal/resilience"
	"github.com/sells-group/placelink-cli/pkg/places/mocks"
)

var testRadii = []int{500, 1000, 2000}

func testRecord() model.LocalRecord {
	return model.LocalRecord{ID: "poi-1", Name: "Blue Lagoon", Lat: 64.0, Lng: -22.0, Active: true}
}

func newTestSearcher(t *testing.T) (*Searcher, *mocks.MockClient) {
	client := mocks.NewMockClient(t)
	s := NewSearcher(client, match.DefaultPolicy(), testRadii, 2000, 5*time.Millisecond)
	return s, client
}

func nearCandidate(id string, name string, meters float64) model.Candidate {
	return model.Candidate{
		PlaceID: id,
		Name:    name,
		Lat:     64.0 + meters/111195.0,
		Lng:     -22.0,
	}
}

func TestBestStopsAtVeryClose(t *testing.T) {
	s, client := newTestSearcher(t)
	rec := testRecord()

	// A 40 m candidate with an unrelated name is accepted by the very-close
	// tier and ends the radius expansion: no further lookups expected.
	client.On("SearchNearby", mock.Anything, rec.Lat, rec.Lng, 500.0).
		Return([]model.Candidate{nearCandidate("p1", "Xqzw Vnmt", 40)}, nil).Once()

	best, err := s.Best(context.Background(), rec)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, "p1", best.Candidate.PlaceID)
	assert.Less(t, best.DistanceKm, 0.05)
}

func TestBestStopsOnAnyVeryCloseCandidate(t *testing.T) {
	s, client := newTestSearcher(t)
	rec := testRecord()

	// The very-close hit ends the ladder even when the score winner is a
	// different, farther candidate: 90 m with an exact name outscores 45 m
	// with an unrelated one (0.874 vs 0.637 under the 0.7/0.3 weights).
	cands := []model.Candidate{
		nearCandidate("very-close", "Xqzw Vnmt", 45),
		nearCandidate("exact-name", "Blue Lagoon", 90),
	}
	client.On("SearchNearby", mock.Anything, rec.Lat, rec.Lng, 500.0).
		Return(cands, nil).Once()

	best, err := s.Best(context.Background(), rec)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, "exact-name", best.Candidate.PlaceID)
}

func TestBestKeepsHighestScore(t *testing.T) {
	s, client := newTestSearcher(t)
	rec := testRecord()

	cands := []model.Candidate{
		nearCandidate("far-good-name", "Blue Lagoon", 400),
		nearCandidate("close-bad-name", "Xqzw Vnmt", 45),
		nearCandidate("rejected", "Xqzw Vnmt", 300),
	}
	client.On("SearchNearby", mock.Anything, rec.Lat, rec.Lng, 500.0).
		Return(cands, nil).Once()

	best, err := s.Best(context.Background(), rec)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, "close-bad-name", best.Candidate.PlaceID,
		"distance-dominant score prefers the very close candidate")
}

func TestBestSkipsFailedRadius(t *testing.T) {
	s, client := newTestSearcher(t)
	rec := testRecord()

	client.On("SearchNearby", mock.Anything, rec.Lat, rec.Lng, 500.0).
		Return(nil, resilience.NewTransientError(assert.AnError, 503)).Once()
	client.On("SearchNearby", mock.Anything, rec.Lat, rec.Lng, 1000.0).
		Return([]model.Candidate{nearCandidate("p2", "Blue Lagoon", 30)}, nil).Once()

	best, err := s.Best(context.Background(), rec)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, "p2", best.Candidate.PlaceID)
}

func TestBestFailsOnPermanentError(t *testing.T) {
	s, client := newTestSearcher(t)
	rec := testRecord()

	// Neither a rate limit nor transient: a malformed-request class failure
	// aborts the search instead of silently skipping every radius.
	client.On("SearchNearby", mock.Anything, rec.Lat, rec.Lng, 500.0).
		Return(nil, assert.AnError).Once()

	best, err := s.Best(context.Background(), rec)
	require.Error(t, err)
	assert.Nil(t, best)
}

func TestBestCoolsDownOnRateLimit(t *testing.T) {
	s, client := newTestSearcher(t)
	rec := testRecord()

	client.On("SearchNearby", mock.Anything, rec.Lat, rec.Lng, 500.0).
		Return(nil, resilience.NewRateLimitError(assert.AnError)).Once()
	client.On("SearchNearby", mock.Anything, rec.Lat, rec.Lng, 1000.0).
		Return([]model.Candidate{nearCandidate("p3", "Blue Lagoon", 30)}, nil).Once()

	start := time.Now()
	best, err := s.Best(context.Background(), rec)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, "p3", best.Candidate.PlaceID)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond, "cooldown elapsed before the next radius")
}

func TestBestFallsBackToTextSearch(t *testing.T) {
	s, client := newTestSearcher(t)
	rec := testRecord()

	for _, r := range testRadii {
		client.On("SearchNearby", mock.Anything, rec.Lat, rec.Lng, float64(r)).
			Return([]model.Candidate{}, nil).Once()
	}
	client.On("SearchText", mock.Anything, rec.Name, rec.Lat, rec.Lng, 2000.0).
		Return([]model.Candidate{nearCandidate("txt", "Blue Lagoon", 250)}, nil).Once()

	best, err := s.Best(context.Background(), rec)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, "txt", best.Candidate.PlaceID)
}

func TestBestNoMatchAnywhere(t *testing.T) {
	s, client := newTestSearcher(t)
	rec := testRecord()

	for _, r := range testRadii {
		client.On("SearchNearby", mock.Anything, rec.Lat, rec.Lng, float64(r)).
			Return([]model.Candidate{}, nil).Once()
	}
	client.On("SearchText", mock.Anything, rec.Name, rec.Lat, rec.Lng, 2000.0).
		Return([]model.Candidate{}, nil).Once()

	best, err := s.Best(context.Background(), rec)
	require.NoError(t, err)
	assert.Nil(t, best)
}

func TestBestRejectsOutsidePolicy(t *testing.T) {
	s, client := newTestSearcher(t)
	rec := testRecord()

	// 80 m away with a barely-related name: below the low threshold for the
	// close tier, so it must not be accepted.
	for _, r := range testRadii {
		client.On("SearchNearby", mock.Anything, rec.Lat, rec.Lng, float64(r)).
			Return([]model.Candidate{nearCandidate("p", "Xq Zw Kt Vn", 80)}, nil).Once()
	}
	client.On("SearchText", mock.Anything, rec.Name, rec.Lat, rec.Lng, 2000.0).
		Return([]model.Candidate{}, nil).Once()

	best, err := s.Best(context.Background(), rec)
	require.NoError(t, err)
	assert.Nil(t, best)
}
