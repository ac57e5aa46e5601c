package verify

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/placelink-cli/internal/model"
	"github.com/sells-group/placelink-cli/internal/store"
	"github.com/sells-group/placelink-cli/pkg/places/mocks"
)

func testCache(t *testing.T) *store.Cache {
	t.Helper()
	c, err := store.Open(filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.Migrate(context.Background()))
	return c
}

func TestCachedClientNearbyHitsOnce(t *testing.T) {
	inner := mocks.NewMockClient(t)
	cands := []model.Candidate{{PlaceID: "p1", Name: "Grand Hotel", Lat: 10, Lng: 20}}
	inner.On("SearchNearby", mock.Anything, 10.0, 20.0, 500.0).
		Return(cands, nil).Once()

	client := WithCache(inner, testCache(t))
	ctx := context.Background()

	first, err := client.SearchNearby(ctx, 10, 20, 500)
	require.NoError(t, err)
	second, err := client.SearchNearby(ctx, 10, 20, 500)
	require.NoError(t, err)

	assert.Equal(t, cands, first)
	assert.Equal(t, first, second, "second lookup is served from the cache")
}

func TestCachedClientDistinctKeys(t *testing.T) {
	inner := mocks.NewMockClient(t)
	inner.On("SearchNearby", mock.Anything, 10.0, 20.0, 500.0).
		Return([]model.Candidate{{PlaceID: "near"}}, nil).Once()
	inner.On("SearchNearby", mock.Anything, 10.0, 20.0, 1000.0).
		Return([]model.Candidate{{PlaceID: "wide"}}, nil).Once()

	client := WithCache(inner, testCache(t))
	ctx := context.Background()

	near, err := client.SearchNearby(ctx, 10, 20, 500)
	require.NoError(t, err)
	wide, err := client.SearchNearby(ctx, 10, 20, 1000)
	require.NoError(t, err)

	assert.Equal(t, "near", near[0].PlaceID)
	assert.Equal(t, "wide", wide[0].PlaceID)
}

func TestCachedClientErrorsNotCached(t *testing.T) {
	inner := mocks.NewMockClient(t)
	inner.On("SearchText", mock.Anything, "cafe", 10.0, 20.0, 2000.0).
		Return(nil, assert.AnError).Once()
	inner.On("SearchText", mock.Anything, "cafe", 10.0, 20.0, 2000.0).
		Return([]model.Candidate{{PlaceID: "p1"}}, nil).Once()

	client := WithCache(inner, testCache(t))
	ctx := context.Background()

	_, err := client.SearchText(ctx, "cafe", 10, 20, 2000)
	require.Error(t, err)

	cands, err := client.SearchText(ctx, "cafe", 10, 20, 2000)
	require.NoError(t, err)
	assert.Equal(t, "p1", cands[0].PlaceID, "failure did not poison the cache")
}

func TestCachedClientDetails(t *testing.T) {
	inner := mocks.NewMockClient(t)
	detail := &model.Candidate{PlaceID: "p1", Name: "Grand Hotel", Phone: "+1 555 0100"}
	inner.On("GetDetails", mock.Anything, "p1").Return(detail, nil).Once()
	inner.On("GetDetails", mock.Anything, "missing").Return(nil, nil).Twice()

	client := WithCache(inner, testCache(t))
	ctx := context.Background()

	first, err := client.GetDetails(ctx, "p1")
	require.NoError(t, err)
	second, err := client.GetDetails(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, detail, first)
	assert.Equal(t, first, second)

	// A nil detail (unknown place) is not cached; each call asks again.
	gone, err := client.GetDetails(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, gone)
	gone, err = client.GetDetails(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
