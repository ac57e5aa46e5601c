// Package mocks provides test doubles for the places client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	"github.com/sells-group/placelink-cli/internal/model"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// SearchNearby provides a mock function with given fields: ctx, lat, lng, radiusM
func (_m *MockClient) SearchNearby(ctx context.Context, lat float64, lng float64, radiusM float64) ([]model.Candidate, error) {
	ret := _m.Called(ctx, lat, lng, radiusM)

	if len(ret) == 0 {
		panic("no return value specified for SearchNearby")
	}

	var r0 []model.Candidate
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, float64, float64, float64) ([]model.Candidate, error)); ok {
		return rf(ctx, lat, lng, radiusM)
	}
	if rf, ok := ret.Get(0).(func(context.Context, float64, float64, float64) []model.Candidate); ok {
		r0 = rf(ctx, lat, lng, radiusM)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.Candidate)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, float64, float64, float64) error); ok {
		r1 = rf(ctx, lat, lng, radiusM)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// SearchText provides a mock function with given fields: ctx, query, lat, lng, biasRadiusM
func (_m *MockClient) SearchText(ctx context.Context, query string, lat float64, lng float64, biasRadiusM float64) ([]model.Candidate, error) {
	ret := _m.Called(ctx, query, lat, lng, biasRadiusM)

	if len(ret) == 0 {
		panic("no return value specified for SearchText")
	}

	var r0 []model.Candidate
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, float64, float64, float64) ([]model.Candidate, error)); ok {
		return rf(ctx, query, lat, lng, biasRadiusM)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, float64, float64, float64) []model.Candidate); ok {
		r0 = rf(ctx, query, lat, lng, biasRadiusM)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.Candidate)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, float64, float64, float64) error); ok {
		r1 = rf(ctx, query, lat, lng, biasRadiusM)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetDetails provides a mock function with given fields: ctx, placeID
func (_m *MockClient) GetDetails(ctx context.Context, placeID string) (*model.Candidate, error) {
	ret := _m.Called(ctx, placeID)

	if len(ret) == 0 {
		panic("no return value specified for GetDetails")
	}

	var r0 *model.Candidate
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.Candidate, error)); ok {
		return rf(ctx, placeID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *model.Candidate); ok {
		r0 = rf(ctx, placeID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.Candidate)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, placeID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
