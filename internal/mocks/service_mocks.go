// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/coupon-service/internal/domain/model"
)

type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) Quote(ctx context.Context, cart *model.Cart) (model.Quote, error) {
	args := m.Called(ctx, cart)
	return args.Get(0).(model.Quote), args.Error(1)
}

func (m *MockPricingService) Applicable(ctx context.Context, cart *model.Cart) ([]string, error) {
	args := m.Called(ctx, cart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) List() []model.CouponInfo {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.CouponInfo)
}

func (m *MockCouponService) Register(ctx context.Context, def model.CouponDefinition) (model.CouponInfo, error) {
	args := m.Called(ctx, def)
	return args.Get(0).(model.CouponInfo), args.Error(1)
}

type MockQuotePublisher struct {
	mock.Mock
}

func (m *MockQuotePublisher) PublishQuote(ctx context.Context, event model.QuoteEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockLoggingService struct {
	mock.Mock
}

func (m *MockLoggingService) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLoggingService) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLoggingService) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LogEntry), args.Error(1)
}

func (m *MockLoggingService) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}
