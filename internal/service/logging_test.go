//go:build !integration

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/coupon-service/internal/domain/model"
	"github.com/guttosm/coupon-service/internal/mocks"
	"github.com/guttosm/coupon-service/internal/repository"
)

var errDatabase = errors.New("database error")

func TestLoggingService_CreateLog(t *testing.T) {
	t.Run("fills ID timestamp and level", func(t *testing.T) {
		repo := new(mocks.MockLogsRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(doc *repository.LogEntryDocument) bool {
			return !doc.ID.IsZero() && doc.Level == "info" && doc.ActionType == model.ActionTypeQuote
		})).Return(nil).Once()

		entry := &model.LogEntry{Message: "Quote computed", ActionType: model.ActionTypeQuote}
		require.NoError(t, NewLoggingService(repo).CreateLog(context.Background(), entry))

		assert.False(t, entry.ID.IsZero())
		assert.Equal(t, time.UTC, entry.Timestamp.Location())
		assert.Equal(t, "info", entry.Level)
		repo.AssertExpectations(t)
	})

	t.Run("keeps caller ID", func(t *testing.T) {
		id := primitive.NewObjectID()
		repo := new(mocks.MockLogsRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(doc *repository.LogEntryDocument) bool {
			return doc.ID == id && doc.Level == "warn"
		})).Return(nil).Once()

		err := NewLoggingService(repo).CreateLog(context.Background(), &model.LogEntry{ID: id, Level: "warn"})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(mocks.MockLogsRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(errDatabase).Once()

		err := NewLoggingService(repo).CreateLog(context.Background(), &model.LogEntry{Message: "x"})
		assert.ErrorIs(t, err, errDatabase)
	})

	t.Run("nil entry is ignored", func(t *testing.T) {
		repo := new(mocks.MockLogsRepository)
		assert.NoError(t, NewLoggingService(repo).CreateLog(context.Background(), nil))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestLoggingService_CreateLogs(t *testing.T) {
	tests := []struct {
		name     string
		entries  []*model.LogEntry
		wantDocs int
		repoErr  error
	}{
		{name: "empty batch", entries: nil},
		{name: "only nil entries", entries: []*model.LogEntry{nil, nil}},
		{
			name:     "nil entries skipped",
			entries:  []*model.LogEntry{{Message: "a"}, nil, {Message: "b"}},
			wantDocs: 2,
		},
		{
			name:     "repository error",
			entries:  []*model.LogEntry{{Message: "a"}},
			wantDocs: 1,
			repoErr:  errDatabase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockLogsRepository)
			if tt.wantDocs > 0 {
				repo.On("CreateMany", mock.Anything, mock.MatchedBy(func(docs []*repository.LogEntryDocument) bool {
					return len(docs) == tt.wantDocs
				})).Return(tt.repoErr).Once()
			}

			err := NewLoggingService(repo).CreateLogs(context.Background(), tt.entries)

			assert.ErrorIs(t, err, tt.repoErr)
			if tt.wantDocs == 0 {
				repo.AssertNotCalled(t, "CreateMany", mock.Anything, mock.Anything)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestLoggingService_QueryLogsLimits(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		skip      int
		wantLimit int
		wantSkip  int
	}{
		{name: "unset limit", limit: 0, wantLimit: DefaultLogQueryLimit},
		{name: "negative limit", limit: -5, wantLimit: DefaultLogQueryLimit},
		{name: "within range", limit: 25, skip: 50, wantLimit: 25, wantSkip: 50},
		{name: "capped", limit: 10_000, wantLimit: MaxLogQueryLimit},
		{name: "negative skip", limit: 10, skip: -1, wantLimit: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockLogsRepository)
			repo.On("Query", mock.Anything, mock.MatchedBy(func(q repository.LogQueryOptions) bool {
				return q.Limit == tt.wantLimit && q.Skip == tt.wantSkip && q.ActionType == model.ActionTypeRegisterCoupon
			})).Return([]*repository.LogEntryDocument{
				{ID: primitive.NewObjectID(), ActionType: model.ActionTypeRegisterCoupon, Subject: "pricing-admin"},
			}, nil).Once()

			entries, err := NewLoggingService(repo).QueryLogs(context.Background(), model.LogQueryOptions{
				ActionType: model.ActionTypeRegisterCoupon,
				Limit:      tt.limit,
				Skip:       tt.skip,
			})
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "pricing-admin", entries[0].Subject)
			repo.AssertExpectations(t)
		})
	}
}

func TestLoggingService_QueryLogsError(t *testing.T) {
	repo := new(mocks.MockLogsRepository)
	repo.On("Query", mock.Anything, mock.Anything).Return(nil, errDatabase).Once()

	entries, err := NewLoggingService(repo).QueryLogs(context.Background(), model.LogQueryOptions{})
	assert.ErrorIs(t, err, errDatabase)
	assert.Nil(t, entries)
}

func TestLoggingService_CountLogsIgnoresPaging(t *testing.T) {
	repo := new(mocks.MockLogsRepository)
	repo.On("Count", mock.Anything, repository.LogQueryOptions{Level: "error"}).Return(int64(5), nil).Once()

	n, err := NewLoggingService(repo).CountLogs(context.Background(), model.LogQueryOptions{
		Level: "error",
		Limit: 10,
		Skip:  20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	repo.AssertExpectations(t)
}

func TestDocumentConversionKeepsAuditFields(t *testing.T) {
	entry := &model.LogEntry{
		ID:         primitive.NewObjectID(),
		Timestamp:  time.Date(2024, 11, 29, 10, 0, 0, 0, time.UTC),
		Level:      "info",
		Message:    "Coupon registered",
		RequestID:  "req-123",
		Method:     "POST",
		Path:       "/api/coupons",
		StatusCode: 201,
		Duration:   3,
		IP:         "127.0.0.1",
		UserAgent:  "curl/8",
		Subject:    "pricing-admin",
		ActionType: model.ActionTypeRegisterCoupon,
		Fields:     map[string]interface{}{"coupon": "Loyalty Offer 5% off"},
	}

	assert.Equal(t, *entry, fromDocument(toDocument(entry)))
}

func TestToRepositoryQuery(t *testing.T) {
	start := time.Date(2024, 11, 29, 9, 0, 0, 0, time.UTC)
	got := toRepositoryQuery(model.LogQueryOptions{
		RequestID:  "req-1",
		Level:      "warn",
		ActionType: model.ActionTypeQuote,
		Method:     "POST",
		Path:       "/api/checkout",
		StartTime:  &start,
		Limit:      20,
		Skip:       40,
	})

	assert.Equal(t, repository.LogQueryOptions{
		RequestID:  "req-1",
		Level:      "warn",
		ActionType: model.ActionTypeQuote,
		Method:     "POST",
		Path:       "/api/checkout",
		StartTime:  &start,
		Limit:      20,
		Skip:       40,
	}, got)
}
