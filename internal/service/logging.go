package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/coupon-service/internal/domain/model"
	"github.com/guttosm/coupon-service/internal/repository"
)

// LoggingService persists and queries request and audit logs.
type LoggingService interface {
	// CreateLog stores a single log entry.
	CreateLog(ctx context.Context, entry *model.LogEntry) error

	// CreateLogs stores multiple log entries in bulk.
	CreateLogs(ctx context.Context, entries []*model.LogEntry) error

	// QueryLogs retrieves log entries matching the query options.
	QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error)

	// CountLogs returns the count of log entries matching the query options.
	CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error)
}

// Query page sizes applied by LoggingServiceImpl.
const (
	DefaultLogQueryLimit = 100
	MaxLogQueryLimit     = 1000
)

// LoggingServiceImpl implements LoggingService on a logs repository.
type LoggingServiceImpl struct {
	repo repository.LogsRepositoryInterface
}

// NewLoggingService creates a logging service over repo.
func NewLoggingService(repo repository.LogsRepositoryInterface) LoggingService {
	return &LoggingServiceImpl{repo: repo}
}

// CreateLog stores entry and fills in its ID and timestamp when missing.
func (s *LoggingServiceImpl) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	if entry == nil {
		return nil
	}
	return s.repo.Create(ctx, toDocument(entry))
}

// CreateLogs stores entries in one batch. Nil entries are skipped.
func (s *LoggingServiceImpl) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	docs := make([]*repository.LogEntryDocument, 0, len(entries))
	for _, entry := range entries {
		if entry != nil {
			docs = append(docs, toDocument(entry))
		}
	}
	if len(docs) == 0 {
		return nil
	}
	return s.repo.CreateMany(ctx, docs)
}

// QueryLogs returns matching entries, newest first. An unset limit returns
// DefaultLogQueryLimit entries and larger limits are capped at
// MaxLogQueryLimit.
func (s *LoggingServiceImpl) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	q := toRepositoryQuery(opts)
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultLogQueryLimit
	case q.Limit > MaxLogQueryLimit:
		q.Limit = MaxLogQueryLimit
	}

	docs, err := s.repo.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LogEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, fromDocument(doc))
	}
	return entries, nil
}

// CountLogs counts matching entries. Paging options are ignored.
func (s *LoggingServiceImpl) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	q := toRepositoryQuery(opts)
	q.Limit, q.Skip = 0, 0
	return s.repo.Count(ctx, q)
}

// toDocument fills in a missing ID, timestamp or level on entry itself so
// callers can correlate what was stored.
func toDocument(entry *model.LogEntry) *repository.LogEntryDocument {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Level == "" {
		entry.Level = "info"
	}

	return &repository.LogEntryDocument{
		ID:         entry.ID,
		Timestamp:  entry.Timestamp,
		Level:      entry.Level,
		Message:    entry.Message,
		RequestID:  entry.RequestID,
		Method:     entry.Method,
		Path:       entry.Path,
		StatusCode: entry.StatusCode,
		Duration:   entry.Duration,
		IP:         entry.IP,
		UserAgent:  entry.UserAgent,
		Error:      entry.Error,
		Subject:    entry.Subject,
		ActionType: entry.ActionType,
		Fields:     entry.Fields,
	}
}

func fromDocument(doc *repository.LogEntryDocument) model.LogEntry {
	return model.LogEntry{
		ID:         doc.ID,
		Timestamp:  doc.Timestamp,
		Level:      doc.Level,
		Message:    doc.Message,
		RequestID:  doc.RequestID,
		Method:     doc.Method,
		Path:       doc.Path,
		StatusCode: doc.StatusCode,
		Duration:   doc.Duration,
		IP:         doc.IP,
		UserAgent:  doc.UserAgent,
		Error:      doc.Error,
		Subject:    doc.Subject,
		ActionType: doc.ActionType,
		Fields:     doc.Fields,
	}
}

func toRepositoryQuery(opts model.LogQueryOptions) repository.LogQueryOptions {
	if opts.Skip < 0 {
		opts.Skip = 0
	}
	return repository.LogQueryOptions{
		RequestID:  opts.RequestID,
		Level:      opts.Level,
		ActionType: opts.ActionType,
		Method:     opts.Method,
		Path:       opts.Path,
		StartTime:  opts.StartTime,
		EndTime:    opts.EndTime,
		Limit:      opts.Limit,
		Skip:       opts.Skip,
	}
}
