// Package store reads course structure and activity records from an LMS
// database through bun.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"

	"github.com/alnah/go-course2pdf/internal/module"
)

// maxLoggedQuery bounds the query text attached to debug logs.
const maxLoggedQuery = 1000

// Store implements module.Provider plus the course structure queries the
// exporter needs. It is safe for concurrent use.
type Store struct {
	db     *bun.DB
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for query tracing at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open opens a SQLite database at dsn.
func Open(dsn string, opts ...Option) (*Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := sqldb.Ping(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return New(bun.NewDB(sqldb, sqlitedialect.New()), opts...), nil
}

// New wraps an existing bun database.
func New(db *bun.DB, opts ...Option) *Store {
	s := &Store{db: db, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	db.WithQueryHook(&queryLogger{logger: s.logger})
	return s
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSchema creates every table the store reads, if missing.
func (s *Store) CreateSchema(ctx context.Context) error {
	for _, model := range allModels {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// DB exposes the bun handle for fixtures and maintenance commands.
func (s *Store) DB() *bun.DB {
	return s.db
}

// queryLogger traces queries at debug level.
type queryLogger struct {
	logger *zap.Logger
}

// BeforeQuery is a no-op that satisfies the bun.QueryHook interface.
func (h *queryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

// AfterQuery logs the query.
func (h *queryLogger) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	if !h.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	query := event.Query
	if len(query) > maxLoggedQuery {
		query = query[:maxLoggedQuery] + "...(truncated)"
	}
	fields := []zap.Field{
		zap.String("operation", event.Operation()),
		zap.String("query", query),
		zap.Duration("duration", time.Since(event.StartTime)),
	}
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		fields = append(fields, zap.Error(event.Err))
	}
	h.logger.Debug("query", fields...)
}

// notFound maps sql.ErrNoRows to module.ErrRecordNotFound.
func notFound(err error, table string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %d", module.ErrRecordNotFound, table, id)
	}
	return fmt.Errorf("%s %d: %w", table, id, err)
}
