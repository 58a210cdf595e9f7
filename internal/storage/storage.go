// Package storage persists terminal SessionState exactly once per
// session, per the engine's concurrency model. Adapted from the
// platform's gorm/postgres connection pattern, trimmed to the one
// write-once table this core owns — no migrations runner, no index
// maintenance, no transaction helper, since the core never needs more
// than a single insert per session.
package storage

import (
	"context"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"iaros/negotiation_engine/internal/types"
)

// Repository persists a session's terminal state. Implementations must
// be safe for concurrent calls from independent sessions.
type Repository interface {
	SaveTerminal(ctx context.Context, state types.SessionState) error
}

// sessionRecord is the gorm model backing the negotiation_sessions table.
type sessionRecord struct {
	SessionID       string `gorm:"primaryKey"`
	RequestID       string `gorm:"index"`
	VendorID        string `gorm:"index"`
	Outcome         string
	OutcomeReason   string
	Rounds          int
	SavingsAchieved string // decimal.Decimal stored as its string form
	CreatedAt       time.Time
}

func (sessionRecord) TableName() string { return "negotiation_sessions" }

// PostgresRepository persists terminal session state to Postgres via gorm.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository opens a connection with the given DSN and ensures
// the backing table exists.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&sessionRecord{}); err != nil {
		return nil, err
	}
	return &PostgresRepository{db: db}, nil
}

// SaveTerminal inserts the session's terminal state. Calling this more
// than once for the same session_id is a caller error; the schema
// enforces it via the primary key.
func (r *PostgresRepository) SaveTerminal(ctx context.Context, state types.SessionState) error {
	record := sessionRecord{
		SessionID:       state.SessionID,
		RequestID:       state.RequestID,
		VendorID:        state.VendorID,
		Outcome:         string(state.Outcome),
		OutcomeReason:   state.OutcomeReason,
		Rounds:          state.Round,
		SavingsAchieved: state.SavingsAchieved.String(),
		CreatedAt:       time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

// Close releases the underlying connection pool.
func (r *PostgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InMemoryRepository records terminal states in a slice, for tests and
// for the demo binary when no DSN is configured.
type InMemoryRepository struct {
	mu    sync.Mutex
	Saved []types.SessionState
}

// SaveTerminal appends state and never fails.
func (r *InMemoryRepository) SaveTerminal(_ context.Context, state types.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Saved = append(r.Saved, state)
	return nil
}
