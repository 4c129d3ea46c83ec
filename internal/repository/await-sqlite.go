package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
)

// SQLiteAwaitStore persists awaits in the await_states table.
type SQLiteAwaitStore struct {
	db     *sql.DB
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewSQLiteAwaitStore(db *sql.DB, ttl time.Duration, logger *zap.Logger) *SQLiteAwaitStore {
	return &SQLiteAwaitStore{db: db, ttl: ttl, logger: logger, now: time.Now}
}

func (s *SQLiteAwaitStore) Get(ctx context.Context, key AwaitKey) (domain.Await, error) {
	query := `SELECT await, updated_at FROM await_states WHERE user_key = ?`

	var (
		raw       string
		updatedAt time.Time
	)
	err := s.db.QueryRowContext(ctx, query, key.String()).Scan(&raw, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AwaitNone, nil
	}
	if err != nil {
		s.logger.Error("Failed to get await state", zap.Error(err), zap.String("user_key", key.String()))
		return domain.AwaitNone, fmt.Errorf("failed to get await state: %w", err)
	}

	if s.ttl > 0 && s.now().Sub(updatedAt) > s.ttl {
		return domain.AwaitNone, nil
	}
	return domain.Await(raw), nil
}

func (s *SQLiteAwaitStore) Set(ctx context.Context, key AwaitKey, await domain.Await) error {
	if err := checkAwait(await); err != nil {
		return err
	}
	if await == domain.AwaitNone {
		return s.Clear(ctx, key)
	}

	query := `
		INSERT INTO await_states (user_key, await, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_key) DO UPDATE SET await = excluded.await, updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, key.String(), string(await), s.now().UTC()); err != nil {
		s.logger.Error("Failed to set await state", zap.Error(err), zap.String("user_key", key.String()))
		return fmt.Errorf("failed to set await state: %w", err)
	}
	return nil
}

func (s *SQLiteAwaitStore) Clear(ctx context.Context, key AwaitKey) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM await_states WHERE user_key = ?`, key.String()); err != nil {
		s.logger.Error("Failed to clear await state", zap.Error(err), zap.String("user_key", key.String()))
		return fmt.Errorf("failed to clear await state: %w", err)
	}
	return nil
}

// Sweep deletes rows older than the TTL.
func (s *SQLiteAwaitStore) Sweep(ctx context.Context) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM await_states WHERE updated_at < ?`, s.now().UTC().Add(-s.ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep await states: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
