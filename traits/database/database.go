package database

import (
	"database/sql"
	"os"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/config"

	"go.uber.org/zap"
)

// InitDatabase opens the SQLite database backing the persisted await store.
func InitDatabase(cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DBPath, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", cfg.GetDatabasePath()+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Database initialized successfully",
		zap.String("path", cfg.GetDatabasePath()),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)

	return db, nil
}

// CreateTables creates the await_states table.
func CreateTables(db *sql.DB, logger *zap.Logger) error {
	awaitStatesTable := `
		CREATE TABLE IF NOT EXISTS await_states (
			user_key TEXT PRIMARY KEY,
			await TEXT NOT NULL CHECK (await IN ('order_text', 'geo', 'driver_registration')),
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`

	awaitStatesIndex := `CREATE INDEX IF NOT EXISTS idx_await_states_updated_at ON await_states(updated_at);`

	for _, stmt := range []string{awaitStatesTable, awaitStatesIndex} {
		if _, err := db.Exec(stmt); err != nil {
			logger.Error("Failed to create table", zap.Error(err))
			return err
		}
	}

	logger.Info("Database tables created successfully")
	return nil
}
