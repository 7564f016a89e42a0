package store

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// upsertChunkSize bounds one merge statement batch; each chunk commits in its
// own transaction so a crash loses only the in-flight chunk.
const upsertChunkSize = 500

// Store provides all database access for the ETL.
type Store struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// New creates a Store.
func New(db *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}
