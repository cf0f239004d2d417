package credstore

import (
	"context"
	"database/sql"

	"github.com/cgea-sas/console/internal/client/models"
	"github.com/cgea-sas/console/internal/client/repositories/metadata"
	"github.com/cgea-sas/console/internal/dbx"
	"github.com/cgea-sas/console/internal/logging"
)

// SQLiteStore persists tokens in the metadata table of the local database.
type SQLiteStore struct {
	db   *sql.DB
	repo metadata.Repository
	log  logging.Logger
}

func NewSQLiteStore(db *sql.DB, log logging.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, repo: metadata.NewSQLiteRepository(db), log: log}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.repo.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "credential store unreadable, treating as empty", "key", key, "error", err)
		return "", false
	}
	return v, ok
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) {
	if err := s.repo.Set(ctx, key, value); err != nil {
		s.log.Warn(ctx, "credential store write failed", "key", key, "error", err)
	}
}

func (s *SQLiteStore) Remove(ctx context.Context, key string) {
	if err := s.repo.Delete(ctx, key); err != nil {
		s.log.Warn(ctx, "credential store delete failed", "key", key, "error", err)
	}
}

func (s *SQLiteStore) SetPair(ctx context.Context, pair models.TokenPair) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, AccessKey, pair.Access); err != nil {
			return err
		}
		return repo.Set(ctx, RefreshKey, pair.Refresh)
	})
	if err != nil {
		s.log.Warn(ctx, "credential store write failed", "error", err)
	}
}

func (s *SQLiteStore) ClearPair(ctx context.Context) {
	if err := s.repo.Delete(ctx, AccessKey, RefreshKey); err != nil {
		s.log.Warn(ctx, "credential store delete failed", "error", err)
	}
}
