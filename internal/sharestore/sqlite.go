//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package sharestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/svalbard/svbd/internal/apperr"
)

// SQLite is a durable Store backed by a single table, wrapping every
// mutation in its own serializable transaction so concurrent writers
// to distinct share ids are never lost and writers to the same id are
// serialized.
type SQLite struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenSQLite opens (creating if absent) a sqlite database at dbPath
// and ensures its schema exists.
func OpenSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, "failed to create data directory", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", dbPath))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, "failed to open database", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS shares (
			share_id TEXT PRIMARY KEY,
			value    BLOB NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`); err != nil {
		_ = db.Close()
		return nil, apperr.Wrap(apperr.KindTransport, "failed to create schema", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return apperr.Wrap(apperr.KindTransport, "failed to begin transaction", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.KindTransport, "failed to commit transaction", err)
	}
	committed = true
	return nil
}

func (s *SQLite) Store(ctx context.Context, shareID string, value []byte) error {
	if shareID == "" || len(value) == 0 {
		return apperr.New(apperr.KindInvalidArgument, "share id and value must not be empty")
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM shares WHERE share_id = ?`, shareID).Scan(&exists)
		switch {
		case err == nil:
			return apperr.New(apperr.KindAlreadyExists, "share already stored")
		case !errors.Is(err, sql.ErrNoRows):
			return apperr.Wrap(apperr.KindTransport, "failed to query existing share", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO shares (share_id, value) VALUES (?, ?)`, shareID, value,
		); err != nil {
			return apperr.Wrap(apperr.KindTransport, "failed to insert share", err)
		}
		return nil
	})
}

func (s *SQLite) Retrieve(ctx context.Context, shareID string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM shares WHERE share_id = ?`, shareID).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, apperr.New(apperr.KindNotFound, "share not found")
	case err != nil:
		return nil, apperr.Wrap(apperr.KindTransport, "failed to query share", err)
	}
	return value, nil
}

func (s *SQLite) Delete(ctx context.Context, shareID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM shares WHERE share_id = ?`, shareID)
		if err != nil {
			return apperr.Wrap(apperr.KindTransport, "failed to delete share", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return apperr.Wrap(apperr.KindTransport, "failed to confirm deletion", err)
		}
		if n == 0 {
			return apperr.New(apperr.KindNotFound, "share not found")
		}
		return nil
	})
}
