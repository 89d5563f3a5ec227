package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}
	// sqlite serialises writers; one connection avoids "database is locked".
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key_name TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sorted_sets (
			key_name TEXT NOT NULL,
			member TEXT NOT NULL,
			score REAL NOT NULL,
			PRIMARY KEY (key_name, member)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sorted_sets_key_score ON sorted_sets(key_name, score)`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key_name = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO kv (key_name, value) VALUES (?, ?)`, key, value)
	return err
}

func (s *SQLiteStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR REPLACE INTO sorted_sets (key_name, member, score)
        VALUES (?, ?, ?)
    `, key, member, score)
	return err
}

func (s *SQLiteStore) ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT member FROM sorted_sets
        WHERE key_name = ? AND score >= ? AND score <= ?
        ORDER BY score ASC, member ASC
    `, key, min, max)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (s *SQLiteStore) FlushAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sorted_sets`); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
