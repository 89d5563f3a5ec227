package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	config.MaxConns = 20
	config.MinConns = 1

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.createTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key_name TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sorted_sets (
			key_name TEXT NOT NULL,
			member TEXT NOT NULL,
			score DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (key_name, member)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sorted_sets_key_score ON sorted_sets (key_name, score)`,
	}
	for _, query := range queries {
		if _, err := s.pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv WHERE key_name = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO kv (key_name, value)
		VALUES ($1, $2)
		ON CONFLICT (key_name) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	return err
}

func (s *PostgresStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sorted_sets (key_name, member, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (key_name, member) DO UPDATE SET score = EXCLUDED.score
	`, key, member, score)
	return err
}

func (s *PostgresStore) ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT member
		FROM sorted_sets
		WHERE key_name = $1 AND score >= $2 AND score <= $3
		ORDER BY score ASC, member ASC
	`, key, min, max)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (s *PostgresStore) FlushAll(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE kv, sorted_sets`)
	return err
}

func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
