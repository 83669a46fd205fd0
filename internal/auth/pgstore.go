package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS hosts (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash BYTEA NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

// PGStore is the Postgres-backed HostStore.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects to databaseURL and ensures the hosts table exists.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create hosts table: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

func (s *PGStore) Close() {
	s.pool.Close()
}

func (s *PGStore) CreateHost(ctx context.Context, h Host) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO hosts (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		h.ID, h.Email, h.PasswordHash, h.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert host: %w", err)
	}
	return nil
}

func (s *PGStore) GetHostByEmail(ctx context.Context, email string) (Host, error) {
	var h Host
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM hosts WHERE email = $1`,
		email,
	).Scan(&h.ID, &h.Email, &h.PasswordHash, &h.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Host{}, ErrHostNotFound
	}
	if err != nil {
		return Host{}, fmt.Errorf("select host: %w", err)
	}
	return h, nil
}
