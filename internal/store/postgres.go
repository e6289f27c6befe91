package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/babyurl/internal/shortener"
)

const uniqueViolation = "23505"

const schema = `
	CREATE TABLE IF NOT EXISTS associations (
		code         TEXT PRIMARY KEY,
		original_url TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS associations_created_at_idx ON associations (created_at);
`

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewPostgresStore creates a new PostgreSQL-backed association store.
func NewPostgresStore(pool *pgxpool.Pool, ttl time.Duration) *PostgresStore {
	return &PostgresStore{pool: pool, ttl: ttl}
}

// Migrate creates the associations table and its time index.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schema)

	return err
}

// Insert claims the code unless a live association holds it.
// An expired holder is replaced in the same statement.
func (p *PostgresStore) Insert(ctx context.Context, association *shortener.Association) error {
	query := `
		INSERT INTO associations (code, original_url, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE
			SET original_url = EXCLUDED.original_url,
			    created_at   = EXCLUDED.created_at
			WHERE associations.created_at <= $4
	`

	tag, err := p.pool.Exec(ctx, query,
		string(association.Code),
		association.OriginalURL,
		association.CreatedAt,
		association.CreatedAt.Add(-p.ttl),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return shortener.ErrCollision
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrCollision
	}

	return nil
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Association, error) {
	query := `
		SELECT code, original_url, created_at
		FROM associations
		WHERE code = $1
	`

	var association shortener.Association

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(
		&association.Code,
		&association.OriginalURL,
		&association.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &association, nil
}

func (p *PostgresStore) DeleteExpired(ctx context.Context, cutoff time.Time) ([]shortener.Code, error) {
	rows, err := p.pool.Query(ctx, `DELETE FROM associations WHERE created_at <= $1 RETURNING code`, cutoff)
	if err != nil {
		return nil, err
	}

	codes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shortener.Code, error) {
		var code string
		err := row.Scan(&code)

		return shortener.Code(code), err
	})
	if err != nil {
		return nil, err
	}

	return codes, nil
}

// Shutdown is a no-op for PostgresStore (pool managed externally).
func (p *PostgresStore) Shutdown() error {
	return nil
}

var (
	_ shortener.Repository = (*PostgresStore)(nil)
	_ shortener.Sweeper    = (*PostgresStore)(nil)
)
