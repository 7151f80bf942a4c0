package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// DBTX is satisfied by *pgxpool.Pool and by pgxmock pools.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS catalog_products (
	slug       text PRIMARY KEY,
	descriptor jsonb NOT NULL,
	position   int NOT NULL DEFAULT 0
)`

// PostgresSource keeps descriptors verbatim in catalog_products.
type PostgresSource struct {
	db DBTX
}

func NewPostgresSource(db DBTX) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.Exec(ctx, schemaSQL)
		return err
	})
}

func (s *PostgresSource) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.Ping(ctx)
	})
}

func (s *PostgresSource) IDs(ctx context.Context) ([]string, error) {
	var out []string

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.Query(ctx, `
			SELECT slug
			FROM catalog_products
			ORDER BY position ASC, slug ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]string, 0, 16)
		for rows.Next() {
			var slug string
			if err := rows.Scan(&slug); err != nil {
				return err
			}
			out = append(out, slug)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("list catalog_products: %w", err)
	}
	return out, nil
}

func (s *PostgresSource) Read(ctx context.Context, id string) ([]byte, error) {
	var data []byte

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRow(ctx, `
			SELECT descriptor
			FROM catalog_products
			WHERE slug = $1
		`, id).Scan(&data)
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", id, err)
	}
	return data, nil
}

// Upsert stores descriptor under slug. position fixes the catalog order.
func (s *PostgresSource) Upsert(ctx context.Context, slug string, position int, descriptor []byte) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.Exec(ctx, `
			INSERT INTO catalog_products (slug, descriptor, position)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE
			SET descriptor = EXCLUDED.descriptor, position = EXCLUDED.position
		`, slug, descriptor, position)
		return err
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
