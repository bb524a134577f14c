package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the table used by PostgresStore.
const Schema = `
CREATE TABLE IF NOT EXISTS user_settings (
    profile    TEXT PRIMARY KEY,
    settings   JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// PostgresStore keeps one settings row per profile.
type PostgresStore struct {
	pool    *pgxpool.Pool
	profile string
}

func NewPostgresStore(pool *pgxpool.Pool, profile string) *PostgresStore {
	if profile == "" {
		profile = "default"
	}
	return &PostgresStore{pool: pool, profile: profile}
}

// EnsureSchema creates the settings table if it does not exist.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create user_settings: %w", err)
	}
	return nil
}

func (p *PostgresStore) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := p.pool.QueryRow(ctx,
		`SELECT settings::text FROM user_settings WHERE profile = $1`, p.profile,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select settings for %s: %w", p.profile, err)
	}
	return data, nil
}

func (p *PostgresStore) Save(ctx context.Context, data []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO user_settings (profile, settings, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (profile) DO UPDATE
		SET settings = EXCLUDED.settings, updated_at = now()`,
		p.profile, string(data))
	if err != nil {
		return fmt.Errorf("upsert settings for %s: %w", p.profile, err)
	}
	return nil
}
