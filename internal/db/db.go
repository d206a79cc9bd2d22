// Package db provides read-only PostgreSQL access to stored candidate profiles.
//
// Profiles live in a single table:
//
//	CREATE TABLE profiles (
//	    id         UUID PRIMARY KEY,
//	    document   JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//
// where document holds a profile in the same JSON shape the CLI and API accept.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/cv-tailor/internal/types"
)

// ErrProfileNotFound is returned when no profile has the requested ID.
var ErrProfileNotFound = errors.New("profile not found")

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// StoredProfile is a profile row with its metadata.
type StoredProfile struct {
	ID        uuid.UUID     `json:"id"`
	Profile   types.Profile `json:"profile"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping reports whether the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// GetProfile retrieves a profile by ID. It returns ErrProfileNotFound when no row matches.
func (db *DB) GetProfile(ctx context.Context, id uuid.UUID) (*types.Profile, error) {
	stored, err := db.GetStoredProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	return &stored.Profile, nil
}

// GetStoredProfile retrieves a profile row with its metadata.
func (db *DB) GetStoredProfile(ctx context.Context, id uuid.UUID) (*StoredProfile, error) {
	var (
		content   []byte
		updatedAt time.Time
	)
	err := db.pool.QueryRow(ctx,
		`SELECT document, updated_at FROM profiles WHERE id = $1`,
		id,
	).Scan(&content, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
		}
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}

	profile, err := DecodeProfile(content)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", id, err)
	}
	return &StoredProfile{ID: id, Profile: *profile, UpdatedAt: updatedAt}, nil
}

// DecodeProfile parses a stored profile document.
func DecodeProfile(content []byte) (*types.Profile, error) {
	if len(content) == 0 {
		return nil, errors.New("empty profile document")
	}
	var profile types.Profile
	if err := json.Unmarshal(content, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile document: %w", err)
	}
	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	return &profile, nil
}
