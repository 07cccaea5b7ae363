package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

// PostgresCache is a PostgreSQL-backed SegmentCache. Each (profile,
// segment type) pair maps to one row holding the segment as JSONB;
// Put upserts with last-write-wins semantics.
type PostgresCache struct {
	pool    *pgxpool.Pool
	profile string
}

// ConnectPostgres establishes a connection pool and returns a cache
// scoped to one profile.
func ConnectPostgres(ctx context.Context, databaseURL, profileID string) (*PostgresCache, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresCache{pool: pool, profile: profileID}, nil
}

// EnsureSchema creates the segment table if it does not exist.
func (c *PostgresCache) EnsureSchema(ctx context.Context) error {
	_, err := c.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS segments (
			profile_id   TEXT NOT NULL,
			segment_type TEXT NOT NULL,
			content      JSONB NOT NULL,
			version      INT NOT NULL DEFAULT 1,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (profile_id, segment_type)
		)`)
	if err != nil {
		return fmt.Errorf("failed to create segments table: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (c *PostgresCache) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// Get returns the cached segment for a type.
func (c *PostgresCache) Get(ctx context.Context, segmentType types.SegmentType) (*types.Segment, bool, error) {
	var data []byte
	err := c.pool.QueryRow(ctx,
		`SELECT content FROM segments WHERE profile_id = $1 AND segment_type = $2`,
		c.profile, string(segmentType),
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read segment %s: %w", segmentType, err)
	}

	var segment types.Segment
	if err := json.Unmarshal(data, &segment); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached segment %s: %w", segmentType, err)
	}
	return &segment, true, nil
}

// Put upserts a segment row, replacing any previous entry.
func (c *PostgresCache) Put(ctx context.Context, segment *types.Segment) error {
	data, err := json.Marshal(segment)
	if err != nil {
		return fmt.Errorf("failed to encode segment %s: %w", segment.SegmentType, err)
	}

	_, err = c.pool.Exec(ctx,
		`INSERT INTO segments (profile_id, segment_type, content, version, updated_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (profile_id, segment_type)
		 DO UPDATE SET content = $3, version = $4, updated_at = NOW()`,
		c.profile, string(segment.SegmentType), data, segment.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to store segment %s: %w", segment.SegmentType, err)
	}
	return nil
}

// Clear removes the entry for one segment type.
func (c *PostgresCache) Clear(ctx context.Context, segmentType types.SegmentType) error {
	_, err := c.pool.Exec(ctx,
		`DELETE FROM segments WHERE profile_id = $1 AND segment_type = $2`,
		c.profile, string(segmentType),
	)
	if err != nil {
		return fmt.Errorf("failed to clear segment %s: %w", segmentType, err)
	}
	return nil
}

// ClearAll removes every entry for the profile.
func (c *PostgresCache) ClearAll(ctx context.Context) error {
	_, err := c.pool.Exec(ctx,
		`DELETE FROM segments WHERE profile_id = $1`,
		c.profile,
	)
	if err != nil {
		return fmt.Errorf("failed to clear segments: %w", err)
	}
	return nil
}
