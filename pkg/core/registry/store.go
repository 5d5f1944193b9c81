package registry

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the persistence contract for endpoint definitions.
type Store interface {
	List(ctx context.Context) ([]Definition, error)
	Get(ctx context.Context, id string) (*Definition, error)
	Save(ctx context.Context, def Definition) (Definition, error)
	Delete(ctx context.Context, id string) error
	// IncrementUsage bumps the usage counter after a successful fetch.
	IncrementUsage(ctx context.Context, id string) error
}

// PGStore keeps definitions in the endpoints table.
type PGStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PGStore)(nil)

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) List(ctx context.Context) ([]Definition, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, url_template, usage_count FROM endpoints ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list endpoints: %w", err)
	}
	defer rows.Close()

	var defs []Definition
	for rows.Next() {
		var d Definition
		if err := rows.Scan(&d.ID, &d.Name, &d.URLTemplate, &d.UsageCount); err != nil {
			return nil, fmt.Errorf("failed to scan endpoint: %w", err)
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

func (s *PGStore) Get(ctx context.Context, id string) (*Definition, error) {
	var d Definition
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, url_template, usage_count FROM endpoints WHERE id = $1`, id).
		Scan(&d.ID, &d.Name, &d.URLTemplate, &d.UsageCount)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load endpoint %s: %w", id, err)
	}
	return &d, nil
}

func (s *PGStore) Save(ctx context.Context, def Definition) (Definition, error) {
	var existing *Definition
	if def.ID != "" {
		var err error
		existing, err = s.Get(ctx, def.ID)
		if err != nil {
			return Definition{}, err
		}
	}

	prepared, err := prepareSave(def, existing)
	if err != nil {
		return Definition{}, err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO endpoints (id, name, url_template, usage_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			url_template = EXCLUDED.url_template,
			updated_at = NOW()
	`, prepared.ID, prepared.Name, prepared.URLTemplate, prepared.UsageCount)
	if err != nil {
		return Definition{}, fmt.Errorf("failed to save endpoint %s: %w", prepared.ID, err)
	}
	return prepared, nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM endpoints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete endpoint %s: %w", id, err)
	}
	return nil
}

func (s *PGStore) IncrementUsage(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE endpoints SET usage_count = usage_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to bump usage for %s: %w", id, err)
	}
	return nil
}
