package portfolio

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore keeps portfolio entries in Postgres.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT symbol, status, sector, industry, thesis, added_at
		FROM portfolio
		ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Symbol, &e.Status, &e.Sector, &e.Industry, &e.Thesis, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PGStore) Get(ctx context.Context, symbol string) (*Entry, error) {
	var e Entry
	err := s.pool.QueryRow(ctx, `
		SELECT symbol, status, sector, industry, thesis, added_at
		FROM portfolio
		WHERE symbol = $1`, symbol).
		Scan(&e.Symbol, &e.Status, &e.Sector, &e.Industry, &e.Thesis, &e.AddedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio entry %s: %w", symbol, err)
	}
	return &e, nil
}

func (s *PGStore) Save(ctx context.Context, e Entry) (Entry, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO portfolio (symbol, status, sector, industry, thesis, added_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (symbol) DO UPDATE SET
			status = EXCLUDED.status,
			sector = EXCLUDED.sector,
			industry = EXCLUDED.industry,
			thesis = EXCLUDED.thesis
		RETURNING added_at`,
		e.Symbol, e.Status, e.Sector, e.Industry, e.Thesis).Scan(&e.AddedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to save portfolio entry %s: %w", e.Symbol, err)
	}
	return e, nil
}

func (s *PGStore) Delete(ctx context.Context, symbol string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM portfolio WHERE symbol = $1`, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio entry %s: %w", symbol, err)
	}
	return nil
}

func (s *PGStore) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT symbol FROM portfolio ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}
