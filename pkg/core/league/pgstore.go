package league

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore keeps league scores in Postgres.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) List(ctx context.Context) ([]WeekScore, error) {
	return s.query(ctx, `
		SELECT id, player, week, score
		FROM league_scores
		ORDER BY week, player`)
}

func (s *PGStore) ListWeek(ctx context.Context, week int) ([]WeekScore, error) {
	return s.query(ctx, `
		SELECT id, player, week, score
		FROM league_scores
		WHERE week = $1
		ORDER BY player`, week)
}

func (s *PGStore) query(ctx context.Context, sql string, args ...interface{}) ([]WeekScore, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list league scores: %w", err)
	}
	defer rows.Close()

	var scores []WeekScore
	for rows.Next() {
		var ws WeekScore
		if err := rows.Scan(&ws.ID, &ws.Player, &ws.Week, &ws.Score); err != nil {
			return nil, fmt.Errorf("failed to scan league score: %w", err)
		}
		scores = append(scores, ws)
	}
	return scores, rows.Err()
}

func (s *PGStore) Save(ctx context.Context, ws WeekScore) (WeekScore, error) {
	ws, err := prepareSave(ws)
	if err != nil {
		return WeekScore{}, err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO league_scores (id, player, week, score)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			player = EXCLUDED.player,
			week = EXCLUDED.week,
			score = EXCLUDED.score`,
		ws.ID, ws.Player, ws.Week, ws.Score)
	if err != nil {
		return WeekScore{}, fmt.Errorf("failed to save league score: %w", err)
	}
	return ws, nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM league_scores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete league score %s: %w", id, err)
	}
	return nil
}
