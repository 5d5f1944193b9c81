// Package league tracks weekly scores for the word game league. It is a
// plain CRUD grid, unrelated to the research side of the app.
package league

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalid marks scores that fail validation on save.
var ErrInvalid = errors.New("invalid week score")

// WeekScore is one player's score for one week.
type WeekScore struct {
	ID     string `json:"id"`
	Player string `json:"player"`
	Week   int    `json:"week"`
	Score  int    `json:"score"`
}

// Store is the persistence contract for week scores.
type Store interface {
	List(ctx context.Context) ([]WeekScore, error)
	ListWeek(ctx context.Context, week int) ([]WeekScore, error)
	Save(ctx context.Context, s WeekScore) (WeekScore, error)
	Delete(ctx context.Context, id string) error
}

// prepareSave validates a score and assigns an ID to new entries.
func prepareSave(s WeekScore) (WeekScore, error) {
	s.Player = strings.TrimSpace(s.Player)
	if s.Player == "" {
		return WeekScore{}, fmt.Errorf("%w: player is required", ErrInvalid)
	}
	if s.Week < 1 {
		return WeekScore{}, fmt.Errorf("%w: week must be positive, got %d", ErrInvalid, s.Week)
	}
	if s.Score < 0 {
		return WeekScore{}, fmt.Errorf("%w: score must not be negative, got %d", ErrInvalid, s.Score)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return s, nil
}
