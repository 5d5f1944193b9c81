package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists generated reports. Save always inserts a new document;
// versions are never overwritten or deleted here.
type Store interface {
	Save(ctx context.Context, ticker string, reportType Type, content string) (string, error)
	ListVersions(ctx context.Context, ticker string, reportType Type) ([]GeneratedReport, error)
}

// PGStore keeps reports in the reports table.
type PGStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PGStore)(nil)

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Save(ctx context.Context, ticker string, reportType Type, content string) (string, error) {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO reports (id, ticker, report_type, content, saved_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, ticker, string(reportType), content, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	return id, nil
}

func (s *PGStore) ListVersions(ctx context.Context, ticker string, reportType Type) ([]GeneratedReport, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, ticker, report_type, content, saved_at
		FROM reports
		WHERE ticker = $1 AND report_type = $2
		ORDER BY saved_at DESC
	`, ticker, string(reportType))
	if err != nil {
		return nil, fmt.Errorf("failed to list report versions: %w", err)
	}
	defer rows.Close()

	var reports []GeneratedReport
	for rows.Next() {
		var r GeneratedReport
		var typeStr string
		if err := rows.Scan(&r.ID, &r.Ticker, &typeStr, &r.Content, &r.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		r.ReportType = Type(typeStr)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
