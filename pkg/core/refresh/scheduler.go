package refresh

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// SymbolLister supplies the symbols to refresh on schedule, normally the
// portfolio store.
type SymbolLister interface {
	Symbols(ctx context.Context) ([]string, error)
}

// Scheduler runs the refresh routine for every tracked symbol on a cron
// schedule. Per-symbol failures are logged and skipped like everything else
// in this package.
type Scheduler struct {
	routine *Routine
	lister  SymbolLister
	cron    *cron.Cron
}

func NewScheduler(routine *Routine, lister SymbolLister) *Scheduler {
	return &Scheduler{routine: routine, lister: lister}
}

// Start begins running refreshes on the given cron spec (e.g. "0 */6 * * *").
func (s *Scheduler) Start(spec string) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(spec, s.runAll); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	s.cron.Start()
	fmt.Printf("[SCHEDULER] Refresh scheduled: %s\n", spec)
	return nil
}

// Stop halts the schedule. In-flight runs finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) runAll() {
	ctx := context.Background()
	symbols, err := s.lister.Symbols(ctx)
	if err != nil {
		fmt.Printf("[SCHEDULER] Failed to list symbols: %v\n", err)
		return
	}

	for _, symbol := range symbols {
		count, err := s.routine.Refresh(ctx, symbol)
		if err != nil {
			fmt.Printf("[SCHEDULER] Refresh failed for %s: %v\n", symbol, err)
			continue
		}
		fmt.Printf("[SCHEDULER] Refreshed %s (%d endpoints)\n", symbol, count)
	}
}
