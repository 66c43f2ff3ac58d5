package notification

import (
	"context"
	"fmt"
	"time"

	"disposal-backend/internal/reminder/domain"
	reminderrepo "disposal-backend/internal/reminder/repository"

	"go.uber.org/zap"
)

// ScanResult is the eligible set of one scan plus what was filtered out
type ScanResult struct {
	Candidates      int
	SkippedStatus   int
	SkippedDebounce int
	Eligible        []*domain.Reminder
}

// Scanner selects reminders that are due and not recently notified
type Scanner struct {
	reminders reminderrepo.ReminderRepository
	lookahead time.Duration
	debounce  time.Duration
	logger    *zap.Logger
}

func NewScanner(reminders reminderrepo.ReminderRepository, lookahead, debounce time.Duration, logger *zap.Logger) *Scanner {
	return &Scanner{
		reminders: reminders,
		lookahead: lookahead,
		debounce:  debounce,
		logger:    logger,
	}
}

// Scan issues a single due-date query for now+lookahead and applies the status
// and debounce filters in-process. Overdue reminders are included.
func (s *Scanner) Scan(ctx context.Context, now time.Time) (*ScanResult, error) {
	threshold := now.Add(s.lookahead)
	candidates, err := s.reminders.FindDueBefore(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("query due reminders: %w", err)
	}

	res := &ScanResult{Candidates: len(candidates)}
	for _, r := range candidates {
		if !r.Status.Actionable() {
			res.SkippedStatus++
			continue
		}
		if r.NotifiedWithin(now, s.debounce) {
			res.SkippedDebounce++
			continue
		}
		res.Eligible = append(res.Eligible, r)
	}

	s.logger.Debug("reminder scan finished",
		zap.Time("threshold", threshold),
		zap.Int("candidates", res.Candidates),
		zap.Int("eligible", len(res.Eligible)),
		zap.Int("skipped_status", res.SkippedStatus),
		zap.Int("skipped_debounce", res.SkippedDebounce),
	)
	return res, nil
}
