package notification

import (
	"context"
	"testing"
	"time"

	"disposal-backend/internal/reminder/domain"

	"go.uber.org/zap"
)

func TestScanner_FiltersStatusDebounceAndLookahead(t *testing.T) {
	f := newFixture()
	recent := testNow.Add(-2 * time.Minute)
	stale := testNow.Add(-10 * time.Minute)

	f.addReminder(domain.Reminder{ID: "due", UserID: "u1"})
	f.addReminder(domain.Reminder{ID: "overdue", UserID: "u1", Status: domain.ReminderStatusOverdue, DueDate: testNow.Add(-48 * time.Hour)})
	f.addReminder(domain.Reminder{ID: "completed", UserID: "u1", Status: domain.ReminderStatusCompleted})
	f.addReminder(domain.Reminder{ID: "recent", UserID: "u1", LastNotificationSent: &recent})
	f.addReminder(domain.Reminder{ID: "stale", UserID: "u1", LastNotificationSent: &stale})
	f.addReminder(domain.Reminder{ID: "later", UserID: "u1", DueDate: testNow.Add(2 * time.Hour)})

	s := NewScanner(f.reminders, time.Hour, 5*time.Minute, zap.NewNop())
	res, err := s.Scan(context.Background(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Candidates != 5 {
		t.Errorf("expected 5 candidates inside the lookahead, got %d", res.Candidates)
	}
	if res.SkippedStatus != 1 || res.SkippedDebounce != 1 {
		t.Errorf("expected 1 status skip and 1 debounce skip, got %d and %d", res.SkippedStatus, res.SkippedDebounce)
	}

	got := map[string]bool{}
	for _, r := range res.Eligible {
		got[r.ID] = true
	}
	for _, id := range []string{"due", "overdue", "stale"} {
		if !got[id] {
			t.Errorf("expected %s to be eligible", id)
		}
	}
	if len(res.Eligible) != 3 {
		t.Errorf("expected 3 eligible reminders, got %d", len(res.Eligible))
	}
}

func TestScanner_DebounceBoundaryIsEligible(t *testing.T) {
	f := newFixture()
	exactly := testNow.Add(-5 * time.Minute)
	f.addReminder(domain.Reminder{ID: "edge", UserID: "u1", LastNotificationSent: &exactly})

	res, err := NewScanner(f.reminders, time.Hour, 5*time.Minute, zap.NewNop()).Scan(context.Background(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Eligible) != 1 {
		t.Errorf("a reminder notified exactly one debounce ago should be eligible")
	}
}
