package notification

import (
	"context"
	"testing"

	"disposal-backend/internal/reminder/domain"

	"go.uber.org/zap"
)

func TestResolver_Rules(t *testing.T) {
	ctx := context.Background()

	t.Run("owner already present", func(t *testing.T) {
		f := newFixture()
		id := f.addReminder(domain.Reminder{UserID: "u1", ItemID: "i1"})
		res, err := NewResolver(f.reminders, 10, zap.NewNop()).Resolve(ctx, f.reminders.GetReminder(id))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Outcome != OwnerPresent || res.UserID != "u1" {
			t.Errorf("unexpected resolution: %+v", res)
		}
	})

	t.Run("missing item id deletes reminder", func(t *testing.T) {
		f := newFixture()
		id := f.addReminder(domain.Reminder{})
		res, err := NewResolver(f.reminders, 10, zap.NewNop()).Resolve(ctx, f.reminders.GetReminder(id))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Outcome != OwnerOrphaned || res.Reason != OrphanMissingItemID {
			t.Errorf("unexpected resolution: %+v", res)
		}
		if f.reminders.GetReminder(id) != nil {
			t.Error("expected reminder to be deleted")
		}
	})

	t.Run("missing item deletes reminder", func(t *testing.T) {
		f := newFixture()
		id := f.addReminder(domain.Reminder{ItemID: "gone"})
		res, _ := NewResolver(f.reminders, 10, zap.NewNop()).Resolve(ctx, f.reminders.GetReminder(id))
		if res.Outcome != OwnerOrphaned || res.Reason != OrphanMissingItem {
			t.Errorf("unexpected resolution: %+v", res)
		}
		if f.reminders.GetReminder(id) != nil {
			t.Error("expected reminder to be deleted")
		}
	})

	t.Run("owner taken from item is written to reminder", func(t *testing.T) {
		f := newFixture()
		f.reminders.SaveItem(&domain.Item{ID: "i1", UserID: "u1"})
		id := f.addReminder(domain.Reminder{ItemID: "i1"})
		res, err := NewResolver(f.reminders, 10, zap.NewNop()).Resolve(ctx, f.reminders.GetReminder(id))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Outcome != OwnerFromItem || res.UserID != "u1" {
			t.Errorf("unexpected resolution: %+v", res)
		}
		if got := f.reminders.GetReminder(id).UserID; got != "u1" {
			t.Errorf("expected reminder userId u1, got %q", got)
		}
	})

	t.Run("owner taken from sibling is written to item and reminder", func(t *testing.T) {
		f := newFixture()
		f.reminders.SaveItem(&domain.Item{ID: "i1"})
		id := f.addReminder(domain.Reminder{ItemID: "i1"})
		f.addReminder(domain.Reminder{ItemID: "i1", UserID: "u2"})

		res, err := NewResolver(f.reminders, 10, zap.NewNop()).Resolve(ctx, f.reminders.GetReminder(id))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Outcome != OwnerFromSibling || res.UserID != "u2" {
			t.Errorf("unexpected resolution: %+v", res)
		}
		if f.reminders.GetReminder(id).UserID != "u2" || f.reminders.GetItem("i1").UserID != "u2" {
			t.Error("expected owner to be backfilled on both reminder and item")
		}
	})

	t.Run("no owner anywhere deletes reminder", func(t *testing.T) {
		f := newFixture()
		f.reminders.SaveItem(&domain.Item{ID: "i1"})
		id := f.addReminder(domain.Reminder{ItemID: "i1"})
		f.addReminder(domain.Reminder{ItemID: "i1"})

		res, _ := NewResolver(f.reminders, 10, zap.NewNop()).Resolve(ctx, f.reminders.GetReminder(id))
		if res.Outcome != OwnerOrphaned || res.Reason != OrphanUnresolvable {
			t.Errorf("unexpected resolution: %+v", res)
		}
		if f.reminders.GetReminder(id) != nil {
			t.Error("expected reminder to be deleted")
		}
	})
}

func TestResolver_SiblingSearchIsBounded(t *testing.T) {
	f := newFixture()
	f.reminders.SaveItem(&domain.Item{ID: "i1"})
	id := f.addReminder(domain.Reminder{ItemID: "i1", DueDate: testNow})
	for i := 0; i < 3; i++ {
		f.addReminder(domain.Reminder{ItemID: "i1", DueDate: testNow})
	}
	// owner only on a sibling beyond the limit
	f.addReminder(domain.Reminder{ItemID: "i1", UserID: "u9", DueDate: testNow.AddDate(1, 0, 0)})

	res, err := NewResolver(f.reminders, 3, zap.NewNop()).Resolve(context.Background(), f.reminders.GetReminder(id))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != OwnerOrphaned {
		t.Errorf("expected orphan when owner is beyond the sibling limit, got %+v", res)
	}
}
