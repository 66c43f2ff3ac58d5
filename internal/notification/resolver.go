package notification

import (
	"context"
	"fmt"
	"strings"

	"disposal-backend/internal/reminder/domain"
	reminderrepo "disposal-backend/internal/reminder/repository"
	"disposal-backend/pkg/metrics"

	"go.uber.org/zap"
)

// ResolveOutcome says how a reminder's owner was determined
type ResolveOutcome string

const (
	OwnerPresent     ResolveOutcome = "present"
	OwnerFromItem    ResolveOutcome = "item"
	OwnerFromSibling ResolveOutcome = "sibling"
	OwnerOrphaned    ResolveOutcome = "orphaned"
)

// OrphanReason is recorded when a reminder is deleted for lack of an owner
type OrphanReason string

const (
	OrphanMissingItemID OrphanReason = "missing_item_id"
	OrphanMissingItem   OrphanReason = "missing_item"
	OrphanUnresolvable  OrphanReason = "unresolvable"
)

// Resolution is the result of resolving one reminder
type Resolution struct {
	UserID  string
	Outcome ResolveOutcome
	Reason  OrphanReason // set only when Outcome is OwnerOrphaned
}

// Resolver finds the owning user of a reminder, backfilling legacy records and
// deleting reminders whose owner cannot be recovered.
type Resolver struct {
	reminders    reminderrepo.ReminderRepository
	siblingLimit int
	logger       *zap.Logger
}

func NewResolver(reminders reminderrepo.ReminderRepository, siblingLimit int, logger *zap.Logger) *Resolver {
	if siblingLimit <= 0 {
		siblingLimit = DefaultSettings().SiblingLimit
	}
	return &Resolver{
		reminders:    reminders,
		siblingLimit: siblingLimit,
		logger:       logger,
	}
}

// Resolve walks the owner rules in order: the reminder's own userId, its item's
// userId, then a bounded set of sibling reminders sharing the item. A returned
// error means the store failed and the reminder was left untouched.
func (r *Resolver) Resolve(ctx context.Context, rem *domain.Reminder) (Resolution, error) {
	if present(rem.UserID) {
		return Resolution{UserID: rem.UserID, Outcome: OwnerPresent}, nil
	}

	if !present(rem.ItemID) {
		return r.orphan(ctx, rem, OrphanMissingItemID)
	}

	item, err := r.reminders.FindItemByID(ctx, rem.ItemID)
	if err != nil {
		return Resolution{}, fmt.Errorf("load item %s: %w", rem.ItemID, err)
	}
	if item == nil {
		return r.orphan(ctx, rem, OrphanMissingItem)
	}
	if present(item.UserID) {
		r.backfill(ctx, rem, item.UserID, OwnerFromItem)
		return Resolution{UserID: item.UserID, Outcome: OwnerFromItem}, nil
	}

	siblings, err := r.reminders.FindByItemID(ctx, rem.ItemID, r.siblingLimit)
	if err != nil {
		return Resolution{}, fmt.Errorf("load sibling reminders for item %s: %w", rem.ItemID, err)
	}
	for _, sib := range siblings {
		if sib.ID == rem.ID || !present(sib.UserID) {
			continue
		}
		r.backfill(ctx, rem, sib.UserID, OwnerFromSibling)
		return Resolution{UserID: sib.UserID, Outcome: OwnerFromSibling}, nil
	}

	return r.orphan(ctx, rem, OrphanUnresolvable)
}

// backfill persists the recovered owner. A failed write is logged and the
// owner is still used for this cycle; the next cycle retries the write.
func (r *Resolver) backfill(ctx context.Context, rem *domain.Reminder, userID string, via ResolveOutcome) {
	if err := r.reminders.BackfillOwner(ctx, rem.ID, rem.ItemID, userID); err != nil {
		r.logger.Warn("failed to backfill reminder owner",
			zap.String("reminder_id", rem.ID),
			zap.String("item_id", rem.ItemID),
			zap.String("via", string(via)),
			zap.Error(err),
		)
		return
	}
	metrics.RecordOwnerBackfilled()
	r.logger.Info("backfilled reminder owner",
		zap.String("reminder_id", rem.ID),
		zap.String("item_id", rem.ItemID),
		zap.String("user_id", userID),
		zap.String("via", string(via)),
	)
}

func (r *Resolver) orphan(ctx context.Context, rem *domain.Reminder, reason OrphanReason) (Resolution, error) {
	if err := r.reminders.Delete(ctx, rem.ID); err != nil {
		return Resolution{}, fmt.Errorf("delete orphan reminder %s: %w", rem.ID, err)
	}
	metrics.RecordOrphanDeleted(string(reason))
	r.logger.Warn("deleted orphan reminder",
		zap.String("reminder_id", rem.ID),
		zap.String("item_id", rem.ItemID),
		zap.String("reason", string(reason)),
	)
	return Resolution{Outcome: OwnerOrphaned, Reason: reason}, nil
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}
