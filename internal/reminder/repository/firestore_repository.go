package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"disposal-backend/internal/reminder/domain"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	remindersCollection = "reminders"
	itemsCollection     = "items"
)

// firestoreReminderRepository implements ReminderRepository on Cloud Firestore
type firestoreReminderRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreReminderRepository creates a Firestore-backed ReminderRepository
func NewFirestoreReminderRepository(client *firestore.Client, logger *zap.Logger) ReminderRepository {
	return &firestoreReminderRepository{
		client: client,
		logger: logger.With(zap.String("component", "reminder_store")),
	}
}

func (r *firestoreReminderRepository) FindDueBefore(ctx context.Context, threshold time.Time) ([]*domain.Reminder, error) {
	// Single inequality so the query needs no composite index
	iter := r.client.Collection(remindersCollection).
		Where("dueDate", "<=", threshold).
		Documents(ctx)
	return r.collect(iter)
}

func (r *firestoreReminderRepository) FindByItemID(ctx context.Context, itemID string, limit int) ([]*domain.Reminder, error) {
	query := r.client.Collection(remindersCollection).Where("itemId", "==", itemID)
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.collect(query.Documents(ctx))
}

func (r *firestoreReminderRepository) FindItemByID(ctx context.Context, itemID string) (*domain.Item, error) {
	snap, err := r.client.Collection(itemsCollection).Doc(itemID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get item %s: %w", itemID, err)
	}

	var item domain.Item
	if err := snap.DataTo(&item); err != nil {
		return nil, fmt.Errorf("decode item %s: %w", itemID, err)
	}
	item.ID = snap.Ref.ID
	return &item, nil
}

func (r *firestoreReminderRepository) BackfillOwner(ctx context.Context, reminderID, itemID, userID string) error {
	reminderRef := r.client.Collection(remindersCollection).Doc(reminderID)
	itemRef := r.client.Collection(itemsCollection).Doc(itemID)

	batch := r.client.Batch()
	batch.Update(itemRef, []firestore.Update{{Path: "userId", Value: userID}})
	batch.Update(reminderRef, []firestore.Update{{Path: "userId", Value: userID}})
	if _, err := batch.Commit(ctx); err != nil {
		if missing := backfillNotFound(err, itemRef.Path); missing != nil {
			return missing
		}
		return fmt.Errorf("backfill owner for reminder %s: %w", reminderID, err)
	}
	return nil
}

// backfillNotFound maps a NotFound commit error to the record that was missing.
// Firestore names the offending document path in the status message.
func backfillNotFound(err error, itemPath string) error {
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.NotFound {
		return nil
	}
	if strings.Contains(st.Message(), itemPath) {
		return ErrItemNotFound
	}
	return ErrReminderNotFound
}

func (r *firestoreReminderRepository) MarkNotificationSent(ctx context.Context, reminderID string, at time.Time) error {
	_, err := r.client.Collection(remindersCollection).Doc(reminderID).Update(ctx, []firestore.Update{
		{Path: "lastNotificationSent", Value: at},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrReminderNotFound
		}
		return fmt.Errorf("mark reminder %s notified: %w", reminderID, err)
	}
	return nil
}

func (r *firestoreReminderRepository) Delete(ctx context.Context, reminderID string) error {
	if _, err := r.client.Collection(remindersCollection).Doc(reminderID).Delete(ctx); err != nil {
		return fmt.Errorf("delete reminder %s: %w", reminderID, err)
	}
	return nil
}

func (r *firestoreReminderRepository) Ping(ctx context.Context) error {
	iter := r.client.Collection(remindersCollection).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestore unreachable: %w", err)
	}
	return nil
}

// collect drains a document iterator. Documents that fail to decode are logged
// and skipped so one malformed legacy record cannot stall the whole scan.
func (r *firestoreReminderRepository) collect(iter *firestore.DocumentIterator) ([]*domain.Reminder, error) {
	defer iter.Stop()

	var reminders []*domain.Reminder
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query reminders: %w", err)
		}

		var rem domain.Reminder
		if err := snap.DataTo(&rem); err != nil {
			r.logger.Warn("skipping undecodable reminder",
				zap.String("reminder_id", snap.Ref.ID),
				zap.Error(err),
			)
			continue
		}
		rem.ID = snap.Ref.ID
		reminders = append(reminders, &rem)
	}
	return reminders, nil
}
