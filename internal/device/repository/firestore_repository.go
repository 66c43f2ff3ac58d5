package repository

import (
	"context"
	"errors"
	"fmt"

	"disposal-backend/internal/device/domain"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

const (
	usersCollection  = "users"
	tokensCollection = "fcmTokens"
)

// firestoreDeviceTokenRepository reads tokens stored at users/{userId}/fcmTokens/{id}
type firestoreDeviceTokenRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreDeviceTokenRepository creates a Firestore-backed DeviceTokenRepository
func NewFirestoreDeviceTokenRepository(client *firestore.Client, logger *zap.Logger) DeviceTokenRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &firestoreDeviceTokenRepository{client: client, logger: logger}
}

func (r *firestoreDeviceTokenRepository) tokens(userID string) *firestore.CollectionRef {
	return r.client.Collection(usersCollection).Doc(userID).Collection(tokensCollection)
}

func (r *firestoreDeviceTokenRepository) GetTokensByUserID(ctx context.Context, userID string) ([]*domain.DeviceToken, error) {
	iter := r.tokens(userID).Documents(ctx)
	defer iter.Stop()

	var tokens []*domain.DeviceToken
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list tokens for user %s: %w", userID, err)
		}

		if t, ok := decodeToken(userID, snap.Ref.ID, snap.DataTo, r.logger); ok {
			tokens = append(tokens, t)
		}
	}
	return tokens, nil
}

func (r *firestoreDeviceTokenRepository) DeleteToken(ctx context.Context, userID, tokenID string) error {
	if _, err := r.tokens(userID).Doc(tokenID).Delete(ctx); err != nil {
		return fmt.Errorf("delete token %s for user %s: %w", tokenID, userID, err)
	}
	return nil
}

// decodeToken fills one token document. A document that fails to decode is
// logged and dropped so the user's other devices still receive pushes.
func decodeToken(userID, docID string, dataTo func(interface{}) error, logger *zap.Logger) (*domain.DeviceToken, bool) {
	var t domain.DeviceToken
	if err := dataTo(&t); err != nil {
		logger.Warn("skipping undecodable device token",
			zap.String("user_id", userID),
			zap.String("token_id", docID),
			zap.Error(err),
		)
		return nil, false
	}
	t.ID = docID
	if t.UserID == "" {
		t.UserID = userID
	}
	return &t, true
}
