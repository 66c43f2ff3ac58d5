package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"disposal-backend/internal/device/domain"

	"github.com/google/uuid"
)

// MemoryDeviceTokenRepository keeps device tokens in process, keyed by user
type MemoryDeviceTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]map[string]*domain.DeviceToken
}

// NewMemoryDeviceTokenRepository creates an empty in-memory token store
func NewMemoryDeviceTokenRepository() *MemoryDeviceTokenRepository {
	return &MemoryDeviceTokenRepository{
		tokens: make(map[string]map[string]*domain.DeviceToken),
	}
}

// SaveToken stores a token under its user and returns the record ID
func (r *MemoryDeviceTokenRepository) SaveToken(token *domain.DeviceToken) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	now := time.Now()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = now
	}
	token.UpdatedAt = now

	userTokens, ok := r.tokens[token.UserID]
	if !ok {
		userTokens = make(map[string]*domain.DeviceToken)
		r.tokens[token.UserID] = userTokens
	}
	cp := *token
	userTokens[token.ID] = &cp
	return token.ID
}

func (r *MemoryDeviceTokenRepository) GetTokensByUserID(ctx context.Context, userID string) ([]*domain.DeviceToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.DeviceToken
	for _, t := range r.tokens[userID] {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryDeviceTokenRepository) DeleteToken(ctx context.Context, userID, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens[userID], tokenID)
	return nil
}
