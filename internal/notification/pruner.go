package notification

import (
	"context"

	devicedomain "disposal-backend/internal/device/domain"
	devicerepo "disposal-backend/internal/device/repository"
	"disposal-backend/pkg/metrics"
	"disposal-backend/pkg/push"

	"go.uber.org/zap"
)

// Pruner deletes device tokens the push provider reported as permanently invalid
type Pruner struct {
	tokens devicerepo.DeviceTokenRepository
	logger *zap.Logger
}

func NewPruner(tokens devicerepo.DeviceTokenRepository, logger *zap.Logger) *Pruner {
	return &Pruner{tokens: tokens, logger: logger}
}

// Prune pairs results with records by index and deletes records whose result is
// a permanent failure. Transient failures are only logged. It returns the IDs of
// the records that were deleted.
func (p *Pruner) Prune(ctx context.Context, userID string, records []*devicedomain.DeviceToken, results []push.Result) []string {
	if len(records) != len(results) {
		p.logger.Warn("push results not aligned with tokens",
			zap.String("user_id", userID),
			zap.Int("tokens", len(records)),
			zap.Int("results", len(results)),
		)
	}

	var pruned []string
	for i := 0; i < len(records) && i < len(results); i++ {
		res := results[i]
		if res.Success {
			continue
		}
		rec := records[i]

		if res.Class != push.ErrorClassPermanent {
			p.logger.Debug("transient push failure",
				zap.String("user_id", userID),
				zap.String("token_id", rec.ID),
				zap.String("code", res.ErrorCode),
			)
			continue
		}

		if err := p.tokens.DeleteToken(ctx, userID, rec.ID); err != nil {
			p.logger.Warn("failed to delete invalid device token",
				zap.String("user_id", userID),
				zap.String("token_id", rec.ID),
				zap.Error(err),
			)
			continue
		}
		metrics.RecordTokenPruned()
		pruned = append(pruned, rec.ID)
		p.logger.Info("pruned invalid device token",
			zap.String("user_id", userID),
			zap.String("token_id", rec.ID),
			zap.String("platform", rec.PlatformCategory()),
			zap.String("code", res.ErrorCode),
		)
	}
	return pruned
}
