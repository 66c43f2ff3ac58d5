package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	devicedomain "disposal-backend/internal/device/domain"
	devicerepo "disposal-backend/internal/device/repository"
	"disposal-backend/internal/reminder/domain"
	reminderrepo "disposal-backend/internal/reminder/repository"
	"disposal-backend/pkg/metrics"
	"disposal-backend/pkg/push"

	"go.uber.org/zap"
)

// Resolved is a reminder whose owning user is known
type Resolved struct {
	Reminder *domain.Reminder
	UserID   string
}

// Dispatcher groups resolved reminders by user and pushes one message per
// reminder to all of that user's devices.
type Dispatcher struct {
	reminders reminderrepo.ReminderRepository
	tokens    devicerepo.DeviceTokenRepository
	gateway   push.Gateway
	pruner    *Pruner
	logger    *zap.Logger
}

func NewDispatcher(
	reminders reminderrepo.ReminderRepository,
	tokens devicerepo.DeviceTokenRepository,
	gateway push.Gateway,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		reminders: reminders,
		tokens:    tokens,
		gateway:   gateway,
		pruner:    NewPruner(tokens, logger),
		logger:    logger,
	}
}

// Dispatch sends every resolved reminder. Users are processed in order of first
// appearance. A failure for one reminder or user never stops the others.
func (d *Dispatcher) Dispatch(ctx context.Context, now time.Time, resolved []Resolved) []*Outcome {
	var order []string
	groups := make(map[string][]*domain.Reminder)
	for _, r := range resolved {
		if _, ok := groups[r.UserID]; !ok {
			order = append(order, r.UserID)
		}
		groups[r.UserID] = append(groups[r.UserID], r.Reminder)
	}

	outcomes := make([]*Outcome, 0, len(order))
	for _, userID := range order {
		outcomes = append(outcomes, d.dispatchUser(ctx, now, userID, groups[userID]))
	}
	return outcomes
}

func (d *Dispatcher) dispatchUser(ctx context.Context, now time.Time, userID string, batch []*domain.Reminder) *Outcome {
	out := &Outcome{UserID: userID, Results: make(map[string][]push.Result)}

	records, err := d.tokens.GetTokensByUserID(ctx, userID)
	if err != nil {
		d.logger.Error("failed to load device tokens",
			zap.String("user_id", userID),
			zap.Int("reminders", len(batch)),
			zap.Error(err),
		)
		out.Failed = len(batch)
		for range batch {
			metrics.RecordReminderDispatched("failed")
		}
		return out
	}

	records = usableTokens(records)
	if len(records) == 0 {
		d.logger.Info("user has no device tokens, skipping",
			zap.String("user_id", userID),
			zap.Int("reminders", len(batch)),
		)
		out.NoTokens = true
		for range batch {
			metrics.RecordReminderDispatched("no_tokens")
		}
		return out
	}
	for _, rec := range records {
		out.Tokens = append(out.Tokens, rec.Token)
	}

	badge := len(batch)
	for _, rem := range batch {
		if len(records) == 0 {
			// every token was pruned by an earlier reminder in this batch
			d.logger.Info("no device tokens left for user",
				zap.String("user_id", userID),
				zap.String("reminder_id", rem.ID),
			)
			out.Failed++
			metrics.RecordReminderDispatched("no_tokens")
			continue
		}
		out.Reminders = append(out.Reminders, rem.ID)

		results, err := d.send(ctx, records, BuildMessage(rem, badge))
		if err != nil {
			d.logger.Error("failed to send reminder",
				zap.String("user_id", userID),
				zap.String("reminder_id", rem.ID),
				zap.Error(err),
			)
			out.Failed++
			metrics.RecordReminderDispatched("failed")
			continue
		}
		out.Results[rem.ID] = results

		success, failure := push.Counts(results)
		for _, res := range results {
			metrics.RecordPushResult(string(res.Class))
		}
		d.logger.Info("reminder sent",
			zap.String("user_id", userID),
			zap.String("reminder_id", rem.ID),
			zap.Int("success", success),
			zap.Int("failure", failure),
		)

		if err := d.reminders.MarkNotificationSent(ctx, rem.ID, now); err != nil {
			level := zap.WarnLevel
			if errors.Is(err, reminderrepo.ErrReminderNotFound) {
				level = zap.DebugLevel
			}
			d.logger.Log(level, "failed to record notification time",
				zap.String("reminder_id", rem.ID),
				zap.Error(err),
			)
		}
		out.Sent++
		metrics.RecordReminderDispatched("sent")

		if failure > 0 {
			pruned := d.pruner.Prune(ctx, userID, records, results)
			out.Pruned += len(pruned)
			records = withoutIDs(records, pruned)
		}
	}
	return out
}

// send calls the gateway and turns a panic inside it into an error so one bad
// reminder cannot take down the cycle.
func (d *Dispatcher) send(ctx context.Context, records []*devicedomain.DeviceToken, msg push.Message) (results []push.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("push gateway panic: %v", rec)
		}
	}()

	tokens := make([]string, len(records))
	for i, rec := range records {
		tokens[i] = rec.Token
	}
	return d.gateway.SendMulticast(ctx, tokens, msg)
}

func usableTokens(records []*devicedomain.DeviceToken) []*devicedomain.DeviceToken {
	out := make([]*devicedomain.DeviceToken, 0, len(records))
	for _, rec := range records {
		if rec != nil && strings.TrimSpace(rec.Token) != "" {
			out = append(out, rec)
		}
	}
	return out
}

func withoutIDs(records []*devicedomain.DeviceToken, ids []string) []*devicedomain.DeviceToken {
	if len(ids) == 0 {
		return records
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := records[:0:0]
	for _, rec := range records {
		if _, ok := drop[rec.ID]; !ok {
			out = append(out, rec)
		}
	}
	return out
}
