package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	devicedomain "disposal-backend/internal/device/domain"
	devicerepo "disposal-backend/internal/device/repository"
	"disposal-backend/internal/reminder/domain"
	reminderrepo "disposal-backend/internal/reminder/repository"
	"disposal-backend/pkg/push"
)

var testNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

type sentCall struct {
	tokens []string
	msg    push.Message
}

// fakeGateway records every multicast. Tokens listed in permanent or transient
// fail with that class; panicFor and errFor key on the reminderId data field.
// Like a real provider it refuses to send on a cancelled context.
type fakeGateway struct {
	mu        sync.Mutex
	calls     []sentCall
	permanent map[string]bool
	transient map[string]bool
	panicFor  map[string]bool
	errFor    map[string]bool
	block     chan struct{}
	afterSend func()
}

func (g *fakeGateway) SendMulticast(ctx context.Context, tokens []string, msg push.Message) ([]push.Result, error) {
	if g.block != nil {
		<-g.block
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.afterSend != nil {
		defer g.afterSend()
	}

	g.mu.Lock()
	g.calls = append(g.calls, sentCall{tokens: append([]string(nil), tokens...), msg: msg})
	g.mu.Unlock()

	id := msg.Data["reminderId"]
	if g.panicFor[id] {
		panic("gateway exploded for " + id)
	}
	if g.errFor[id] {
		return nil, errors.New("provider unavailable")
	}

	results := make([]push.Result, len(tokens))
	for i, tok := range tokens {
		switch {
		case g.permanent[tok]:
			results[i] = push.Result{Token: tok, ErrorCode: "registration-token-not-registered", Class: push.ErrorClassPermanent}
		case g.transient[tok]:
			results[i] = push.Result{Token: tok, ErrorCode: "unavailable", Class: push.ErrorClassTransient}
		default:
			results[i] = push.Result{Token: tok, Success: true, Class: push.ErrorClassNone}
		}
	}
	return results, nil
}

func (g *fakeGateway) sent() []sentCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]sentCall(nil), g.calls...)
}

type fixture struct {
	reminders *reminderrepo.MemoryReminderRepository
	tokens    *devicerepo.MemoryDeviceTokenRepository
	gateway   *fakeGateway
}

func newFixture() *fixture {
	return &fixture{
		reminders: reminderrepo.NewMemoryReminderRepository(),
		tokens:    devicerepo.NewMemoryDeviceTokenRepository(),
		gateway:   &fakeGateway{},
	}
}

func (f *fixture) addToken(userID, id, token string) {
	f.tokens.SaveToken(&devicedomain.DeviceToken{
		ID:        id,
		UserID:    userID,
		Token:     token,
		CreatedAt: testNow.Add(-time.Hour),
	})
}

func (f *fixture) addReminder(r domain.Reminder) string {
	if r.Status == "" {
		r.Status = domain.ReminderStatusUpcoming
	}
	if r.DueDate.IsZero() {
		r.DueDate = testNow.Add(30 * time.Minute)
	}
	return f.reminders.SaveReminder(&r)
}

func (f *fixture) scheduler(opts ...Option) *Scheduler {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewScheduler(f.reminders, f.tokens, f.gateway, DefaultSettings(), nil, opts...)
}

type failingPingRepo struct {
	*reminderrepo.MemoryReminderRepository
}

func (failingPingRepo) Ping(ctx context.Context) error {
	return errors.New("permission denied")
}

type erroringTokenRepo struct {
	devicerepo.DeviceTokenRepository
	failUser string
}

func (r erroringTokenRepo) GetTokensByUserID(ctx context.Context, userID string) ([]*devicedomain.DeviceToken, error) {
	if userID == r.failUser {
		return nil, errors.New("deadline exceeded")
	}
	return r.DeviceTokenRepository.GetTokensByUserID(ctx, userID)
}
