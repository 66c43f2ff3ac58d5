package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	devicerepo "disposal-backend/internal/device/repository"
	reminderrepo "disposal-backend/internal/reminder/repository"
	"disposal-backend/pkg/logger"
	"disposal-backend/pkg/metrics"
	"disposal-backend/pkg/push"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	TriggerStartup = "startup"
	TriggerTimer   = "timer"
	TriggerManual  = "manual"

	probeTimeout = 10 * time.Second
)

// Status is a snapshot of the scheduler for operational endpoints
type Status struct {
	Enabled        bool         `json:"enabled"`
	DisabledReason string       `json:"disabled_reason,omitempty"`
	Running        bool         `json:"running"`
	Interval       string       `json:"interval"`
	Debounce       string       `json:"debounce"`
	Lookahead      string       `json:"lookahead"`
	LastReport     *CycleReport `json:"last_report,omitempty"`
}

// Option customises a Scheduler
type Option func(*Scheduler)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLocker makes cycles exclusive across instances
func WithLocker(l Locker) Option {
	return func(s *Scheduler) { s.guard.locker = l }
}

// Scheduler runs the scan, resolve and dispatch cycle after a startup delay and
// then on a fixed interval.
type Scheduler struct {
	reminders reminderrepo.ReminderRepository
	tokens    devicerepo.DeviceTokenRepository
	gateway   push.Gateway
	settings  Settings

	scanner    *Scanner
	resolver   *Resolver
	dispatcher *Dispatcher

	guard  *cycleGuard
	now    func() time.Time
	logger *zap.Logger

	mu             sync.RWMutex
	disabledReason string
	lastReport     *CycleReport
	cron           *cron.Cron

	stopOnce sync.Once
	stopChan chan struct{}
}

// NewScheduler creates a scheduler. Any nil dependency leaves it disabled.
func NewScheduler(
	reminders reminderrepo.ReminderRepository,
	tokens devicerepo.DeviceTokenRepository,
	gateway push.Gateway,
	settings Settings,
	log *zap.Logger,
	opts ...Option,
) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	settings = settings.withDefaults()
	log = log.With(zap.String("component", "notification_scheduler"))

	s := &Scheduler{
		reminders: reminders,
		tokens:    tokens,
		gateway:   gateway,
		settings:  settings,
		guard:     &cycleGuard{},
		now:       time.Now,
		logger:    log,
		stopChan:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if reminders == nil || tokens == nil || gateway == nil {
		s.disabledReason = "missing dependencies"
		return s
	}
	s.scanner = NewScanner(reminders, settings.Lookahead, settings.Debounce, log)
	s.resolver = NewResolver(reminders, settings.SiblingLimit, log)
	s.dispatcher = NewDispatcher(reminders, tokens, gateway, log)
	return s
}

// Start probes the store and, if reachable, schedules cycles in the background.
// It never fails: an unusable dispatcher is logged once and left disabled.
func (s *Scheduler) Start(ctx context.Context) {
	if reason := s.DisabledReason(); reason != "" {
		s.logger.Warn("notifications disabled", zap.String("reason", reason))
		return
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := s.reminders.Ping(probeCtx)
	cancel()
	if err != nil {
		s.Disable("store unreachable")
		s.logger.Warn("notifications disabled", zap.String("reason", "store unreachable"), zap.Error(err))
		return
	}

	if s.settings.Debounce < s.settings.Interval {
		s.logger.Warn("debounce is shorter than the scan interval; reminders will be pushed every cycle",
			zap.Duration("debounce", s.settings.Debounce),
			zap.Duration("interval", s.settings.Interval),
		)
	}

	s.logger.Info("starting notification scheduler",
		zap.Duration("startup_delay", s.settings.StartupDelay),
		zap.Duration("interval", s.settings.Interval),
		zap.Duration("lookahead", s.settings.Lookahead),
		zap.Duration("debounce", s.settings.Debounce),
	)

	// cycles run to completion even when the caller's context ends
	cycleCtx := context.WithoutCancel(ctx)
	go func() {
		select {
		case <-time.After(s.settings.StartupDelay):
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}

		s.runScheduled(cycleCtx, TriggerStartup)

		cronLog := logger.NewCronLogger(s.logger)
		c := cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog)),
		)
		c.Schedule(cron.Every(s.settings.Interval), cron.FuncJob(func() {
			s.runScheduled(cycleCtx, TriggerTimer)
		}))

		s.mu.Lock()
		select {
		case <-s.stopChan:
			s.mu.Unlock()
			return
		default:
		}
		s.cron = c
		s.mu.Unlock()
		c.Start()
	}()
}

// Stop halts future cycles. A cycle already running is not waited for.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		close(s.stopChan)
		c := s.cron
		s.mu.Unlock()
		if c != nil {
			c.Stop()
		}
		s.logger.Info("notification scheduler stopped")
	})
}

// RunNow runs one cycle immediately and returns its report. It returns
// ErrCycleInProgress if a cycle is already running.
func (s *Scheduler) RunNow(ctx context.Context) (*CycleReport, error) {
	if reason := s.DisabledReason(); reason != "" {
		return nil, ErrDisabled
	}
	// The caller going away must not abandon reminders halfway through a cycle
	return s.runCycle(context.WithoutCancel(ctx), TriggerManual)
}

// Status returns the current scheduler state
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Enabled:        s.disabledReason == "",
		DisabledReason: s.disabledReason,
		Running:        s.guard.isRunning(),
		Interval:       s.settings.Interval.String(),
		Debounce:       s.settings.Debounce.String(),
		Lookahead:      s.settings.Lookahead.String(),
		LastReport:     s.lastReport,
	}
}

// DisabledReason is empty when the scheduler can run cycles
func (s *Scheduler) DisabledReason() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.disabledReason
}

// Disable turns the scheduler off with reason. Call it before Start.
func (s *Scheduler) Disable(reason string) {
	s.mu.Lock()
	s.disabledReason = reason
	s.mu.Unlock()
}

func (s *Scheduler) runScheduled(ctx context.Context, trigger string) {
	_, _ = s.runCycle(ctx, trigger)
}

func (s *Scheduler) runCycle(ctx context.Context, trigger string) (*CycleReport, error) {
	release, err := s.guard.enter(ctx)
	if err != nil {
		if errors.Is(err, ErrCycleInProgress) {
			s.logger.Info("notification cycle already running, skipping", zap.String("trigger", trigger))
			metrics.RecordCycle(trigger, "skipped", 0)
		} else {
			s.logger.Warn("dispatch lock unavailable, skipping cycle", zap.String("trigger", trigger), zap.Error(err))
			metrics.RecordCycle(trigger, "skipped", 0)
		}
		return nil, err
	}
	defer release()

	report := s.cycle(ctx, trigger)

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()

	result := "completed"
	if report.Error != "" {
		result = "failed"
	}
	metrics.RecordCycle(trigger, result, time.Duration(report.DurationMS)*time.Millisecond)
	return report, nil
}

// cycle performs one scan, resolve and dispatch pass. Failures of individual
// reminders are counted in the report; only a failed scan ends the cycle early.
func (s *Scheduler) cycle(ctx context.Context, trigger string) *CycleReport {
	started := time.Now()
	now := s.now()
	report := &CycleReport{Trigger: trigger, StartedAt: now}
	defer func() {
		report.DurationMS = time.Since(started).Milliseconds()
	}()

	scan, err := s.scanner.Scan(ctx, now)
	if err != nil {
		s.logger.Error("reminder scan failed", zap.Error(err))
		report.Error = err.Error()
		return report
	}
	report.Candidates = scan.Candidates
	report.SkippedStatus = scan.SkippedStatus
	report.SkippedDebounce = scan.SkippedDebounce
	report.Eligible = len(scan.Eligible)
	if len(scan.Eligible) == 0 {
		return report
	}

	resolved := make([]Resolved, 0, len(scan.Eligible))
	for _, rem := range scan.Eligible {
		res, err := s.resolver.Resolve(ctx, rem)
		if err != nil {
			s.logger.Warn("could not resolve reminder owner",
				zap.String("reminder_id", rem.ID),
				zap.Error(err),
			)
			report.ResolveErrors++
			continue
		}
		switch res.Outcome {
		case OwnerOrphaned:
			report.OrphansDeleted++
			continue
		case OwnerFromItem, OwnerFromSibling:
			report.Backfilled++
		}
		resolved = append(resolved, Resolved{Reminder: rem, UserID: res.UserID})
	}

	for _, out := range s.dispatcher.Dispatch(ctx, now, resolved) {
		report.Users++
		if out.NoTokens {
			report.UsersWithoutTokens++
		}
		report.RemindersSent += out.Sent
		report.RemindersFailed += out.Failed
		report.TokensPruned += out.Pruned
		for _, results := range out.Results {
			success, failure := push.Counts(results)
			report.TokensSucceeded += success
			report.TokensFailed += failure
		}
	}

	s.logger.Info("notification cycle finished",
		zap.String("trigger", trigger),
		zap.Int("eligible", report.Eligible),
		zap.Int("sent", report.RemindersSent),
		zap.Int("failed", report.RemindersFailed),
		zap.Int("orphans_deleted", report.OrphansDeleted),
		zap.Int("backfilled", report.Backfilled),
		zap.Int("tokens_pruned", report.TokensPruned),
	)
	return report
}
