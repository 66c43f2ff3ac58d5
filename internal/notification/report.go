package notification

import (
	"time"

	"disposal-backend/pkg/push"
)

// Outcome is what happened to one user's batch within a cycle. It is only used
// for logging, pruning and the cycle report; nothing is persisted.
type Outcome struct {
	UserID    string
	Reminders []string // reminder IDs attempted
	Tokens    []string
	Results   map[string][]push.Result // by reminder ID
	Sent      int
	Failed    int
	Pruned    int
	NoTokens  bool
}

// CycleReport summarises one scan-and-dispatch cycle
type CycleReport struct {
	Trigger    string    `json:"trigger"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`

	Candidates      int `json:"candidates"`
	Eligible        int `json:"eligible"`
	SkippedStatus   int `json:"skipped_status"`
	SkippedDebounce int `json:"skipped_debounce"`

	Backfilled     int `json:"backfilled"`
	OrphansDeleted int `json:"orphans_deleted"`
	ResolveErrors  int `json:"resolve_errors"`

	Users              int `json:"users"`
	UsersWithoutTokens int `json:"users_without_tokens"`
	RemindersSent      int `json:"reminders_sent"`
	RemindersFailed    int `json:"reminders_failed"`
	TokensSucceeded    int `json:"tokens_succeeded"`
	TokensFailed       int `json:"tokens_failed"`
	TokensPruned       int `json:"tokens_pruned"`

	Error string `json:"error,omitempty"`
}
