// Package push defines the multicast push gateway contract shared by the
// FCM and SNS delivery clients.
package push

import (
	"context"
	"errors"
)

// ErrNoTokens is returned when a multicast is attempted with an empty token list
var ErrNoTokens = errors.New("push: no device tokens")

// ErrorClass separates failures that will never succeed again from ones a
// later retry may fix.
type ErrorClass string

const (
	ErrorClassNone      ErrorClass = "none"
	ErrorClassTransient ErrorClass = "transient"
	ErrorClassPermanent ErrorClass = "permanent"
)

// Message is the provider-neutral notification payload
type Message struct {
	Title string
	Body  string
	Data  map[string]string

	// Platform envelope options
	Sound        string // "default" when empty
	Badge        *int   // iOS badge count
	HighPriority bool
	ChannelID    string // Android notification channel
	ClickAction  string
}

// Result is the outcome for one token, aligned by index with the request's token list
type Result struct {
	Token     string
	Success   bool
	ErrorCode string
	Class     ErrorClass
	Err       error
}

// Gateway accepts one multicast send and reports a per-token result vector.
// A non-nil error means the request as a whole failed and no result is available.
type Gateway interface {
	SendMulticast(ctx context.Context, tokens []string, msg Message) ([]Result, error)
}

// Counts tallies a result vector
func Counts(results []Result) (success, failure int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failure++
		}
	}
	return success, failure
}
