package fcm

import (
	"context"
	"fmt"

	"disposal-backend/pkg/push"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// maxTokensPerMulticast is the FCM limit for one SendEachForMulticast call
const maxTokensPerMulticast = 500

type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient multicastSender
	logger          *zap.Logger
}

// NewClient creates a new FCM client from an initialised Firebase app
func NewClient(ctx context.Context, app *firebase.App, logger *zap.Logger) (*Client, error) {
	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	logger.Info("FCM client initialized")
	return &Client{
		messagingClient: messagingClient,
		logger:          logger.With(zap.String("component", "fcm")),
	}, nil
}

// SendMulticast sends one notification to every token. The returned results are
// aligned by index with tokens; lists above the FCM limit are sent in chunks.
func (c *Client) SendMulticast(ctx context.Context, tokens []string, msg push.Message) ([]push.Result, error) {
	if len(tokens) == 0 {
		return nil, push.ErrNoTokens
	}

	results := make([]push.Result, 0, len(tokens))
	for start := 0; start < len(tokens); start += maxTokensPerMulticast {
		end := start + maxTokensPerMulticast
		if end > len(tokens) {
			end = len(tokens)
		}
		chunk := tokens[start:end]

		response, err := c.messagingClient.SendEachForMulticast(ctx, buildMulticast(chunk, msg))
		if err != nil {
			if start == 0 {
				return nil, fmt.Errorf("failed to send FCM multicast message: %w", err)
			}
			// Earlier chunks were delivered; report this chunk as transiently failed
			c.logger.Warn("multicast chunk failed", zap.Int("offset", start), zap.Error(err))
			for _, tok := range chunk {
				results = append(results, push.Result{Token: tok, ErrorCode: "request-failed", Class: push.ErrorClassTransient, Err: err})
			}
			continue
		}

		c.logger.Debug("multicast sent",
			zap.Int("success", response.SuccessCount),
			zap.Int("failure", response.FailureCount),
		)

		for i, tok := range chunk {
			if i >= len(response.Responses) || response.Responses[i] == nil {
				results = append(results, push.Result{Token: tok, ErrorCode: "missing-response", Class: push.ErrorClassTransient})
				continue
			}
			resp := response.Responses[i]
			if resp.Success {
				results = append(results, push.Result{Token: tok, Success: true, Class: push.ErrorClassNone})
				continue
			}
			code, class := classify(resp.Error)
			results = append(results, push.Result{Token: tok, ErrorCode: code, Class: class, Err: resp.Error})
		}
	}
	return results, nil
}

func buildMulticast(tokens []string, msg push.Message) *messaging.MulticastMessage {
	sound := msg.Sound
	if sound == "" {
		sound = "default"
	}
	androidPriority := "normal"
	apnsPriority := "5"
	webUrgency := "normal"
	if msg.HighPriority {
		androidPriority = "high"
		apnsPriority = "10"
		webUrgency = "high"
	}

	return &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: androidPriority,
			Notification: &messaging.AndroidNotification{
				Sound:       sound,
				ChannelID:   msg.ChannelID,
				ClickAction: msg.ClickAction,
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": apnsPriority},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: sound,
					Badge: msg.Badge,
				},
			},
		},
		Webpush: &messaging.WebpushConfig{
			Headers: map[string]string{"Urgency": webUrgency},
			Notification: &messaging.WebpushNotification{
				Title: msg.Title,
				Body:  msg.Body,
				Icon:  "/icon-192.png",
			},
		},
	}
}

// classify maps an FCM send error to an error code and a retry class.
// Unregistered and invalid tokens never recover; everything else may.
func classify(err error) (string, push.ErrorClass) {
	switch {
	case err == nil:
		return "", push.ErrorClassNone
	case messaging.IsUnregistered(err):
		return "registration-token-not-registered", push.ErrorClassPermanent
	case messaging.IsInvalidArgument(err):
		return "invalid-registration-token", push.ErrorClassPermanent
	case messaging.IsSenderIDMismatch(err):
		return "sender-id-mismatch", push.ErrorClassPermanent
	case messaging.IsQuotaExceeded(err):
		return "quota-exceeded", push.ErrorClassTransient
	case messaging.IsUnavailable(err):
		return "unavailable", push.ErrorClassTransient
	case messaging.IsInternal(err):
		return "internal", push.ErrorClassTransient
	case messaging.IsThirdPartyAuthError(err):
		return "third-party-auth-error", push.ErrorClassTransient
	default:
		return "unknown", push.ErrorClassTransient
	}
}
