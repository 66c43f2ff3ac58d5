// Package snspush delivers push notifications through AWS SNS mobile push
// platform endpoints. Device tokens are SNS endpoint ARNs.
package snspush

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"disposal-backend/pkg/push"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"
)

type publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Gateway publishes one message per endpoint ARN
type Gateway struct {
	client publisher
	logger *zap.Logger
}

type Config struct {
	Region string
}

// New creates an SNS push gateway using the default AWS credential chain
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Gateway, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load default AWS config for SNS: %w", err)
	}

	return &Gateway{
		client: sns.NewFromConfig(awsCfg),
		logger: logger.With(zap.String("component", "sns_push")),
	}, nil
}

// SendMulticast publishes msg to every endpoint. SNS has no multicast call, so a
// failure on one endpoint is recorded in its result and the rest still go out.
func (g *Gateway) SendMulticast(ctx context.Context, tokens []string, msg push.Message) ([]push.Result, error) {
	if len(tokens) == 0 {
		return nil, push.ErrNoTokens
	}

	body, err := buildPayload(msg)
	if err != nil {
		return nil, fmt.Errorf("build sns payload: %w", err)
	}

	results := make([]push.Result, len(tokens))
	for i, arn := range tokens {
		out, err := g.client.Publish(ctx, &sns.PublishInput{
			TargetArn:        aws.String(arn),
			Message:          aws.String(body),
			MessageStructure: aws.String("json"),
		})
		if err != nil {
			code, class := classify(err)
			results[i] = push.Result{Token: arn, ErrorCode: code, Class: class, Err: err}
			continue
		}
		g.logger.Debug("endpoint published", zap.String("message_id", aws.ToString(out.MessageId)))
		results[i] = push.Result{Token: arn, Success: true, Class: push.ErrorClassNone}
	}
	return results, nil
}

func buildPayload(msg push.Message) (string, error) {
	sound := msg.Sound
	if sound == "" {
		sound = "default"
	}

	aps := map[string]interface{}{
		"alert": map[string]string{"title": msg.Title, "body": msg.Body},
		"sound": sound,
	}
	if msg.Badge != nil {
		aps["badge"] = *msg.Badge
	}
	apns := map[string]interface{}{"aps": aps}
	for k, v := range msg.Data {
		apns[k] = v
	}

	priority := "normal"
	if msg.HighPriority {
		priority = "high"
	}
	gcm := map[string]interface{}{
		"notification": map[string]string{
			"title":      msg.Title,
			"body":       msg.Body,
			"sound":      sound,
			"channel_id": msg.ChannelID,
		},
		"data":     msg.Data,
		"priority": priority,
	}

	apnsJSON, err := json.Marshal(apns)
	if err != nil {
		return "", err
	}
	gcmJSON, err := json.Marshal(gcm)
	if err != nil {
		return "", err
	}

	envelope, err := json.Marshal(map[string]string{
		"default":      msg.Body,
		"APNS":         string(apnsJSON),
		"APNS_SANDBOX": string(apnsJSON),
		"GCM":          string(gcmJSON),
	})
	if err != nil {
		return "", err
	}
	return string(envelope), nil
}

// classify treats disabled, missing or malformed endpoints as permanently dead
func classify(err error) (string, push.ErrorClass) {
	var disabled *types.EndpointDisabledException
	var notFound *types.NotFoundException
	var invalid *types.InvalidParameterException
	var throttled *types.ThrottledException

	switch {
	case errors.As(err, &disabled):
		return "endpoint-disabled", push.ErrorClassPermanent
	case errors.As(err, &notFound):
		return "endpoint-not-found", push.ErrorClassPermanent
	case errors.As(err, &invalid):
		return "invalid-endpoint", push.ErrorClassPermanent
	case errors.As(err, &throttled):
		return "throttled", push.ErrorClassTransient
	default:
		return "unknown", push.ErrorClassTransient
	}
}
