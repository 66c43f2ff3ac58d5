package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	api "disposal-backend/cmd/api"
	authUsecase "disposal-backend/internal/auth/usecase"
	devicerepo "disposal-backend/internal/device/repository"
	"disposal-backend/internal/notification"
	receiptUsecase "disposal-backend/internal/receipt/usecase"
	reminderrepo "disposal-backend/internal/reminder/repository"
	"disposal-backend/pkg/ai"
	"disposal-backend/pkg/config"
	"disposal-backend/pkg/database"
	"disposal-backend/pkg/fcm"
	"disposal-backend/pkg/logger"
	"disposal-backend/pkg/push"
	"disposal-backend/pkg/redislock"
	"disposal-backend/pkg/snspush"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
)

type stores struct {
	reminders reminderrepo.ReminderRepository
	tokens    devicerepo.DeviceTokenRepository
	app       *firebase.App
	close     func()
}

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := buildScheduler(ctx, cfg, log)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set; protected routes will reject every request")
	}
	authUc := authUsecase.NewAuthUsecase(cfg.JWTSecret)

	scanner, err := ai.NewReceiptScanner(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIModel:   cfg.OpenAIModel,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	}, log)
	if err != nil {
		log.Warn("receipt scanning disabled", zap.Error(err))
	} else {
		log.Info("receipt scanner initialized", zap.String("provider", cfg.AIProvider))
	}
	receiptUc := receiptUsecase.NewReceiptUsecase(scanner, cfg.MaxUploadMB, log)

	// Initialize HTTP handler
	handler := api.NewHandler(authUc, scheduler, receiptUc, cfg, log)
	if err := handler.Start(ctx, ":"+cfg.Port); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

// buildScheduler wires the dispatcher. Any failure leaves notifications
// disabled; the HTTP server still starts.
func buildScheduler(ctx context.Context, cfg *config.Config, log *zap.Logger) *notification.Scheduler {
	settings := cfg.DispatchSettings()

	if !cfg.NotifyEnabled {
		s := notification.NewScheduler(nil, nil, nil, settings, log)
		s.Disable("disabled by configuration")
		return s
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open stores", zap.String("driver", cfg.StoreDriver), zap.Error(err))
		return notification.NewScheduler(nil, nil, nil, settings, log)
	}
	go func() {
		<-ctx.Done()
		st.close()
	}()

	gateway, err := openGateway(ctx, cfg, st.app, log)
	if err != nil {
		log.Error("failed to initialize push gateway", zap.String("provider", cfg.PushProvider), zap.Error(err))
		return notification.NewScheduler(st.reminders, st.tokens, nil, settings, log)
	}

	var opts []notification.Option
	if cfg.RedisAddr != "" {
		rdb, err := redislock.Connect(ctx, redislock.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn("redis unavailable, dispatch lock is process-local only", zap.Error(err))
		} else {
			opts = append(opts, notification.WithLocker(notification.RedisLocker(redislock.New(rdb, cfg.NotifyLockTTL))))
			log.Info("distributed dispatch lock enabled", zap.String("addr", cfg.RedisAddr))
		}
	}

	return notification.NewScheduler(st.reminders, st.tokens, gateway, settings, log, opts...)
}

func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case "firestore":
		app, err := database.NewFirebaseApp(ctx, cfg)
		if err != nil {
			return nil, err
		}
		client, err := database.NewFirestoreClient(ctx, app)
		if err != nil {
			return nil, err
		}
		return &stores{
			reminders: reminderrepo.NewFirestoreReminderRepository(client, log),
			tokens:    devicerepo.NewFirestoreDeviceTokenRepository(client, log),
			app:       app,
			close:     func() { _ = client.Close() },
		}, nil

	case "postgres":
		db, err := database.NewPostgresConnection(cfg)
		if err != nil {
			return nil, err
		}
		return &stores{
			reminders: reminderrepo.NewGormReminderRepository(db),
			tokens:    devicerepo.NewGormDeviceTokenRepository(db),
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil

	case "memory":
		log.Warn("using in-memory stores; nothing is persisted")
		return &stores{
			reminders: reminderrepo.NewMemoryReminderRepository(),
			tokens:    devicerepo.NewMemoryDeviceTokenRepository(),
			close:     func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openGateway(ctx context.Context, cfg *config.Config, app *firebase.App, log *zap.Logger) (push.Gateway, error) {
	var gateway push.Gateway

	switch cfg.PushProvider {
	case "fcm":
		if app == nil {
			var err error
			if app, err = database.NewFirebaseApp(ctx, cfg); err != nil {
				return nil, err
			}
		}
		client, err := fcm.NewClient(ctx, app, log)
		if err != nil {
			return nil, err
		}
		gateway = client

	case "sns":
		g, err := snspush.New(ctx, snspush.Config{Region: cfg.SNSRegion}, log)
		if err != nil {
			return nil, err
		}
		gateway = g

	default:
		return nil, fmt.Errorf("unknown push provider %q", cfg.PushProvider)
	}

	protection := push.DefaultProtectionConfig(cfg.PushProvider)
	protection.RatePerSec = cfg.PushRatePerSec
	return push.NewProtected(gateway, protection, log), nil
}
