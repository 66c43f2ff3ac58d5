package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_DRIVER", "NOTIFY_INTERVAL", "NOTIFY_DEBOUNCE", "NOTIFY_LOOKAHEAD", "NOTIFY_SIBLING_LIMIT", "NOTIFY_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.StoreDriver != "firestore" {
		t.Errorf("expected firestore driver, got %s", cfg.StoreDriver)
	}
	if cfg.NotifyInterval != 5*time.Minute {
		t.Errorf("expected 5m interval, got %v", cfg.NotifyInterval)
	}
	if cfg.NotifyDebounce != 5*time.Minute {
		t.Errorf("expected 5m debounce, got %v", cfg.NotifyDebounce)
	}
	if cfg.NotifyLookahead != time.Hour {
		t.Errorf("expected 1h lookahead, got %v", cfg.NotifyLookahead)
	}
	if cfg.NotifySiblingLimit != 10 {
		t.Errorf("expected sibling limit 10, got %d", cfg.NotifySiblingLimit)
	}
	if !cfg.NotifyEnabled {
		t.Error("expected notifications enabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("NOTIFY_INTERVAL", "90s")
	t.Setenv("NOTIFY_DEBOUNCE", "2m")
	t.Setenv("NOTIFY_SIBLING_LIMIT", "3")
	t.Setenv("NOTIFY_ENABLED", "false")
	t.Setenv("PUSH_RATE_PER_SEC", "12.5")

	cfg := Load()

	if cfg.StoreDriver != "memory" {
		t.Errorf("expected memory driver, got %s", cfg.StoreDriver)
	}
	if cfg.NotifyInterval != 90*time.Second {
		t.Errorf("expected 90s interval, got %v", cfg.NotifyInterval)
	}
	if cfg.NotifyDebounce != 2*time.Minute {
		t.Errorf("expected 2m debounce, got %v", cfg.NotifyDebounce)
	}
	if cfg.NotifySiblingLimit != 3 {
		t.Errorf("expected sibling limit 3, got %d", cfg.NotifySiblingLimit)
	}
	if cfg.NotifyEnabled {
		t.Error("expected notifications disabled")
	}
	if cfg.PushRatePerSec != 12.5 {
		t.Errorf("expected rate 12.5, got %v", cfg.PushRatePerSec)
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("NOTIFY_INTERVAL", "soon")
	t.Setenv("NOTIFY_STARTUP_DELAY", "-5s")

	cfg := Load()

	if cfg.NotifyInterval != 5*time.Minute {
		t.Errorf("expected default interval, got %v", cfg.NotifyInterval)
	}
	if cfg.NotifyStartupDelay != 10*time.Second {
		t.Errorf("expected default startup delay, got %v", cfg.NotifyStartupDelay)
	}
}

func TestDispatchSettings(t *testing.T) {
	t.Setenv("NOTIFY_INTERVAL", "2m")
	t.Setenv("NOTIFY_STARTUP_DELAY", "1s")
	t.Setenv("NOTIFY_SIBLING_LIMIT", "4")

	s := Load().DispatchSettings()
	if s.Interval != 2*time.Minute || s.StartupDelay != time.Second || s.SiblingLimit != 4 {
		t.Errorf("unexpected settings: %+v", s)
	}
	if s.Lookahead != time.Hour || s.Debounce != 5*time.Minute {
		t.Errorf("expected default lookahead and debounce, got %+v", s)
	}
}
