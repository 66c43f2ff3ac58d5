package logger

import (
	"errors"
	"testing"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var _ cron.Logger = CronLogger{}

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		l, err := New(env, "debug")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", env, err)
		}
		if !l.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("%s: expected debug level enabled", env)
		}
	}
}

func TestNew_InvalidLevelDefaultsToInfo(t *testing.T) {
	l, err := New("production", "chatty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug disabled for invalid level")
	}
	if !l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("expected info enabled for invalid level")
	}
}

func TestCronLogger_Error(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cl := NewCronLogger(zap.New(core))

	cl.Error(errors.New("boom"), "job panicked", "entry", 1)
	cl.Info("wake", "now", "x")

	if logs.Len() != 2 {
		t.Fatalf("expected 2 log entries, got %d", logs.Len())
	}
	entry := logs.FilterMessage("job panicked").All()
	if len(entry) != 1 || entry[0].Level != zapcore.ErrorLevel {
		t.Fatalf("expected one error entry, got %+v", entry)
	}
	if entry[0].ContextMap()["error"] != "boom" {
		t.Errorf("expected error field boom, got %v", entry[0].ContextMap()["error"])
	}
}
