package push

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type stubGateway struct {
	calls int
	err   error
}

func (s *stubGateway) SendMulticast(ctx context.Context, tokens []string, msg Message) ([]Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	results := make([]Result, len(tokens))
	for i, tok := range tokens {
		results[i] = Result{Token: tok, Success: true, Class: ErrorClassNone}
	}
	return results, nil
}

func TestProtectedGateway_PassesThrough(t *testing.T) {
	stub := &stubGateway{}
	pg := NewProtected(stub, DefaultProtectionConfig("test"), zap.NewNop())

	results, err := pg.SendMulticast(context.Background(), []string{"a", "b"}, Message{Title: "t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 || !results[1].Success {
		t.Fatalf("unexpected results: %+v", results)
	}
	if pg.State() != "closed" {
		t.Errorf("expected closed breaker, got %s", pg.State())
	}
}

func TestProtectedGateway_OpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubGateway{err: errors.New("connection refused")}
	cfg := ProtectionConfig{Name: "test", MaxFailures: 2, OpenTimeout: time.Hour}
	pg := NewProtected(stub, cfg, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := pg.SendMulticast(ctx, []string{"a"}, Message{}); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	if pg.State() != "open" {
		t.Fatalf("expected open breaker, got %s", pg.State())
	}

	_, err := pg.SendMulticast(ctx, []string{"a"}, Message{})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected ErrOpenState, got %v", err)
	}
	if stub.calls != 2 {
		t.Errorf("open breaker must not reach the provider, got %d calls", stub.calls)
	}
}

func TestProtectedGateway_RateLimiterHonoursContext(t *testing.T) {
	stub := &stubGateway{}
	cfg := DefaultProtectionConfig("paced")
	cfg.RatePerSec = 0.001
	pg := NewProtected(stub, cfg, zap.NewNop())

	// First send consumes the single burst token
	if _, err := pg.SendMulticast(context.Background(), []string{"a"}, Message{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := pg.SendMulticast(ctx, []string{"a"}, Message{}); err == nil {
		t.Fatal("expected limiter error for cancelled context")
	}
	if stub.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", stub.calls)
	}
}

func TestCounts(t *testing.T) {
	s, f := Counts([]Result{{Success: true}, {Success: false}, {Success: true}})
	if s != 2 || f != 1 {
		t.Errorf("Counts = (%d, %d), want (2, 1)", s, f)
	}
}
