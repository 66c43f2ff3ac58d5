package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCycle(t *testing.T) {
	before := testutil.ToFloat64(dispatchCycles.WithLabelValues("timer", "completed"))
	RecordCycle("timer", "completed", 2*time.Second)
	RecordCycle("manual", "skipped", 0)

	after := testutil.ToFloat64(dispatchCycles.WithLabelValues("timer", "completed"))
	if after-before != 1 {
		t.Errorf("expected completed counter to grow by 1, got %v", after-before)
	}
}

func TestRecordOrphanDeleted(t *testing.T) {
	before := testutil.ToFloat64(orphansDeleted.WithLabelValues("missing_item"))
	RecordOrphanDeleted("missing_item")
	RecordOrphanDeleted("missing_item")

	if got := testutil.ToFloat64(orphansDeleted.WithLabelValues("missing_item")) - before; got != 2 {
		t.Errorf("expected 2 orphan deletions recorded, got %v", got)
	}
}

func TestRecordDeliveryCounters(t *testing.T) {
	RecordReminderDispatched("sent")
	RecordReminderDispatched("failed")
	RecordOwnerBackfilled()
	RecordPushResult("permanent")
	RecordPushResult("none")

	before := testutil.ToFloat64(tokensPruned)
	RecordTokenPruned()
	if got := testutil.ToFloat64(tokensPruned) - before; got != 1 {
		t.Errorf("expected 1 pruned token recorded, got %v", got)
	}
}

func TestHandler_ExposesDispatchMetrics(t *testing.T) {
	RecordCycle("timer", "completed", time.Second)
	RecordRequest("GET", "/api/health", 200, 10*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"disposal_dispatch_cycles_total", "disposal_http_requests_total"} {
		if !strings.Contains(body, name) {
			t.Errorf("expected %s in metrics output", name)
		}
	}
}
