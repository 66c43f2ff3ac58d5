package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaScanner_ScanReceipt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Model  string   `json:"model"`
			Images []string `json:"images"`
			Format string   `json:"format"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "llava" || len(req.Images) != 1 || req.Format != "json" {
			t.Errorf("unexpected request: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"response": `[{"name":"Salmon","category":"seafood","quantity":1,"disposalDays":2}]`,
			"done":     true,
		})
	}))
	defer srv.Close()

	items, err := NewOllamaScanner(srv.URL, "").ScanReceipt(context.Background(), []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Category != "seafood" {
		t.Errorf("unexpected items: %+v", items)
	}
}
