package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"disposal-backend/pkg/fuzzy"
)

var categories = []string{
	"produce", "dairy", "meat", "seafood", "bakery",
	"frozen", "pantry", "beverage", "household", "other",
}

// ParseReceiptItems coerces a model reply into receipt items. It accepts a bare
// array or an {"items": [...]} object, optionally wrapped in a code fence, and
// tolerates numbers sent as strings.
func ParseReceiptItems(text string) ([]ReceiptItem, error) {
	raw := stripCodeFence(text)
	if raw == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		// Some models wrap the JSON in prose
		start, end := strings.IndexAny(raw, "[{"), strings.LastIndexAny(raw, "]}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("model response is not JSON: %w", err)
		}
		if err := json.Unmarshal([]byte(raw[start:end+1]), &decoded); err != nil {
			return nil, fmt.Errorf("model response is not JSON: %w", err)
		}
	}

	var list []interface{}
	switch v := decoded.(type) {
	case []interface{}:
		list = v
	case map[string]interface{}:
		items, ok := v["items"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("model response has no items array")
		}
		list = items
	default:
		return nil, fmt.Errorf("unexpected model response shape %T", decoded)
	}

	out := make([]ReceiptItem, 0, len(list))
	for _, entry := range list {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		name := strings.TrimSpace(stringField(m, "name"))
		if name == "" {
			continue
		}

		category, ok := fuzzy.Closest(stringField(m, "category"), categories, 2)
		if !ok {
			category = "other"
		}

		qty := intField(m, "quantity")
		if qty < 1 {
			qty = 1
		}
		days := intField(m, "disposalDays", "disposal_days")
		if days < 0 {
			days = 0
		}

		out = append(out, ReceiptItem{
			Name:         name,
			Category:     category,
			Quantity:     qty,
			DisposalDays: days,
		})
	}
	return out, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func stringField(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func intField(m map[string]interface{}, keys ...string) int {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return int(math.Round(v))
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return int(math.Round(f))
			}
		}
	}
	return 0
}
