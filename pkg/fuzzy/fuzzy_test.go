package fuzzy

import "testing"

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"dairy", "", 5},
		{"dairy", "Dairy", 0},
		{"diary", "dairy", 2},
		{"produce", "produkt", 2},
		{"crème", "creme", 0},
	}
	for _, tt := range tests {
		if got := LevenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestClosest(t *testing.T) {
	cats := []string{"produce", "dairy", "meat", "beverage", "other"}

	if got, ok := Closest("Beverages", cats, 2); !ok || got != "beverage" {
		t.Errorf("expected beverage, got %q %v", got, ok)
	}
	if got, ok := Closest("diary", cats, 2); !ok || got != "dairy" {
		t.Errorf("expected dairy, got %q %v", got, ok)
	}
	if _, ok := Closest("electronics", cats, 2); ok {
		t.Error("expected no match for electronics")
	}
	if _, ok := Closest("", cats, 2); ok {
		t.Error("expected no match for empty input")
	}
}
