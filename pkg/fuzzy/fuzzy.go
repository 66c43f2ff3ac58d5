package fuzzy

import (
	"strings"
	"unicode"
)

// LevenshteinDistance calculates the edit distance between two strings after
// lowercasing and stripping accents
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(normalizeString(s1))
	r2 := []rune(normalizeString(s2))

	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

// Closest returns the candidate nearest to word, if it is within maxDistance.
// A candidate that word starts with (e.g. "beverages" for "beverage") wins outright.
func Closest(word string, candidates []string, maxDistance int) (string, bool) {
	word = normalizeString(word)
	if word == "" {
		return "", false
	}

	best, bestDist := "", maxDistance+1
	for _, c := range candidates {
		norm := normalizeString(c)
		if norm == word || strings.HasPrefix(word, norm) {
			return c, true
		}
		if d := LevenshteinDistance(word, norm); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, best != ""
}

// normalizeString lowercases, strips accents and collapses whitespace
func normalizeString(s string) string {
	s = removeAccents(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// removeAccents removes diacritical marks from a string
func removeAccents(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) { // Mn: Mark, nonspacing
			continue
		}
		switch r {
		case 'á', 'à', 'â', 'ä', 'ã', 'å':
			result.WriteRune('a')
		case 'é', 'è', 'ê', 'ë':
			result.WriteRune('e')
		case 'í', 'ì', 'î', 'ï':
			result.WriteRune('i')
		case 'ó', 'ò', 'ô', 'ö', 'õ':
			result.WriteRune('o')
		case 'ú', 'ù', 'û', 'ü':
			result.WriteRune('u')
		case 'ç':
			result.WriteRune('c')
		case 'ñ':
			result.WriteRune('n')
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}
