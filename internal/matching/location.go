package matching

import (
	"strings"
	"unicode"
)

const (
	// minLocationOverlap is the share of common words needed for a fuzzy location match.
	minLocationOverlap = 0.3
	// minSignificantWordLen excludes short tokens such as state codes from fuzzy matching.
	minSignificantWordLen = 3
)

// locationScore matches a free-text candidate location against the alert
// locations. The first alert location producing a match wins.
func locationScore(candidate string, wanted []string) (bool, int) {
	candidate = strings.ToLower(strings.TrimSpace(candidate))
	if candidate == "" {
		return false, 0
	}

	for _, loc := range wanted {
		loc = strings.ToLower(strings.TrimSpace(loc))
		if loc == "" {
			continue
		}

		if strings.Contains(candidate, loc) || strings.Contains(loc, candidate) {
			return true, 100
		}

		ratio := wordOverlap(candidate, loc)
		for _, segment := range strings.Split(candidate, ",") {
			if r := wordOverlap(segment, loc); r > ratio {
				ratio = r
			}
		}

		if ratio >= minLocationOverlap {
			return true, clampScore(ratio * 100)
		}
	}

	return false, 0
}

// wordOverlap returns the share of candidate words that loosely match a word of
// the wanted location, relative to the longer of the two word lists.
func wordOverlap(candidate, wanted string) float64 {
	candidateWords := tokenize(candidate)
	wantedWords := tokenize(wanted)

	total := max(len(candidateWords), len(wantedWords))
	if total == 0 {
		return 0
	}

	common := 0
	for _, w := range candidateWords {
		if len(w) < minSignificantWordLen {
			continue
		}
		for _, c := range wantedWords {
			if len(c) < minSignificantWordLen {
				continue
			}
			if strings.Contains(w, c) || strings.Contains(c, w) {
				common++
				break
			}
		}
	}

	return float64(common) / float64(total)
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}
