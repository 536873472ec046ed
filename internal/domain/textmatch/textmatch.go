// Package textmatch provides the pure string-matching primitives used by
// the search scorer: normalized edit-distance similarity, a coarse
// phonetic fingerprint, and character trigrams.
package textmatch

import "strings"

// FingerprintLength caps the phonetic fingerprint size.
const FingerprintLength = 8

// Similarity returns the normalized Levenshtein similarity between a and b:
// (maxLen - editDistance) / maxLen. Symmetric, in [0, 1].
// Two empty strings are defined as identical (similarity 1).
func Similarity(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	return float64(maxLen-editDistance(a, b)) / float64(maxLen)
}

// editDistance computes the Levenshtein distance between a and b using a
// two-row rolling buffer, O(len(a)*len(b)) time and O(len(b)) space.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// BestTokenSimilarity returns the highest Similarity between term and any
// whitespace-separated token of text. Comparing per token keeps a short
// misspelled term from drowning in the length of the full text.
func BestTokenSimilarity(term, text string) float64 {
	best := 0.0
	for _, token := range strings.Fields(text) {
		if s := Similarity(term, token); s > best {
			best = s
			if best == 1 {
				break
			}
		}
	}
	return best
}

// Fingerprint reduces text to a coarse sounds-like key: lowercase, letters
// only, vowels stripped, consecutive duplicates collapsed, capped at
// FingerprintLength bytes. A heuristic in the Soundex family, not an
// implementation of any published algorithm.
func Fingerprint(text string) string {
	var sb strings.Builder
	var last byte

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c < 'a' || c > 'z' {
			continue
		}
		switch c {
		case 'a', 'e', 'i', 'o', 'u':
			continue
		}
		if c == last {
			continue
		}
		sb.WriteByte(c)
		last = c
		if sb.Len() == FingerprintLength {
			break
		}
	}

	return sb.String()
}

// Trigrams returns the set of 3-character shingles of text after lowering
// and removing everything outside [a-z0-9].
func Trigrams(text string) map[string]struct{} {
	return NGrams(text, 3)
}

// NGrams returns the set of n-character shingles of the cleaned text.
func NGrams(text string, n int) map[string]struct{} {
	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			sb.WriteByte(c)
		}
	}
	clean := sb.String()

	grams := make(map[string]struct{})
	for i := 0; i+n <= len(clean); i++ {
		grams[clean[i:i+n]] = struct{}{}
	}
	return grams
}
