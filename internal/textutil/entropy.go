package textutil

import "math"

// Entropy returns the Shannon entropy of s in bits per character,
// computed over the character (rune) frequency distribution of the
// whole string. The empty string has entropy 0.
//
// The scan engine uses this to gate "Potential Secrets" findings:
// genuine keys and tokens have high entropy, while repeated characters
// and short dictionary words score near zero.
func Entropy(s string) float64 {
	if s == "" {
		return 0
	}

	freq := make(map[rune]int)
	total := 0
	for _, r := range s {
		freq[r]++
		total++
	}

	entropy := 0.0
	for _, count := range freq {
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}
