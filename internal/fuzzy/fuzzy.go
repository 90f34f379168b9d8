// Package fuzzy resolves loosely typed names against a known set of names.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/xrash/smetrics"
)

// DefaultCutoff is the minimum similarity a candidate needs to be accepted.
const DefaultCutoff = 0.6

// Ratio returns the similarity of a and b in [0, 1], ignoring case.
//
// The score is 1 - d/(len(a)+len(b)) where d is the insertion/deletion edit
// distance (a substitution costs a delete plus an insert). For "mrcs" and
// "marcos" that is 1 - 2/10 = 0.8.
// Lengths and edits count characters, not bytes, so "Zoe" and "Zoë" differ
// by one substitution.
func Ratio(a, b string) float64 {
	ra, rb := []rune(strings.ToLower(a)), []rune(strings.ToLower(b))
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	ea, eb := byteAlphabet(ra, rb)
	distance := smetrics.WagnerFischer(ea, eb, 1, 1, 2)
	return 1 - float64(distance)/float64(total)
}

// byteAlphabet re-encodes two rune strings so that every distinct rune is a
// single byte, which is what smetrics compares. Names with more than 256
// distinct characters fall back to their UTF-8 bytes.
func byteAlphabet(a, b []rune) (string, string) {
	codes := make(map[rune]byte)
	encode := func(rs []rune) ([]byte, bool) {
		out := make([]byte, len(rs))
		for i, r := range rs {
			code, ok := codes[r]
			if !ok {
				if len(codes) == 256 {
					return nil, false
				}
				code = byte(len(codes))
				codes[r] = code
			}
			out[i] = code
		}
		return out, true
	}
	ea, okA := encode(a)
	eb, okB := encode(b)
	if !okA || !okB {
		return string(a), string(b)
	}
	return string(ea), string(eb)
}

// BestMatch returns the candidate most similar to query whose score is at
// least cutoff. Ties go to the lexically smallest candidate so results do not
// depend on the order of candidates.
func BestMatch(query string, candidates []string, cutoff float64) (string, bool) {
	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Strings(sorted)

	best, bestScore := "", -1.0
	for _, c := range sorted {
		if score := Ratio(query, c); score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < cutoff {
		return "", false
	}
	return best, true
}
