// Package similarity scores how close two short strings are, for comparing
// a recognized utterance against the word a child was asked to say.
package similarity

import "strings"

// Distance returns the Levenshtein edit distance between a and b: the minimum
// number of single-rune insertions, deletions and substitutions that turn a
// into b. Inputs are compared as-is.
func Distance(a, b string) int {
	ar := []rune(a)
	br := []rune(b)

	// Rows follow b, columns follow a.
	table := make([][]int, len(br)+1)
	for i := range table {
		table[i] = make([]int, len(ar)+1)
		table[i][0] = i
	}
	for j := 0; j <= len(ar); j++ {
		table[0][j] = j
	}

	for i := 1; i <= len(br); i++ {
		for j := 1; j <= len(ar); j++ {
			if br[i-1] == ar[j-1] {
				table[i][j] = table[i-1][j-1]
				continue
			}
			table[i][j] = 1 + min(
				table[i-1][j-1], // substitution
				table[i][j-1],   // insertion
				table[i-1][j],   // deletion
			)
		}
	}

	return table[len(br)][len(ar)]
}

// Similarity returns a score in [0,1] where 1 means identical. Both inputs are
// lower-cased and trimmed first, so case and surrounding whitespace never
// affect the score. Two empty strings are identical.
func Similarity(a, b string) float64 {
	a = Normalize(a)
	b = Normalize(b)

	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Distance(a, b))/float64(longest)
}

// Normalize lower-cases s and strips surrounding whitespace.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
