package errors

import (
	"fmt"
	"strings"
)

// SuggestIdentifier returns "Did you mean 'x'?" when unknown is within a few
// edits of one of the known identifiers, and "" otherwise.
func SuggestIdentifier(unknown string, known []string) string {
	if unknown == "" || len(known) == 0 {
		return ""
	}

	best, bestDistance := "", -1
	for _, candidate := range known {
		d := levenshteinDistance(unknown, candidate)
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = candidate, d
		}
	}

	// Short identifiers match almost anything within a fixed budget.
	limit := min(3, max(1, len(unknown)/3))
	if bestDistance > 0 && bestDistance <= limit {
		return fmt.Sprintf("Did you mean '%s'?", best)
	}
	return ""
}

// SuggestSyntaxFix guesses a fix from the unexpected token and expected rules
// of a syntax error. An empty unexpected token means end of file.
func SuggestSyntaxFix(unexpected string, expected []string) string {
	wantsSign := false
	for _, e := range expected {
		if strings.Contains(strings.ToLower(e), "operator") {
			wantsSign = true
		}
	}

	switch {
	case unexpected == "":
		return "Check for an unclosed '{' block or a missing value"
	case unexpected == "}":
		return "Check for an extra '}' or a missing value before it"
	case unexpected == `"`:
		return "Check for an unterminated string literal"
	case wantsSign:
		return fmt.Sprintf("Add an operator such as '=' before '%s'", unexpected)
	}
	return ""
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // Deletion
				curr[j-1]+1,    // Insertion
				prev[j-1]+cost, // Substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}
