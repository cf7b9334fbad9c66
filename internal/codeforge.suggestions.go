package internal

import (
	"sort"
	"strings"
)

// ClosestMatches returns up to limit candidates within edit distance of
// target, closest first. Comparison ignores case.
func ClosestMatches(target string, candidates []string, limit int) []string {
	if len(candidates) == 0 || limit <= 0 {
		return nil
	}

	maxDistance := len(target) / 2
	if maxDistance < MinSuggestionDistance {
		maxDistance = MinSuggestionDistance
	}

	type match struct {
		name     string
		distance int
	}
	var matches []match
	lowered := strings.ToLower(target)
	for _, candidate := range candidates {
		if d := editDistance(lowered, strings.ToLower(candidate)); d <= maxDistance {
			matches = append(matches, match{name: candidate, distance: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	result := make([]string, len(matches))
	for i, m := range matches {
		result[i] = m.name
	}
	return result
}

// editDistance is the Levenshtein distance between a and b, in bytes.
func editDistance(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// DidYouMean renders suggestions as a message suffix, or "" when there are
// none.
//
//	DidYouMean([]string{"header"})      // ". Did you mean 'header'?"
//	DidYouMean([]string{"a", "b", "c"}) // ". Did you mean 'a', 'b' or 'c'?"
func DidYouMean(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(SuggestionPrefix)
	for i, s := range suggestions {
		if i > 0 {
			if i == len(suggestions)-1 {
				sb.WriteString(" or ")
			} else {
				sb.WriteString(", ")
			}
		}
		sb.WriteByte('\'')
		sb.WriteString(s)
		sb.WriteByte('\'')
	}
	sb.WriteByte('?')
	return sb.String()
}
