package algorithms

import (
	"strings"
)

// TextSimilarity computes a bag-of-words similarity between two strings (0.0-1.0).
//
// This is a crude token-overlap heuristic, not a semantic embedding. It is kept
// deliberately simple; the dimension scorers rely on its threshold semantics
// (1.0 exact, >0.7 close skill, >0.6 industry, >0.3 role), so the cutoff behavior
// matters more than the sophistication of the measure itself.
func TextSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}

	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)

	// Count tokens of A that also occur in B. Each B token is consumed at most
	// once, so repeated tokens cannot push the ratio past 1.0.
	used := make([]bool, len(tokensB))
	common := 0
	for _, ta := range tokensA {
		for i, tb := range tokensB {
			if !used[i] && ta == tb {
				used[i] = true
				common++
				break
			}
		}
	}

	union := len(tokensA) + len(tokensB) - common
	if union == 0 {
		return 0
	}

	return float64(common) / float64(union)
}

// BestMatch finds the candidate with the highest similarity to target.
// Returns the best candidate string and its similarity (0 if candidates is empty).
func BestMatch(target string, candidates []string) (string, float64) {
	best := ""
	bestSim := 0.0
	for _, c := range candidates {
		if sim := TextSimilarity(target, c); sim > bestSim {
			bestSim = sim
			best = c
		}
	}
	return best, bestSim
}
