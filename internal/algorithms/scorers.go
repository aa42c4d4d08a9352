package algorithms

import (
	"strings"
)

// Similarity thresholds the dimension scorers depend on.
const (
	roleMatchThreshold     = 0.3
	skillSemanticThreshold = 0.7
	industryThreshold      = 0.6
)

// neutralScore is returned when a dimension has no data to judge on either side.
const neutralScore = 50.0

// RoleScore holds the role dimension result with matched-role evidence.
type RoleScore struct {
	Score   float64  `json:"score"`
	Matches []string `json:"matches"`
}

// SkillsScore holds the skills dimension result. ExactMatches lists target
// skills found verbatim; SemanticMatches lists "target → candidate" pairings
// for close-but-not-exact hits.
type SkillsScore struct {
	Score           float64  `json:"score"`
	ExactMatches    []string `json:"exact_matches"`
	SemanticMatches []string `json:"semantic_matches"`
}

// IndustryScore holds the industry dimension result with the candidate
// industries that matched.
type IndustryScore struct {
	Score   float64  `json:"score"`
	Matches []string `json:"matches"`
}

// ScoreExperience scores actual vs required years of experience (0-100).
// Missing data on either side is neutral, not a failure.
func ScoreExperience(actualYears, requiredYears *float64) float64 {
	if actualYears == nil || requiredYears == nil {
		return neutralScore
	}

	actual := *actualYears
	required := *requiredYears

	if required <= 0 {
		// Zero requirement: anyone with experience meets it with full surplus
		if actual > 0 {
			return 100
		}
		return 80
	}

	if actual >= required {
		// Meets requirement: 80 base + up to 20 surplus bonus
		bonus := (actual - required) / required * 20
		if bonus > 20 {
			bonus = 20
		}
		score := 80 + bonus
		if score > 100 {
			score = 100
		}
		return score
	}

	// Below requirement: proportional, floor 0
	score := actual / required * 80
	if score < 0 {
		return 0
	}
	return score
}

// ScoreRole scores how well the candidate's roles match the target role (0-100).
// Roles above the match threshold are recorded as evidence; the score follows
// the single best similarity.
func ScoreRole(targetRole *string, roles []string) RoleScore {
	if targetRole == nil || strings.TrimSpace(*targetRole) == "" || len(roles) == 0 {
		return RoleScore{Score: 0, Matches: []string{}}
	}

	matches := []string{}
	best := 0.0
	for _, role := range roles {
		sim := TextSimilarity(*targetRole, role)
		if sim > roleMatchThreshold {
			matches = append(matches, role)
		}
		if sim > best {
			best = sim
		}
	}

	return RoleScore{Score: best * 100, Matches: matches}
}

// ScoreSkills scores weighted skill coverage (0-100). Required skills weigh 2,
// preferred skills weigh 1. An exact hit earns the full weight; a close hit
// (similarity above the semantic threshold) earns similarity×weight.
func ScoreSkills(requiredSkills, preferredSkills, candidateSkills []string) SkillsScore {
	result := SkillsScore{
		ExactMatches:    []string{},
		SemanticMatches: []string{},
	}

	type target struct {
		skill  string
		weight float64
	}

	var targets []target
	for _, s := range dedupe(requiredSkills) {
		targets = append(targets, target{skill: s, weight: 2})
	}
	for _, s := range dedupe(preferredSkills) {
		targets = append(targets, target{skill: s, weight: 1})
	}

	if len(targets) == 0 {
		return result
	}

	totalWeight := 0.0
	awarded := 0.0
	for _, t := range targets {
		totalWeight += t.weight

		bestSkill, bestSim := BestMatch(t.skill, candidateSkills)
		switch {
		case bestSim == 1.0:
			awarded += t.weight
			result.ExactMatches = append(result.ExactMatches, t.skill)
		case bestSim > skillSemanticThreshold:
			awarded += bestSim * t.weight
			result.SemanticMatches = append(result.SemanticMatches, t.skill+" → "+bestSkill)
		}
	}

	result.Score = 100 * awarded / totalWeight
	return result
}

// ScoreIndustry scores overlap between target industries and the candidate's
// dominant industries (0-100). Each target industry contributes its best
// similarity when that similarity clears the industry threshold.
func ScoreIndustry(targetIndustries, candidateIndustries []string) IndustryScore {
	result := IndustryScore{Matches: []string{}}

	if len(targetIndustries) == 0 || len(candidateIndustries) == 0 {
		return result
	}

	accumulated := 0.0
	for _, ti := range targetIndustries {
		bestIndustry, bestSim := BestMatch(ti, candidateIndustries)
		if bestSim > industryThreshold {
			result.Matches = append(result.Matches, bestIndustry)
			accumulated += bestSim
		}
	}

	result.Score = 100 * accumulated / float64(len(targetIndustries))
	return result
}

// ScoreStability scores job-change frequency against the allowed maximum (0-100).
// Missing data on either side is neutral. Exceeding the maximum applies a
// linear penalty with floor 0.
func ScoreStability(jobChangesPerYear, maxChangesPerYear *float64) float64 {
	if jobChangesPerYear == nil || maxChangesPerYear == nil {
		return neutralScore
	}

	actual := *jobChangesPerYear
	max := *maxChangesPerYear

	if actual <= max {
		return 100
	}

	if max <= 0 {
		// actual > 0 here; an unbounded penalty floors to 0
		return 0
	}

	score := 100 - 50*(actual-max)/max
	if score < 0 {
		return 0
	}
	return score
}

// dedupe collapses duplicates case-insensitively, preserving first-seen order
// and spelling. Criteria skill lists may carry duplicates on input but are
// treated as sets for matching.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
