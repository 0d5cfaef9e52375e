package usecase

import (
	"strings"
)

// SkillMatcher compares the skills a project asks for with the freelancer's profile
type SkillMatcher struct {
	known map[string]bool
}

// NewSkillMatcher indexes the profile skills case-insensitively
func NewSkillMatcher(profileSkills []string) *SkillMatcher {
	known := make(map[string]bool, len(profileSkills))
	for _, s := range profileSkills {
		if key := normalizeSkill(s); key != "" {
			known[key] = true
		}
	}
	return &SkillMatcher{known: known}
}

// Match returns the required skills found in the profile, in the order they were required
func (m *SkillMatcher) Match(required []string) []string {
	matched := []string{}
	for _, skill := range required {
		if m.known[normalizeSkill(skill)] {
			matched = append(matched, skill)
		}
	}
	return matched
}

// Score is the matched share of required skills as a 0-100 percentage
// rounded to one decimal. No required skills scores 0.
func (m *SkillMatcher) Score(required, matched []string) float64 {
	if len(required) == 0 {
		return 0
	}
	return roundTenth(float64(len(matched)) / float64(len(required)) * 100)
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
