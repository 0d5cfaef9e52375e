package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bidwriter/backend/internal/domain"
)

const (
	analysisTemperature = 0.3
	defaultAnalysisTTL  = 24 * time.Hour
)

// missingDescriptionMarker is what older clients send when a page had no description
const missingDescriptionMarker = "No project description found"

// AnalyzerConfig holds configuration for the project analyzer
type AnalyzerConfig struct {
	CacheTTL time.Duration
}

// ProjectAnalyzer asks the LLM for a structured reading of a project and
// scores it against the profile skills. Results are cached when a cache is set.
type ProjectAnalyzer struct {
	generator domain.TextGenerator
	cache     domain.CacheRepository
	matcher   *SkillMatcher
	skills    []string
	cacheTTL  time.Duration
}

// NewProjectAnalyzer creates an analyzer. cache may be nil.
func NewProjectAnalyzer(
	generator domain.TextGenerator,
	cache domain.CacheRepository,
	profile domain.Profile,
	config AnalyzerConfig,
) *ProjectAnalyzer {
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultAnalysisTTL
	}

	return &ProjectAnalyzer{
		generator: generator,
		cache:     cache,
		matcher:   NewSkillMatcher(profile.Skills),
		skills:    profile.Skills,
		cacheTTL:  cacheTTL,
	}
}

// analysisPayload mirrors the JSON the model is asked for. Pointers tell
// missing fields apart so defaults can be applied.
type analysisPayload struct {
	ProjectType          *string  `json:"project_type"`
	RequiredSkills       []string `json:"required_skills"`
	KeyRequirements      []string `json:"key_requirements"`
	EstimatedComplexity  *string  `json:"estimated_complexity"`
	EstimatedBudgetRange *string  `json:"estimated_budget_range"`
	Deliverables         []string `json:"deliverables"`
	SpecialNotes         []string `json:"special_notes"`
}

// Analyze returns the analysis of a project.
// Flow: placeholder check -> cache -> LLM -> decode -> skill match -> cache
func (a *ProjectAnalyzer) Analyze(ctx context.Context, description, name string) (*domain.ProjectAnalysis, error) {
	if isMissingDescription(description) {
		return unknownProjectAnalysis(), nil
	}

	cacheKey := analysisCacheKey(name, description)
	if cached, err := a.getFromCache(ctx, cacheKey); err == nil {
		return cached, nil
	}

	response, err := a.generator.Generate(ctx,
		analysisUserPrompt(name, description, a.skills),
		analysisSystemPrompt,
		analysisTemperature,
	)
	if err != nil {
		return nil, fmt.Errorf("analyze project: %w", wrapLLMError(err))
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(stripCodeFences(response)), &payload); err != nil {
		log.Printf("[ANALYZER] Could not decode analysis (%v), using general fallback", err)
		return generalProjectAnalysis(), nil
	}

	analysis := a.fromPayload(payload)
	a.setInCache(ctx, cacheKey, analysis)

	return analysis, nil
}

func (a *ProjectAnalyzer) fromPayload(p analysisPayload) *domain.ProjectAnalysis {
	required := orEmpty(p.RequiredSkills)
	matched := a.matcher.Match(required)

	return &domain.ProjectAnalysis{
		ProjectType:          stringOr(p.ProjectType, "General"),
		RequiredSkills:       required,
		KeyRequirements:      orEmpty(p.KeyRequirements),
		EstimatedComplexity:  stringOr(p.EstimatedComplexity, "medium"),
		EstimatedBudgetRange: stringOr(p.EstimatedBudgetRange, "Not specified"),
		Deliverables:         orEmpty(p.Deliverables),
		SpecialNotes:         orEmpty(p.SpecialNotes),
		MatchedSkills:        matched,
		SkillMatchScore:      a.matcher.Score(required, matched),
	}
}

// getFromCache returns a cached analysis. Caches may hand back the stored
// struct or its JSON encoding.
func (a *ProjectAnalyzer) getFromCache(ctx context.Context, key string) (*domain.ProjectAnalysis, error) {
	if a.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	value, err := a.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case *domain.ProjectAnalysis:
		return v, nil
	case json.RawMessage:
		return decodeAnalysis(v)
	case []byte:
		return decodeAnalysis(v)
	default:
		return nil, domain.ErrCacheMiss
	}
}

// setInCache stores an analysis. Cache failures never fail the request.
func (a *ProjectAnalyzer) setInCache(ctx context.Context, key string, analysis *domain.ProjectAnalysis) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Set(ctx, key, analysis, a.cacheTTL); err != nil {
		log.Printf("[CACHE] Failed to store analysis: %v", err)
	}
}

func decodeAnalysis(data []byte) (*domain.ProjectAnalysis, error) {
	var analysis domain.ProjectAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &analysis, nil
}

// analysisCacheKey hashes the whitespace- and case-normalised project text.
// Format: "analysis:{sha256 hex}"
func analysisCacheKey(name, description string) string {
	sum := sha256.Sum256([]byte(normalizeForCacheKey(name) + "\x00" + normalizeForCacheKey(description)))
	return "analysis:" + hex.EncodeToString(sum[:])
}

func normalizeForCacheKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func isMissingDescription(description string) bool {
	trimmed := strings.TrimSpace(description)
	return trimmed == "" ||
		domain.IsPlaceholderDescription(trimmed) ||
		strings.Contains(description, missingDescriptionMarker)
}

// unknownProjectAnalysis is returned without calling the LLM when there is nothing to analyze
func unknownProjectAnalysis() *domain.ProjectAnalysis {
	return &domain.ProjectAnalysis{
		ProjectType:          "Unknown Project Type",
		RequiredSkills:       []string{},
		KeyRequirements:      []string{"Project description not available"},
		EstimatedComplexity:  "medium",
		EstimatedBudgetRange: "Not specified",
		Deliverables:         []string{"Not specified"},
		SpecialNotes:         []string{"Unable to analyze - missing project description"},
		MatchedSkills:        []string{},
		SkillMatchScore:      0,
	}
}

// generalProjectAnalysis is used when the model reply is not valid JSON
func generalProjectAnalysis() *domain.ProjectAnalysis {
	return &domain.ProjectAnalysis{
		ProjectType:          "General",
		RequiredSkills:       []string{},
		KeyRequirements:      []string{},
		EstimatedComplexity:  "medium",
		EstimatedBudgetRange: "Not specified",
		Deliverables:         []string{},
		SpecialNotes:         []string{},
		MatchedSkills:        []string{},
		SkillMatchScore:      0,
	}
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
