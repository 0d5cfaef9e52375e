package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bidwriter/backend/internal/domain"
)

// Compiled patterns for cleaning model output
var (
	// Opening fence with an optional language tag, e.g. "```json"
	openingFencePattern = regexp.MustCompile("^```[a-zA-Z]*\\s*")
	closingFencePattern = regexp.MustCompile("\\s*```$")
)

// stripCodeFences removes a surrounding markdown code fence from a JSON reply
func stripCodeFences(response string) string {
	cleaned := strings.TrimSpace(response)
	cleaned = openingFencePattern.ReplaceAllString(cleaned, "")
	cleaned = closingFencePattern.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// stripWrappingQuotes trims the reply and removes at most one leading and one trailing double quote
func stripWrappingQuotes(response string) string {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, `"`)
	cleaned = strings.TrimSuffix(cleaned, `"`)
	return cleaned
}

// wrapLLMError tags provider errors with ErrLLMFailure unless they already
// carry a more specific domain error.
func wrapLLMError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrLLMQuotaExhausted),
		errors.Is(err, domain.ErrLLMNotConfigured),
		errors.Is(err, domain.ErrLLMFailure),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrLLMFailure, err)
	}
}

// roundTenth rounds to one decimal place
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// truncateRunes cuts s to at most n runes
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func countWords(s string) int {
	return len(strings.Fields(s))
}

// orEmpty keeps JSON list fields as [] instead of null
func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
