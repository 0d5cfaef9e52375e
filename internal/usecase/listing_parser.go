package usecase

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/bidwriter/backend/internal/domain"
)

// Compiled field patterns for listing extraction
var (
	// "$30.00 – 250.00 AUD", "$500 - $1000 USD"
	budgetRangePattern   = regexp.MustCompile(`\$[\d,]+\.?\d*\s*[-–—]\s*\$?[\d,]+\.?\d*\s*[A-Z]{3}`)
	budgetAveragePattern = regexp.MustCompile(`Average bid\s*\$[\d,]+\.?\d*\s*[A-Z]{3}`)
	averageBidPrefix     = regexp.MustCompile(`^Average bid\s*`)

	// "Bids\n\n42" or "42 bids"
	totalBidsPattern     = regexp.MustCompile(`(?i)(?:Bids\s*\n+\s*(\d+)|(\d+)\s+bids?)`)
	averageBidPattern    = regexp.MustCompile(`Average bid\s*\$?([\d,]+\.?\d*)\s*([A-Z]{3})`)
	timeRemainingPattern = regexp.MustCompile(`Bidding ends in\s+(.+?)(?:\n|$)`)
	bidRankPattern       = regexp.MustCompile(`rank at #(\d+)`)

	// "Sydney Flag of AUSTRALIA", kept to a single line
	locationPattern = regexp.MustCompile(`([\p{L}\p{M}\p{N}_ \t]+)Flag of[ \t]+([A-Z]+(?:[ \t]+[A-Z]{2,})*)\b`)
	ratingPattern   = regexp.MustCompile(`^[0-5]\.\d+$`)
	reviewsPattern  = regexp.MustCompile(`^\d+$`)

	skillBudgetPattern = regexp.MustCompile(`^\$[\d,]+`)
)

// titleStoplist holds UI labels that are never a project title
var titleStoplist = map[string]bool{
	"open":            true,
	"bids":            true,
	"details":         true,
	"proposals":       true,
	"project details": true,
	"average bid":     true,
}

// skillUILabels are exact-match labels found inside the skills block
var skillUILabels = map[string]bool{
	"open":      true,
	"details":   true,
	"proposals": true,
	"fixed":     true,
	"hourly":    true,
}

// skillSectionTerminators end the skills block
var skillSectionTerminators = []string{
	"about the client", "project details", "bids", "average",
	"bidding ends", "member since", "place a bid",
}

const (
	maxTitleLines    = 10
	maxTitleLength   = 100
	skillWindowLines = 15
	minSkillLength   = 2
	maxSkillLength   = 50
)

// descriptionState tracks progress through the pasted page
type descriptionState int

const (
	descriptionNotStarted descriptionState = iota
	descriptionCollecting
	descriptionDone
)

// BidStats are the competition figures found on a listing page
type BidStats struct {
	TotalBids     *int
	AverageBid    *string
	TimeRemaining *string
	BidRank       *int
}

// ClientInfo is what the page says about the client
type ClientInfo struct {
	Location *string
	Rating   *string
}

// ListingExtractor recovers a ParsedListing from text pasted off a
// marketplace project page. It keeps no state between calls.
type ListingExtractor struct {
	enableDebugLogging bool
}

// NewListingExtractor creates a new listing extractor
func NewListingExtractor(enableDebugLogging bool) *ListingExtractor {
	return &ListingExtractor{enableDebugLogging: enableDebugLogging}
}

// Parse extracts every field from raw. It never fails: fields without a
// supporting match are left nil and the description falls back to a placeholder.
func (e *ListingExtractor) Parse(raw string) *domain.ParsedListing {
	stats := e.ExtractBidStats(raw)
	client := e.ExtractClientInfo(raw)

	listing := &domain.ParsedListing{
		ProjectName:        e.ExtractTitle(raw),
		ProjectDescription: e.ExtractDescription(raw),
		BudgetRange:        e.ExtractBudget(raw),
		BidRank:            stats.BidRank,
		TotalBids:          stats.TotalBids,
		AverageBid:         stats.AverageBid,
		TimeRemaining:      stats.TimeRemaining,
		ClientLocation:     client.Location,
		ClientRating:       client.Rating,
		RequiredSkills:     e.ExtractSkills(raw),
	}

	if e.enableDebugLogging {
		log.Printf("[PARSER] title=%v budget=%v bids=%v skills=%d degraded=%v",
			strOrNil(listing.ProjectName), strOrNil(listing.BudgetRange),
			intOrNil(listing.TotalBids), len(listing.RequiredSkills), listing.IsDegraded())
	}

	return listing
}

// ExtractTitle returns the first plausible title among the first non-empty lines.
// Input too short to be a listing has no title.
func (e *ListingExtractor) ExtractTitle(raw string) *string {
	if runeLen(strings.TrimSpace(raw)) < minListingLength {
		return nil
	}

	seen := 0
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > maxTitleLines {
			break
		}

		if runeLen(line) >= maxTitleLength || strings.HasPrefix(line, "$") {
			continue
		}
		if numericLinePattern.MatchString(line) || titleStoplist[strings.ToLower(line)] {
			continue
		}
		return &line
	}
	return nil
}

// ExtractDescription isolates the project prose from the surrounding page
// chrome. It returns one of the placeholder sentinels when nothing usable is found.
func (e *ListingExtractor) ExtractDescription(raw string) string {
	if runeLen(strings.TrimSpace(raw)) < minListingLength {
		return domain.PlaceholderShortInput
	}

	lines := strings.Split(raw, "\n")
	state := descriptionNotStarted
	var collected []string

	for _, line := range lines {
		if state == descriptionDone {
			break
		}

		stripped := strings.TrimSpace(line)
		if stripped == "" {
			if state == descriptionCollecting {
				collected = append(collected, "")
			}
			continue
		}

		// Section headers are also UI noise, so look for them first
		if state == descriptionCollecting && isStopMarker(stripped) {
			state = descriptionDone
			continue
		}

		if rule := classifyLine(stripped); rule != "" {
			if e.enableDebugLogging {
				log.Printf("[PARSER] drop (%s): %q", rule, stripped)
			}
			continue
		}

		switch state {
		case descriptionNotStarted:
			if hasOpenerPhrase(stripped) {
				state = descriptionCollecting
				collected = append(collected, stripped)
			}
		case descriptionCollecting:
			collected = append(collected, stripped)
		}
	}

	if description := joinParagraphs(collected); runeLen(description) >= minDescriptionLen {
		return description
	}

	var substantial []string
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if runeLen(stripped) >= substantialLineLen && !isPageChrome(stripped) {
			substantial = append(substantial, stripped)
			if len(substantial) == maxFallbackLines {
				break
			}
		}
	}
	if len(substantial) > 0 {
		if e.enableDebugLogging {
			log.Printf("[PARSER] no opener phrase, using %d substantial lines", len(substantial))
		}
		return strings.Join(substantial, "\n\n")
	}

	return domain.PlaceholderNoDescription
}

var extraBlankLines = regexp.MustCompile(`\n{3,}`)

// joinParagraphs joins collected lines with blank-line separators
func joinParagraphs(lines []string) string {
	joined := strings.Join(lines, "\n\n")
	joined = extraBlankLines.ReplaceAllString(joined, "\n\n")
	return strings.TrimSpace(joined)
}

// ExtractBudget returns the budget range, or the average bid when no range is shown
func (e *ListingExtractor) ExtractBudget(raw string) *string {
	if m := budgetRangePattern.FindString(raw); m != "" {
		return &m
	}
	if m := budgetAveragePattern.FindString(raw); m != "" {
		budget := averageBidPrefix.ReplaceAllString(m, "")
		return &budget
	}
	return nil
}

// ExtractBidStats finds total bids, average bid, deadline and bid rank
func (e *ListingExtractor) ExtractBidStats(raw string) BidStats {
	var stats BidStats

	if m := totalBidsPattern.FindStringSubmatch(raw); m != nil {
		count := m[1]
		if count == "" {
			count = m[2]
		}
		stats.TotalBids = parseCount(count)
	}

	if m := averageBidPattern.FindStringSubmatch(raw); m != nil {
		avg := fmt.Sprintf("$%s %s", m[1], m[2])
		stats.AverageBid = &avg
	}

	if m := timeRemainingPattern.FindStringSubmatch(raw); m != nil {
		if remaining := strings.TrimSpace(m[1]); remaining != "" {
			stats.TimeRemaining = &remaining
		}
	}

	if m := bidRankPattern.FindStringSubmatch(raw); m != nil {
		stats.BidRank = parseCount(m[1])
	}

	return stats
}

// ExtractClientInfo finds the client's location and rating.
// The rating is a heuristic: a standalone 0.0-5.0 line followed by a review count line.
func (e *ListingExtractor) ExtractClientInfo(raw string) ClientInfo {
	var info ClientInfo

	if m := locationPattern.FindStringSubmatch(raw); m != nil {
		city := strings.TrimSpace(m[1])
		country := strings.TrimSpace(m[2])
		if city != "" {
			location := fmt.Sprintf("%s, %s", city, country)
			info.Location = &location
		}
	}

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		rating := strings.TrimSpace(line)
		if !ratingPattern.MatchString(rating) {
			continue
		}
		if reviews := nextNonEmptyLine(lines, i+1); reviewsPattern.MatchString(reviews) {
			formatted := fmt.Sprintf("%s (%s reviews)", rating, reviews)
			info.Rating = &formatted
			break
		}
	}

	return info
}

// ExtractSkills returns up to MaxRequiredSkills tags listed under "Skills Required"
func (e *ListingExtractor) ExtractSkills(raw string) []string {
	skills := []string{}
	lines := strings.Split(raw, "\n")

	for i, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "skills required") && !strings.Contains(lower, "skill required") {
			continue
		}

		end := min(i+1+skillWindowLines, len(lines))
		for _, candidate := range lines[i+1 : end] {
			skill := strings.TrimSpace(candidate)
			if containsAny(strings.ToLower(skill), skillSectionTerminators) {
				break
			}
			if skill == "" || skillUILabels[strings.ToLower(skill)] || skillBudgetPattern.MatchString(skill) {
				continue
			}
			if n := runeLen(skill); n > minSkillLength && n < maxSkillLength {
				skills = append(skills, skill)
			}
		}
		break
	}

	if len(skills) > domain.MaxRequiredSkills {
		skills = skills[:domain.MaxRequiredSkills]
	}
	return skills
}

func nextNonEmptyLine(lines []string, from int) string {
	for _, line := range lines[min(from, len(lines)):] {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// parseCount converts a matched digit run, dropping values that overflow int
func parseCount(digits string) *int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}

func strOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func intOrNil(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}
