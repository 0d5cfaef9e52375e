package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Length thresholds (in runes) used when classifying pasted lines
const (
	minListingLength    = 50  // shorter input cannot hold a real listing
	uiNoiseMaxLength    = 40  // noise words only disqualify lines shorter than this
	minProseLineLength  = 25  // shorter lines are labels, not prose
	stopMarkerMaxLength = 30  // stop markers are short section headers
	minDescriptionLen   = 100 // accepted description length
	substantialLineLen  = 100 // fallback paragraph length
	maxFallbackLines    = 3
)

var (
	// "$30.00 – 250.00 ..." at the start of a line
	budgetLinePattern = regexp.MustCompile(`^\$[\d,]+\.?\d*\s*[-–—]`)

	numericLinePattern = regexp.MustCompile(`^\d+$`)
)

// uiNoiseWords are page chrome labels interleaved with the listing text
var uiNoiseWords = []string{
	"open", "bids", "details", "proposals", "project details",
	"average bid", "bidding ends", "flag of", "member since",
	"skills required", "about the client", "place a bid",
	"fixed-price", "hourly", "milestone",
}

// descriptionOpeners signal that the project prose has begun
var descriptionOpeners = []string{
	"i'm", "i am", "we need", "we are", "we're", "looking for",
	"need a", "need an", "seeking", "required:", "project:",
	"this project", "the project", "my project",
}

// stopMarkers end the description block
var stopMarkers = []string{"Skills Required", "About the Client"}

// pageChromeWords mark long lines that belong to the site, not the listing
var pageChromeWords = []string{"click here", "sign up", "login", "register", "browse", "search"}

// lineClassifier is one rule of the description line filter
type lineClassifier struct {
	name string
	drop func(line string) bool
}

// descriptionLineFilters run in order; the first rule that drops a line wins
var descriptionLineFilters = []lineClassifier{
	{name: "ui-noise", drop: isUINoiseLine},
	{name: "budget", drop: isBudgetLine},
	{name: "numeric", drop: isNumericLine},
	{name: "too-short", drop: isTooShortForProse},
}

// classifyLine applies descriptionLineFilters to a trimmed, non-empty line.
// It returns the name of the rule that rejected the line, or "" if it survives.
func classifyLine(line string) string {
	for _, f := range descriptionLineFilters {
		if f.drop(line) {
			return f.name
		}
	}
	return ""
}

// isUINoiseLine reports short lines that mention a UI label. Long lines may
// legitimately contain words like "hourly" and are kept.
func isUINoiseLine(line string) bool {
	if runeLen(line) >= uiNoiseMaxLength {
		return false
	}
	return containsAny(strings.ToLower(line), uiNoiseWords)
}

func isBudgetLine(line string) bool {
	return budgetLinePattern.MatchString(line)
}

func isNumericLine(line string) bool {
	return numericLinePattern.MatchString(line)
}

func isTooShortForProse(line string) bool {
	return runeLen(line) < minProseLineLength
}

// hasOpenerPhrase reports whether the line contains a description opener anywhere
func hasOpenerPhrase(line string) bool {
	return containsAny(strings.ToLower(line), descriptionOpeners)
}

func isStopMarker(line string) bool {
	return runeLen(line) < stopMarkerMaxLength && containsAny(line, stopMarkers)
}

// isPageChrome reports lines such as sign-up banners or search boxes
func isPageChrome(line string) bool {
	return containsAny(strings.ToLower(line), pageChromeWords)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
