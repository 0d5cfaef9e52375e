package usecase

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/bidwriter/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flaskParagraph = "I'm looking for a developer to build a web dashboard in Flask that visualises our sales data, supports CSV uploads and runs on our server."

// freelancerPage mimics a project page copied from the browser as plain text
var freelancerPage = strings.Join([]string{
	"Build a Flask Sales Dashboard",
	"Open",
	"Bids",
	"42",
	"Average bid",
	"Average bid $1,250.50 USD",
	"Bidding ends in 6 days, 23 hours",
	"Project Details",
	"$500 - $1000 AUD",
	"",
	flaskParagraph,
	"",
	"The dashboard should refresh every hour and email a weekly summary to the team leads.",
	"Skills Required",
	"Python",
	"Flask",
	"PostgreSQL",
	"About the Client",
	"Sydney Flag of AUSTRALIA",
	"4.9",
	"12",
	"Member since Jan 3, 2019",
	"Your current bid will rank at #7",
}, "\n")

func ptr[T any](v T) *T { return &v }

func TestListingExtractor_Parse_FullPage(t *testing.T) {
	e := NewListingExtractor(false)

	got := e.Parse(freelancerPage)

	require.NotNil(t, got)
	assert.Equal(t, ptr("Build a Flask Sales Dashboard"), got.ProjectName)
	assert.Equal(t, flaskParagraph+"\n\nThe dashboard should refresh every hour and email a weekly summary to the team leads.", got.ProjectDescription)
	assert.Equal(t, ptr("$500 - $1000 AUD"), got.BudgetRange)
	assert.Equal(t, ptr(42), got.TotalBids)
	assert.Equal(t, ptr("$1,250.50 USD"), got.AverageBid)
	assert.Equal(t, ptr("6 days, 23 hours"), got.TimeRemaining)
	assert.Equal(t, ptr(7), got.BidRank)
	assert.Equal(t, ptr("Sydney, AUSTRALIA"), got.ClientLocation)
	assert.Equal(t, ptr("4.9 (12 reviews)"), got.ClientRating)
	assert.Equal(t, []string{"Python", "Flask", "PostgreSQL"}, got.RequiredSkills)
	assert.False(t, got.IsDegraded())
}

func TestListingExtractor_Parse_DebugLogging(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	got := NewListingExtractor(true).Parse(freelancerPage)

	assert.Equal(t, NewListingExtractor(false).Parse(freelancerPage), got)
	assert.Contains(t, buf.String(), "[PARSER] title=Build a Flask Sales Dashboard budget=$500 - $1000 AUD bids=42 skills=3")
}

func TestListingExtractor_Parse_ShortInput(t *testing.T) {
	e := NewListingExtractor(false)

	input := "Need someone to fix my website quickly!!"
	require.Equal(t, 40, len(input))

	got := e.Parse(input)

	assert.Nil(t, got.ProjectName)
	assert.Equal(t, domain.PlaceholderShortInput, got.ProjectDescription)
	assert.Nil(t, got.BudgetRange)
	assert.Nil(t, got.BidRank)
	assert.Nil(t, got.TotalBids)
	assert.Nil(t, got.AverageBid)
	assert.Nil(t, got.TimeRemaining)
	assert.Nil(t, got.ClientLocation)
	assert.Nil(t, got.ClientRating)
	assert.Empty(t, got.RequiredSkills)
	assert.True(t, got.IsDegraded())
}

func TestListingExtractor_Parse_ParagraphSkillsAndBudget(t *testing.T) {
	e := NewListingExtractor(false)

	paragraph := "I'm looking for a developer to build a small booking system for my yoga studio with online payments, email reminders and a simple admin page."
	require.GreaterOrEqual(t, len(paragraph), 100)

	input := strings.Join([]string{
		"Yoga studio booking system",
		"$500 - $1000 AUD",
		"",
		"  " + paragraph + "  ",
		"",
		"Skills Required",
		"PHP",
		"Laravel",
		"About the Client",
	}, "\n")

	got := e.Parse(input)

	assert.Contains(t, got.ProjectDescription, paragraph)
	assert.Equal(t, paragraph, got.ProjectDescription)
	assert.Equal(t, ptr("$500 - $1000 AUD"), got.BudgetRange)
	assert.Equal(t, []string{"PHP", "Laravel"}, got.RequiredSkills)
}

func TestListingExtractor_Parse_NeverPanics(t *testing.T) {
	e := NewListingExtractor(false)

	inputs := []string{
		"",
		"   \n\t  ",
		"\n\n\n\n\n\n\n\n\n\n\n\n",
		"$$$$ - $$$ ABC",
		"Bids\n99999999999999999999999999999",
		"rank at #99999999999999999999999999999",
		strings.Repeat("Skills Required\n", 40),
		strings.Repeat("a", 100000),
		"\xff\xfe invalid utf8 \xc3\x28 " + strings.Repeat("x", 60),
	}

	for _, input := range inputs {
		got := e.Parse(input)
		require.NotNil(t, got)
		assert.NotEmpty(t, got.ProjectDescription)
		assert.LessOrEqual(t, len(got.RequiredSkills), domain.MaxRequiredSkills)
		assert.NotNil(t, got.RequiredSkills)
	}
}

func TestListingExtractor_Parse_Deterministic(t *testing.T) {
	e := NewListingExtractor(false)

	assert.Equal(t, e.Parse(freelancerPage), e.Parse(freelancerPage))
}

func TestListingExtractor_ExtractTitle(t *testing.T) {
	e := NewListingExtractor(false)
	padding := "\n" + strings.Repeat("filler text for length ", 3)

	tests := []struct {
		name  string
		input string
		want  *string
	}{
		{
			name:  "first line wins",
			input: "Scrape product prices" + padding,
			want:  ptr("Scrape product prices"),
		},
		{
			name:  "skips UI labels case-insensitively",
			input: "OPEN\nbids\nProject Details\nAverage Bid\nLogo design for bakery" + padding,
			want:  ptr("Logo design for bakery"),
		},
		{
			name:  "skips numbers and budget lines",
			input: "42\n$30.00 – 250.00 AUD\nTranslate a manual" + padding,
			want:  ptr("Translate a manual"),
		},
		{
			name:  "skips lines of 100 characters or more",
			input: strings.Repeat("x", 100) + "\nShort title" + padding,
			want:  ptr("Short title"),
		},
		{
			name:  "only the first ten non-empty lines are scanned",
			input: strings.Repeat("Open\n\n", 10) + "Too late for a title" + padding,
			want:  nil,
		},
		{
			name:  "short input has no title",
			input: "Fix my CSS",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ExtractTitle(tt.input))
		})
	}
}

func TestListingExtractor_ExtractDescription(t *testing.T) {
	e := NewListingExtractor(false)
	longLine := func(prefix string) string {
		return prefix + strings.Repeat(" with more detail", 6)
	}

	t.Run("short input placeholder", func(t *testing.T) {
		assert.Equal(t, domain.PlaceholderShortInput, e.ExtractDescription("   too short   "))
	})

	t.Run("opener phrase starts collection anywhere in the line", func(t *testing.T) {
		line := longLine("Hello, we need a mobile app for tracking deliveries")
		input := "Delivery app\nOpen\n" + line

		assert.Equal(t, line, e.ExtractDescription(input))
	})

	t.Run("lines before the opener are ignored", func(t *testing.T) {
		input := strings.Join([]string{
			"Some introductory marketing sentence that is long enough",
			longLine("We are a small agency looking to outsource landing pages"),
		}, "\n")

		got := e.ExtractDescription(input)
		assert.NotContains(t, got, "introductory")
		assert.True(t, strings.HasPrefix(got, "We are a small agency"))
	})

	t.Run("stop marker ends collection", func(t *testing.T) {
		input := strings.Join([]string{
			longLine("I am looking for help migrating a database"),
			"About the Client",
			"This client has posted many projects and pays on time reliably.",
		}, "\n")

		got := e.ExtractDescription(input)
		assert.NotContains(t, got, "pays on time")
	})

	t.Run("long lines mentioning noise words are kept", func(t *testing.T) {
		input := strings.Join([]string{
			longLine("We need a bookkeeper for ongoing monthly work"),
			"Payment will be hourly and we expect roughly ten hours per week.",
		}, "\n")

		assert.Contains(t, e.ExtractDescription(input), "Payment will be hourly")
	})

	t.Run("blank lines collapse to one paragraph break", func(t *testing.T) {
		first := longLine("Seeking a designer for our brand refresh")
		second := "The new logo must work on dark and light backgrounds."
		input := first + "\n\n\n\n" + second

		assert.Equal(t, first+"\n\n"+second, e.ExtractDescription(input))
	})

	t.Run("falls back to substantial lines without opener", func(t *testing.T) {
		a := longLine("Convert our spreadsheet of suppliers into a filterable database")
		b := longLine("Click here to sign up for premium membership and other offers")
		c := longLine("Every supplier has contact details, categories and price lists")
		d := longLine("Deliver the result as a Docker image with seed data included")
		e2 := longLine("A fourth substantial line that should not be included at all")
		input := strings.Join([]string{"Supplier DB", a, b, c, d, e2}, "\n")

		assert.Equal(t, strings.Join([]string{a, c, d}, "\n\n"), e.ExtractDescription(input))
	})

	t.Run("opener found but too short uses fallback", func(t *testing.T) {
		input := "Supplier DB title line\nLooking for a quick fix to my site\nnothing else of use here at all"

		assert.Equal(t, domain.PlaceholderNoDescription, e.ExtractDescription(input))
	})
}

func TestListingExtractor_ExtractBudget(t *testing.T) {
	e := NewListingExtractor(false)

	tests := []struct {
		name  string
		input string
		want  *string
	}{
		{"range with en dash", "Budget $30.00 – 250.00 AUD per project", ptr("$30.00 – 250.00 AUD")},
		{"range with dollar on both ends", "$500 - $1000 AUD", ptr("$500 - $1000 AUD")},
		{"range with thousands separator", "$1,500-$3,000 USD", ptr("$1,500-$3,000 USD")},
		{"average bid fallback", "Average bid $1,250.50 USD", ptr("$1,250.50 USD")},
		{"range wins over average", "Average bid $80 USD\n$30 - 250 AUD", ptr("$30 - 250 AUD")},
		{"no currency code", "$30 - 250", nil},
		{"nothing", "no money mentioned", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ExtractBudget(tt.input))
		})
	}
}

func TestListingExtractor_ExtractBidStats(t *testing.T) {
	e := NewListingExtractor(false)

	t.Run("bids label followed by count on later line", func(t *testing.T) {
		stats := e.ExtractBidStats("Bids\n42")
		assert.Equal(t, ptr(42), stats.TotalBids)

		stats = e.ExtractBidStats("Bids\n\n  17\n")
		assert.Equal(t, ptr(17), stats.TotalBids)
	})

	t.Run("count followed by bids", func(t *testing.T) {
		assert.Equal(t, ptr(1), e.ExtractBidStats("1 bid so far").TotalBids)
		assert.Equal(t, ptr(23), e.ExtractBidStats("23 BIDS").TotalBids)
	})

	t.Run("average bid", func(t *testing.T) {
		stats := e.ExtractBidStats("Average bid $1,250.50 USD")
		assert.Equal(t, ptr("$1,250.50 USD"), stats.AverageBid)
	})

	t.Run("time remaining up to end of line", func(t *testing.T) {
		stats := e.ExtractBidStats("Bidding ends in 2 days, 4 hours\nMore text")
		assert.Equal(t, ptr("2 days, 4 hours"), stats.TimeRemaining)
	})

	t.Run("bid rank", func(t *testing.T) {
		assert.Equal(t, ptr(7), e.ExtractBidStats("Your bid will rank at #7").BidRank)
	})

	t.Run("overflowing counts are absent", func(t *testing.T) {
		stats := e.ExtractBidStats("rank at #99999999999999999999999")
		assert.Nil(t, stats.BidRank)
	})

	t.Run("nothing found", func(t *testing.T) {
		assert.Equal(t, BidStats{}, e.ExtractBidStats("quiet page"))
	})
}

func TestListingExtractor_ExtractClientInfo(t *testing.T) {
	e := NewListingExtractor(false)

	t.Run("location", func(t *testing.T) {
		info := e.ExtractClientInfo("Sydney Flag of AUSTRALIA")
		assert.Equal(t, ptr("Sydney, AUSTRALIA"), info.Location)
	})

	t.Run("multi word country", func(t *testing.T) {
		info := e.ExtractClientInfo("Austin Flag of UNITED STATES\nMember since 2020")
		assert.Equal(t, ptr("Austin, UNITED STATES"), info.Location)
	})

	t.Run("location stays on one line", func(t *testing.T) {
		info := e.ExtractClientInfo("About the Client\nLondon Flag of UNITED KINGDOM")
		assert.Equal(t, ptr("London, UNITED KINGDOM"), info.Location)
	})

	t.Run("accented city names", func(t *testing.T) {
		tests := []struct {
			input string
			want  string
		}{
			{"São Paulo Flag of BRAZIL", "São Paulo, BRAZIL"},
			{"Montréal Flag of CANADA", "Montréal, CANADA"},
			{"About the Client\nZürich Flag of SWITZERLAND", "Zürich, SWITZERLAND"},
		}

		for _, tt := range tests {
			info := e.ExtractClientInfo(tt.input)
			assert.Equal(t, ptr(tt.want), info.Location, tt.input)
		}
	})

	t.Run("rating followed by review count", func(t *testing.T) {
		info := e.ExtractClientInfo("4.9\n\n12")
		assert.Equal(t, ptr("4.9 (12 reviews)"), info.Rating)
	})

	t.Run("decimals outside the rating scale are ignored", func(t *testing.T) {
		info := e.ExtractClientInfo("12.50\n3")
		assert.Nil(t, info.Rating)
	})

	t.Run("decimal embedded in text is ignored", func(t *testing.T) {
		info := e.ExtractClientInfo("Average bid $4.50\n3")
		assert.Nil(t, info.Rating)
	})
}

func TestListingExtractor_ExtractSkills(t *testing.T) {
	e := NewListingExtractor(false)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "stops at about the client",
			input: "Skills Required\nPython\nDjango\nPostgreSQL\nAbout the Client\nRuby",
			want:  []string{"Python", "Django", "PostgreSQL"},
		},
		{
			name:  "singular header and UI labels",
			input: "Skill required:\nOpen\nGo\nFixed\n$250\nKubernetes\n\nHourly\nDocker",
			want:  []string{"Kubernetes", "Docker"},
		},
		{
			name:  "skips too long lines",
			input: "Skills Required\n" + strings.Repeat("y", 50) + "\nRust",
			want:  []string{"Rust"},
		},
		{
			name:  "window of fifteen lines",
			input: "Skills Required\n" + numberedSkills(20),
			want:  numberedSkillList(10),
		},
		{
			name:  "terminator words inside a skill line end the block",
			input: "Skills Required\nExcel\nAverage Bid\nWord",
			want:  []string{"Excel"},
		},
		{
			name:  "no section",
			input: "Python\nDjango",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ExtractSkills(tt.input))
		})
	}
}

func TestListingExtractor_ExtractSkills_WindowLimit(t *testing.T) {
	e := NewListingExtractor(false)

	// Only the 15 lines after the header are candidates
	input := "Skills Required\n" + strings.Repeat("\n", 15) + "Elixir"
	assert.Empty(t, e.ExtractSkills(input))

	input = "Skills Required\n" + strings.Repeat("\n", 14) + "Elixir"
	assert.Equal(t, []string{"Elixir"}, e.ExtractSkills(input))
}

func numberedSkillList(n int) []string {
	skills := make([]string, n)
	for i := range skills {
		skills[i] = "Skill " + string(rune('A'+i))
	}
	return skills
}

func numberedSkills(n int) string {
	return strings.Join(numberedSkillList(n), "\n")
}
