package domain

// Sentinel descriptions returned when extraction degrades. Callers compare
// against these to tell real project prose from a failed extraction.
const (
	PlaceholderShortInput    = "Please paste the complete project description from Freelancer.com including the full project details."
	PlaceholderNoDescription = "Unable to extract clean description. Please paste the FULL project page content starting from the project title."
)

// MaxRequiredSkills caps ParsedListing.RequiredSkills
const MaxRequiredSkills = 10

// ParsedListing is the structured record recovered from a pasted project page.
// Optional fields are nil when no pattern supported a value.
type ParsedListing struct {
	ProjectName        *string  `json:"project_name"`
	ProjectDescription string   `json:"project_description"`
	BudgetRange        *string  `json:"budget_range"`
	BidRank            *int     `json:"bid_rank"`
	TotalBids          *int     `json:"total_bids"`
	AverageBid         *string  `json:"average_bid"`
	TimeRemaining      *string  `json:"time_remaining"`
	ClientLocation     *string  `json:"client_location"`
	ClientRating       *string  `json:"client_rating"`
	RequiredSkills     []string `json:"required_skills"`
}

// IsDegraded reports whether the description is one of the placeholder sentinels
func (p *ParsedListing) IsDegraded() bool {
	return IsPlaceholderDescription(p.ProjectDescription)
}

// IsPlaceholderDescription reports whether s is a placeholder sentinel
func IsPlaceholderDescription(s string) bool {
	return s == PlaceholderShortInput || s == PlaceholderNoDescription
}

// ParseRequest is the body of the parse endpoints
type ParseRequest struct {
	RawContent string `json:"raw_content" binding:"required"`
}

// FetchRequest asks the service to load a listing page by URL
type FetchRequest struct {
	URL string `json:"url" binding:"required"`
}
