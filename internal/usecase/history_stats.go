package usecase

import (
	"fmt"
	"strings"

	"github.com/bidwriter/backend/internal/domain"
)

const (
	minRecordsForLearning  = 3
	learningWinsShown      = 3
	learningNameRunes      = 50
	learningBidRunes       = 150
	storedDescriptionRunes = 500
)

// ComputeHistoryStats counts outcomes across the bid history
func ComputeHistoryStats(records []domain.BidRecord) domain.HistoryStats {
	stats := domain.HistoryStats{TotalBids: len(records), WinRate: "N/A"}

	for _, r := range records {
		switch {
		case r.Won == nil:
			stats.Pending++
		case *r.Won:
			stats.Won++
		default:
			stats.Lost++
		}
	}

	if stats.TotalBids > 0 {
		stats.WinRate = formatRate(stats.Won, stats.TotalBids)
	}
	return stats
}

// BuildLearningContext summarises past outcomes for the bid prompt.
// records must be oldest first. Fewer than three records give no context.
func BuildLearningContext(records []domain.BidRecord) string {
	if len(records) < minRecordsForLearning {
		return ""
	}

	var wins []domain.BidRecord
	for _, r := range records {
		if r.Won != nil && *r.Won {
			wins = append(wins, r)
		}
	}

	var b strings.Builder
	b.WriteString("\n\nLEARNING FROM PAST BIDS:\n")
	fmt.Fprintf(&b, "- Total bids submitted: %d\n", len(records))

	if len(wins) == 0 {
		return b.String()
	}

	fmt.Fprintf(&b, "- Success rate: %s\n", formatRate(len(wins), len(records)))
	fmt.Fprintf(&b, "- Winning bids: %d\n\n", len(wins))
	b.WriteString("Recent successful approaches:\n")

	if len(wins) > learningWinsShown {
		wins = wins[len(wins)-learningWinsShown:]
	}
	for _, w := range wins {
		fmt.Fprintf(&b, "  • Project: %s...\n", truncateRunes(w.ProjectName, learningNameRunes))
		fmt.Fprintf(&b, "    Approach: %s...\n\n", truncateRunes(w.GeneratedBid, learningBidRunes))
	}

	return b.String()
}

func formatRate(part, total int) string {
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}
