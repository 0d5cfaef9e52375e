package usecase

import (
	"fmt"
	"strings"

	"github.com/bidwriter/backend/internal/domain"
)

const analysisSystemPrompt = `You are an expert freelance project analyzer. Extract key information from project descriptions.

Return a JSON object with these fields:
- project_type: type of project (e.g. "Web Scraping", "Web Development", "Data Entry")
- required_skills: list of required technical skills
- key_requirements: main requirements from the client
- estimated_complexity: "low", "medium" or "high"
- estimated_budget_range: estimated budget (e.g. "$50-150")
- deliverables: what the client expects to receive
- special_notes: deadlines, tools or other constraints

Return ONLY valid JSON, no other text.`

const optimizerSystemPrompt = `You are an expert freelance bid optimizer. Analyze bids and suggest concrete improvements.

Consider pricing competitiveness, bid positioning and rank, clarity, relevance to the project and win probability.

Return a JSON object with:
- pricing_advice: advice on the bid amount
- positioning_advice: how to stand out
- improvements: list of specific improvements
- warnings: red flags or concerns
- estimated_win_probability: number from 0 to 100`

// refinementInstructions maps a refinement type to the rewrite instruction
var refinementInstructions = map[string]string{
	"reduce_length":    "Make this bid SHORTER and more concise (max 150 words). Keep the key points, remove fluff and keep a professional tone.",
	"make_casual":      "Rewrite this bid in a more casual, friendly tone. Use contractions and simpler language but stay professional.",
	"make_formal":      "Rewrite this bid in a more formal, business-like tone. Use complete sentences and avoid contractions.",
	"add_urgency":      "Emphasize availability: you can start immediately and deliver fast. Keep the same length.",
	"emphasize_skills": "Emphasize technical skills and expertise. Name specific tools, frameworks and technologies.",
	"add_examples":     "Add concrete examples of similar work, with specific projects and outcomes.",
}

const (
	defaultRefinementType    = "reduce_length"
	customRefinementType     = "custom"
	genericCustomInstruction = "Improve this bid while maintaining its core message."
)

// refinementInstruction resolves the instruction for a refinement type.
// Unknown types fall back to reduce_length.
func refinementInstruction(refinementType, custom string) string {
	if refinementType == customRefinementType {
		if strings.TrimSpace(custom) == "" {
			return genericCustomInstruction
		}
		return custom
	}
	if instruction, ok := refinementInstructions[refinementType]; ok {
		return instruction
	}
	return refinementInstructions[defaultRefinementType]
}

func analysisUserPrompt(name, description string, profileSkills []string) string {
	return fmt.Sprintf(`Project Name: %s

Project Description:
%s

Available Skills: %s

Analyze this project and return the information in JSON format.`,
		name, description, strings.Join(profileSkills, ", "))
}

func bidSystemPrompt(profile domain.Profile, learningContext string) string {
	var b strings.Builder

	b.WriteString(`You are an expert freelance bid writer who writes winning proposals.

Structure every bid like this:
1. Opening (1-2 sentences): "Hi! I can [verb] your [specific deliverable]..." Show you understand exactly what they need.
2. Expertise: three "*" bullets, each naming a skill or technology from the project and a concrete result.
3. Approach with pricing (3-4 sentences): start with "I will...", outline the phases and ALWAYS state a clear price or hourly rate.
4. Timeline and call to action (2 sentences).

Rules:
- Keep it between 180 and 280 words.
- Mention specific frameworks and tools from the requirements.
- Never skip pricing. Never give vague timelines.
`)

	b.WriteString("\nYOUR PROFILE:\n")
	fmt.Fprintf(&b, "- Name: %s\n", profile.Name)
	if profile.GitHub != "" {
		fmt.Fprintf(&b, "- GitHub: %s\n", profile.GitHub)
	}
	if profile.LinkedIn != "" {
		fmt.Fprintf(&b, "- LinkedIn: %s\n", profile.LinkedIn)
	}
	fmt.Fprintf(&b, "- Skills: %s\n", strings.Join(profile.Skills, ", "))
	if profile.DefaultTurnaround != "" {
		fmt.Fprintf(&b, "- Usual turnaround: %s\n", profile.DefaultTurnaround)
	}
	if profile.CompetitivePricing {
		b.WriteString("- Pricing strategy: competitive, aim slightly below the typical range\n")
	}

	b.WriteString(learningContext)
	b.WriteString("\nNow write the bid following this structure, including pricing.")
	return b.String()
}

// competitionNote describes the bid's position. It is empty unless both rank and total are known.
func competitionNote(rank, total *int) string {
	if rank == nil || total == nil || *rank <= 0 || *total <= 0 {
		return ""
	}

	note := fmt.Sprintf("Note: This is bid #%d of %d. ", *rank, *total)
	if float64(*rank) > float64(*total)*0.5 {
		return note + "You're competing with many bids - be concise and highlight unique value."
	}
	return note + "Early bid advantage - be clear and professional."
}

func bidUserPrompt(in BidInput, analysis *domain.ProjectAnalysis, profile domain.Profile) string {
	name := in.ProjectName
	if name == "" {
		name = "Not specified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a professional bid for this project:\n\nProject Name: %s\n\n", name)
	fmt.Fprintf(&b, "Project Description:\n%s\n\n", in.ProjectDescription)
	b.WriteString("Project Analysis:\n")
	fmt.Fprintf(&b, "- Type: %s\n", analysis.ProjectType)
	fmt.Fprintf(&b, "- Required Skills: %s\n", strings.Join(analysis.RequiredSkills, ", "))
	fmt.Fprintf(&b, "- Your Matched Skills: %s (%.1f%% match)\n", strings.Join(analysis.MatchedSkills, ", "), analysis.SkillMatchScore)
	fmt.Fprintf(&b, "- Key Requirements: %s\n", strings.Join(analysis.KeyRequirements, ", "))
	fmt.Fprintf(&b, "- Deliverables: %s\n", strings.Join(analysis.Deliverables, ", "))

	if note := competitionNote(in.BidRank, in.TotalBids); note != "" {
		fmt.Fprintf(&b, "\n%s\n", note)
	}
	if in.YourBidAmount != nil {
		fmt.Fprintf(&b, "\nPlanned bid amount: %s\n", *in.YourBidAmount)
	}
	if profile.IncludeSamples {
		b.WriteString("\nIMPORTANT: Include a relevant sample work link or demo if applicable to this project type.\n")
	}

	b.WriteString("\nWrite the bid text ONLY. No introductions like \"Here's the bid:\".")
	return b.String()
}

func optimizerUserPrompt(in OptimizeInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this bid and provide optimization suggestions:\n\nGenerated Bid:\n%s\n", in.BidText)

	if in.BidRank != nil && in.TotalBids != nil {
		fmt.Fprintf(&b, "\nBid Rank: #%d of %d bids", *in.BidRank, *in.TotalBids)
	}
	if in.YourBidAmount != nil {
		fmt.Fprintf(&b, "\nYour Bid: %s", *in.YourBidAmount)
	}
	if in.WinningBidAmount != nil {
		fmt.Fprintf(&b, "\nWinning Bid: %s", *in.WinningBidAmount)
	}
	if a := in.Analysis; a != nil {
		fmt.Fprintf(&b, "\nProject Type: %s", a.ProjectType)
		fmt.Fprintf(&b, "\nComplexity: %s", a.EstimatedComplexity)
		fmt.Fprintf(&b, "\nSkill Match: %.1f%%", a.SkillMatchScore)
	}

	b.WriteString("\n\nProvide optimization suggestions in JSON format.")
	return b.String()
}

func refineSystemPrompt(instruction string) string {
	return fmt.Sprintf(`You are an expert bid refinement specialist. Improve freelance bids based on specific instructions.

Rules:
- Keep the marketplace style: start with "Hi!", use bullets, end with a call to action
- Do not invent skills or experience
- Return ONLY the refined bid text, no explanations

Refinement Task: %s`, instruction)
}

func refineUserPrompt(originalBid, projectContext string) string {
	return fmt.Sprintf(`Original Bid:
%s

Project Context:
%s

Refine this bid according to the instructions. Return only the improved bid text.`, originalBid, projectContext)
}
