package domain

import "time"

// Profile describes the freelancer the bids are written for
type Profile struct {
	Name               string   `json:"your_name"`
	GitHub             string   `json:"your_github"`
	LinkedIn           string   `json:"your_linkedin"`
	Resume             string   `json:"your_resume"`
	Skills             []string `json:"your_skills"`
	DefaultTurnaround  string   `json:"default_turnaround"`
	IncludeSamples     bool     `json:"include_samples"`
	CompetitivePricing bool     `json:"competitive_pricing"`
}

// ProjectAnalysis is the LLM's structured reading of a project description
type ProjectAnalysis struct {
	ProjectType          string   `json:"project_type"`
	RequiredSkills       []string `json:"required_skills"`
	KeyRequirements      []string `json:"key_requirements"`
	EstimatedComplexity  string   `json:"estimated_complexity"` // low, medium, high
	EstimatedBudgetRange string   `json:"estimated_budget_range"`
	Deliverables         []string `json:"deliverables"`
	SpecialNotes         []string `json:"special_notes"`
	MatchedSkills        []string `json:"matched_skills"`
	SkillMatchScore      float64  `json:"skill_match_score"` // 0-100
}

// GeneratedBid is a bid proposal with the analysis it was built from
type GeneratedBid struct {
	BidText         string          `json:"bid_text"`
	ProjectAnalysis ProjectAnalysis `json:"project_analysis"`
	WordCount       int             `json:"word_count"`
	ConfidenceScore float64         `json:"confidence_score"` // 0-100
}

// BidOptimization holds pricing and positioning advice for a bid
type BidOptimization struct {
	PricingAdvice           string   `json:"pricing_advice"`
	PositioningAdvice       string   `json:"positioning_advice"`
	Improvements            []string `json:"improvements"`
	Warnings                []string `json:"warnings"`
	EstimatedWinProbability float64  `json:"estimated_win_probability"` // 0-100
}

// BidRequest is the body of the generate endpoint
type BidRequest struct {
	ProjectName        string  `json:"project_name" binding:"required"`
	ProjectDescription string  `json:"project_description" binding:"required"`
	BidRank            *int    `json:"bid_rank,omitempty"`
	TotalBids          *int    `json:"total_bids,omitempty"`
	YourBidAmount      *string `json:"your_bid_amount,omitempty"`
	WinningBidAmount   *string `json:"winning_bid_amount,omitempty"`
}

// BidResponse is returned by the generate endpoints
type BidResponse struct {
	BidText         string           `json:"bid_text"`
	ProjectAnalysis ProjectAnalysis  `json:"project_analysis"`
	WordCount       int              `json:"word_count"`
	ConfidenceScore float64          `json:"confidence_score"`
	Optimization    *BidOptimization `json:"optimization"`
	Parsed          *ParsedListing   `json:"parsed,omitempty"`
}

// RefineRequest is the body of the refine endpoint
type RefineRequest struct {
	OriginalBid        string `json:"original_bid"`
	RefinementType     string `json:"refinement_type"`
	CustomInstruction  string `json:"custom_instruction"`
	ProjectDescription string `json:"project_description"`
}

// BidResultRequest records whether a bid was won or lost
type BidResultRequest struct {
	ProjectName string `json:"project_name" binding:"required"`
	Won         *bool  `json:"won" binding:"required"`
}

// BidRecord is one entry of the bid history
type BidRecord struct {
	ID                 string    `json:"id"`
	Timestamp          time.Time `json:"timestamp"`
	ProjectName        string    `json:"project_name"`
	ProjectDescription string    `json:"project_description"`
	GeneratedBid       string    `json:"generated_bid"`
	TotalBids          *int      `json:"total_bids"`
	BudgetRange        *string   `json:"budget_range"`
	Won                *bool     `json:"won"` // nil = pending
}

// HistoryStats summarises the bid history
type HistoryStats struct {
	TotalBids int    `json:"total_bids"`
	Won       int    `json:"won"`
	Lost      int    `json:"lost"`
	Pending   int    `json:"pending"`
	WinRate   string `json:"win_rate"`
}
