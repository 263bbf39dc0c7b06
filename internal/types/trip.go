package types

import (
	"fmt"
	"strings"
)

// BudgetTier is the coarse spending level collected during the conversation.
type BudgetTier string

const (
	BudgetUnset  BudgetTier = ""
	BudgetLow    BudgetTier = "low"
	BudgetMedium BudgetTier = "medium"
	BudgetHigh   BudgetTier = "high"
)

// ParseBudgetTier maps free-form budget words (English or Chinese) onto a tier.
// Unknown input returns BudgetUnset with ok=false.
func ParseBudgetTier(s string) (BudgetTier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "低":
		return BudgetLow, true
	case "medium", "mid", "中":
		return BudgetMedium, true
	case "high", "高":
		return BudgetHigh, true
	}
	return BudgetUnset, false
}

// TripFacts is everything the assistant has learned about the trip so far.
// Facts are only ever overwritten by new explicit values, never cleared.
type TripFacts struct {
	Destination string     `json:"destination"`
	Days        int        `json:"days"`
	Travelers   int        `json:"travelers"`
	Interests   []string   `json:"interests"`
	Budget      BudgetTier `json:"budget"`
}

// HasInterest reports whether the interest tag is already recorded.
func (f TripFacts) HasInterest(tag string) bool {
	for _, it := range f.Interests {
		if it == tag {
			return true
		}
	}
	return false
}

// AddInterest appends the tag if it is not present yet (set semantics).
func (f *TripFacts) AddInterest(tag string) {
	if tag == "" || f.HasInterest(tag) {
		return
	}
	f.Interests = append(f.Interests, tag)
}

// ReadyToPlan reports whether enough facts exist to start generating days.
func (f TripFacts) ReadyToPlan() bool {
	return f.Destination != "" && f.Days > 0 && len(f.Interests) > 0
}

// DefaultSpotRating is assumed when a spot arrives without a usable rating.
const DefaultSpotRating = 4.5

// CandidateSpot is one point of interest produced by the search collaborator.
// Immutable after creation; scores live on ScoredSpot instead.
type CandidateSpot struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty"`
	ImageURL    string  `json:"image,omitempty"`
}

// NewCandidateSpot validates required fields and normalizes the rating.
// Ratings outside (0, 5] fall back to DefaultSpotRating.
func NewCandidateSpot(id, title, category string, rating float64) (CandidateSpot, error) {
	if id == "" {
		return CandidateSpot{}, fmt.Errorf("candidate spot: id is required")
	}
	if strings.TrimSpace(title) == "" {
		return CandidateSpot{}, fmt.Errorf("candidate spot %s: title is required", id)
	}
	if rating <= 0 || rating > 5 {
		rating = DefaultSpotRating
	}
	return CandidateSpot{
		ID:       id,
		Title:    title,
		Category: category,
		Rating:   rating,
	}, nil
}

// ScoredSpot pairs a candidate with its transient ranking score. Scores are
// recomputed on every scoring pass and never persisted.
type ScoredSpot struct {
	CandidateSpot
	Score float64 `json:"score"`
}

// DayBucket is the ordered set of spots assigned to a single calendar day.
type DayBucket []ScoredSpot
