package planner

import (
	"sort"

	"github.com/wanderplan/wanderplan/internal/types"
)

// Scoring weights. Rating dominates, interest match adds one tier, the
// upstream search order contributes a small popularity signal.
const (
	ratingWeight     = 0.6
	interestWeight   = 0.3
	popularityWeight = 0.1

	popularityDecayStep  = 0.05
	popularityFloor      = 0.3
	budgetFactorHigh     = 1.05
	budgetFactorLow      = 0.95
)

// matchesInterest reports whether any interest tag appears in the spot's
// category or title. The first match wins; there is no cumulative bonus.
func matchesInterest(spot types.CandidateSpot, interests []string) bool {
	if len(interests) == 0 {
		return false
	}
	return containsAny(spot.Category+" "+spot.Title, interests)
}

// ScoreSpots ranks the candidate pool by rating, interest match and input
// position, with a slight budget bias, and returns it sorted descending by
// score. Ties keep their relative input order.
func ScoreSpots(spots []types.CandidateSpot, interests []string, budget types.BudgetTier) []types.ScoredSpot {
	if len(spots) == 0 {
		return nil
	}

	budgetFactor := 1.0
	switch budget {
	case types.BudgetHigh:
		budgetFactor = budgetFactorHigh
	case types.BudgetLow:
		budgetFactor = budgetFactorLow
	}

	scored := make([]types.ScoredSpot, 0, len(spots))
	for idx, s := range spots {
		rating := s.Rating
		if rating <= 0 || rating > 5 {
			rating = types.DefaultSpotRating
		}

		interestBonus := 0.0
		if matchesInterest(s, interests) {
			interestBonus = 1.0
		}

		// Earlier search results are treated as more popular.
		popularity := 1.0 - float64(idx)*popularityDecayStep
		if popularity < popularityFloor {
			popularity = popularityFloor
		}

		score := (rating*ratingWeight + interestBonus*interestWeight + popularity*popularityWeight) * budgetFactor
		scored = append(scored, types.ScoredSpot{CandidateSpot: s, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
