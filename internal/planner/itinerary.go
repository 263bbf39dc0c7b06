package planner

import "github.com/wanderplan/wanderplan/internal/types"

// AllocationMode selects how the ranked pool is split across days.
type AllocationMode int

const (
	// AllocateEvenSplit gives each day floor(n/days) spots with the
	// remainder on the final day. Default for day-at-a-time generation.
	AllocateEvenSplit AllocationMode = iota
	// AllocateByDuration greedily balances days on estimated visit hours.
	// Used by the whole-trip generation path.
	AllocateByDuration
)

// RankSpots runs the full scoring pass: score, then spread interest-tagged
// spots through the ordering. This runs once per session when planning starts.
func RankSpots(spots []types.CandidateSpot, interests []string, budget types.BudgetTier) []types.ScoredSpot {
	scored := ScoreSpots(spots, interests, budget)
	return BalanceInterestRatio(scored, interests, DefaultMaxInterestRatio)
}

// GenerateItinerary builds the complete trip in one pass. This is the
// whole-trip mode: every day is allocated, scheduled and summarized together.
func GenerateItinerary(destination string, days int, interests []string, budget types.BudgetTier, spots []types.CandidateSpot) types.Itinerary {
	if days < 1 {
		days = 1
	}

	var buckets []types.DayBucket
	if len(spots) == 0 {
		buckets = make([]types.DayBucket, days)
	} else {
		ranked := RankSpots(spots, interests, budget)
		buckets = AllocateDays(ranked, days)
	}

	var itinerary types.Itinerary
	for d := 0; d < days; d++ {
		var bucket types.DayBucket
		if d < len(buckets) {
			bucket = buckets[d]
		}
		itinerary.Plans = append(itinerary.Plans, BuildDayPlan(d, destination, bucket, budget))
	}
	return itinerary
}

// BucketForDay slices one day's bucket from the session's ranked pool using
// the given allocation mode.
func BucketForDay(ranked []types.ScoredSpot, dayIndex, totalDays int, mode AllocationMode) types.DayBucket {
	var buckets []types.DayBucket
	switch mode {
	case AllocateByDuration:
		buckets = AllocateDays(ranked, totalDays)
	default:
		buckets = SplitEvenly(ranked, totalDays)
	}
	if dayIndex < 0 || dayIndex >= len(buckets) {
		return nil
	}
	return buckets[dayIndex]
}
