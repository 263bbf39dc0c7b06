package planner

import "github.com/wanderplan/wanderplan/internal/types"

// Day-load bounds for the greedy allocator. A day may only exceed
// dayOverflowHours when no other day still has relief capacity.
const (
	dayOverflowHours = 9
	dayReliefHours   = 7
)

// AllocateDays partitions the balanced pool across dayCount buckets by greedy
// load-balancing on estimated visit hours. Every spot lands in exactly one
// bucket; a non-positive dayCount is coerced to 1.
func AllocateDays(spots []types.ScoredSpot, dayCount int) []types.DayBucket {
	if dayCount < 1 {
		dayCount = 1
	}

	buckets := make([]types.DayBucket, dayCount)
	hours := make([]int, dayCount)

	for _, s := range spots {
		dur := EstimateVisitHours(s.Category)

		idx := minHoursDay(hours, nil)

		// Tolerate overflow only when no day has relief capacity left.
		if hours[idx]+dur > dayOverflowHours && anyUnder(hours, dayReliefHours) {
			fits := func(i int) bool { return hours[i]+dur <= dayOverflowHours }
			if alt := minHoursDay(hours, fits); alt >= 0 {
				idx = alt
			}
		}

		buckets[idx] = append(buckets[idx], s)
		hours[idx] += dur
	}

	return buckets
}

// SplitEvenly slices the pool into dayCount buckets of floor(n/dayCount)
// spots, folding the remainder into the final day. This is the allocation
// used by the day-at-a-time generation path, where each day draws a fixed
// slice of the session's ranked pool.
func SplitEvenly(spots []types.ScoredSpot, dayCount int) []types.DayBucket {
	if dayCount < 1 {
		dayCount = 1
	}

	buckets := make([]types.DayBucket, dayCount)
	per := len(spots) / dayCount
	for d := 0; d < dayCount; d++ {
		start := d * per
		end := start + per
		if d == dayCount-1 {
			end = len(spots)
		}
		if start > len(spots) {
			start = len(spots)
		}
		if end > len(spots) {
			end = len(spots)
		}
		buckets[d] = append(types.DayBucket{}, spots[start:end]...)
	}
	return buckets
}

// minHoursDay returns the index with the least accumulated hours among days
// accepted by the filter (nil filter accepts all). Returns -1 when the filter
// rejects every day.
func minHoursDay(hours []int, accept func(int) bool) int {
	best := -1
	for i := range hours {
		if accept != nil && !accept(i) {
			continue
		}
		if best < 0 || hours[i] < hours[best] {
			best = i
		}
	}
	return best
}

func anyUnder(hours []int, limit int) bool {
	for _, h := range hours {
		if h < limit {
			return true
		}
	}
	return false
}
