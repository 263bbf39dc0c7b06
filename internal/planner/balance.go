package planner

import "github.com/wanderplan/wanderplan/internal/types"

// DefaultMaxInterestRatio caps how much of the ordered pool may be
// interest-tagged before other spots get interleaved.
const DefaultMaxInterestRatio = 0.6

// BalanceInterestRatio reorders a score-sorted pool so interest-tagged spots
// are spread through the sequence instead of front-loaded. No spot is dropped;
// the output is a permutation of the input. A nil interest set or empty input
// is a no-op.
func BalanceInterestRatio(sorted []types.ScoredSpot, interests []string, maxRatio float64) []types.ScoredSpot {
	if len(sorted) == 0 || len(interests) == 0 {
		return sorted
	}

	var interestSpots, otherSpots []types.ScoredSpot
	for _, s := range sorted {
		if matchesInterest(s.CandidateSpot, interests) {
			interestSpots = append(interestSpots, s)
		} else {
			otherSpots = append(otherSpots, s)
		}
	}

	total := len(sorted)
	targetInterestMax := int(float64(total) * maxRatio)
	if targetInterestMax == 0 && len(interestSpots) > 0 {
		targetInterestMax = 1 // always leave room for at least one
	}

	result := make([]types.ScoredSpot, 0, total)
	iIdx, oIdx, interestUsed := 0, 0, 0

	for iIdx < len(interestSpots) || oIdx < len(otherSpots) {
		used := len(result)
		currentRatio := 0.0
		if used > 0 {
			currentRatio = float64(interestUsed) / float64(used)
		}

		takeInterest := iIdx < len(interestSpots) &&
			interestUsed < targetInterestMax &&
			currentRatio <= maxRatio

		switch {
		case takeInterest:
			result = append(result, interestSpots[iIdx])
			iIdx++
			interestUsed++
		case oIdx < len(otherSpots):
			result = append(result, otherSpots[oIdx])
			oIdx++
		default:
			// Only interest spots remain.
			result = append(result, interestSpots[iIdx])
			iIdx++
			interestUsed++
		}
	}

	return result
}
