package planner

import (
	"fmt"
	"strings"

	"github.com/wanderplan/wanderplan/internal/types"
)

// Daily clock bounds. Activities start no earlier than dayStartHour and never
// run past dayEndHour.
const (
	dayStartHour  = 9
	dayEndHour    = 21
	lunchHour     = 12
	lunchEndHour  = 13
	restUntilHour = 18
	dinnerHour    = 19
)

// iconRule maps a category keyword to a display icon; first match wins.
type iconRule struct {
	keyword string
	icon    string
}

var iconRules = []iconRule{
	{"sightseeing", "🗺️"},
	{"scenic", "🗺️"},
	{"景点", "🗺️"},
	{"观光", "🗺️"},
	{"culture", "🏛️"},
	{"museum", "🏛️"},
	{"history", "🏛️"},
	{"文化", "🏛️"},
	{"博物馆", "🏛️"},
	{"历史", "🏛️"},
	{"outdoor", "⛰️"},
	{"nature", "⛰️"},
	{"户外", "⛰️"},
	{"自然", "⛰️"},
	{"park", "🌳"},
	{"公园", "🌳"},
	{"food", "🍜"},
	{"美食", "🍜"},
	{"restaurant", "🍽️"},
	{"餐厅", "🍽️"},
	{"snack", "🥟"},
	{"小吃", "🥟"},
	{"shopping", "🛍️"},
	{"购物", "🛍️"},
	{"night", "🌉"},
	{"夜景", "🌉"},
	{"entertainment", "🎡"},
	{"娱乐", "🎡"},
}

const defaultIcon = "📍"

func pickIcon(category string) string {
	c := strings.ToLower(category)
	for _, rule := range iconRules {
		if strings.Contains(c, rule.keyword) {
			return rule.icon
		}
	}
	return defaultIcon
}

func timeRange(startHour, endHour int) string {
	return fmt.Sprintf("%02d:00 - %02d:00", startHour, endHour)
}

// BuildDayTimeline expands one day's bucket into an hour-by-hour schedule:
// spots from 09:00, a fixed lunch slot when the clock crosses noon, a rest
// slot up to 18:00, and dinner chosen by budget tier. Deterministic for
// identical inputs.
func BuildDayTimeline(dayIndex int, destination string, bucket types.DayBucket, budget types.BudgetTier) []types.Activity {
	dayNo := dayIndex + 1

	if len(bucket) == 0 {
		return []types.Activity{{
			ID:          fmt.Sprintf("day_%d_free", dayNo),
			Icon:        "😌",
			Title:       fmt.Sprintf("Free day in %s", destination),
			Time:        "10:00 - 16:00",
			Description: fmt.Sprintf("The day is yours: wander %s's streets, cafés and shops at your own pace.", destination),
		}}
	}

	activities := make([]types.Activity, 0, len(bucket)+3)
	clock := dayStartHour

	for i, s := range bucket {
		if clock >= dayEndHour {
			break
		}

		if clock >= lunchHour && clock < lunchEndHour {
			activities = append(activities, types.Activity{
				ID:          fmt.Sprintf("day_%d_lunch", dayNo),
				Icon:        "🍽️",
				Title:       fmt.Sprintf("Local lunch in %s", destination),
				Time:        timeRange(lunchHour, lunchEndHour),
				Description: fmt.Sprintf("Pick a well-reviewed restaurant nearby and try %s's local flavors.", destination),
			})
			clock = lunchEndHour
		}

		duration := EstimateVisitHours(s.Category)
		end := clock + duration
		if end > dayEndHour {
			end = dayEndHour
		}

		ratingText := ""
		if s.Rating > 0 {
			ratingText = fmt.Sprintf(" · rated %.1f", s.Rating)
		}
		category := s.Category
		if category == "" {
			category = "sightseeing"
		}

		activities = append(activities, types.Activity{
			ID:    fmt.Sprintf("day_%d_spot_%d", dayNo, i+1),
			Icon:  pickIcon(category),
			Title: s.Title,
			Time:  timeRange(clock, end),
			Description: fmt.Sprintf("%s%s. Plan on roughly %d hour(s) here; nearby same-type spots are grouped on the same day to cut back-and-forth.",
				category, ratingText, duration),
			RefSpotID: s.ID,
		})

		clock = end
	}

	if clock < restUntilHour {
		activities = append(activities, types.Activity{
			ID:          fmt.Sprintf("day_%d_rest", dayNo),
			Icon:        "☕",
			Title:       "Coffee break & street stroll",
			Time:        timeRange(clock, restUntilHour),
			Description: "Find a café or bakery you like, rest your feet, then drift through the surrounding blocks.",
		})
	}

	if budget == types.BudgetHigh {
		activities = append(activities, types.Activity{
			ID:          fmt.Sprintf("day_%d_dinner", dayNo),
			Icon:        "🍷",
			Title:       fmt.Sprintf("Fine dining & night view in %s", destination),
			Time:        "19:00 - 21:00",
			Description: fmt.Sprintf("Book a restaurant with great reviews and atmosphere, then catch %s's skyline or waterfront after dark.", destination),
		})
	} else {
		activities = append(activities, types.Activity{
			ID:          fmt.Sprintf("day_%d_dinner", dayNo),
			Icon:        "🍜",
			Title:       fmt.Sprintf("Night market & street food in %s", destination),
			Time:        "19:00 - 20:30",
			Description: fmt.Sprintf("Browse a night market or busy food street and soak up %s's evening buzz.", destination),
		})
	}

	return activities
}
