package planner

import (
	"fmt"
	"strings"

	"github.com/wanderplan/wanderplan/internal/types"
)

const freeDayHours = 6

var (
	foodThemeKeywords     = []string{"food", "restaurant", "snack", "美食", "餐厅", "小吃"}
	outdoorThemeKeywords  = []string{"outdoor", "nature", "park", "mountain", "户外", "自然", "公园", "山"}
	cultureThemeKeywords  = []string{"culture", "history", "museum", "文化", "历史", "博物馆"}
	shoppingThemeKeywords = []string{"shopping", "mall", "购物", "商场", "商业"}
)

// SummarizeDay derives the day's total estimated hours, a theme from its most
// frequent category, up to two highlight titles, and the display summary line.
func SummarizeDay(bucket types.DayBucket, destination string) types.DayMeta {
	if len(bucket) == 0 {
		theme := fmt.Sprintf("Relaxed free exploration of %s", destination)
		return types.DayMeta{
			TotalHours: freeDayHours,
			Theme:      theme,
			Highlights: []string{},
		}
	}

	totalHours := 0
	counts := map[string]int{}
	mainCategory := ""
	mainCount := 0
	for _, s := range bucket {
		totalHours += EstimateVisitHours(s.Category)
		cat := s.Category
		if cat == "" {
			cat = "other"
		}
		counts[cat]++
		// First category to reach the running maximum wins ties.
		if counts[cat] > mainCount {
			mainCount = counts[cat]
			mainCategory = cat
		}
	}

	var theme string
	switch {
	case containsAny(mainCategory, foodThemeKeywords):
		theme = "Food discovery day"
	case containsAny(mainCategory, outdoorThemeKeywords):
		theme = "Outdoors & natural scenery day"
	case containsAny(mainCategory, cultureThemeKeywords):
		theme = "Culture, history & museums"
	case containsAny(mainCategory, shoppingThemeKeywords):
		theme = "Shopping & easy strolling"
	default:
		theme = fmt.Sprintf("Classic %s sightseeing", destination)
	}

	highlights := make([]string, 0, 2)
	for _, s := range bucket {
		if s.Title != "" {
			highlights = append(highlights, s.Title)
		}
		if len(highlights) == 2 {
			break
		}
	}

	return types.DayMeta{
		TotalHours: totalHours,
		Theme:      theme,
		Highlights: highlights,
	}
}

// FormatDaySummary renders the one-line summary shown above a day plan.
func FormatDaySummary(meta types.DayMeta) string {
	summary := fmt.Sprintf("~%d hours · Theme: %s", meta.TotalHours, meta.Theme)
	if len(meta.Highlights) > 0 {
		summary += " · Highlights: " + strings.Join(meta.Highlights, ", ")
	}
	return summary
}

// BuildDayPlan assembles the full DayPlan for one day from its bucket.
func BuildDayPlan(dayIndex int, destination string, bucket types.DayBucket, budget types.BudgetTier) types.DayPlan {
	meta := SummarizeDay(bucket, destination)
	return types.DayPlan{
		ID:         fmt.Sprintf("day_%d", dayIndex+1),
		Day:        fmt.Sprintf("Day %d", dayIndex+1),
		Summary:    FormatDaySummary(meta),
		Meta:       meta,
		Activities: BuildDayTimeline(dayIndex, destination, bucket, budget),
	}
}
