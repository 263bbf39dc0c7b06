// Package planner implements the itinerary synthesis engine: spot scoring,
// interest-ratio balancing, day allocation, timeline building and day
// summaries. Everything here is deterministic and free of I/O so the
// conversation layer can call it synchronously inside a turn.
package planner

import "strings"

// durationRule maps category keywords onto an estimated visit length in hours.
// Rules are checked in order; the first hit wins. Keyword tables carry both
// English and Chinese forms since spot categories come back from web search in
// either language.
type durationRule struct {
	keywords []string
	hours    int
}

var durationRules = []durationRule{
	{[]string{"outdoor", "nature", "park", "mountain", "hike", "户外", "郊游", "自然", "公园", "山"}, 4},
	{[]string{"sightseeing", "scenic", "landmark", "景点", "游览", "观光"}, 3},
	{[]string{"museum", "gallery", "culture", "history", "博物馆", "美术馆", "文化", "历史"}, 2},
	{[]string{"shopping", "mall", "购物", "商场", "商业"}, 2},
	{[]string{"food", "restaurant", "snack", "美食", "餐厅", "小吃", "街"}, 1},
}

// defaultVisitHours is assumed for categories no rule recognizes.
const defaultVisitHours = 2

// EstimateVisitHours estimates how long a visitor stays at a spot of the
// given category.
func EstimateVisitHours(category string) int {
	c := strings.ToLower(category)
	for _, rule := range durationRules {
		for _, kw := range rule.keywords {
			if strings.Contains(c, kw) {
				return rule.hours
			}
		}
	}
	return defaultVisitHours
}

// containsAny reports whether text contains any of the needles,
// case-insensitively.
func containsAny(text string, needles []string) bool {
	t := strings.ToLower(text)
	for _, n := range needles {
		if n != "" && strings.Contains(t, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
