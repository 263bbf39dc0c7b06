package trip

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wanderplan/wanderplan/internal/types"
)

// Fact extraction is pure pattern matching over one utterance: no LLM call,
// no error path. A rule that finds nothing leaves its fact untouched and the
// controller re-prompts.

// knownDestinations is the gazetteer; first match wins. Chinese and English
// names map to one canonical display name.
var knownDestinations = []struct {
	needle    string
	canonical string
}{
	{"香港", "香港"},
	{"hong kong", "香港"},
	{"上海", "上海"},
	{"shanghai", "上海"},
	{"北京", "北京"},
	{"beijing", "北京"},
	{"深圳", "深圳"},
	{"shenzhen", "深圳"},
	{"杭州", "杭州"},
	{"hangzhou", "杭州"},
	{"西安", "西安"},
	{"xian", "西安"},
	{"广州", "广州"},
	{"guangzhou", "广州"},
}

// Interest tags are canonical English; keywords cover both languages.
var interestKeywords = map[string][]string{
	"food":        {"美食", "吃", "餐厅", "小吃", "food", "restaurant", "snack", "cuisine", "dining"},
	"shopping":    {"购物", "逛街", "购买", "shopping", "shop"},
	"sightseeing": {"景点", "景观", "游览", "参观", "sightseeing", "sight", "landmark", "attraction"},
	"culture":     {"文化", "博物馆", "历史", "culture", "museum", "history", "heritage"},
	"outdoor":     {"户外", "爬山", "登山", "自然", "outdoor", "hiking", "hike", "nature"},
}

// interestOrder keeps extraction deterministic across map iteration.
var interestOrder = []string{"food", "shopping", "sightseeing", "culture", "outdoor"}

var (
	daysPattern      = regexp.MustCompile(`(\d+)\s*(?:天|days?)`)
	travelersPattern = regexp.MustCompile(`(\d+)\s*(?:个)?(?:人|位)|(\d+)\s*(?:people|persons?|adults?|travelers?)`)
	bareNumber       = regexp.MustCompile(`^\d+$`)
)

// ExtractFacts applies every extraction rule to one utterance and returns the
// updated facts. Rules fire independently; unmatched rules change nothing.
func ExtractFacts(facts types.TripFacts, message string) types.TripFacts {
	lower := strings.ToLower(message)
	trimmed := strings.TrimSpace(message)

	for _, d := range knownDestinations {
		if strings.Contains(lower, d.needle) {
			facts.Destination = d.canonical
			break
		}
	}

	if m := daysPattern.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			facts.Days = n
		}
	} else if facts.Days == 0 && bareNumber.MatchString(trimmed) {
		if n, err := strconv.Atoi(trimmed); err == nil && n > 0 {
			facts.Days = n
		}
	}

	if m := travelersPattern.FindStringSubmatch(lower); m != nil {
		digits := m[1]
		if digits == "" {
			digits = m[2]
		}
		if n, err := strconv.Atoi(digits); err == nil && n > 0 {
			facts.Travelers = n
		}
	}

	for _, tag := range interestOrder {
		if containsAnyFold(lower, interestKeywords[tag]) {
			facts.AddInterest(tag)
		}
	}

	facts.Budget = extractBudget(facts.Budget, lower, trimmed)

	return facts
}

// extractBudget fires on budget mentions or a bare tier word. "low"/"high"
// anywhere in a budget mention force that tier; anything else means medium.
func extractBudget(current types.BudgetTier, lower, trimmed string) types.BudgetTier {
	if tier, ok := types.ParseBudgetTier(trimmed); ok {
		return tier
	}
	mentionsBudget := strings.Contains(lower, "预算") || strings.Contains(lower, "费用") ||
		strings.Contains(lower, "budget") || strings.Contains(lower, "cost")
	if !mentionsBudget {
		return current
	}
	switch {
	case strings.Contains(lower, "低") || strings.Contains(lower, "low") || strings.Contains(lower, "cheap"):
		return types.BudgetLow
	case strings.Contains(lower, "高") || strings.Contains(lower, "high") || strings.Contains(lower, "luxury"):
		return types.BudgetHigh
	default:
		return types.BudgetMedium
	}
}

func containsAnyFold(lower string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

// missingFacts names what still blocks planning, for the re-prompt message.
func missingFacts(facts types.TripFacts) []string {
	var missing []string
	if facts.Destination == "" {
		missing = append(missing, "destination")
	}
	if facts.Days <= 0 {
		missing = append(missing, "number of days")
	}
	if len(facts.Interests) == 0 {
		missing = append(missing, "interests")
	}
	return missing
}
