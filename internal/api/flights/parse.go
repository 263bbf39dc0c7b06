// Package flights searches flight offers and picks a recommended one.
// Providers return price and duration as raw strings in whatever shape their
// upstream uses; normalization lives here so ranking stays provider-agnostic.
package flights

import (
	"regexp"
	"strconv"

	"github.com/wanderplan/wanderplan/internal/types"
)

var (
	priceDigitsPattern = regexp.MustCompile(`[^\d.]`)
	isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?`)
	hoursPattern       = regexp.MustCompile(`(\d+)\s*(?:[hH]|小时)`)
	minutesPattern     = regexp.MustCompile(`(\d+)\s*(?:[mM]|分钟|分)`)
)

// ParsePriceAmount extracts the numeric amount from strings like "¥1200",
// "$500" or "1200 CNY". ok is false when no number survives.
func ParsePriceAmount(price string) (float64, bool) {
	cleaned := priceDigitsPattern.ReplaceAllString(price, "")
	if cleaned == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// ParseDurationMinutes extracts total minutes from ISO 8601 ("PT2H30M") or
// informal ("2h 30m", "2小时30分钟") duration strings.
func ParseDurationMinutes(duration string) (int, bool) {
	if m := isoDurationPattern.FindStringSubmatch(duration); m != nil && (m[1] != "" || m[2] != "") {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		return hours*60 + minutes, true
	}

	total := 0
	if m := hoursPattern.FindStringSubmatch(duration); m != nil {
		h, _ := strconv.Atoi(m[1])
		total += h * 60
	}
	if m := minutesPattern.FindStringSubmatch(duration); m != nil {
		mins, _ := strconv.Atoi(m[1])
		total += mins
	}
	if total == 0 {
		return 0, false
	}
	return total, true
}

// Offers without price or duration rank behind everything parseable.
const worstScore = 1e9

// ChooseBestFlight picks the cheapest offer; offers without a parseable
// price fall back to duration in hours, and offers with neither lose to
// anything scored. Returns nil for an empty list.
func ChooseBestFlight(offers []types.FlightOffer) *types.FlightOffer {
	var best *types.FlightOffer
	bestScore := 0.0

	for i := range offers {
		score := worstScore
		if price, ok := ParsePriceAmount(offers[i].Price); ok {
			score = price
		} else if minutes, ok := ParseDurationMinutes(offers[i].Duration); ok {
			score = float64(minutes) / 60.0
		}
		if best == nil || score < bestScore {
			best = &offers[i]
			bestScore = score
		}
	}
	return best
}
