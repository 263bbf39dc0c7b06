package hotspots

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Relevance weighting for raw search hits, applied before the LLM curation
// pass: trusted sources, event-ish keywords and dates near "now" all push a
// hit up the candidate list.

var domainBoosts = map[string]float64{
	"ticketmaster": 1.25,
	"eventbrite":   1.2,
	"timeout.com":  1.18,
	"damai.cn":     1.25,
	"maoyan.com":   1.18,
	"gov":          1.3,
	"edu":          1.2,
	"org":          1.1,
	"museum":       1.15,
}

var keywordHits = map[string]float64{
	"music festival": 1.2,
	"concert":        1.2,
	"exhibition":     1.1,
	"art":            1.08,
	"festival":       1.06,
	"marathon":       1.2,
	"carnival":       1.1,
	"theatre":        1.08,
	"音乐节":            1.2,
	"演唱会":            1.2,
	"展览":             1.1,
	"马拉松":            1.2,
	"灯会":             1.1,
}

// Events further out than these windows are filtered before curation.
const (
	windowDaysBefore = 60
	windowDaysAfter  = 75
)

var (
	cnDatePattern  = regexp.MustCompile(`(?:(\d{4})年)?\s*(\d{1,2})月\s*(\d{1,2})日?`)
	isoDatePattern = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
)

func domainWeight(link string) float64 {
	u, err := url.Parse(link)
	if err != nil {
		return 1.0
	}
	host := strings.ToLower(u.Host)
	for key, w := range domainBoosts {
		if strings.Contains(host, key) {
			return w
		}
	}
	return 1.0
}

func keywordWeight(text string) float64 {
	t := strings.ToLower(text)
	score := 1.0
	for k, w := range keywordHits {
		if strings.Contains(t, k) {
			score *= w
		}
	}
	return score
}

// extractDates pulls explicit dates out of free text, defaulting the year to
// the current one for month-day forms.
func extractDates(text string, defaultYear int) []time.Time {
	var dates []time.Time

	for _, m := range cnDatePattern.FindAllStringSubmatch(text, -1) {
		year := defaultYear
		if m[1] != "" {
			year, _ = strconv.Atoi(m[1])
		}
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if d, ok := makeDate(year, month, day); ok {
			dates = append(dates, d)
		}
	}
	for _, m := range isoDatePattern.FindAllStringSubmatch(text, -1) {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if d, ok := makeDate(year, month, day); ok {
			dates = append(dates, d)
		}
	}
	return dates
}

func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// recencyScore rewards events close to now; upcoming dates score higher than
// just-passed ones, and undated hits stay neutral.
func recencyScore(dates []time.Time, now time.Time) float64 {
	if len(dates) == 0 {
		return 1.0
	}
	best := int(dates[0].Sub(now).Hours() / 24)
	for _, d := range dates[1:] {
		delta := int(d.Sub(now).Hours() / 24)
		if abs(delta) < abs(best) {
			best = delta
		}
	}
	if best >= 0 {
		return clamp(1.4-float64(best)*0.004, 1.15, 1.4)
	}
	return clamp(1.2+float64(best)*0.004, 1.05, 1.2)
}

// inTimeWindow keeps hits with at least one date inside the tolerance window.
// Hits without any recognizable date are kept rather than discarded.
func inTimeWindow(dates []time.Time, now time.Time) bool {
	if len(dates) == 0 {
		return true
	}
	lo := now.AddDate(0, 0, -windowDaysBefore)
	hi := now.AddDate(0, 0, windowDaysAfter)
	for _, d := range dates {
		if !d.Before(lo) && !d.After(hi) {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
