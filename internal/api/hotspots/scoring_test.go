package hotspots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainWeight(t *testing.T) {
	assert.Equal(t, 1.25, domainWeight("https://www.ticketmaster.com/event/123"))
	assert.Equal(t, 1.2, domainWeight("https://www.eventbrite.com/e/456"))
	assert.Equal(t, 1.0, domainWeight("https://random-blog.example.com/post"))
	assert.Equal(t, 1.0, domainWeight("://not a url"))
}

func TestKeywordWeightMultiplies(t *testing.T) {
	// concert (1.2) and exhibition (1.1) both present
	w := keywordWeight("Big Concert plus Exhibition weekend")
	assert.InDelta(t, 1.32, w, 1e-9)

	assert.Equal(t, 1.0, keywordWeight("quiet afternoon"))
	assert.Equal(t, 1.2, keywordWeight("城市马拉松报名开始"))
}

func TestExtractDates(t *testing.T) {
	dates := extractDates("演出时间：2026年9月12日，另见 2026-10-01", 2026)
	require.Len(t, dates, 2)
	assert.Equal(t, time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), dates[1])

	// Month-day form defaults to the given year.
	dates = extractDates("9月5日开幕", 2026)
	require.Len(t, dates, 1)
	assert.Equal(t, 2026, dates[0].Year())

	assert.Empty(t, extractDates("no dates here", 2026))
	assert.Empty(t, extractDates("13月40日", 2026))
}

func TestRecencyScore(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 1.0, recencyScore(nil, now))

	soon := recencyScore([]time.Time{now.AddDate(0, 0, 3)}, now)
	far := recencyScore([]time.Time{now.AddDate(0, 0, 60)}, now)
	assert.Greater(t, soon, far)
	assert.LessOrEqual(t, soon, 1.4)
	assert.GreaterOrEqual(t, far, 1.15)

	past := recencyScore([]time.Time{now.AddDate(0, 0, -10)}, now)
	assert.Less(t, past, soon)
	assert.GreaterOrEqual(t, past, 1.05)
}

func TestInTimeWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	assert.True(t, inTimeWindow(nil, now), "undated hits are kept")
	assert.True(t, inTimeWindow([]time.Time{now.AddDate(0, 0, 30)}, now))
	assert.True(t, inTimeWindow([]time.Time{now.AddDate(0, 0, -30)}, now))
	assert.False(t, inTimeWindow([]time.Time{now.AddDate(0, 0, 120)}, now))
	assert.False(t, inTimeWindow([]time.Time{now.AddDate(0, -6, 0)}, now))
	// One in-window date is enough.
	assert.True(t, inTimeWindow([]time.Time{now.AddDate(0, -6, 0), now.AddDate(0, 0, 5)}, now))
}

func TestBuildQueriesDedupes(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	queries := buildQueries("Lisbon", now)
	require.NotEmpty(t, queries)

	seen := map[string]bool{}
	for _, q := range queries {
		assert.False(t, seen[q], "duplicate query %q", q)
		seen[q] = true
		assert.Contains(t, q, "Lisbon")
	}
	assert.Contains(t, queries[0], "August 2026")
}
