package flights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderplan/wanderplan/internal/types"
)

func TestParsePriceAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"¥1200", 1200, true},
		{"$500", 500, true},
		{"1200 CNY", 1200, true},
		{"1,299.50 EUR", 1299.50, true},
		{"free", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParsePriceAmount(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestParseDurationMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"PT2H30M", 150, true},
		{"PT45M", 45, true},
		{"PT3H", 180, true},
		{"2h 30m", 150, true},
		{"2小时30分钟", 150, true},
		{"90m", 90, true},
		{"nonstop", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseDurationMinutes(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestChooseBestFlightPriceFirst(t *testing.T) {
	offers := []types.FlightOffer{
		{FlightNo: "AA1", Price: "¥1450", Duration: "PT1H"},
		{FlightNo: "BB2", Price: "¥980", Duration: "PT5H"},
		{FlightNo: "CC3", Price: "¥1280", Duration: "PT2H"},
	}
	best := ChooseBestFlight(offers)
	require.NotNil(t, best)
	assert.Equal(t, "BB2", best.FlightNo, "cheapest wins even when slowest")
}

func TestChooseBestFlightDurationFallback(t *testing.T) {
	offers := []types.FlightOffer{
		{FlightNo: "AA1", Duration: "PT5H"},
		{FlightNo: "BB2", Duration: "PT2H20M"},
	}
	best := ChooseBestFlight(offers)
	require.NotNil(t, best)
	assert.Equal(t, "BB2", best.FlightNo)
}

func TestChooseBestFlightUnscoredLoses(t *testing.T) {
	offers := []types.FlightOffer{
		{FlightNo: "AA1"},
		{FlightNo: "BB2", Price: "¥9999"},
	}
	best := ChooseBestFlight(offers)
	require.NotNil(t, best)
	assert.Equal(t, "BB2", best.FlightNo)

	assert.Nil(t, ChooseBestFlight(nil))

	// All unscored: first one sticks.
	only := ChooseBestFlight([]types.FlightOffer{{FlightNo: "XX1"}, {FlightNo: "YY2"}})
	require.NotNil(t, only)
	assert.Equal(t, "XX1", only.FlightNo)
}
