package types

// Activity is a single row on a day's timeline.
type Activity struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Time        string `json:"time"` // "HH:MM - HH:MM"
	Description string `json:"description"`
	RefSpotID   string `json:"ref_spot_id,omitempty"` // UI back-reference only
}

// DayMeta carries the summarizer output for one day.
type DayMeta struct {
	TotalHours int      `json:"total_hours"`
	Theme      string   `json:"theme"`
	Highlights []string `json:"highlights"`
}

// DayPlan is the structured schedule for one day of the trip. Refining a day
// replaces Activities and Summary in place, keyed by day index.
type DayPlan struct {
	ID         string     `json:"id"`  // "day_1"
	Day        string     `json:"day"` // "Day 1"
	Summary    string     `json:"summary"`
	Meta       DayMeta    `json:"meta"`
	Activities []Activity `json:"activities"`
}

// Itinerary grows one DayPlan at a time as days are generated and approved.
type Itinerary struct {
	Plans []DayPlan `json:"plans"`
}

// UpsertDay replaces the plan at the given zero-based day index, or appends it
// when the itinerary has not reached that index yet.
func (it *Itinerary) UpsertDay(dayIndex int, plan DayPlan) {
	if dayIndex >= 0 && dayIndex < len(it.Plans) {
		it.Plans[dayIndex] = plan
		return
	}
	it.Plans = append(it.Plans, plan)
}

// Day returns the plan at the zero-based index, or nil when out of range.
func (it *Itinerary) Day(dayIndex int) *DayPlan {
	if dayIndex < 0 || dayIndex >= len(it.Plans) {
		return nil
	}
	return &it.Plans[dayIndex]
}
