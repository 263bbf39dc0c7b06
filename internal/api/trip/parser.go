package trip

import (
	"fmt"
	"strings"

	"github.com/wanderplan/wanderplan/internal/api/llmparse"
	"github.com/wanderplan/wanderplan/internal/types"
)

// DayEdit is the parsed outcome of a free-form edit request: either the
// model declined to change anything, or it produced a replacement plan for
// the day under refinement.
type DayEdit struct {
	NoChange bool
	Plan     *types.DayPlan
}

type rawDayEdit struct {
	NoChange   bool `json:"no_change"`
	ID         string `json:"id"`
	Day        string `json:"day"`
	Summary    string `json:"summary"`
	Activities []struct {
		ID          string `json:"id"`
		Icon        string `json:"icon"`
		Title       string `json:"title"`
		Time        string `json:"time"`
		Description string `json:"description"`
	} `json:"activities"`
}

// ParseDayEdit extracts the edit JSON from raw model output and validates it
// into a replacement DayPlan for the given day. Any structural problem is an
// error; the caller keeps the prior plan on error.
func ParseDayEdit(text string, dayIndex int) (DayEdit, error) {
	var raw rawDayEdit
	if err := llmparse.DecodeObject(text, &raw); err != nil {
		return DayEdit{}, fmt.Errorf("day edit: %w", err)
	}
	if raw.NoChange {
		return DayEdit{NoChange: true}, nil
	}
	if len(raw.Activities) == 0 {
		return DayEdit{}, fmt.Errorf("day edit: no activities in response")
	}

	plan := types.DayPlan{
		ID:      fmt.Sprintf("day_%d", dayIndex+1),
		Day:     fmt.Sprintf("Day %d", dayIndex+1),
		Summary: strings.TrimSpace(raw.Summary),
	}
	for i, a := range raw.Activities {
		title := strings.TrimSpace(a.Title)
		if title == "" {
			return DayEdit{}, fmt.Errorf("day edit: activity %d has no title", i+1)
		}
		id := strings.TrimSpace(a.ID)
		if id == "" {
			id = fmt.Sprintf("day_%d_edit_%d", dayIndex+1, i+1)
		}
		icon := a.Icon
		if icon == "" {
			icon = "📍"
		}
		plan.Activities = append(plan.Activities, types.Activity{
			ID:          id,
			Icon:        icon,
			Title:       title,
			Time:        strings.TrimSpace(a.Time),
			Description: a.Description,
		})
	}
	return DayEdit{Plan: &plan}, nil
}
