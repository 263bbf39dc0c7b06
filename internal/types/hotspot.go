package types

// Hotspot is one ranked city event/activity from the hotspot search.
type Hotspot struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Rank        int    `json:"rank"`
	Category    string `json:"category"`
	Description string `json:"description"`
	SourceURL   string `json:"source_url,omitempty"`
}
