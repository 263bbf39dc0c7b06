package types

// MediaArticle is a reference post backing a media rating report.
type MediaArticle struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	NoteID string `json:"note_id"`
}

// MediaReport is the aggregated social-media rating for one spot.
// Success=false means no usable posts were found or analysis failed; the
// report is still a valid value, never an error.
type MediaReport struct {
	Success      bool           `json:"success"`
	SpotName     string         `json:"spot_name"`
	Rating       float64        `json:"rating"` // 0-5
	Summary      string         `json:"summary"`
	Highlights   []string       `json:"highlights"`
	Concerns     []string       `json:"concerns"`
	ArticleCount int            `json:"article_count"`
	CommentCount int            `json:"comment_count"`
	TopArticles  []MediaArticle `json:"top_articles"`
}
