// Package media rates a single spot or restaurant from a local corpus of
// social posts and their comments. Relevant posts are found by keyword
// matching weighted with like counts, their top comments aggregated, and the
// LLM turns the bundle into a compact rating report.
package media

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

const (
	maxRelevantNotes      = 10
	maxAggregatedComments = 50
)

// Note is one post in the corpus. Like counts stay raw strings because the
// source data writes them as "4.2万" style values.
type Note struct {
	NoteID     string `json:"note_id"`
	Title      string `json:"title"`
	Desc       string `json:"desc"`
	Nickname   string `json:"nickname"`
	LikedCount string `json:"liked_count"`
	NoteURL    string `json:"note_url"`
}

// Comment is one reader comment attached to a note.
type Comment struct {
	NoteID    string `json:"note_id"`
	CommentID string `json:"comment_id"`
	Content   string `json:"content"`
	LikeCount string `json:"like_count"`
}

type scoredNote struct {
	Note
	relevance float64
}

// Repository loads the media corpus lazily and serves relevance queries
// over it. Missing or broken files degrade to an empty corpus.
type Repository interface {
	SearchRelevantNotes(query string, topK int) []Note
	AggregateComments(noteIDs []string) []Comment
}

type RepositoryImpl struct {
	notesPath    string
	commentsPath string
	logger       *slog.Logger

	loadOnce sync.Once
	notes    []Note
	comments map[string][]Comment
}

var _ Repository = (*RepositoryImpl)(nil)

func NewRepository(notesPath, commentsPath string, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		notesPath:    notesPath,
		commentsPath: commentsPath,
		logger:       logger,
	}
}

func (r *RepositoryImpl) load() {
	r.loadOnce.Do(func() {
		r.comments = map[string][]Comment{}

		raw, err := os.ReadFile(r.notesPath)
		if err != nil {
			r.logger.Warn("Media notes file unavailable", slog.String("path", r.notesPath), slog.Any("error", err))
		} else if err := json.Unmarshal(raw, &r.notes); err != nil {
			r.logger.Warn("Media notes file malformed", slog.String("path", r.notesPath), slog.Any("error", err))
			r.notes = nil
		}

		raw, err = os.ReadFile(r.commentsPath)
		if err != nil {
			r.logger.Warn("Media comments file unavailable", slog.String("path", r.commentsPath), slog.Any("error", err))
			return
		}
		var list []Comment
		if err := json.Unmarshal(raw, &list); err != nil {
			r.logger.Warn("Media comments file malformed", slog.String("path", r.commentsPath), slog.Any("error", err))
			return
		}
		for _, c := range list {
			if c.NoteID == "" {
				continue
			}
			r.comments[c.NoteID] = append(r.comments[c.NoteID], c)
		}
	})
}

var queryTokenPattern = regexp.MustCompile(`[\p{Han}a-zA-Z0-9]+`)

// SearchRelevantNotes matches query tokens against note title and body,
// scoring matches*10 + likes*0.01, highest first.
func (r *RepositoryImpl) SearchRelevantNotes(query string, topK int) []Note {
	r.load()
	if len(r.notes) == 0 || topK <= 0 {
		return nil
	}

	tokens := map[string]bool{}
	for _, tok := range queryTokenPattern.FindAllString(strings.ToLower(query), -1) {
		tokens[tok] = true
	}
	if len(tokens) == 0 {
		return nil
	}

	var scored []scoredNote
	for _, note := range r.notes {
		text := strings.ToLower(note.Title + " " + note.Desc)
		matches := 0
		for tok := range tokens {
			if strings.Contains(text, tok) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}
		likes := ParseChineseNumber(note.LikedCount)
		scored = append(scored, scoredNote{
			Note:      note,
			relevance: float64(matches)*10 + float64(likes)*0.01,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].relevance > scored[j].relevance })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	out := make([]Note, len(scored))
	for i, s := range scored {
		out[i] = s.Note
	}
	return out
}

// AggregateComments collects the comments of the given notes, most liked
// first, capped at 50.
func (r *RepositoryImpl) AggregateComments(noteIDs []string) []Comment {
	r.load()

	var all []Comment
	for _, id := range noteIDs {
		all = append(all, r.comments[id]...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return ParseChineseNumber(all[i].LikeCount) > ParseChineseNumber(all[j].LikeCount)
	})
	if len(all) > maxAggregatedComments {
		all = all[:maxAggregatedComments]
	}
	return all
}

// ParseChineseNumber converts count strings like "4.2万" or "1356" to an
// integer. Unparseable input counts as zero.
func ParseChineseNumber(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch {
	case strings.Contains(s, "万"):
		base, err := strconv.ParseFloat(strings.ReplaceAll(s, "万", ""), 64)
		if err != nil {
			return 0
		}
		return int(base * 10000)
	case strings.Contains(s, "千"):
		base, err := strconv.ParseFloat(strings.ReplaceAll(s, "千", ""), 64)
		if err != nil {
			return 0
		}
		return int(base * 1000)
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return int(f)
	}
}

// NoteLink returns the canonical URL for a note, constructing one from the
// note id when the corpus entry has none.
func NoteLink(n Note) string {
	if n.NoteURL != "" {
		return n.NoteURL
	}
	return fmt.Sprintf("https://www.xiaohongshu.com/explore/%s", n.NoteID)
}
