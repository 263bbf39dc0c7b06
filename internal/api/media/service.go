package media

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	generativeAI "github.com/wanderplan/wanderplan/internal/api/generative_ai"
	"github.com/wanderplan/wanderplan/internal/api/llmparse"
	"github.com/wanderplan/wanderplan/internal/types"
)

const (
	reportMaxTokens  = 800
	notesInPrompt    = 5
	commentsInPrompt = 20
	topArticleLinks  = 3
	snippetMaxRunes  = 300
)

type Service interface {
	LookupMediaRating(ctx context.Context, spotName, city string) types.MediaReport
}

type ServiceImpl struct {
	repo      Repository
	completer generativeAI.Completer
	logger    *slog.Logger
}

var _ Service = (*ServiceImpl)(nil)

func NewService(repo Repository, completer generativeAI.Completer, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:      repo,
		completer: completer,
		logger:    logger,
	}
}

// LookupMediaRating builds a rating report for one spot. It always returns a
// report value; Success=false marks "no posts found" and "analysis failed".
func (s *ServiceImpl) LookupMediaRating(ctx context.Context, spotName, city string) types.MediaReport {
	ctx, span := otel.Tracer("MediaService").Start(ctx, "LookupMediaRating")
	defer span.End()
	span.SetAttributes(
		attribute.String("media.spot", spotName),
		attribute.String("media.city", city),
	)

	query := spotName
	if city != "" {
		query = city + " " + spotName
	}

	notes := s.repo.SearchRelevantNotes(query, maxRelevantNotes)
	if len(notes) == 0 {
		span.SetStatus(codes.Error, "no posts found")
		return types.MediaReport{
			Success:  false,
			SpotName: spotName,
			Summary:  fmt.Sprintf("No social posts found about %q.", spotName),
		}
	}

	noteIDs := make([]string, 0, len(notes))
	for _, n := range notes {
		if n.NoteID != "" {
			noteIDs = append(noteIDs, n.NoteID)
		}
	}
	comments := s.repo.AggregateComments(noteIDs)
	span.SetAttributes(
		attribute.Int("media.notes", len(notes)),
		attribute.Int("media.comments", len(comments)),
	)

	reply, err := s.completer.CompleteText(ctx,
		`You are a travel and dining review analyst. From the social posts and
reader comments provided, return a rating report as strict JSON:
{"rating": 1-5 with one decimal, "summary": "one sentence", "highlights": ["3-5 short points"], "concerns": ["0-3 short points"]}
Output JSON only.`,
		fmt.Sprintf("Target spot: %s\n\n%s\n\nGenerate the rating report now.", spotName, formatCorpusForPrompt(notes, comments)),
		reportMaxTokens)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "media analysis failed")
		s.logger.WarnContext(ctx, "Media rating analysis failed",
			slog.String("spot", spotName),
			slog.Any("error", err),
		)
		return types.MediaReport{
			Success:      false,
			SpotName:     spotName,
			Summary:      fmt.Sprintf("Could not analyze posts about %q right now.", spotName),
			ArticleCount: len(notes),
			CommentCount: len(comments),
		}
	}

	var analysis struct {
		Rating     float64  `json:"rating"`
		Summary    string   `json:"summary"`
		Highlights []string `json:"highlights"`
		Concerns   []string `json:"concerns"`
	}
	if err := llmparse.DecodeObject(reply, &analysis); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "media report parse failed")
		return types.MediaReport{
			Success:      false,
			SpotName:     spotName,
			Summary:      fmt.Sprintf("Could not analyze posts about %q right now.", spotName),
			ArticleCount: len(notes),
			CommentCount: len(comments),
		}
	}

	if analysis.Rating <= 0 || analysis.Rating > 5 {
		analysis.Rating = 4.0
	}
	if analysis.Summary == "" {
		analysis.Summary = "Generally well reviewed"
	}

	articles := make([]types.MediaArticle, 0, topArticleLinks)
	for _, n := range notes {
		if len(articles) == topArticleLinks {
			break
		}
		title := n.Title
		if title == "" {
			title = "Untitled post"
		}
		articles = append(articles, types.MediaArticle{
			Title:  title,
			URL:    NoteLink(n),
			NoteID: n.NoteID,
		})
	}

	return types.MediaReport{
		Success:      true,
		SpotName:     spotName,
		Rating:       analysis.Rating,
		Summary:      analysis.Summary,
		Highlights:   analysis.Highlights,
		Concerns:     analysis.Concerns,
		ArticleCount: len(notes),
		CommentCount: len(comments),
		TopArticles:  articles,
	}
}

func formatCorpusForPrompt(notes []Note, comments []Comment) string {
	var b strings.Builder
	b.WriteString("[Related posts]\n\n")
	for i, n := range notes {
		if i == notesInPrompt {
			break
		}
		title := n.Title
		if title == "" {
			title = "Untitled"
		}
		author := n.Nickname
		if author == "" {
			author = "anonymous"
		}
		body := []rune(n.Desc)
		if len(body) > snippetMaxRunes {
			body = body[:snippetMaxRunes]
		}
		fmt.Fprintf(&b, "Post %d: %s\nAuthor: %s | Likes: %s\nExcerpt: %s...\n\n", i+1, title, author, n.LikedCount, string(body))
	}
	b.WriteString("[Top reader comments]\n\n")
	for i, c := range comments {
		if i == commentsInPrompt {
			break
		}
		fmt.Fprintf(&b, "%d. %s (likes: %s)\n", i+1, c.Content, c.LikeCount)
	}
	return b.String()
}

// FormatReportForUser renders a report as the chat message shown to the user.
func FormatReportForUser(report types.MediaReport) string {
	if !report.Success {
		if report.Summary != "" {
			return report.Summary
		}
		return "Media rating lookup failed."
	}

	full := int(report.Rating)
	if full > 5 {
		full = 5
	}
	stars := strings.Repeat("⭐", full) + strings.Repeat("☆", 5-full)

	var b strings.Builder
	fmt.Fprintf(&b, "📱 Social media rating: %s\n\n%s %.1f/5.0\n\n📝 Overall:\n%s\n", report.SpotName, stars, report.Rating, report.Summary)

	if len(report.Highlights) > 0 {
		b.WriteString("\n✨ Highlights:\n")
		for i, h := range report.Highlights {
			fmt.Fprintf(&b, "%d. %s\n", i+1, h)
		}
	}
	if len(report.Concerns) > 0 {
		b.WriteString("\n⚠️ Watch out for:\n")
		for i, c := range report.Concerns {
			fmt.Fprintf(&b, "%d. %s\n", i+1, c)
		}
	}
	if len(report.TopArticles) > 0 {
		b.WriteString("\n🔗 Reference posts:\n")
		for _, a := range report.TopArticles {
			fmt.Fprintf(&b, "• %s\n  %s\n", a.Title, a.URL)
		}
	}
	fmt.Fprintf(&b, "\n(Based on %d posts and %d comments)", report.ArticleCount, report.CommentCount)
	return b.String()
}
