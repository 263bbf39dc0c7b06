// Package hotspots finds a city's recent and upcoming events: concerts,
// exhibitions, festivals, races. Search hits are weighted locally by source,
// keywords and recency, then the LLM curates the survivors into a ranked
// list. Results only decorate chat replies and a side list; failures always
// degrade to a fixed fallback.
package hotspots

import (
	"context"
	"crypto/md5"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wanderplan/wanderplan/app/observability/metrics"
	generativeAI "github.com/wanderplan/wanderplan/internal/api/generative_ai"
	"github.com/wanderplan/wanderplan/internal/api/llmparse"
	"github.com/wanderplan/wanderplan/internal/api/search"
	"github.com/wanderplan/wanderplan/internal/types"
)

const (
	maxResultsPerQuery = 6
	maxCandidates      = 16
	maxHotspots        = 8
	curationMaxTokens  = 1200
)

type Service interface {
	SearchCityHotspots(ctx context.Context, destination string) []types.Hotspot
}

type ServiceImpl struct {
	searchClient search.Client
	completer    generativeAI.Completer
	cache        *cache.Cache
	logger       *slog.Logger
	now          func() time.Time
}

var _ Service = (*ServiceImpl)(nil)

func NewService(searchClient search.Client, completer generativeAI.Completer, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		searchClient: searchClient,
		completer:    completer,
		cache:        cache.New(30*time.Minute, 10*time.Minute),
		logger:       logger,
		now:          time.Now,
	}
}

// SearchCityHotspots returns the city's ranked hotspot list, falling back to
// a fixed 3-item list on any failure.
func (s *ServiceImpl) SearchCityHotspots(ctx context.Context, destination string) []types.Hotspot {
	ctx, span := otel.Tracer("HotspotsService").Start(ctx, "SearchCityHotspots")
	defer span.End()
	span.SetAttributes(attribute.String("trip.destination", destination))

	if cached, found := s.cache.Get(destination); found {
		if list, ok := cached.([]types.Hotspot); ok {
			return list
		}
	}

	list, err := s.searchAndCurate(ctx, destination)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "hotspot search failed, using fallback")
		s.logger.WarnContext(ctx, "Falling back to static hotspots",
			slog.String("destination", destination),
			slog.Any("error", err),
		)
		if m := metrics.TryGet(); m != nil {
			m.CollaboratorFallbacks.Add(ctx, 1)
		}
		return FallbackHotspots(destination)
	}

	s.cache.Set(destination, list, cache.DefaultExpiration)
	return list
}

// buildQueries fans out over event types and the months around now.
// Duplicates are dropped while preserving order.
func buildQueries(destination string, now time.Time) []string {
	thisMonth := now.Format("January 2006")
	nextMonth := now.AddDate(0, 1, 0).Format("January 2006")
	prevMonth := now.AddDate(0, -1, 0).Format("January 2006")
	year := now.Format("2006")

	base := []string{
		fmt.Sprintf("%s events concerts exhibitions %s", destination, thisMonth),
		fmt.Sprintf("%s events festivals %s", destination, nextMonth),
		fmt.Sprintf("%s events festivals %s", destination, prevMonth),
		fmt.Sprintf("%s concerts %s", destination, thisMonth),
		fmt.Sprintf("%s music festival %s", destination, year),
		fmt.Sprintf("%s exhibition %s", destination, thisMonth),
		fmt.Sprintf("%s marathon race %s", destination, year),
		fmt.Sprintf("%s family activities %s", destination, thisMonth),
		fmt.Sprintf("%s theatre shows %s", destination, thisMonth),
	}

	seen := map[string]bool{}
	out := base[:0]
	for _, q := range base {
		if !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}
	return out
}

type weightedHit struct {
	search.Result
	score float64
}

func (s *ServiceImpl) searchAndCurate(ctx context.Context, destination string) ([]types.Hotspot, error) {
	now := s.now()

	var hits []search.Result
	seenLinks := map[string]bool{}
	for _, q := range buildQueries(destination, now) {
		results, err := s.searchClient.Search(ctx, q, maxResultsPerQuery)
		if err != nil {
			s.logger.DebugContext(ctx, "Hotspot query failed", slog.String("query", q), slog.Any("error", err))
			continue
		}
		for _, r := range results {
			if r.Link == "" || seenLinks[r.Link] {
				continue
			}
			seenLinks[r.Link] = true
			hits = append(hits, r)
		}
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("no hotspot search results for %q", destination)
	}

	var weighted []weightedHit
	for _, h := range hits {
		text := h.Title + " " + h.Snippet
		dates := extractDates(text, now.Year())
		if !inTimeWindow(dates, now) {
			continue
		}
		weighted = append(weighted, weightedHit{
			Result: h,
			score:  domainWeight(h.Link) * keywordWeight(text) * recencyScore(dates, now),
		})
	}
	if len(weighted) == 0 {
		return nil, fmt.Errorf("all hotspot hits outside the time window")
	}

	sort.SliceStable(weighted, func(i, j int) bool { return weighted[i].score > weighted[j].score })
	if len(weighted) > maxCandidates {
		weighted = weighted[:maxCandidates]
	}

	return s.curate(ctx, destination, weighted, now)
}

func (s *ServiceImpl) curate(ctx context.Context, destination string, candidates []weightedHit, now time.Time) ([]types.Hotspot, error) {
	var contextBlock strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&contextBlock, "[%d] Title: %s\nLink: %s\nSnippet: %s\n---\n", i+1, c.Title, c.Link, c.Snippet)
	}

	userPrompt := fmt.Sprintf(`Current date: %s

From the search snippets about %q below, extract 5-8 of the city's most
recent or upcoming hotspot events (concerts, music festivals, exhibitions,
festivals, races, family or art events).

Prefer events dated within 1-2 months of today. Rank 1 is the hottest.
Ranking rules:
1) events with an explicit date or date range first;
2) upcoming events over just-finished ones;
3) more trusted sources (official, ticketing, major media) first;
4) larger events (festivals, concerts, races, trade shows) first.

Search snippets:
%s

Output strict JSON only:
{
  "hotspots": [
    {
      "title": "event name",
      "category": "concert/exhibition/festival/race/show/family",
      "rank": 1,
      "description": "one sentence including the concrete date and venue",
      "source_url": "the most trusted link from the snippets"
    }
  ]
}

Ranks must increase from 1 without gaps. Output JSON only.`,
		now.Format("2006-01-02"), destination, contextBlock.String())

	reply, err := s.completer.CompleteText(ctx,
		"You are a local events curator who extracts recent and upcoming activities from search results.",
		userPrompt, curationMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("curate hotspots: %w", err)
	}

	var parsed struct {
		Hotspots []struct {
			Title       string `json:"title"`
			Category    string `json:"category"`
			Rank        int    `json:"rank"`
			Description string `json:"description"`
			SourceURL   string `json:"source_url"`
		} `json:"hotspots"`
	}
	if err := llmparse.DecodeObject(reply, &parsed); err != nil {
		return nil, fmt.Errorf("parse hotspot list: %w", err)
	}
	if len(parsed.Hotspots) == 0 {
		return nil, fmt.Errorf("no hotspots in model response")
	}

	list := make([]types.Hotspot, 0, maxHotspots)
	for i, h := range parsed.Hotspots {
		if len(list) == maxHotspots {
			break
		}
		title := strings.TrimSpace(h.Title)
		if title == "" {
			title = "Unknown hotspot"
		}
		desc := strings.TrimSpace(h.Description)
		if desc == "" {
			desc = "Popular city event"
		}
		category := strings.TrimSpace(h.Category)
		if category == "" {
			category = "event"
		}
		list = append(list, types.Hotspot{
			ID:          hotspotID(title, desc),
			Title:       title,
			Rank:        i + 1,
			Category:    category,
			Description: desc,
			SourceURL:   h.SourceURL,
		})
	}
	return list, nil
}

// hotspotID hashes title+description so the same event keeps a stable id
// across refreshes.
func hotspotID(title, description string) string {
	sum := md5.Sum([]byte(title + "-" + description))
	return fmt.Sprintf("hot_%x", sum[:4])
}

// FallbackHotspots is returned when search or curation fails.
func FallbackHotspots(destination string) []types.Hotspot {
	return []types.Hotspot{
		{ID: "hot_fallback_1", Title: destination + " City Light Show", Rank: 1, Category: "show", Description: "Nightly light show drawing big crowds"},
		{ID: "hot_fallback_2", Title: destination + " Food Festival", Rank: 2, Category: "festival", Description: "Local specialty food stalls in one place"},
		{ID: "hot_fallback_3", Title: destination + " International Expo", Rank: 3, Category: "exhibition", Description: "Large themed exhibition"},
	}
}
