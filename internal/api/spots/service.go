// Package spots turns web search results into the session's candidate spot
// pool. The LLM collaborator condenses raw snippets into structured spots; any
// failure along the way degrades to a static fallback pool so planning can
// always proceed.
package spots

import (
	"context"
	"fmt"
	"log/slog"
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
	maxSpots          = 8
	maxSearchResults  = 10
	summaryMaxTokens  = 1000
	placeholderImage  = "https://via.placeholder.com/300x200?text=POI"
)

// Service fetches candidate spots for a destination.
type Service interface {
	FetchCandidateSpots(ctx context.Context, destination string, interests []string) []types.CandidateSpot
}

type ServiceImpl struct {
	searchClient search.Client
	completer    generativeAI.Completer
	cache        *cache.Cache
	logger       *slog.Logger
}

var _ Service = (*ServiceImpl)(nil)

func NewService(searchClient search.Client, completer generativeAI.Completer, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		searchClient: searchClient,
		completer:    completer,
		cache:        cache.New(1*time.Hour, 10*time.Minute),
		logger:       logger,
	}
}

// FetchCandidateSpots searches the web for popular spots matching the
// interests and has the LLM distill them into a ranked pool. Never returns an
// empty slice: every failure path yields the static fallback pool.
func (s *ServiceImpl) FetchCandidateSpots(ctx context.Context, destination string, interests []string) []types.CandidateSpot {
	ctx, span := otel.Tracer("SpotsService").Start(ctx, "FetchCandidateSpots")
	defer span.End()
	span.SetAttributes(attribute.String("trip.destination", destination))

	cacheKey := destination + "|" + strings.Join(interests, ",")
	if cached, found := s.cache.Get(cacheKey); found {
		if pool, ok := cached.([]types.CandidateSpot); ok {
			return pool
		}
	}

	pool, err := s.fetchFromWeb(ctx, destination, interests)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "web fetch failed, using fallback")
		s.logger.WarnContext(ctx, "Falling back to static spots",
			slog.String("destination", destination),
			slog.Any("error", err),
		)
		if m := metrics.TryGet(); m != nil {
			m.CollaboratorFallbacks.Add(ctx, 1)
		}
		return FallbackSpots(destination)
	}

	s.cache.Set(cacheKey, pool, cache.DefaultExpiration)
	return pool
}

func (s *ServiceImpl) fetchFromWeb(ctx context.Context, destination string, interests []string) ([]types.CandidateSpot, error) {
	interestsStr := "attractions"
	if len(interests) > 0 {
		interestsStr = strings.Join(interests, ", ")
	}
	query := fmt.Sprintf("%s popular %s spots travel guide", destination, interestsStr)

	results, err := s.searchClient.Search(ctx, query, maxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("search spots: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("search returned no results for %q", query)
	}

	var contextBlock strings.Builder
	for i, r := range results {
		fmt.Fprintf(&contextBlock, "[%d] %s\n%s\n%s\n---\n", i+1, r.Title, r.Link, r.Snippet)
	}

	userPrompt := fmt.Sprintf(`From the following search results about %s, extract the most popular
attractions and places to visit.

Search results:
%s

Return a JSON object with a spot list; each spot has:
- title: the place name
- category: one of "sightseeing", "food", "shopping", "culture", "outdoor" or similar
- rating: a recommendation score between 4.0 and 5.0
- description: one short sentence

Format:
{
  "spots": [
    {"title": "...", "category": "...", "rating": 4.5, "description": "..."},
    ...
  ]
}

Extract at most %d spots, ordered by popularity.`, destination, contextBlock.String(), maxSpots)

	reply, err := s.completer.CompleteText(ctx,
		"You are a travel expert who analyzes and organizes tourism information.",
		userPrompt, summaryMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("summarize spots: %w", err)
	}

	var parsed struct {
		Spots []struct {
			Title       string  `json:"title"`
			Category    string  `json:"category"`
			Rating      float64 `json:"rating"`
			Description string  `json:"description"`
		} `json:"spots"`
	}
	if err := llmparse.DecodeObject(reply, &parsed); err != nil {
		return nil, fmt.Errorf("parse spot list: %w", err)
	}

	pool := make([]types.CandidateSpot, 0, maxSpots)
	for idx, raw := range parsed.Spots {
		if len(pool) == maxSpots {
			break
		}
		spot, err := types.NewCandidateSpot(fmt.Sprintf("web_%d", idx+1), raw.Title, raw.Category, raw.Rating)
		if err != nil {
			continue // skip malformed entries rather than failing the pool
		}
		spot.Description = raw.Description
		spot.ImageURL = placeholderImage
		pool = append(pool, spot)
	}

	if len(pool) == 0 {
		return nil, fmt.Errorf("no usable spots extracted")
	}
	return pool, nil
}

// FallbackSpots is the static pool used whenever search or summarization
// fails. Always at least 3 generic spots.
func FallbackSpots(destination string) []types.CandidateSpot {
	return []types.CandidateSpot{
		{ID: "fallback_1", Title: destination + " Top Sights", Rating: 4.6, Category: "sightseeing", ImageURL: placeholderImage},
		{ID: "fallback_2", Title: destination + " Food Street", Rating: 4.4, Category: "food", ImageURL: placeholderImage},
		{ID: "fallback_3", Title: destination + " Shopping District", Rating: 4.5, Category: "shopping", ImageURL: placeholderImage},
	}
}
