// Package search provides the web-search collaborator: a query in, a ranked
// list of result snippets out. The production implementation scrapes the
// DuckDuckGo HTML endpoint; consumers treat it as a black box and must
// tolerate empty results.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Result is one search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Client is the search collaborator contract.
type Client interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

const (
	duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"
	defaultTimeout     = 10 * time.Second
	userAgent          = "Mozilla/5.0 (compatible; wanderplan/1.0)"
)

// DuckDuckGoClient scrapes the HTML (non-JS) DuckDuckGo frontend.
type DuckDuckGoClient struct {
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Client = (*DuckDuckGoClient)(nil)

func NewDuckDuckGoClient(timeout time.Duration, logger *slog.Logger) *DuckDuckGoClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &DuckDuckGoClient{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Search fetches and parses one results page. Errors are returned to the
// caller, which is expected to fall back to static data.
func (c *DuckDuckGoClient) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	ctx, span := otel.Tracer("Search").Start(ctx, "Search")
	defer span.End()
	span.SetAttributes(attribute.String("search.query", query))

	endpoint := duckDuckGoEndpoint + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search request failed")
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("search returned status %d", resp.StatusCode)
		span.RecordError(err)
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	results := parseResults(doc, maxResults)
	c.logger.DebugContext(ctx, "Search completed",
		slog.String("query", query),
		slog.Int("results", len(results)),
	)
	return results, nil
}

func parseResults(doc *goquery.Document, maxResults int) []Result {
	var results []Result
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := sel.Find("a.result__a")
		href, _ := link.Attr("href")
		title := strings.TrimSpace(link.Text())
		snippet := strings.TrimSpace(sel.Find(".result__snippet").Text())

		if title == "" || href == "" {
			return true
		}
		results = append(results, Result{
			Title:   title,
			Link:    resolveRedirect(href),
			Snippet: snippet,
		})
		return maxResults <= 0 || len(results) < maxResults
	})
	return results
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links down to the
// target URL; unknown shapes pass through untouched.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		if decoded, err := url.QueryUnescape(target); err == nil {
			return decoded
		}
	}
	return href
}
