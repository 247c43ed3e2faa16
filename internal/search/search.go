package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"aio-chat/internal/cache"
	"aio-chat/internal/retry"
)

const (
	DefaultLimit = 5
	MaxLimit     = 10

	userAgent          = "AIO Travel Itinerary Assistant/1.0"
	maxBodyBytes       = 2 << 20
	titleFallbackRunes = 100
)

type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher looks up a query on the web. It always returns at least one
// result; failures are reported as a placeholder result.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) []Result
}

// DuckDuckGo queries the DuckDuckGo Instant Answer API.
type DuckDuckGo struct {
	log     *slog.Logger
	http    *http.Client
	baseURL string
	cache   cache.Cache
	ttl     time.Duration
}

func NewDuckDuckGo(log *slog.Logger, baseURL string, timeout time.Duration, c cache.Cache, ttl time.Duration) *DuckDuckGo {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &DuckDuckGo{
		log:     log,
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		cache:   c,
		ttl:     ttl,
	}
}

// ClampLimit keeps limit within [1, MaxLimit]; zero or less means DefaultLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) []Result {
	limit = ClampLimit(limit)
	key := cache.Key(cache.NamespaceSearch, query, strconv.Itoa(limit))

	if hits, err := d.cache.GetSearchResults(ctx, key); err != nil {
		d.log.Warn("search cache read failed", "err", err)
	} else if hits != nil {
		return fromHits(hits)
	}

	var body []byte
	err := retry.Do(ctx, 2, 250*time.Millisecond, func(ctx context.Context) error {
		var err error
		body, err = d.fetch(ctx, query)
		return err
	})
	if err != nil {
		d.log.Warn("web search failed", "query", query, "err", err)
		return []Result{unavailable(query)}
	}

	results := parse(body, query, limit)
	if err := d.cache.SetSearchResults(ctx, key, toHits(results), d.ttl); err != nil {
		d.log.Warn("search cache write failed", "err", err)
	}
	return results
}

func (d *DuckDuckGo) fetch(ctx context.Context, query string) ([]byte, error) {
	u, err := url.Parse(d.baseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API request failed: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("search API returned invalid JSON")
	}
	return body, nil
}

// parse reads related topics first, then the abstract, then falls back to a placeholder.
func parse(body []byte, query string, limit int) []Result {
	var results []Result

	topics := gjson.GetBytes(body, "RelatedTopics").Array()
	if len(topics) > limit {
		topics = topics[:limit]
	}
	for _, topic := range topics {
		text := topic.Get("Text").String()
		link := topic.Get("FirstURL").String()
		if text == "" || link == "" {
			continue
		}
		results = append(results, Result{Title: topicTitle(text), URL: link, Snippet: text})
	}

	if len(results) == 0 {
		if abstract := gjson.GetBytes(body, "Abstract").String(); abstract != "" {
			results = append(results, Result{
				Title:   orDefault(gjson.GetBytes(body, "Heading").String(), "Search Result"),
				URL:     orDefault(gjson.GetBytes(body, "AbstractURL").String(), "#"),
				Snippet: abstract,
			})
		}
	}

	if len(results) == 0 {
		results = append(results, Result{
			Title:   "Search results for: " + query,
			URL:     "#",
			Snippet: fmt.Sprintf("No specific web search results found for \"%s\". This is a placeholder result as web search functionality requires additional API setup.", query),
		})
	}
	return results
}

func unavailable(query string) Result {
	return Result{
		Title:   "Search results for: " + query,
		URL:     "#",
		Snippet: fmt.Sprintf("Web search temporarily unavailable. This is a mock result for \"%s\". To enable real web search, configure a search API provider.", query),
	}
}

func topicTitle(text string) string {
	if title, _, _ := strings.Cut(text, " - "); title != "" {
		return title
	}
	r := []rune(text)
	if len(r) > titleFallbackRunes {
		r = r[:titleFallbackRunes]
	}
	return string(r)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// FormatForPrompt renders results as the block appended to a user message.
// It returns "" when there is nothing to add.
func FormatForPrompt(query string, results []Result) string {
	if len(results) == 0 {
		return ""
	}
	items := make([]string, 0, len(results))
	for i, r := range results {
		items = append(items, fmt.Sprintf("%d. %s\n   %s\n   URL: %s", i+1, r.Title, r.Snippet, r.URL))
	}
	return fmt.Sprintf("\n\n--- Web Search Results for \"%s\" ---\n%s\n--- End of Search Results ---\n", query, strings.Join(items, "\n\n"))
}

func toHits(results []Result) []cache.SearchHit {
	hits := make([]cache.SearchHit, len(results))
	for i, r := range results {
		hits[i] = cache.SearchHit{Title: r.Title, URL: r.URL, Snippet: r.Snippet}
	}
	return hits
}

func fromHits(hits []cache.SearchHit) []Result {
	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{Title: h.Title, URL: h.URL, Snippet: h.Snippet}
	}
	return results
}
