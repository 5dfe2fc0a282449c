// Package recipes queries the Spoonacular recipe API.
package recipes

import (
	"context"
	"html"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"healthchat/pkg/config"
	"healthchat/pkg/remote"

	"github.com/microcosm-cc/bluemonday"
)

const (
	serviceName  = "spoonacular"
	DefaultLimit = 8
	linkBase     = "https://spoonacular.com/recipes/"
)

// Summary is one search hit.
type Summary struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Image          string `json:"image"`
	ReadyInMinutes int    `json:"readyInMinutes"`
	Servings       int    `json:"servings"`
}

// Detail is the full information for one recipe. Summary is HTML.
type Detail struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Image          string `json:"image"`
	Summary        string `json:"summary"`
	Servings       int    `json:"servings"`
	ReadyInMinutes int    `json:"readyInMinutes"`
	SourceURL      string `json:"sourceUrl"`
}

var (
	stripPolicy     *bluemonday.Policy
	stripPolicyOnce sync.Once
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// SummaryText returns Summary with markup removed and entities decoded.
func (d Detail) SummaryText() string {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	text := html.UnescapeString(stripPolicy.Sanitize(d.Summary))
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// Link returns the public page of a search hit.
func Link(s Summary) string {
	return linkBase + whitespaceRun.ReplaceAllString(strings.TrimSpace(s.Title), "-") + "-" + strconv.Itoa(s.ID)
}

type searchResponse struct {
	Results []Summary `json:"results"`
}

// Client talks to Spoonacular.
type Client struct {
	http   *remote.Client
	apiKey string
	limit  int
}

// New builds a client from the recipes section of cfg.
func New(cfg config.Config) *Client {
	limit := cfg.Recipes.ResultLimit
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Client{
		http:   remote.NewClient(serviceName, cfg.Recipes.APIURL, time.Duration(cfg.Recipes.TimeoutSeconds)*time.Second),
		apiKey: strings.TrimSpace(cfg.Recipes.APIKey),
		limit:  limit,
	}
}

// Search returns up to limit recipes matching query. An empty query returns
// no results without a request. A non-positive limit uses the configured one.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Summary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Summary{}, nil
	}
	if c.apiKey == "" {
		return nil, &remote.ValidationError{Field: "recipes.api_key", Reason: "is required"}
	}
	if limit <= 0 {
		limit = c.limit
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("number", strconv.Itoa(limit))
	params.Set("addRecipeInformation", "true")
	params.Set("apiKey", c.apiKey)

	slog.Info("recipes_search", "query", query, "limit", limit)

	var resp searchResponse
	if err := c.http.GetJSON(ctx, "/complexSearch", params, &resp); err != nil {
		slog.Warn("recipes_search_error", "query", query, "error", err)
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []Summary{}
	}

	slog.Info("recipes_search_done", "query", query, "results", len(resp.Results))
	return resp.Results, nil
}

// Details fetches one recipe including nutrition.
func (c *Client) Details(ctx context.Context, id int) (Detail, error) {
	if id <= 0 {
		return Detail{}, &remote.ValidationError{Field: "id", Reason: "must be positive"}
	}
	if c.apiKey == "" {
		return Detail{}, &remote.ValidationError{Field: "recipes.api_key", Reason: "is required"}
	}

	params := url.Values{}
	params.Set("includeNutrition", "true")
	params.Set("apiKey", c.apiKey)

	slog.Info("recipes_details", "id", id)

	var detail Detail
	if err := c.http.GetJSON(ctx, "/"+strconv.Itoa(id)+"/information", params, &detail); err != nil {
		slog.Warn("recipes_details_error", "id", id, "error", err)
		return Detail{}, err
	}
	if detail.ID == 0 && strings.TrimSpace(detail.Title) == "" {
		slog.Warn("recipes_details_empty", "id", id)
		return Detail{}, &remote.EmptyResultError{Service: serviceName}
	}
	return detail, nil
}
