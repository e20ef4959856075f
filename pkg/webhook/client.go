// Package webhook provides a client for the market research automation
// webhook. Every operation is a JSON POST to a single URL, tagged with an
// actionID.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/sells-group/market-research-cli/internal/fetcher"
)

// Action identifies the webhook operation.
type Action string

const (
	ActionGetSearchQuery Action = "get_search_query"
	ActionSearch         Action = "search"
	ActionGroupTiers     Action = "group_tiers"
	ActionParsePage      Action = "parse_page"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionGetSearchQuery, ActionSearch, ActionGroupTiers, ActionParsePage:
		return true
	}
	return false
}

// Client defines the automation webhook operations.
type Client interface {
	// GetSearchQuery asks the webhook to build a search string for a topic.
	GetSearchQuery(ctx context.Context, req SearchQueryRequest) (string, error)
	// Search returns one page of search results starting at startIndex.
	Search(ctx context.Context, query string, startIndex int) (*SearchResponse, error)
	// GroupTiers partitions links into three priority tiers.
	GroupTiers(ctx context.Context, links []string, topic string) (*GroupTiersResponse, error)
	// ParsePage extracts market-size data from a single link.
	ParsePage(ctx context.Context, link string) (*ParsePageResponse, error)
}

// SearchQueryRequest is the payload for get_search_query.
type SearchQueryRequest struct {
	Topic   string
	Year    string
	Country string
	Region  string
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Items []SearchItem `json:"items"`
}

// SearchItem is a single search hit.
type SearchItem struct {
	Link string `json:"link"`
}

// GroupTiersResponse holds links partitioned by tier.
type GroupTiersResponse struct {
	Tier1 []string `json:"tier_1"`
	Tier2 []string `json:"tier_2"`
	Tier3 []string `json:"tier_3"`
}

// ParsePageResponse is the market-size extraction for one page.
type ParsePageResponse struct {
	CurrentMarketSize string   `json:"current_market_size"`
	FutureMarketSize  string   `json:"future_market_size"`
	Quotes            []string `json:"quotes"`
}

// MissingFieldError is returned when a required response field is absent.
type MissingFieldError struct {
	Action Action
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("webhook: %s response missing %q", e.Action, e.Field)
}

// ErrStringPayload is returned when parse_page answers with a bare JSON
// string instead of an object.
var ErrStringPayload = eris.New("webhook: parse_page returned a plain string")

// Option configures the webhook client.
type Option func(*httpClient)

// WithFetcher sets the HTTP wrapper used for every call.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *httpClient) {
		c.fetcher = f
	}
}

type httpClient struct {
	url     string
	fetcher fetcher.Fetcher
}

// NewClient creates a webhook client posting to url.
func NewClient(url string, opts ...Option) Client {
	c := &httpClient{url: url}
	for _, opt := range opts {
		opt(c)
	}
	if c.fetcher == nil {
		c.fetcher = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{})
	}
	return c
}

// post sends fields tagged with action and returns the raw response body.
func (c *httpClient) post(ctx context.Context, action Action, fields map[string]any) ([]byte, error) {
	if !action.Valid() {
		return nil, eris.Errorf("webhook: unknown action %q", action)
	}

	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["actionID"] = action

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, eris.Wrapf(err, "webhook: marshal %s request", action)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(raw))
	if err != nil {
		return nil, eris.Wrapf(err, "webhook: create %s request", action)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.fetcher.Do(ctx, req)
	if err != nil {
		return nil, eris.Wrapf(err, "webhook: %s", action)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "webhook: read %s response", action)
	}
	return respBody, nil
}

func (c *httpClient) GetSearchQuery(ctx context.Context, req SearchQueryRequest) (string, error) {
	body, err := c.post(ctx, ActionGetSearchQuery, map[string]any{
		"topic":   req.Topic,
		"year":    req.Year,
		"country": req.Country,
		"region":  req.Region,
	})
	if err != nil {
		return "", err
	}

	var result struct {
		SearchQuery *string `json:"search_query"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", eris.Wrap(err, "webhook: unmarshal get_search_query response")
	}
	if result.SearchQuery == nil || *result.SearchQuery == "" {
		return "", &MissingFieldError{Action: ActionGetSearchQuery, Field: "search_query"}
	}
	return *result.SearchQuery, nil
}

func (c *httpClient) Search(ctx context.Context, query string, startIndex int) (*SearchResponse, error) {
	body, err := c.post(ctx, ActionSearch, map[string]any{
		"query":       query,
		"start_index": startIndex,
	})
	if err != nil {
		return nil, err
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "webhook: unmarshal search response")
	}
	return &result, nil
}

func (c *httpClient) GroupTiers(ctx context.Context, links []string, topic string) (*GroupTiersResponse, error) {
	if links == nil {
		links = []string{}
	}
	body, err := c.post(ctx, ActionGroupTiers, map[string]any{
		"links": links,
		"topic": topic,
	})
	if err != nil {
		return nil, err
	}

	var result GroupTiersResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "webhook: unmarshal group_tiers response")
	}
	return &result, nil
}

func (c *httpClient) ParsePage(ctx context.Context, link string) (*ParsePageResponse, error) {
	body, err := c.post(ctx, ActionParsePage, map[string]any{"link": link})
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return nil, ErrStringPayload
	}

	var result ParsePageResponse
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return nil, eris.Wrap(err, "webhook: unmarshal parse_page response")
	}
	return &result, nil
}
