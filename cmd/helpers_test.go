package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sells-group/market-research-cli/internal/config"
)

// fakeWebhook answers every action with canned data and records the actions
// it saw.
type fakeWebhook struct {
	mu      sync.Mutex
	actions []string
	links   []string
	tiers   map[string][]string
	pages   map[string]any
}

func (f *fakeWebhook) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.actions...)
}

func (f *fakeWebhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	action, _ := body["actionID"].(string)
	f.mu.Lock()
	f.actions = append(f.actions, action)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch action {
	case "get_search_query":
		_ = json.NewEncoder(w).Encode(map[string]string{
			"search_query": body["topic"].(string) + " market size " + body["year"].(string),
		})
	case "search":
		start := int(body["start_index"].(float64))
		var items []map[string]string
		if start < len(f.links) {
			for _, l := range f.links[start:] {
				items = append(items, map[string]string{"link": l})
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	case "group_tiers":
		_ = json.NewEncoder(w).Encode(f.tiers)
	case "parse_page":
		link, _ := body["link"].(string)
		page, ok := f.pages[link]
		if !ok {
			http.Error(w, "upstream failure", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(page)
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
	}
}

func newFakeWebhook(t *testing.T) (*fakeWebhook, *httptest.Server) {
	t.Helper()
	f := &fakeWebhook{
		links: []string{"https://stats.gov/ev", "https://news.example/ev", "https://forum.example/ev"},
		tiers: map[string][]string{
			"tier_1": {"https://stats.gov/ev"},
			"tier_2": {"https://news.example/ev"},
			"tier_3": {"https://forum.example/ev"},
		},
		pages: map[string]any{
			"https://stats.gov/ev": map[string]any{
				"current_market_size": "$250B",
				"future_market_size":  "$1T by 2032",
				"quotes":              []string{"EV sales rose 35%"},
			},
			"https://news.example/ev": map[string]any{
				"current_market_size": "$240B",
				"quotes":              []string{"analysts expect growth"},
			},
		},
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func testConfig(webhookURL, converterURL string) *config.Config {
	return &config.Config{
		Webhook: config.WebhookConfig{
			URL:         webhookURL,
			TimeoutSecs: 10,
			UserAgent:   "market-research-cli/test",
		},
		Converter: config.ConverterConfig{
			URL:         converterURL,
			TimeoutSecs: 5,
		},
		Pipeline: config.PipelineConfig{
			MaxResults:       20,
			MaxSearchPages:   3,
			ChunkSize:        2,
			ParseTimeoutSecs: 5,
			CacheTTLMinutes:  60,
		},
	}
}
