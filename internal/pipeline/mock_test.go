package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/market-research-cli/pkg/webhook"
)

// --- Webhook Mock ---

type mockWebhook struct {
	mock.Mock
}

func (m *mockWebhook) GetSearchQuery(ctx context.Context, req webhook.SearchQueryRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockWebhook) Search(ctx context.Context, query string, startIndex int) (*webhook.SearchResponse, error) {
	args := m.Called(ctx, query, startIndex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*webhook.SearchResponse), args.Error(1)
}

func (m *mockWebhook) GroupTiers(ctx context.Context, links []string, topic string) (*webhook.GroupTiersResponse, error) {
	args := m.Called(ctx, links, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*webhook.GroupTiersResponse), args.Error(1)
}

func (m *mockWebhook) ParsePage(ctx context.Context, link string) (*webhook.ParsePageResponse, error) {
	args := m.Called(ctx, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*webhook.ParsePageResponse), args.Error(1)
}

// page builds a search response from links.
func page(links ...string) *webhook.SearchResponse {
	items := make([]webhook.SearchItem, len(links))
	for i, l := range links {
		items[i] = webhook.SearchItem{Link: l}
	}
	return &webhook.SearchResponse{Items: items}
}

// parsed builds a parse_page response with a single quote.
func parsed(size string) *webhook.ParsePageResponse {
	return &webhook.ParsePageResponse{
		CurrentMarketSize: size,
		Quotes:            []string{"quote for " + size},
	}
}
