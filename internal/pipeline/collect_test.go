package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/market-research-cli/pkg/webhook"
)

func uniqueLinks(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("https://%s.example/%d", prefix, i)
	}
	return out
}

func TestCollectLinks_CallCount(t *testing.T) {
	tests := []struct {
		name      string
		perPage   int
		target    int
		wantCalls int
	}{
		{name: "exact multiple", perPage: 10, target: 20, wantCalls: 2},
		{name: "remainder", perPage: 3, target: 7, wantCalls: 3},
		{name: "single page overshoot", perPage: 10, target: 4, wantCalls: 1},
		{name: "one per page", perPage: 1, target: 5, wantCalls: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			all := uniqueLinks("s", tt.perPage*tt.wantCalls)
			wh := &mockWebhook{}
			for call := 0; call < tt.wantCalls; call++ {
				offset := call * tt.perPage
				wh.On("Search", mock.Anything, "q", offset).
					Return(page(all[offset:offset+tt.perPage]...), nil).Once()
			}

			links, err := CollectLinks(context.Background(), wh, "q", tt.target, CollectOptions{MaxResults: 20, MaxPages: 10})
			require.NoError(t, err)
			assert.Len(t, links, tt.target)
			assert.Equal(t, all[:tt.target], links)
			wh.AssertNumberOfCalls(t, "Search", tt.wantCalls)
			wh.AssertExpectations(t)
		})
	}
}

func TestCollectLinks_DedupAndOffsetAdvance(t *testing.T) {
	wh := &mockWebhook{}
	wh.On("Search", mock.Anything, "q", 0).Return(page("a", "b", "a"), nil).Once()
	// Duplicate-only page still advances by its own length.
	wh.On("Search", mock.Anything, "q", 3).Return(page("b", "a"), nil).Once()
	wh.On("Search", mock.Anything, "q", 5).Return(page("c", "", "d", "e"), nil).Once()

	links, err := CollectLinks(context.Background(), wh, "q", 4, CollectOptions{MaxPages: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, links)
	wh.AssertExpectations(t)
}

func TestCollectLinks_NeverDuplicates(t *testing.T) {
	wh := &mockWebhook{}
	wh.On("Search", mock.Anything, "q", 0).Return(page("x", "y", "x", "z", "y"), nil).Once()

	links, err := CollectLinks(context.Background(), wh, "q", 3, CollectOptions{})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, l := range links {
		assert.False(t, seen[l], "duplicate %s", l)
		seen[l] = true
	}
	assert.Equal(t, []string{"x", "y", "z"}, links)
}

func TestCollectLinks_StopsOnEmptyPage(t *testing.T) {
	wh := &mockWebhook{}
	wh.On("Search", mock.Anything, "q", 0).Return(page("a", "b"), nil).Once()
	wh.On("Search", mock.Anything, "q", 2).Return(page(), nil).Once()

	links, err := CollectLinks(context.Background(), wh, "q", 10, CollectOptions{MaxPages: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, links)
	wh.AssertNumberOfCalls(t, "Search", 2)
}

func TestCollectLinks_StopsAtPageLimit(t *testing.T) {
	wh := &mockWebhook{}
	// The endpoint keeps repeating the same link forever.
	wh.On("Search", mock.Anything, "q", mock.AnythingOfType("int")).Return(page("same"), nil)

	links, err := CollectLinks(context.Background(), wh, "q", 5, CollectOptions{MaxPages: 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"same"}, links)
	wh.AssertNumberOfCalls(t, "Search", 4)
}

func TestCollectLinks_ClampsToMaxResults(t *testing.T) {
	all := uniqueLinks("c", 30)
	wh := &mockWebhook{}
	wh.On("Search", mock.Anything, "q", 0).Return(page(all...), nil).Once()

	links, err := CollectLinks(context.Background(), wh, "q", 50, CollectOptions{MaxResults: 20})
	require.NoError(t, err)
	assert.Len(t, links, 20)
}

func TestCollectLinks_InvalidCount(t *testing.T) {
	wh := &mockWebhook{}
	_, err := CollectLinks(context.Background(), wh, "q", 0, CollectOptions{})
	require.Error(t, err)
	wh.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestCollectLinks_PropagatesError(t *testing.T) {
	boom := errors.New("webhook down")
	wh := &mockWebhook{}
	wh.On("Search", mock.Anything, "q", 0).Return(page("a"), nil).Once()
	wh.On("Search", mock.Anything, "q", 1).Return(nil, boom).Once()

	links, err := CollectLinks(context.Background(), wh, "q", 5, CollectOptions{MaxPages: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, links)
}

func TestCollectLinks_UsesSearchItems(t *testing.T) {
	wh := &mockWebhook{}
	wh.On("Search", mock.Anything, "q", 0).Return(&webhook.SearchResponse{Items: []webhook.SearchItem{{Link: "only"}}}, nil).Once()
	wh.On("Search", mock.Anything, "q", 1).Return(&webhook.SearchResponse{}, nil).Once()

	links, err := CollectLinks(context.Background(), wh, "q", 2, CollectOptions{MaxPages: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, links)
}
