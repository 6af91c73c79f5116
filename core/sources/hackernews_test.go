package sources

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	coreerrors "hackerhome-api/core/errors"
	"hackerhome-api/core/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hnBase = "https://hn.test/v0"

func hnAdapter(client *mockHTTPClient) *HackerNewsAdapter {
	return NewHackerNewsAdapter(interfaces.Dependencies{HTTPClient: client}, Config{HackerNewsURL: hnBase})
}

func hnStoryJSON(id int, url string) string {
	return fmt.Sprintf(`{"id":%d,"title":"Story %d","url":%q,"by":"pg","score":%d,"descendants":%d,"time":1709283600}`, id, id, url, id*10, id)
}

func TestHackerNews_FetchMapsStories(t *testing.T) {
	client := routes(map[string]*mockResponse{
		hnBase + "/topstories.json": okResp(`[3,1,2]`),
		hnBase + "/item/1.json":     okResp(hnStoryJSON(1, "https://one.example")),
		hnBase + "/item/2.json":     okResp(hnStoryJSON(2, "https://two.example")),
		hnBase + "/item/3.json":     okResp(hnStoryJSON(3, "https://three.example")),
	})

	items, err := hnAdapter(client).Fetcher("top").Fetch(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, []string{"3", "1", "2"}, []string{items[0].ID, items[1].ID, items[2].ID})
	first := items[0]
	assert.Equal(t, HackerNews, first.Source)
	assert.Equal(t, "Story 3", first.Title)
	assert.Equal(t, "https://three.example", first.URL)
	assert.Equal(t, "pg", first.Author)
	assert.Equal(t, 30, first.Points)
	assert.Equal(t, 3, first.Comments)
	assert.Equal(t, time.Unix(1709283600, 0).UTC(), first.Published)
}

func TestHackerNews_DropsBrokenStories(t *testing.T) {
	client := routes(map[string]*mockResponse{
		hnBase + "/topstories.json": okResp(`[1,2,3,4,5]`),
		hnBase + "/item/1.json":     okResp(hnStoryJSON(1, "https://one.example")),
		hnBase + "/item/2.json":     okResp(`{"id":2,"title":"Ask HN: anything?"}`),
		hnBase + "/item/3.json":     statusResp(http.StatusInternalServerError),
		hnBase + "/item/4.json":     okResp(`null`),
		hnBase + "/item/5.json":     okResp(`{"id":5,"url":"https://untitled.example"}`),
	})

	items, err := hnAdapter(client).Fetcher("top").Fetch(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID)
}

func TestHackerNews_AskKeepsURLlessStories(t *testing.T) {
	client := routes(map[string]*mockResponse{
		hnBase + "/askstories.json": okResp(`[2]`),
		hnBase + "/item/2.json":     okResp(`{"id":2,"title":"Ask HN: anything?"}`),
	})

	items, err := hnAdapter(client).Fetcher("ask").Fetch(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://news.ycombinator.com/item?id=2", items[0].URL)
}

func TestHackerNews_PageWindow(t *testing.T) {
	table := map[string]*mockResponse{
		hnBase + "/newstories.json": okResp(`[1,2,3,4,5,6,7,8,9,10,11,12,13]`),
	}
	for id := 1; id <= 13; id++ {
		table[fmt.Sprintf("%s/item/%d.json", hnBase, id)] = okResp(hnStoryJSON(id, "https://x.example"))
	}
	client := routes(table)

	items, err := hnAdapter(client).Fetcher("new").Fetch(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "11", items[0].ID)
	assert.Equal(t, "13", items[2].ID)

	for _, u := range client.URLs() {
		assert.NotEqual(t, hnBase+"/item/1.json", u)
	}
}

func TestHackerNews_PastTheEnd(t *testing.T) {
	client := routes(map[string]*mockResponse{
		hnBase + "/beststories.json": okResp(`[1,2]`),
	})

	items, err := hnAdapter(client).Fetcher("best").Fetch(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHackerNews_Errors(t *testing.T) {
	t.Run("list not an array", func(t *testing.T) {
		client := routes(map[string]*mockResponse{hnBase + "/topstories.json": okResp(`{"ids":[1]}`)})

		_, err := hnAdapter(client).Fetcher("top").Fetch(context.Background(), 1)
		assert.True(t, coreerrors.IsInvalidFormat(err))
	})

	t.Run("list status", func(t *testing.T) {
		client := routes(map[string]*mockResponse{hnBase + "/topstories.json": statusResp(http.StatusBadGateway)})

		_, err := hnAdapter(client).Fetcher("top").Fetch(context.Background(), 1)
		assert.True(t, coreerrors.IsFetchFailed(err))
	})

	t.Run("cancelled", func(t *testing.T) {
		client := routes(map[string]*mockResponse{hnBase + "/topstories.json": okResp(`[1]`)})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := hnAdapter(client).Fetcher("top").Fetch(ctx, 1)
		assert.True(t, coreerrors.IsFetchFailed(err))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
