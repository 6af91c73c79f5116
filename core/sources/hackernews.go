// ABOUTME: Hacker News adapter reads a story id list then fetches each story concurrently
// ABOUTME: Drops failed or untitled stories and url-less stories outside the ask feed

package sources

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"hackerhome-api/core/domain"
	coreerrors "hackerhome-api/core/errors"
	"hackerhome-api/core/interfaces"

	"golang.org/x/sync/errgroup"
)

const (
	hnItemURL         = "https://news.ycombinator.com/item?id=%d"
	hnStoryFanOut     = 6
	hnFeedAsk         = "ask"
	hackerNewsDisplay = "Hacker News"
)

// HackerNewsFeeds are the story lists exposed by the Firebase API
var HackerNewsFeeds = []string{"top", "new", "best", "ask", "show", "job"}

type hnStory struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	By          string `json:"by"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	Time        int64  `json:"time"`
}

// HackerNewsAdapter fetches stories from the Hacker News Firebase API
type HackerNewsAdapter struct {
	deps     interfaces.Dependencies
	baseURL  string
	pageSize int
}

// NewHackerNewsAdapter creates a Hacker News adapter
func NewHackerNewsAdapter(deps interfaces.Dependencies, cfg Config) *HackerNewsAdapter {
	cfg = cfg.withDefaults()
	return &HackerNewsAdapter{deps: deps, baseURL: cfg.HackerNewsURL, pageSize: cfg.PageSize}
}

// Fetcher returns the page fetcher for a story list
func (a *HackerNewsAdapter) Fetcher(feed string) interfaces.Fetcher {
	return interfaces.FetcherFunc(func(ctx context.Context, page int) ([]domain.Item, error) {
		return a.fetch(ctx, feed, page)
	})
}

func (a *HackerNewsAdapter) fetch(ctx context.Context, feed string, page int) ([]domain.Item, error) {
	body, err := getBody(ctx, a.deps.HTTPClient, HackerNews, page, fmt.Sprintf("%s/%sstories.json", a.baseURL, feed), nil)
	if err != nil {
		return nil, err
	}

	var ids []int64
	if err := decodeJSON(body, HackerNews, &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		return nil, &coreerrors.InvalidFormatError{Source: HackerNews, Detail: "expected an id array, got null"}
	}

	window := paginate(ids, page, a.pageSize)
	stories := make([]*hnStory, len(window))

	var g errgroup.Group
	g.SetLimit(hnStoryFanOut)
	for i, id := range window {
		i, id := i, id
		g.Go(func() error {
			story, err := a.story(ctx, page, id)
			if err != nil {
				a.deps.Log().Debug("Dropping Hacker News story", map[string]interface{}{
					"id":    id,
					"error": err.Error(),
				})
				return nil
			}
			stories[i] = story
			return nil
		})
	}
	_ = g.Wait()

	// Cancellation makes every story fail; report it rather than an empty page.
	if err := ctx.Err(); err != nil {
		return nil, &coreerrors.FetchFailedError{Source: HackerNews, Page: page, Err: err}
	}

	items := make([]domain.Item, 0, len(stories))
	for _, s := range stories {
		if s == nil || s.Title == "" {
			continue
		}
		if s.URL == "" && feed != hnFeedAsk {
			continue
		}
		items = append(items, s.toItem())
	}
	return items, nil
}

func (a *HackerNewsAdapter) story(ctx context.Context, page int, id int64) (*hnStory, error) {
	body, err := getBody(ctx, a.deps.HTTPClient, HackerNews, page, fmt.Sprintf("%s/item/%d.json", a.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	var story *hnStory
	if err := decodeJSON(body, HackerNews, &story); err != nil {
		return nil, err
	}
	if story == nil {
		return nil, &coreerrors.NotFoundError{Resource: "story", ID: strconv.FormatInt(id, 10)}
	}
	return story, nil
}

func (s *hnStory) toItem() domain.Item {
	url := s.URL
	if url == "" {
		url = fmt.Sprintf(hnItemURL, s.ID)
	}
	item := domain.Item{
		ID:       strconv.FormatInt(s.ID, 10),
		Source:   HackerNews,
		Title:    s.Title,
		URL:      url,
		Author:   s.By,
		Points:   s.Score,
		Comments: s.Descendants,
	}
	if s.Time > 0 {
		item.Published = time.Unix(s.Time, 0).UTC()
	}
	return item
}
