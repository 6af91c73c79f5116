// ABOUTME: Product Hunt adapter queries the GraphQL API for ranked posts
// ABOUTME: Walks cursors page by page and remembers them for subsequent pages

package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"hackerhome-api/core/domain"
	coreerrors "hackerhome-api/core/errors"
	"hackerhome-api/core/interfaces"
	timeutil "hackerhome-api/pkg/utils/time"
)

// ProductHuntFeeds lists the post orderings offered for Product Hunt
var ProductHuntFeeds = []string{"ranking", "newest"}

const productHuntQuery = `query Posts($first: Int!, $after: String, $order: PostsOrder) {
  posts(first: $first, after: $after, order: $order) {
    pageInfo { endCursor hasNextPage }
    nodes { id name tagline votesCount commentsCount createdAt url }
  }
}`

var errProductHuntConfig = errors.New("product hunt api url or key not configured")

type phNode struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Tagline       string `json:"tagline"`
	VotesCount    int    `json:"votesCount"`
	CommentsCount int    `json:"commentsCount"`
	CreatedAt     string `json:"createdAt"`
	URL           string `json:"url"`
}

type phResponse struct {
	Data *struct {
		Posts *struct {
			PageInfo struct {
				EndCursor   string `json:"endCursor"`
				HasNextPage bool   `json:"hasNextPage"`
			} `json:"pageInfo"`
			Nodes *[]phNode `json:"nodes"`
		} `json:"posts"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type phPage struct {
	nodes     []phNode
	endCursor string
	hasNext   bool
}

// ProductHuntAdapter fetches posts from the Product Hunt GraphQL API
type ProductHuntAdapter struct {
	deps     interfaces.Dependencies
	apiURL   string
	apiKey   string
	pageSize int

	mu      sync.Mutex
	cursors map[string]map[int]phPage // feed -> page -> page info
}

// NewProductHuntAdapter creates a Product Hunt adapter. A missing URL or
// key is reported by every fetch rather than at construction.
func NewProductHuntAdapter(deps interfaces.Dependencies, cfg Config) *ProductHuntAdapter {
	cfg = cfg.withDefaults()
	return &ProductHuntAdapter{
		deps:     deps,
		apiURL:   cfg.ProductHuntURL,
		apiKey:   cfg.ProductHuntKey,
		pageSize: cfg.PageSize,
		cursors:  make(map[string]map[int]phPage),
	}
}

// Fetcher returns the page fetcher for a post ordering
func (a *ProductHuntAdapter) Fetcher(feed string) interfaces.Fetcher {
	return interfaces.FetcherFunc(func(ctx context.Context, page int) ([]domain.Item, error) {
		return a.fetch(ctx, feed, page)
	})
}

func (a *ProductHuntAdapter) fetch(ctx context.Context, feed string, page int) ([]domain.Item, error) {
	if a.apiURL == "" || a.apiKey == "" {
		return nil, &coreerrors.FetchFailedError{Source: ProductHunt, Page: page, Err: errProductHuntConfig}
	}
	if page < 1 {
		page = 1
	}

	after := ""
	if page > 1 {
		prev, err := a.pageInfo(ctx, feed, page-1)
		if err != nil {
			return nil, err
		}
		if !prev.hasNext || prev.endCursor == "" {
			return []domain.Item{}, nil
		}
		after = prev.endCursor
	}

	result, err := a.query(ctx, feed, page, after)
	if err != nil {
		return nil, err
	}
	a.remember(feed, page, result)

	items := make([]domain.Item, 0, len(result.nodes))
	for _, n := range result.nodes {
		items = append(items, n.toItem())
	}
	return items, nil
}

// pageInfo returns the cursor state after page, fetching earlier pages when unknown
func (a *ProductHuntAdapter) pageInfo(ctx context.Context, feed string, page int) (phPage, error) {
	a.mu.Lock()
	known, ok := a.cursors[feed][page]
	a.mu.Unlock()
	if ok {
		return known, nil
	}

	after := ""
	if page > 1 {
		prev, err := a.pageInfo(ctx, feed, page-1)
		if err != nil {
			return phPage{}, err
		}
		if !prev.hasNext || prev.endCursor == "" {
			return phPage{}, nil
		}
		after = prev.endCursor
	}

	result, err := a.query(ctx, feed, page, after)
	if err != nil {
		return phPage{}, err
	}
	a.remember(feed, page, result)
	return result, nil
}

func (a *ProductHuntAdapter) remember(feed string, page int, p phPage) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cursors[feed] == nil {
		a.cursors[feed] = make(map[int]phPage)
	}
	a.cursors[feed][page] = phPage{endCursor: p.endCursor, hasNext: p.hasNext}
}

func (a *ProductHuntAdapter) query(ctx context.Context, feed string, page int, after string) (phPage, error) {
	order := "RANKING"
	if feed == "newest" {
		order = "NEWEST"
	}
	variables := map[string]interface{}{
		"first": a.pageSize,
		"order": order,
	}
	if after != "" {
		variables["after"] = after
	}

	payload, err := json.Marshal(map[string]interface{}{
		"query":     productHuntQuery,
		"variables": variables,
	})
	if err != nil {
		return phPage{}, &coreerrors.FetchFailedError{Source: ProductHunt, Page: page, Err: err}
	}

	body, err := postBody(ctx, a.deps.HTTPClient, ProductHunt, page, a.apiURL, bytes.NewReader(payload), map[string]string{
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"Authorization": "Bearer " + a.apiKey,
	})
	if err != nil {
		return phPage{}, err
	}

	var resp phResponse
	if err := decodeJSON(body, ProductHunt, &resp); err != nil {
		return phPage{}, err
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return phPage{}, &coreerrors.FetchFailedError{
			Source: ProductHunt,
			Page:   page,
			Err:    errors.New("graphql: " + strings.Join(msgs, "; ")),
		}
	}
	if resp.Data == nil || resp.Data.Posts == nil || resp.Data.Posts.Nodes == nil {
		return phPage{}, &coreerrors.InvalidFormatError{Source: ProductHunt, Detail: "missing data.posts.nodes"}
	}

	return phPage{
		nodes:     *resp.Data.Posts.Nodes,
		endCursor: resp.Data.Posts.PageInfo.EndCursor,
		hasNext:   resp.Data.Posts.PageInfo.HasNextPage,
	}, nil
}

func (n *phNode) toItem() domain.Item {
	title := n.Name
	if n.Tagline != "" {
		title = n.Name + " - " + n.Tagline
	}
	return domain.Item{
		ID:          n.ID,
		Source:      ProductHunt,
		Title:       title,
		URL:         n.URL,
		Description: n.Tagline,
		Points:      n.VotesCount,
		Comments:    n.CommentsCount,
		Published:   timeutil.ParseFlexibleTime(n.CreatedAt),
	}
}
