// ABOUTME: DEV.to adapter maps feed variants to article list query parameters
// ABOUTME: Skips articles missing required fields or carrying an unparsable URL

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"hackerhome-api/core/domain"
	"hackerhome-api/core/interfaces"
	timeutil "hackerhome-api/pkg/utils/time"
)

// DevToFeeds are the article orderings offered for DEV.to
var DevToFeeds = []string{"top", "latest", "rising"}

type devtoArticle struct {
	ID                     int64  `json:"id"`
	Title                  string `json:"title"`
	URL                    string `json:"url"`
	Description            string `json:"description"`
	PublishedAt            string `json:"published_at"`
	CommentsCount          int    `json:"comments_count"`
	PositiveReactionsCount int    `json:"positive_reactions_count"`
	User                   struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"user"`
}

// DevToAdapter fetches articles from the DEV.to public API
type DevToAdapter struct {
	deps     interfaces.Dependencies
	baseURL  string
	pageSize int
}

// NewDevToAdapter creates a DEV.to adapter
func NewDevToAdapter(deps interfaces.Dependencies, cfg Config) *DevToAdapter {
	cfg = cfg.withDefaults()
	return &DevToAdapter{deps: deps, baseURL: cfg.DevToURL, pageSize: cfg.PageSize}
}

// Fetcher returns the page fetcher for a feed variant
func (a *DevToAdapter) Fetcher(feed string) interfaces.Fetcher {
	return interfaces.FetcherFunc(func(ctx context.Context, page int) ([]domain.Item, error) {
		return a.fetch(ctx, feed, page)
	})
}

func (a *DevToAdapter) articlesURL(feed string, page int) string {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(a.pageSize))
	params.Set("page", strconv.Itoa(page))

	switch feed {
	case "latest":
		params.Set("state", "fresh")
		params.Set("top", "1")
	case "rising":
		params.Set("state", "rising")
	default:
		params.Set("top", "7")
	}
	return fmt.Sprintf("%s/articles?%s", a.baseURL, params.Encode())
}

func (a *DevToAdapter) fetch(ctx context.Context, feed string, page int) ([]domain.Item, error) {
	body, err := getBody(ctx, a.deps.HTTPClient, DevTo, page, a.articlesURL(feed, page), map[string]string{
		"Accept": "application/json",
	})
	if err != nil {
		return nil, err
	}

	raw, err := decodeArray(body, DevTo)
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(raw))
	for _, r := range raw {
		var article devtoArticle
		if err := json.Unmarshal(r, &article); err != nil {
			a.skip(string(r), "not an article object")
			continue
		}
		if reason := article.invalid(); reason != "" {
			a.skip(strconv.FormatInt(article.ID, 10), reason)
			continue
		}
		items = append(items, article.toItem())
	}
	return items, nil
}

func (a *DevToAdapter) skip(id, reason string) {
	a.deps.Log().Debug("Skipping DEV.to article", map[string]interface{}{
		"id":     id,
		"reason": reason,
	})
}

// invalid returns why the article cannot be shown, or "" when it is usable
func (d *devtoArticle) invalid() string {
	switch {
	case d.ID == 0:
		return "missing id"
	case d.Title == "":
		return "missing title"
	case d.URL == "":
		return "missing url"
	case d.PublishedAt == "":
		return "missing published_at"
	}
	u, err := url.ParseRequestURI(d.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "invalid url"
	}
	return ""
}

func (d *devtoArticle) toItem() domain.Item {
	author := d.User.Name
	if author == "" {
		author = d.User.Username
	}
	return domain.Item{
		ID:          strconv.FormatInt(d.ID, 10),
		Source:      DevTo,
		Title:       d.Title,
		URL:         d.URL,
		Description: d.Description,
		Author:      author,
		Comments:    d.CommentsCount,
		Reactions:   d.PositiveReactionsCount,
		Published:   timeutil.ParseFlexibleTime(d.PublishedAt),
	}
}
