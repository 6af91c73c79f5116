// ABOUTME: Medium adapter reads a tag RSS feed with gofeed
// ABOUTME: The feed is a single document so pages are cut locally

package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"hackerhome-api/core/domain"
	coreerrors "hackerhome-api/core/errors"
	"hackerhome-api/core/interfaces"
	"hackerhome-api/pkg/utils/html"

	"github.com/mmcdole/gofeed"
)

const mediumDescriptionLimit = 280

// MediumAdapter fetches articles from Medium tag feeds
type MediumAdapter struct {
	deps     interfaces.Dependencies
	baseURL  string
	pageSize int
}

// NewMediumAdapter creates a Medium adapter
func NewMediumAdapter(deps interfaces.Dependencies, cfg Config) *MediumAdapter {
	cfg = cfg.withDefaults()
	return &MediumAdapter{deps: deps, baseURL: strings.TrimRight(cfg.MediumURL, "/"), pageSize: cfg.PageSize}
}

// Fetcher returns the page fetcher for a tag
func (a *MediumAdapter) Fetcher(tag string) interfaces.Fetcher {
	return interfaces.FetcherFunc(func(ctx context.Context, page int) ([]domain.Item, error) {
		return a.fetch(ctx, tag, page)
	})
}

func (a *MediumAdapter) fetch(ctx context.Context, tag string, page int) ([]domain.Item, error) {
	feedURL := fmt.Sprintf("%s/%s", a.baseURL, url.PathEscape(tag))
	body, err := getBody(ctx, a.deps.HTTPClient, Medium, page, feedURL, map[string]string{
		"Accept": "application/rss+xml, application/xml, text/xml",
	})
	if err != nil {
		return nil, err
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &coreerrors.InvalidFormatError{Source: Medium, Detail: err.Error()}
	}

	items := make([]domain.Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if entry == nil || entry.Title == "" || entry.Link == "" {
			continue
		}
		items = append(items, toMediumItem(entry))
	}
	return paginate(items, page, a.pageSize), nil
}

func toMediumItem(entry *gofeed.Item) domain.Item {
	id := entry.GUID
	if id == "" {
		id = entry.Link
	}

	author := ""
	if entry.Author != nil {
		author = entry.Author.Name
	} else if len(entry.Authors) > 0 && entry.Authors[0] != nil {
		author = entry.Authors[0].Name
	}
	if author == "" && entry.DublinCoreExt != nil && len(entry.DublinCoreExt.Creator) > 0 {
		author = entry.DublinCoreExt.Creator[0]
	}

	description := entry.Description
	if description == "" {
		description = entry.Content
	}

	item := domain.Item{
		ID:          id,
		Source:      Medium,
		Title:       entry.Title,
		URL:         entry.Link,
		Author:      author,
		Description: html.Truncate(html.StripHTML(description), mediumDescriptionLimit),
	}
	if entry.PublishedParsed != nil {
		item.Published = entry.PublishedParsed.UTC()
	} else if entry.UpdatedParsed != nil {
		item.Published = entry.UpdatedParsed.UTC()
	}
	return item
}
