// ABOUTME: GitHub trending page scraper used while the search API is rate limited
// ABOUTME: Parses repository rows with goquery and paginates them locally

package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"hackerhome-api/core/domain"
	coreerrors "hackerhome-api/core/errors"
	"hackerhome-api/pkg/utils/parse"

	"github.com/PuerkitoBio/goquery"
)

func (a *GitHubAdapter) trending(ctx context.Context, feed string, page int) ([]domain.Item, error) {
	since := feed
	if since == "" {
		since = "daily"
	}
	pageURL := fmt.Sprintf("%s?since=%s", a.trendingURL, url.QueryEscape(since))

	body, err := getBody(ctx, a.deps.HTTPClient, GitHub, page, pageURL, map[string]string{
		"Accept": "text/html",
	})
	if err != nil {
		return nil, err
	}

	items, err := parseTrending(body, a.trendingURL)
	if err != nil {
		return nil, err
	}
	return paginate(items, page, a.pageSize), nil
}

// parseTrending extracts repositories from a github.com/trending page
func parseTrending(body []byte, pageURL string) ([]domain.Item, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &coreerrors.InvalidFormatError{Source: GitHub, Detail: err.Error()}
	}

	rows := doc.Find("article.Box-row")

	base, _ := url.Parse(pageURL)
	items := make([]domain.Item, 0, rows.Length())
	rows.Each(func(_ int, row *goquery.Selection) {
		href, ok := row.Find("h2 a").First().Attr("href")
		if !ok {
			return
		}
		name := strings.Trim(strings.TrimSpace(href), "/")
		if name == "" {
			return
		}

		link := "https://github.com/" + name
		if base != nil && base.Host != "" {
			if ref, err := url.Parse(href); err == nil {
				link = base.ResolveReference(ref).String()
			}
		}

		owner, _, _ := strings.Cut(name, "/")
		language := strings.TrimSpace(row.Find(`[itemprop="programmingLanguage"]`).First().Text())
		if language == "" {
			language = "Unknown"
		}

		items = append(items, domain.Item{
			ID:          name,
			Source:      GitHub,
			Title:       name,
			URL:         link,
			Description: strings.Join(strings.Fields(row.Find("p").First().Text()), " "),
			Author:      owner,
			Language:    language,
			Stars:       parse.Count(row.Find(`a[href$="/stargazers"]`).First().Text()),
			Forks:       parse.Count(row.Find(`a[href$="/forks"]`).First().Text()),
		})
	})
	return items, nil
}
