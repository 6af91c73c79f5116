// ABOUTME: GitHub adapter lists repositories created in a window, sorted by stars
// ABOUTME: A 403 or 429 starts a one-hour cooldown during which the trending page is served

package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"hackerhome-api/core/domain"
	coreerrors "hackerhome-api/core/errors"
	"hackerhome-api/core/interfaces"
	timeutil "hackerhome-api/pkg/utils/time"

	"golang.org/x/time/rate"
)

// GitHubCooldown is how long the search API is avoided after a rate limit response
const GitHubCooldown = time.Hour

// GitHubFeeds are the creation windows offered for GitHub
var GitHubFeeds = []string{"daily", "weekly", "monthly"}

var errGitHubRateLimited = errors.New("github api rate limited")

type githubRepo struct {
	ID              int64  `json:"id"`
	FullName        string `json:"full_name"`
	Description     string `json:"description"`
	Language        string `json:"language"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	HTMLURL         string `json:"html_url"`
	CreatedAt       string `json:"created_at"`
	Owner           struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type githubSearch struct {
	Items *[]githubRepo `json:"items"`
}

// GitHubAdapter fetches repositories from the GitHub search API. The
// cooldown is shared by every feed of the adapter.
type GitHubAdapter struct {
	deps        interfaces.Dependencies
	apiURL      string
	trendingURL string
	token       string
	pageSize    int
	fallback    bool
	limiter     *rate.Limiter

	mu            sync.Mutex
	cooldownUntil time.Time
}

// NewGitHubAdapter creates a GitHub adapter. Requests are paced to the
// search API quota: 10 per minute anonymous, 30 with a token.
func NewGitHubAdapter(deps interfaces.Dependencies, cfg Config) *GitHubAdapter {
	cfg = cfg.withDefaults()
	perMinute := 10
	if cfg.GitHubToken != "" {
		perMinute = 30
	}
	return &GitHubAdapter{
		deps:        deps,
		apiURL:      cfg.GitHubAPIURL,
		trendingURL: cfg.GitHubTrendingURL,
		token:       cfg.GitHubToken,
		pageSize:    cfg.PageSize,
		fallback:    cfg.TrendingFallback,
		limiter:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

// Fetcher returns the page fetcher for a creation window
func (a *GitHubAdapter) Fetcher(feed string) interfaces.Fetcher {
	return interfaces.FetcherFunc(func(ctx context.Context, page int) ([]domain.Item, error) {
		return a.fetch(ctx, feed, page)
	})
}

// CoolingDown reports whether the search API is being avoided
func (a *GitHubAdapter) CoolingDown() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deps.Now().Now().Before(a.cooldownUntil)
}

func (a *GitHubAdapter) startCooldown() {
	a.mu.Lock()
	a.cooldownUntil = a.deps.Now().Now().Add(GitHubCooldown)
	until := a.cooldownUntil
	a.mu.Unlock()

	a.deps.Log().Warn("GitHub API rate limited, cooling down", map[string]interface{}{
		"until":    until.Format(time.RFC3339),
		"fallback": a.fallback,
	})
}

func (a *GitHubAdapter) fetch(ctx context.Context, feed string, page int) ([]domain.Item, error) {
	if a.CoolingDown() {
		return a.degraded(ctx, feed, page)
	}

	items, err := a.search(ctx, feed, page)
	var failed *coreerrors.FetchFailedError
	if errors.As(err, &failed) && (failed.StatusCode == http.StatusForbidden || failed.StatusCode == http.StatusTooManyRequests) {
		a.startCooldown()
		return a.degraded(ctx, feed, page)
	}
	return items, err
}

func (a *GitHubAdapter) degraded(ctx context.Context, feed string, page int) ([]domain.Item, error) {
	if !a.fallback {
		return nil, &coreerrors.FetchFailedError{Source: GitHub, Page: page, StatusCode: http.StatusForbidden, Err: errGitHubRateLimited}
	}
	return a.trending(ctx, feed, page)
}

func (a *GitHubAdapter) searchURL(feed string, page int) string {
	days := 1
	switch feed {
	case "weekly":
		days = 7
	case "monthly":
		days = 30
	}
	since := a.deps.Now().Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")

	params := url.Values{}
	params.Set("q", "created:>"+since)
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(a.pageSize))
	return fmt.Sprintf("%s/search/repositories?%s", a.apiURL, params.Encode())
}

func (a *GitHubAdapter) search(ctx context.Context, feed string, page int) ([]domain.Item, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, &coreerrors.FetchFailedError{Source: GitHub, Page: page, Err: err}
	}

	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if a.token != "" {
		headers["Authorization"] = "Bearer " + a.token
	}

	body, err := getBody(ctx, a.deps.HTTPClient, GitHub, page, a.searchURL(feed, page), headers)
	if err != nil {
		return nil, err
	}

	var result githubSearch
	if err := decodeJSON(body, GitHub, &result); err != nil {
		return nil, err
	}
	if result.Items == nil {
		return nil, &coreerrors.InvalidFormatError{Source: GitHub, Detail: "missing items array"}
	}

	items := make([]domain.Item, 0, len(*result.Items))
	for _, repo := range *result.Items {
		items = append(items, repo.toItem())
	}
	return items, nil
}

func (r *githubRepo) toItem() domain.Item {
	language := r.Language
	if language == "" {
		language = "Unknown"
	}
	return domain.Item{
		ID:          strconv.FormatInt(r.ID, 10),
		Source:      GitHub,
		Title:       r.FullName,
		URL:         r.HTMLURL,
		Description: r.Description,
		Author:      r.Owner.Login,
		Language:    language,
		Stars:       r.StargazersCount,
		Forks:       r.ForksCount,
		Published:   timeutil.ParseFlexibleTime(r.CreatedAt),
	}
}
