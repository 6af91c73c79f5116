// ABOUTME: Configuration for the content source adapters
// ABOUTME: Holds upstream base URLs, credentials and the shared page size

package sources

import "strings"

// Source registry ids
const (
	HackerNews  = "hackernews"
	DevTo       = "devto"
	GitHub      = "github"
	ProductHunt = "producthunt"
	Medium      = "medium"
)

// DefaultPageSize is the number of items requested per page from every source
const DefaultPageSize = 10

// Config configures the built-in adapters
type Config struct {
	HackerNewsURL     string
	DevToURL          string
	GitHubAPIURL      string
	GitHubTrendingURL string
	ProductHuntURL    string
	MediumURL         string

	ProductHuntKey string
	GitHubToken    string

	// MediumTag is the tag feed served by the Medium source
	MediumTag string

	// TrendingFallback serves the GitHub trending page while the API is rate limited
	TrendingFallback bool

	PageSize int
}

// DefaultConfig returns the public upstream endpoints
func DefaultConfig() Config {
	return Config{
		HackerNewsURL:     "https://hacker-news.firebaseio.com/v0",
		DevToURL:          "https://dev.to/api",
		GitHubAPIURL:      "https://api.github.com",
		GitHubTrendingURL: "https://github.com/trending",
		ProductHuntURL:    "https://api.producthunt.com/v2/api/graphql",
		MediumURL:         "https://medium.com/feed/tag",
		MediumTag:         "programming",
		TrendingFallback:  true,
		PageSize:          DefaultPageSize,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.HackerNewsURL == "" {
		c.HackerNewsURL = d.HackerNewsURL
	}
	if c.DevToURL == "" {
		c.DevToURL = d.DevToURL
	}
	if c.GitHubAPIURL == "" {
		c.GitHubAPIURL = d.GitHubAPIURL
	}
	if c.GitHubTrendingURL == "" {
		c.GitHubTrendingURL = d.GitHubTrendingURL
	}
	if c.MediumURL == "" {
		c.MediumURL = d.MediumURL
	}
	c.MediumTag = strings.ToLower(strings.TrimSpace(c.MediumTag))
	if c.MediumTag == "" {
		c.MediumTag = d.MediumTag
	}
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	return c
}
