// ABOUTME: Source registry maps source ids and aliases to adapters and feed variants
// ABOUTME: Resolves a (source, feed) pair to a binding with its fetcher and cache key

package sources

import (
	"fmt"
	"strings"

	"hackerhome-api/core/domain"
	coreerrors "hackerhome-api/core/errors"
	"hackerhome-api/core/interfaces"
)

// Adapter produces a page fetcher for one feed variant of a source
type Adapter interface {
	Fetcher(feed string) interfaces.Fetcher
}

// Binding is a resolved (source, feed) pair ready for a session controller
type Binding struct {
	Source   domain.SourceInfo
	Feed     string
	CacheKey string
	Fetcher  interfaces.Fetcher
}

type registration struct {
	info    domain.SourceInfo
	adapter Adapter
}

// Registry holds the known sources in registration order. It is not safe
// for concurrent registration; build it once at startup.
type Registry struct {
	order   []string
	byID    map[string]registration
	aliases map[string]string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]registration),
		aliases: make(map[string]string),
	}
}

// NewDefaultRegistry registers the built-in sources
func NewDefaultRegistry(deps interfaces.Dependencies, cfg Config) *Registry {
	cfg = cfg.withDefaults()
	r := NewRegistry()

	builtins := []struct {
		info    domain.SourceInfo
		adapter Adapter
		aliases []string
	}{
		{
			info:    domain.SourceInfo{ID: HackerNews, Name: hackerNewsDisplay, KeyPrefix: "hn", Feeds: HackerNewsFeeds},
			adapter: NewHackerNewsAdapter(deps, cfg),
			aliases: []string{"hn"},
		},
		{
			info:    domain.SourceInfo{ID: DevTo, Name: "DEV Community", KeyPrefix: "devto", Feeds: DevToFeeds},
			adapter: NewDevToAdapter(deps, cfg),
			aliases: []string{"dev"},
		},
		{
			info:    domain.SourceInfo{ID: GitHub, Name: "GitHub Trending", KeyPrefix: "github", Feeds: GitHubFeeds},
			adapter: NewGitHubAdapter(deps, cfg),
			aliases: []string{"gh"},
		},
		{
			info:    domain.SourceInfo{ID: ProductHunt, Name: "Product Hunt", KeyPrefix: "ph", Feeds: ProductHuntFeeds},
			adapter: NewProductHuntAdapter(deps, cfg),
			aliases: []string{"ph"},
		},
		{
			info:    domain.SourceInfo{ID: Medium, Name: "Medium", KeyPrefix: "medium", Feeds: []string{cfg.MediumTag}},
			adapter: NewMediumAdapter(deps, cfg),
		},
	}

	for _, b := range builtins {
		if err := r.Register(b.info, b.adapter, b.aliases...); err != nil {
			panic(fmt.Sprintf("sources: invalid builtin %s: %v", b.info.ID, err))
		}
	}
	return r
}

// Register adds a source. Ids and aliases are case-insensitive and must be unique.
func (r *Registry) Register(info domain.SourceInfo, adapter Adapter, aliases ...string) error {
	if err := info.Validate(); err != nil {
		return err
	}
	if adapter == nil {
		return fmt.Errorf("source %s has no adapter", info.ID)
	}

	id := strings.ToLower(info.ID)
	if _, taken := r.lookup(id); taken {
		return fmt.Errorf("source %s already registered", id)
	}
	for _, alias := range aliases {
		if _, taken := r.lookup(strings.ToLower(alias)); taken {
			return fmt.Errorf("alias %s already registered", alias)
		}
	}

	info.ID = id
	info.Feeds = append([]string(nil), info.Feeds...)
	r.byID[id] = registration{info: info, adapter: adapter}
	r.order = append(r.order, id)
	for _, alias := range aliases {
		r.aliases[strings.ToLower(alias)] = id
	}
	return nil
}

func (r *Registry) lookup(id string) (registration, bool) {
	if canonical, ok := r.aliases[id]; ok {
		id = canonical
	}
	reg, ok := r.byID[id]
	return reg, ok
}

// Get returns the source for an id or alias
func (r *Registry) Get(id string) (domain.SourceInfo, bool) {
	reg, ok := r.lookup(strings.ToLower(strings.TrimSpace(id)))
	return reg.info, ok
}

// List returns every source in registration order
func (r *Registry) List() []domain.SourceInfo {
	out := make([]domain.SourceInfo, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].info)
	}
	return out
}

// Bind resolves a source and feed. An empty feed selects the default feed.
func (r *Registry) Bind(id, feed string) (Binding, error) {
	reg, ok := r.lookup(strings.ToLower(strings.TrimSpace(id)))
	if !ok {
		return Binding{}, &coreerrors.NotFoundError{Resource: "source", ID: id}
	}

	feed = strings.ToLower(strings.TrimSpace(feed))
	if feed == "" {
		feed = reg.info.DefaultFeed()
	}
	if !reg.info.HasFeed(feed) {
		return Binding{}, &coreerrors.ValidationError{
			Field:   "feed",
			Message: fmt.Sprintf("unknown feed %q for %s, expected one of %s", feed, reg.info.ID, strings.Join(reg.info.Feeds, ", ")),
		}
	}

	return Binding{
		Source:   reg.info,
		Feed:     feed,
		CacheKey: reg.info.CacheKey(feed),
		Fetcher:  reg.adapter.Fetcher(feed),
	}, nil
}
