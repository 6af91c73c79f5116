// ABOUTME: fetch command drives one source session from the terminal
// ABOUTME: Loads the requested number of pages, filters them and prints the items

package main

import (
	"context"
	"fmt"
	"time"

	"hackerhome-api/core/dashboard"
	"hackerhome-api/core/search"
	"hackerhome-api/core/session"

	"github.com/spf13/cobra"
)

var (
	flagFeed   string
	flagPages  int
	flagQuery  string
	flagFields string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <source>",
	Short: "Fetch a source and print its items",
	Long:  "fetch loads pages of one source through a session, the same way the API does, and prints the items matching --query.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&flagFeed, "feed", "", "feed variant, defaults to the source's first feed")
	fetchCmd.Flags().IntVar(&flagPages, "pages", 1, "number of pages to load")
	fetchCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "case-insensitive substring filter")
	fetchCmd.Flags().StringVar(&flagFields, "fields", "", "comma separated fields to search")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Close()

	a, err := newApp(cfg, log, func(o *session.Options) {
		o.MinInterval = -1
	})
	if err != nil {
		return err
	}
	defer a.close()

	view, err := fetchPages(cmd.Context(), a.dashboard, args[0], flagFeed, flagQuery, search.ParseFields(flagFields), flagPages)
	if err != nil {
		return err
	}
	renderView(cmd.OutOrStdout(), view, time.Now())
	if view.Err != nil {
		return fmt.Errorf("%s: %w", view.Source.ID, view.Err)
	}
	return nil
}

// sessionDriver is the part of the dashboard the fetch command uses
type sessionDriver interface {
	SetEnabled(ctx context.Context, sourceID string, enabled bool) (dashboard.SourceStatus, error)
	Items(ctx context.Context, sourceID, feed, query string, fields []string, wait bool) (dashboard.View, error)
	LoadMore(ctx context.Context, sourceID, feed string) (bool, error)
}

// fetchPages enables the source and loads up to pages pages, stopping
// early when the session has no more pages or fails
func fetchPages(ctx context.Context, d sessionDriver, source, feed, query string, fields []string, pages int) (dashboard.View, error) {
	if _, err := d.SetEnabled(ctx, source, true); err != nil {
		return dashboard.View{}, err
	}

	view, err := d.Items(ctx, source, feed, query, fields, true)
	if err != nil {
		return view, err
	}
	feed = view.Feed

	for view.Page < pages && view.HasMore && view.Phase != session.PhaseFailed {
		started, err := d.LoadMore(ctx, source, feed)
		if err != nil {
			return view, err
		}
		if !started {
			break
		}
		if view, err = d.Items(ctx, source, feed, query, fields, true); err != nil {
			return view, err
		}
	}
	return view, nil
}
