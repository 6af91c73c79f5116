// ABOUTME: Item domain model is the unified entry every content source produces
// ABOUTME: Exposes fields by name so the search filter can match without reflection

package domain

import (
	"strings"
	"time"
)

// Item represents one entry from any content source (story, article, repo, post).
// Only ID is required; the rest is source specific and may be zero.
type Item struct {
	// ID is unique within a result set; numeric upstream ids are kept in decimal
	ID string `json:"id"`

	// Source is the registry id of the producing source (e.g. "hackernews")
	Source string `json:"source"`

	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	Language    string `json:"language,omitempty"`

	// Engagement counters
	Points    int `json:"points,omitempty"`
	Comments  int `json:"comments,omitempty"`
	Reactions int `json:"reactions,omitempty"`
	Stars     int `json:"stars,omitempty"`
	Forks     int `json:"forks,omitempty"`

	Published time.Time `json:"published,omitempty"`
}

// Field returns the value of the field with the given JSON name.
// Text fields come back as string, counters as int and Published as time.Time.
// Unknown names return nil.
func (i Item) Field(name string) any {
	switch strings.ToLower(name) {
	case "id":
		return i.ID
	case "source":
		return i.Source
	case "title":
		return i.Title
	case "url":
		return i.URL
	case "description":
		return i.Description
	case "author":
		return i.Author
	case "language":
		return i.Language
	case "points":
		return i.Points
	case "comments":
		return i.Comments
	case "reactions":
		return i.Reactions
	case "stars":
		return i.Stars
	case "forks":
		return i.Forks
	case "published":
		return i.Published
	}
	return nil
}

// IsValid checks if the item has the fields presentation relies on
func (i *Item) IsValid() bool {
	if i.ID == "" {
		return false
	}

	if i.Title == "" {
		return false
	}

	return true
}

// CloneItems returns a copy of items that shares no backing array with the input
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
