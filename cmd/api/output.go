// ABOUTME: Terminal rendering for the fetch command
// ABOUTME: Styles session items and status lines with lipgloss

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"hackerhome-api/core/dashboard"
	"hackerhome-api/core/domain"
	"hackerhome-api/pkg/utils/duration"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#D9480F", Dark: "#FF6600"}
	colorText   = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#DDDDDD"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	colorError  = lipgloss.AdaptiveColor{Light: "#C92A2A", Dark: "#FF6B6B"}

	headerStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	indexStyle  = lipgloss.NewStyle().Foreground(colorMuted).Width(4).Align(lipgloss.Right)
	titleStyle  = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	metaStyle   = lipgloss.NewStyle().Foreground(colorMuted).PaddingLeft(5)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)

// renderView writes the header, the items and a status footer
func renderView(w io.Writer, view dashboard.View, now time.Time) {
	header := fmt.Sprintf("%s / %s", view.Source.Name, view.Feed)
	if view.Query != "" {
		header += fmt.Sprintf("  q=%q", view.Query)
	}
	fmt.Fprintln(w, headerStyle.Render(header))

	if len(view.Items) == 0 {
		fmt.Fprintln(w, metaStyle.Render("no items"))
	}
	for i, item := range view.Items {
		fmt.Fprintln(w, indexStyle.Render(strconv.Itoa(i+1)+".")+" "+titleStyle.Render(item.Title))
		fmt.Fprintln(w, metaStyle.Render(itemMeta(item)))
	}

	fmt.Fprintln(w, metaStyle.Render(footer(view, now)))
	if msg := view.ErrorMessage(); msg != "" {
		fmt.Fprintln(w, errorStyle.Render("error: ")+msg)
	}
}

// itemMeta joins the non-empty metadata of an item
func itemMeta(item domain.Item) string {
	var parts []string
	if item.Points > 0 {
		parts = append(parts, fmt.Sprintf("%d points", item.Points))
	}
	if item.Stars > 0 {
		parts = append(parts, fmt.Sprintf("%d stars", item.Stars))
	}
	if item.Language != "" {
		parts = append(parts, item.Language)
	}
	if item.Author != "" {
		parts = append(parts, "by "+item.Author)
	}
	if item.Comments > 0 {
		parts = append(parts, fmt.Sprintf("%d comments", item.Comments))
	}
	if !item.Published.IsZero() {
		parts = append(parts, item.Published.Format("2006-01-02"))
	}
	parts = append(parts, item.URL)
	return strings.Join(parts, " · ")
}

func footer(view dashboard.View, now time.Time) string {
	s := fmt.Sprintf("%d of %d items, %d page(s), updated %s", len(view.Items), view.Total, view.Page, duration.Ago(view.UpdatedAt, now))
	if view.HasMore {
		s += ", more available"
	}
	if view.FromCache {
		s += ", from cache"
	}
	return s
}
