// ABOUTME: Time parsing utilities for flexible date/time parsing
// ABOUTME: Handles the timestamp formats returned by the upstream APIs and feeds

package time

import (
	"strings"
	"time"
)

// Common time formats found in APIs and RSS feeds
var timeFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC822Z,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

// ParseFlexibleTime parses timeStr with the known formats. It returns the
// zero time when nothing matches.
func ParseFlexibleTime(timeStr string) time.Time {
	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		return time.Time{}
	}

	for _, format := range timeFormats {
		if t, err := time.Parse(format, timeStr); err == nil {
			return t.UTC()
		}
	}

	return time.Time{}
}
