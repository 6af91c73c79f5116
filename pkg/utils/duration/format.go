// ABOUTME: Duration formatting utilities for human-readable ages
// ABOUTME: Renders how long ago a session was updated in CLI output

package duration

import (
	"fmt"
	"time"
)

// Humanize renders d at its largest whole unit, e.g. "45 seconds", "1 minute", "3 hours"
func Humanize(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	switch {
	case d < time.Minute:
		return plural(int(d/time.Second), "second")
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d/(24*time.Hour)), "day")
	}
}

// Ago renders the time elapsed between t and now, or "never" for the zero time
func Ago(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	if now.Sub(t) < time.Second {
		return "just now"
	}
	return Humanize(now.Sub(t)) + " ago"
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
