package render

import (
	"fmt"
	"time"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// TimeAgo labels published relative to now in Swedish. Anything a week or
// older is shown as its date.
func TimeAgo(published, now time.Time) string {
	if published.IsZero() {
		return ""
	}
	seconds := int64(now.Sub(published) / time.Second)

	switch {
	case seconds < 60:
		return "Just nu"
	case seconds < 3600:
		return fmt.Sprintf("%d minuter sedan", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d timmar sedan", seconds/3600)
	case seconds < 604800:
		return fmt.Sprintf("%d dagar sedan", seconds/86400)
	default:
		return published.In(now.Location()).Format(dateLayout)
	}
}

// FormatTimestamp renders t in local time the way sv-SE locales print it.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timestampLayout)
}
