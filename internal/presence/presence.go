// Package presence derives online state and display strings from activity
// timestamps.
package presence

import (
	"fmt"
	"time"
)

const (
	// OnlineWindow is how long after the last activity a user still counts as online.
	OnlineWindow = 5 * time.Minute

	StatusOnline    = "online"
	StatusLongAgo   = "last seen a while ago"
	timeOfDayLayout = "15:04"
	dateLayout      = "02.01.06"
)

// Presence is the derived online state of a user.
type Presence struct {
	Online bool
	// Status is empty when the user has no recorded activity.
	Status string
}

// Evaluate converts a last-activity time into a Presence relative to now.
func Evaluate(lastSeen *time.Time, now time.Time) Presence {
	if lastSeen == nil {
		return Presence{}
	}

	delta := now.Sub(*lastSeen)
	secs := int64(delta / time.Second)
	switch {
	case delta < OnlineWindow:
		return Presence{Online: true, Status: StatusOnline}
	case delta < time.Hour:
		return Presence{Status: fmt.Sprintf("last seen %d min ago", secs/60)}
	case delta < 24*time.Hour:
		return Presence{Status: fmt.Sprintf("last seen %d h ago", secs/3600)}
	default:
		return Presence{Status: StatusLongAgo}
	}
}

// FormatTimestamp renders ts for chat lists and message bubbles: minutes
// elapsed within the last hour, time of day within the last day, otherwise
// the date. loc selects the zone for the absolute forms; nil means local time.
func FormatTimestamp(ts *time.Time, now time.Time, loc *time.Location) string {
	if ts == nil {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}

	delta := now.Sub(*ts)
	switch {
	case delta < time.Hour:
		mins := int64(delta / time.Minute)
		if mins < 0 {
			mins = 0
		}
		return fmt.Sprintf("%d min", mins)
	case delta < 24*time.Hour:
		return ts.In(loc).Format(timeOfDayLayout)
	default:
		return ts.In(loc).Format(dateLayout)
	}
}
