package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, time.March, 10, 18, 30, 0, 0, time.UTC)

func ago(d time.Duration) *time.Time {
	t := now.Add(-d)
	return &t
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name     string
		lastSeen *time.Time
		want     Presence
	}{
		{"never seen", nil, Presence{}},
		{"just now", ago(0), Presence{Online: true, Status: "online"}},
		{"under window", ago(299 * time.Second), Presence{Online: true, Status: "online"}},
		{"window edge", ago(300 * time.Second), Presence{Status: "last seen 5 min ago"}},
		{"under an hour", ago(59*time.Minute + 59*time.Second), Presence{Status: "last seen 59 min ago"}},
		{"one hour", ago(time.Hour), Presence{Status: "last seen 1 h ago"}},
		{"almost a day", ago(23*time.Hour + 59*time.Minute), Presence{Status: "last seen 23 h ago"}},
		{"one day", ago(24 * time.Hour), Presence{Status: "last seen a while ago"}},
		{"weeks", ago(21 * 24 * time.Hour), Presence{Status: "last seen a while ago"}},
		{"future timestamp", ago(-time.Minute), Presence{Online: true, Status: "online"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.lastSeen, now))
		})
	}
}

func TestEvaluateOnlineBelowWindow(t *testing.T) {
	for secs := 0; secs < 300; secs += 7 {
		p := Evaluate(ago(time.Duration(secs)*time.Second), now)
		assert.True(t, p.Online, "delta %ds", secs)
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		name string
		ts   *time.Time
		want string
	}{
		{"absent", nil, ""},
		{"seconds ago", ago(40 * time.Second), "0 min"},
		{"minutes ago", ago(17*time.Minute + 30*time.Second), "17 min"},
		{"hours ago", ago(3 * time.Hour), "15:30"},
		{"just under a day", ago(23 * time.Hour), "19:30"},
		{"days ago", ago(50 * time.Hour), "08.03.24"},
		{"future", ago(-2 * time.Minute), "0 min"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatTimestamp(tc.ts, now, time.UTC))
		})
	}
}

func TestFormatTimestampUsesLocation(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	assert.Equal(t, "18:30", FormatTimestamp(ago(3*time.Hour), now, moscow))
}
