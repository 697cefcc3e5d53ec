package feed

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusOngoing  Status = "ongoing"
	StatusEnded    Status = "ended"
)

// TimeLeft is the countdown shown on a card. Seconds counts down to the
// start while upcoming and to the end while ongoing.
type TimeLeft struct {
	Status  Status `json:"status"`
	Seconds int64  `json:"seconds"`
}

// ComputeTimeLeft classifies now against [start, end).
func ComputeTimeLeft(start, end, now time.Time) TimeLeft {
	switch {
	case now.Before(start):
		return TimeLeft{Status: StatusUpcoming, Seconds: int64(start.Sub(now) / time.Second)}
	case now.Before(end):
		return TimeLeft{Status: StatusOngoing, Seconds: int64(end.Sub(now) / time.Second)}
	default:
		return TimeLeft{Status: StatusEnded}
	}
}

// String renders the largest two units, e.g. "2d 3h", "45m".
func (t TimeLeft) String() string {
	if t.Status == StatusEnded {
		return "ended"
	}
	d := time.Duration(t.Seconds) * time.Second
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60

	var s string
	switch {
	case days > 0:
		s = fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		s = fmt.Sprintf("%dh %dm", hours, mins)
	default:
		s = fmt.Sprintf("%dm", mins)
	}
	if t.Status == StatusOngoing {
		return s + " left"
	}
	return s
}
