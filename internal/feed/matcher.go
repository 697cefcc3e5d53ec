package feed

import (
	"strconv"
	"strings"
	"time"

	"github.com/oggyb/eventswipe/internal/db"
)

// Candidate is what an event's requirements are checked against.
type Candidate struct {
	Age      *int
	Gender   string
	Location string
}

// CandidateOf derives the candidate attributes of u. The preference
// location override wins over the profile city.
func CandidateOf(u *db.User) Candidate {
	loc := strings.TrimSpace(u.Preferences.Location)
	if loc == "" {
		loc = u.City
	}
	return Candidate{Age: u.Age, Gender: u.Gender, Location: loc}
}

// MeetsRequirements decides whether c is eligible for an event declaring
// req. Without enforcement, or when the event declares none, it passes.
// Each present check is skipped when the candidate lacks the attribute.
func MeetsRequirements(req db.Requirements, c Candidate, enforce bool) bool {
	if !enforce || req.None {
		return true
	}

	if req.Age != "" && c.Age != nil {
		lo, hi := parseAgeRange(req.Age)
		if lo != nil && *c.Age < *lo {
			return false
		}
		if hi != nil && *c.Age > *hi {
			return false
		}
	}

	if req.Gender != "" && c.Gender != "" && req.Gender != c.Gender {
		return false
	}

	if req.Location != "" && c.Location != "" && req.Location != c.Location {
		return false
	}

	return true
}

// parseAgeRange reads "min-max". Each bound parses on its own; a missing or
// malformed bound is nil (open).
func parseAgeRange(s string) (lo, hi *int) {
	parts := strings.SplitN(s, "-", 2)
	parse := func(v string) *int {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		return &n
	}
	lo = parse(parts[0])
	if len(parts) == 2 {
		hi = parse(parts[1])
	}
	return lo, hi
}

// WithinPersonLimit applies the max-person preference. A limited search
// rejects unlimited events and events larger than the limit.
func WithinPersonLimit(e *db.Event, p db.Preferences) bool {
	if !p.UsePersonLimit {
		return true
	}
	if e.Unlimited() {
		return false
	}
	return e.Capacity <= p.PersonLimit
}

// SharesInterest passes when either side has no tags, otherwise at least
// one event category must be among the selected interests.
func SharesInterest(categories, interests []string) bool {
	if len(categories) == 0 || len(interests) == 0 {
		return true
	}
	for _, c := range categories {
		for _, i := range interests {
			if c == i {
				return true
			}
		}
	}
	return false
}

// WithinDateWindow applies the date-range preference. The window covers
// whole UTC days from StartDate through EndDate inclusive; a missing end is
// open.
func WithinDateWindow(start time.Time, p db.Preferences) bool {
	if !p.SearchByDate {
		return true
	}
	start = start.UTC()
	if p.StartDate != nil && start.Before(day(*p.StartDate)) {
		return false
	}
	if p.EndDate != nil && !start.Before(day(*p.EndDate).AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
