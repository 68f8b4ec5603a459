package util

import "time"

const (
	clockLayout = "15:04"
	dateLayout  = "Mon 02 Jan 2006"
)

// Clock renders timestamps for display in a fixed location.
type Clock struct {
	loc *time.Location
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{loc: loc}
}

func (c Clock) Time(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(c.loc).Format(clockLayout)
}

func (c Clock) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(c.loc).Format(dateLayout)
}
