package availability

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the upstream MM/DD/YYYY date format used in keys and URLs.
	DateLayout = "01/02/2006"
	isoLayout  = "2006-01-02"
)

// DatesBetween enumerates every calendar day from start to end inclusive,
// both given as ISO YYYY-MM-DD, and returns them ascending in DateLayout.
// Days are anchored at midnight UTC so the step is immune to DST shifts.
func DatesBetween(start, end string) ([]string, error) {
	s, err := time.ParseInLocation(isoLayout, start, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	e, err := time.ParseInLocation(isoLayout, end, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("end date: %w", err)
	}
	if e.Before(s) {
		return nil, fmt.Errorf("end date %s before start date %s", end, start)
	}

	var out []string
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DateLayout))
	}
	return out, nil
}

// ValidDate reports whether s is a well-formed MM/DD/YYYY date.
func ValidDate(s string) bool {
	_, err := time.ParseInLocation(DateLayout, s, time.UTC)
	return err == nil
}
