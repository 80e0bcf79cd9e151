package domain

import (
	"fmt"
	"strings"
	"time"
)

// Simulated time is an offset since midnight of the delivery day.
// EndOfDay is used for "EOD" deadlines.
const EndOfDay = 24 * time.Hour

var clockLayouts = []string{"3:04 PM", "3:04PM", "15:04", "15:04:05"}

// ParseClock converts a wall-clock string ("9:05 am", "10:30 AM", "13:00")
// into an offset since midnight.
func ParseClock(s string) (time.Duration, error) {
	v := strings.ToUpper(strings.Join(strings.Fields(s), " "))
	if v == "" {
		return 0, fmt.Errorf("parse clock: empty value: %w", ErrMalformedInput)
	}

	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		return time.Duration(t.Hour())*time.Hour +
			time.Duration(t.Minute())*time.Minute +
			time.Duration(t.Second())*time.Second, nil
	}

	return 0, fmt.Errorf("parse clock %q: %w", s, ErrMalformedInput)
}

// ParseDeadline accepts "EOD" or any clock value ParseClock understands.
func ParseDeadline(s string) (time.Duration, error) {
	if strings.EqualFold(strings.TrimSpace(s), "EOD") {
		return EndOfDay, nil
	}

	d, err := ParseClock(s)
	if err != nil {
		return 0, fmt.Errorf("parse deadline: %w", err)
	}
	return d, nil
}

// FormatClock renders an offset since midnight as "03:04 PM".
func FormatClock(d time.Duration) string {
	if d >= EndOfDay {
		return "EOD"
	}
	t := time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(d)
	return t.Format("03:04 PM")
}
