package domain

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// DateRange is an inclusive window of YYYY-MM-DD dates. Bounds compare
// lexicographically, which matches calendar order for this layout.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewDateRange returns the range with bounds swapped when end precedes start.
func NewDateRange(start, end string) DateRange {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start > end {
		start, end = end, start
	}
	return DateRange{Start: start, End: end}
}

// ParseOptionalDateRange returns nil when both bounds are empty and
// ErrInvalidDateRange when only one is present.
func ParseOptionalDateRange(start, end string) (*DateRange, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	switch {
	case start == "" && end == "":
		return nil, nil
	case start == "" || end == "":
		return nil, ErrInvalidDateRange
	}
	rng := NewDateRange(start, end)
	return &rng, nil
}

// ParseRequiredDateRange validates both bounds as calendar dates.
func ParseRequiredDateRange(start, end string) (DateRange, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" || end == "" {
		return DateRange{}, ErrDateRangeRequired
	}
	if _, err := time.Parse(DateLayout, start); err != nil {
		return DateRange{}, ErrInvalidDate
	}
	if _, err := time.Parse(DateLayout, end); err != nil {
		return DateRange{}, ErrInvalidDate
	}
	return NewDateRange(start, end), nil
}

func (r DateRange) Contains(date string) bool {
	return date >= r.Start && date <= r.End
}

// Days lists every calendar date from Start to End inclusive.
func (r DateRange) Days() ([]string, error) {
	start, err := time.Parse(DateLayout, r.Start)
	if err != nil {
		return nil, ErrInvalidDate
	}
	end, err := time.Parse(DateLayout, r.End)
	if err != nil {
		return nil, ErrInvalidDate
	}

	days := make([]string, 0, int(end.Sub(start).Hours()/24)+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day.Format(DateLayout))
	}
	return days, nil
}

// DayCount is the number of calendar days covered, or 0 if the bounds do not parse.
func (r DateRange) DayCount() int {
	start, err := time.Parse(DateLayout, r.Start)
	if err != nil {
		return 0
	}
	end, err := time.Parse(DateLayout, r.End)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
