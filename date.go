package ledger

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

var (
	relativeDateRE = regexp.MustCompile(`^([+-])(\d+)([dwmqy])$`)
	monthDayDateRE = regexp.MustCompile(`^(?:(\d+)-)?(\d+)$`)
)

// day returns midnight UTC of the calendar day of t.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a date relative to now. It accepts:
//   - "", "0d" or "today" for the day of now,
//   - relative offsets like "-1d", "+2w", "-1m", "-1q", "+1y",
//   - days of the current year like "27" (current month) or "8-27",
//     where day 0 is the last day of the previous month,
//   - ISO dates, permissively ("2025-7-1"), and RFC 3339 timestamps.
//
// Dates are returned at midnight UTC, timestamps as parsed.
func ParseDate(str string, now time.Time) (time.Time, error) {
	str = strings.TrimSpace(str)
	today := day(now)

	switch str {
	case "", "0d", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	// Relative Duration Format (e.g., -1d, +2w) - sign is mandatory for non-zero
	if match := relativeDateRE.FindStringSubmatch(str); match != nil {
		num, err := strconv.Atoi(match[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid number in relative date %q: %w", str, err)
		}
		if match[1] == "-" {
			num = -num
		}
		switch match[3] {
		case "d":
			return today.AddDate(0, 0, num), nil
		case "w":
			return today.AddDate(0, 0, num*7), nil
		case "m":
			return today.AddDate(0, num, 0), nil
		case "q":
			return today.AddDate(0, num*3, 0), nil
		case "y":
			return today.AddDate(num, 0, 0), nil
		}
	}

	// [MM-]DD Format (e.g., 27, 8-27, 0, 8-0)
	if match := monthDayDateRE.FindStringSubmatch(str); match != nil {
		d, err := strconv.Atoi(match[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid day in date %q: %w", str, err)
		}
		year, month := today.Year(), today.Month()
		if match[1] != "" {
			m, err := strconv.Atoi(match[1])
			if err != nil {
				return time.Time{}, fmt.Errorf("invalid month in date %q: %w", str, err)
			}
			month = time.Month(m)
		}
		return time.Date(year, month, d, 0, 0, 0, 0, time.UTC), nil
	}

	if on, err := time.Parse(readDateFormat, str); err == nil {
		return on, nil
	}
	on, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q want format %q: %w", str, time.DateOnly, ErrInvalid)
	}
	return on, nil
}

// Period is a calendar period used to group transactions in reports.
type Period int

const (
	Day Period = iota
	Week
	Month
	Quarter
	Year
)

func (p Period) String() string {
	switch p {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	case Quarter:
		return "quarter"
	case Year:
		return "year"
	default:
		return fmt.Sprintf("Period(%d)", int(p))
	}
}

// ParsePeriod parses a period name like "month" or "monthly".
func ParsePeriod(p string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "daily", "day":
		return Day, nil
	case "weekly", "week":
		return Week, nil
	case "monthly", "month":
		return Month, nil
	case "quarterly", "quarter":
		return Quarter, nil
	case "yearly", "year":
		return Year, nil
	default:
		return Day, fmt.Errorf("unknown period %q: %w", p, ErrInvalid)
	}
}

// Range returns the period containing t as the half open interval [from, to)
// of UTC days. Weeks start on Monday.
func (p Period) Range(t time.Time) (from, to time.Time) {
	d := day(t)
	switch p {
	case Week:
		offset := (int(d.Weekday()) + 6) % 7 // days since Monday
		from = d.AddDate(0, 0, -offset)
		return from, from.AddDate(0, 0, 7)
	case Month:
		from = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0)
	case Quarter:
		quarter := (d.Month() - 1) / 3
		from = time.Date(d.Year(), quarter*3+1, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 3, 0)
	case Year:
		from = time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0)
	default:
		return d, d.AddDate(0, 0, 1)
	}
}
