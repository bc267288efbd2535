package ideal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is a human readable offset such as "15 minutes" or "1 day 2 hours".
// Calendar units are applied with time.AddDate, the rest as a fixed duration.
type Period struct {
	Years, Months, Days int
	Clock               time.Duration
}

var unitAliases = map[string]string{
	"s": "sec", "sec": "sec", "secs": "sec", "second": "sec", "seconds": "sec",
	"m": "min", "min": "min", "mins": "min", "minute": "min", "minutes": "min",
	"h": "hour", "hour": "hour", "hours": "hour",
	"d": "day", "day": "day", "days": "day",
	"w": "week", "week": "week", "weeks": "week",
	"month": "month", "months": "month",
	"y": "year", "year": "year", "years": "year",
}

// ParsePeriod reads "N unit" pairs ("+1 hour 30 minutes") and falls back to
// Go duration syntax ("90m"). The result must move time forward.
func ParsePeriod(s string) (Period, error) {
	var p Period
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "+"))
	if text == "" {
		return p, fmt.Errorf("empty expiration period")
	}
	if d, err := time.ParseDuration(text); err == nil {
		p.Clock = d
		return p, p.check(s)
	}

	fields := strings.Fields(strings.ToLower(text))
	if len(fields)%2 != 0 {
		return p, fmt.Errorf("invalid expiration period %q", s)
	}
	for i := 0; i < len(fields); i += 2 {
		n, err := strconv.Atoi(strings.TrimPrefix(fields[i], "+"))
		if err != nil {
			return p, fmt.Errorf("invalid expiration period %q: %w", s, err)
		}
		unit, ok := unitAliases[fields[i+1]]
		if !ok {
			return p, fmt.Errorf("invalid expiration period %q: unknown unit %q", s, fields[i+1])
		}
		p.add(unit, n)
	}
	return p, p.check(s)
}

func (p *Period) add(unit string, n int) {
	switch unit {
	case "sec":
		p.Clock += time.Duration(n) * time.Second
	case "min":
		p.Clock += time.Duration(n) * time.Minute
	case "hour":
		p.Clock += time.Duration(n) * time.Hour
	case "day":
		p.Days += n
	case "week":
		p.Days += 7 * n
	case "month":
		p.Months += n
	case "year":
		p.Years += n
	}
}

func (p Period) check(raw string) error {
	base := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !p.AddTo(base).After(base) {
		return fmt.Errorf("expiration period %q must be positive", raw)
	}
	return nil
}

// AddTo returns t moved forward by the period.
func (p Period) AddTo(t time.Time) time.Time {
	return t.AddDate(p.Years, p.Months, p.Days).Add(p.Clock)
}

// ISODuration encodes the calendar difference between from and to, e.g.
// "PT15M" or "P1DT". Zero designators are left out; the T separator is not.
func ISODuration(from, to time.Time) string {
	from, to = from.UTC().Truncate(time.Second), to.UTC().Truncate(time.Second)
	if to.Before(from) {
		from, to = to, from
	}

	years := to.Year() - from.Year()
	months := int(to.Month()) - int(from.Month())
	days := to.Day() - from.Day()
	hours := to.Hour() - from.Hour()
	minutes := to.Minute() - from.Minute()
	seconds := to.Second() - from.Second()

	if seconds < 0 {
		seconds += 60
		minutes--
	}
	if minutes < 0 {
		minutes += 60
		hours--
	}
	if hours < 0 {
		hours += 24
		days--
	}
	if days < 0 {
		// days in the month preceding to's month
		days += time.Date(to.Year(), to.Month(), 0, 0, 0, 0, 0, time.UTC).Day()
		months--
	}
	if months < 0 {
		months += 12
		years--
	}

	var b strings.Builder
	b.WriteByte('P')
	writeDesignator(&b, years, 'Y')
	writeDesignator(&b, months, 'M')
	writeDesignator(&b, days, 'D')
	b.WriteByte('T')
	writeDesignator(&b, hours, 'H')
	writeDesignator(&b, minutes, 'M')
	writeDesignator(&b, seconds, 'S')
	return b.String()
}

func writeDesignator(b *strings.Builder, n int, designator byte) {
	if n > 0 {
		b.WriteString(strconv.Itoa(n))
		b.WriteByte(designator)
	}
}
