package output

import (
	"time"

	"github.com/dustin/go-humanize"
)

// None is shown for absent values
const None = "-"

// Date formats a unix timestamp
func Date(unix int64) string {
	if unix <= 0 {
		return None
	}
	return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04")
}

// DateString reformats an RFC 3339 timestamp, passing anything else through
func DateString(s string) string {
	if s == "" {
		return None
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.UTC().Format("2006-01-02 15:04")
}

// Ago describes a unix timestamp relative to now
func Ago(unix *int64) string {
	if unix == nil || *unix <= 0 {
		return "never"
	}
	return humanize.Time(time.Unix(*unix, 0))
}

// Count formats an integer with thousands separators
func Count(n int64) string {
	return humanize.Comma(n)
}

// USD formats a dollar amount
func USD(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// Bool renders yes/no
func Bool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Or returns s, or None when s is empty
func Or(s string) string {
	if s == "" {
		return None
	}
	return s
}
