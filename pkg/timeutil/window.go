// Package timeutil parses history windows and splits time into local days.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultWindow is used by `get --since` when no window is given.
	DefaultWindow = "1w"

	day  = 24 * time.Hour
	week = 7 * day

	// MaxWindow caps windows well below the time.Duration range.
	MaxWindow = 100 * 365 * day
)

type unit struct {
	label   string
	aliases []string
	value   time.Duration
}

var (
	segmentPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)

	// Largest first; FormatWindow relies on the order.
	units = []unit{
		{"w", []string{"w", "wk", "wks", "week", "weeks"}, week},
		{"d", []string{"d", "day", "days"}, day},
		{"h", []string{"h", "hr", "hrs", "hour", "hours"}, time.Hour},
		{"m", []string{"m", "min", "mins", "minute", "minutes"}, time.Minute},
		{"s", []string{"s", "sec", "secs", "second", "seconds"}, time.Second},
	}
	unitByAlias = func() map[string]time.Duration {
		m := make(map[string]time.Duration)
		for _, u := range units {
			for _, a := range u.aliases {
				m[a] = u.value
			}
		}
		return m
	}()
)

// ParseWindow reads windows such as "3d", "1w" or "1w2d6h" and returns the
// duration with its compact label. Empty input means DefaultWindow.
func ParseWindow(input string) (time.Duration, string, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		remaining = DefaultWindow
	}

	var total time.Duration
	for len(remaining) > 0 {
		m := segmentPattern.FindStringSubmatch(remaining)
		if len(m) != 3 {
			return 0, "", fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("invalid window value %q: %w", m[1], err)
		}
		base, ok := unitByAlias[m[2]]
		if !ok {
			return 0, "", fmt.Errorf("unsupported window unit %q", m[2])
		}
		if n > int64(MaxWindow/base) || total+time.Duration(n)*base > MaxWindow {
			return 0, "", fmt.Errorf("window %q is longer than %s", strings.TrimSpace(input), FormatWindow(MaxWindow))
		}
		total += time.Duration(n) * base
		remaining = remaining[len(m[0]):]
	}
	if total <= 0 {
		return 0, "", fmt.Errorf("window must be greater than zero")
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders d with the largest units first, e.g. "1w2d".
func FormatWindow(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	var b strings.Builder
	for _, u := range units {
		if d < u.value {
			continue
		}
		n := d / u.value
		d -= n * u.value
		fmt.Fprintf(&b, "%d%s", n, u.label)
	}
	if b.Len() == 0 {
		return "0s"
	}
	return b.String()
}

// Cutoff is the start of the window ending at now.
func Cutoff(now time.Time, input string) (time.Time, string, error) {
	d, label, err := ParseWindow(input)
	if err != nil {
		return time.Time{}, "", err
	}
	return now.Add(-d), label, nil
}

// StartOfDay is local midnight of t's day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// LastDays returns the starts of the n calendar days ending with now's day,
// oldest first. Days are built with AddDate so DST shifts keep midnight.
func LastDays(now time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	today := StartOfDay(now)
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = today.AddDate(0, 0, i-(n-1))
	}
	return days
}
