// Package viewmodel derives chart data from mood history and distribution
// snapshots so every surface draws the same picture.
package viewmodel

import (
	"sort"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/timeutil"
)

// TrendDays is the width of the weekly trend.
const TrendDays = 7

// Bar is one column of the distribution chart.
type Bar struct {
	Mood  string `json:"mood"`
	Label string `json:"label"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// RGB parses the bar color.
func (b Bar) RGB() colorful.Color {
	c, err := colorful.Hex(b.Color)
	if err != nil {
		c, _ = colorful.Hex(mood.FallbackColor)
	}
	return c
}

// Bars turns distribution rows into chart bars. Catalog moods come first in
// catalog order; moods the catalog does not know follow by name and use the
// fallback color.
func Bars(dist []entry.Distribution, catalog *mood.Catalog) []Bar {
	if catalog == nil {
		catalog = mood.Default()
	}
	rows := make([]entry.Distribution, len(dist))
	copy(rows, dist)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := catalog.Index(rows[i].Mood), catalog.Index(rows[j].Mood)
		switch {
		case a >= 0 && b >= 0:
			return a < b
		case a >= 0:
			return true
		case b >= 0:
			return false
		default:
			return rows[i].Mood < rows[j].Mood
		}
	})

	bars := make([]Bar, 0, len(rows))
	for _, r := range rows {
		label := mood.Word(r.Mood)
		if label == "" {
			label = "?"
		}
		bars = append(bars, Bar{
			Mood:  r.Mood,
			Label: label,
			Count: r.Count,
			Color: catalog.ColorFor(r.Mood),
		})
	}
	return bars
}

// MaxCount is the tallest bar, used to scale the chart.
func MaxCount(bars []Bar) int {
	top := 0
	for _, b := range bars {
		if b.Count > top {
			top = b.Count
		}
	}
	return top
}

// TrendPoint is one day of the weekly trend.
type TrendPoint struct {
	Day     time.Time `json:"day"`
	Label   string    `json:"label"`
	Average float64   `json:"average"`
	Count   int       `json:"count"`
}

// WeeklyTrend averages mood levels per local calendar day over the week
// ending on now's day, oldest first. Days without entries average 0.
func WeeklyTrend(history []*entry.Entry, now time.Time) []TrendPoint {
	days := timeutil.LastDays(now, TrendDays)
	points := make([]TrendPoint, len(days))
	index := make(map[string]int, len(days))
	sums := make([]int, len(days))
	for i, d := range days {
		points[i] = TrendPoint{Day: d, Label: d.Format("Mon")}
		index[d.Format(entry.LayoutDay)] = i
	}

	for _, e := range history {
		if e == nil {
			continue
		}
		key := e.Timestamp.In(now.Location()).Format(entry.LayoutDay)
		i, ok := index[key]
		if !ok {
			continue
		}
		sums[i] += e.MoodLevel
		points[i].Count++
	}
	for i := range points {
		if points[i].Count > 0 {
			points[i].Average = float64(sums[i]) / float64(points[i].Count)
		}
	}
	return points
}

// HasTrendData reports whether any day of the trend has entries.
func HasTrendData(points []TrendPoint) bool {
	for _, p := range points {
		if p.Count > 0 {
			return true
		}
	}
	return false
}
