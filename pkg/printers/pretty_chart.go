package printers

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/reflow/padding"

	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/mood/viewmodel"
)

const (
	barWidth   = 30
	labelWidth = 8
	maxLevel   = 5
)

// Distribution prints one horizontal bar per mood, scaled to the largest.
func (pp *PrettyPrint) Distribution(bars []viewmodel.Bar) {
	pp.TitleWithCount("Mood distribution", total(bars))
	if len(bars) == 0 {
		pp.none()
		return
	}
	out := pp.termenv()
	top := viewmodel.MaxCount(bars)
	for _, b := range bars {
		n := 0
		if top > 0 {
			n = int(math.Round(float64(b.Count) / float64(top) * barWidth))
		}
		if n == 0 && b.Count > 0 {
			n = 1
		}
		bar := out.String(strings.Repeat("█", n)).Foreground(out.Color(b.RGB().Hex())).String()
		_, _ = fmt.Fprintf(pp.out(), "%s %s %d\n", padding.String(b.Label, labelWidth), bar, b.Count)
	}
	pp.NewLine()
}

// Trend prints the weekly average as a bar per day, shaded from the lowest
// to the highest catalog color.
func (pp *PrettyPrint) Trend(points []viewmodel.TrendPoint) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), "Weekly trend")
	if !viewmodel.HasTrendData(points) {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.out(), " no entries in the last 7 days\n\n")
		return
	}
	low, high := pp.scale()
	out := pp.termenv()
	for _, p := range points {
		if p.Count == 0 {
			_, _ = fmt.Fprintf(pp.out(), "%s %s\n", padding.String(p.Label, labelWidth), color.New(color.Faint).Sprint("·"))
			continue
		}
		frac := math.Max(0, math.Min(1, (p.Average-1)/(maxLevel-1)))
		shade := low.BlendLab(high, frac).Clamped()
		n := int(math.Round(p.Average / maxLevel * barWidth))
		bar := out.String(strings.Repeat("▇", n)).Foreground(out.Color(shade.Hex())).String()
		_, _ = fmt.Fprintf(pp.out(), "%s %s %.1f (%d)\n", padding.String(p.Label, labelWidth), bar, p.Average, p.Count)
	}
	pp.NewLine()
}

// scale picks the colors of the lowest and highest catalog levels.
func (pp *PrettyPrint) scale() (colorful.Color, colorful.Color) {
	c := pp.catalog()
	low, _ := colorful.Hex(mood.FallbackColor)
	high := low
	if o, ok := c.FindByLevel(1); ok {
		low = o.RGB()
	}
	if o, ok := c.FindByLevel(maxLevel); ok {
		high = o.RGB()
	}
	return low, high
}

func total(bars []viewmodel.Bar) int {
	n := 0
	for _, b := range bars {
		n += b.Count
	}
	return n
}
