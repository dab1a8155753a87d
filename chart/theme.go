package chart

import (
	"image/color"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
)

var (
	darkBackground = color.Black
	darkForeground = color.White
)

// applyDarkTheme paints the plot white on black
func applyDarkTheme(p *plot.Plot) {
	p.BackgroundColor = darkBackground
	p.Title.TextStyle.Color = darkForeground
	p.Legend.TextStyle.Color = darkForeground

	for _, axis := range []*plot.Axis{&p.X, &p.Y} {
		axis.LineStyle.Color = darkForeground
		axis.Label.TextStyle.Color = darkForeground
		axis.Tick.Label.Color = darkForeground
		axis.Tick.LineStyle.Color = darkForeground
	}
}

// referenceTicker adds labelled ticks for fixed values to the ticks of base
type referenceTicker struct {
	base   plot.Ticker
	values []float64
}

func (t referenceTicker) Ticks(min, max float64) []plot.Tick {
	ticks := t.base.Ticks(min, max)

	for _, v := range t.values {
		label := strconv.FormatFloat(v, 'f', -1, 64)
		replaced := false
		for i := range ticks {
			if nearlyEqual(ticks[i].Value, v) {
				if ticks[i].Label == "" {
					ticks[i].Label = label
				}
				replaced = true
				break
			}
		}
		if !replaced {
			ticks = append(ticks, plot.Tick{Value: v, Label: label})
		}
	}

	sort.Slice(ticks, func(i, j int) bool {
		return ticks[i].Value < ticks[j].Value
	})
	return ticks
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
