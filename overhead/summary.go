package overhead

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ModeSummary aggregates the percentages of one mode within a series
type ModeSummary struct {
	Mean          float64
	Max           float64
	OverReference int // Points whose percentage exceeds the reference threshold
}

// Summary aggregates one series
type Summary struct {
	Regions int
	Summary ModeSummary
	Light   ModeSummary
}

// Summarize computes per-mode aggregates for a series
func Summarize(s Series, reference float64) Summary {
	return Summary{
		Regions: s.Regions,
		Summary: summarizeValues(s.SummaryValues(), reference),
		Light:   summarizeValues(s.LightValues(), reference),
	}
}

func summarizeValues(values []float64, reference float64) ModeSummary {
	if len(values) == 0 {
		return ModeSummary{}
	}

	ms := ModeSummary{
		Mean: stat.Mean(values, nil),
		Max:  floats.Max(values),
	}
	for _, v := range values {
		if v > reference {
			ms.OverReference++
		}
	}
	return ms
}
