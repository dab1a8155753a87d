package overhead

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/neehar-mavuduru/nmt-overhead-report/benchresults"
)

// ErrNonPositiveBaseline is returned when score - error of the Off row is not
// above zero, which would make the percentage meaningless
var ErrNonPositiveBaseline = errors.New("adjusted baseline score is not positive")

// Source looks up exactly one record per (threads, regions, mode).
// *benchresults.Dataset satisfies it.
type Source interface {
	FindOne(threads, regions int, mode benchresults.Mode) (benchresults.Record, error)
}

// Point is the comparison for one (regions, threads) pair
type Point struct {
	Regions int
	Threads int

	OffAdjusted     float64 // Off score - error
	SummaryAdjusted float64 // Summary score + error
	LightAdjusted   float64 // Light score + error

	SummaryPct float64
	LightPct   float64
}

// Line formats the point as "threads, regions, summary%, light%"
func (p Point) Line() string {
	return fmt.Sprintf("%d, %d, %s%%, %s%%", p.Threads, p.Regions, FormatPercent(p.SummaryPct), FormatPercent(p.LightPct))
}

// Series holds the points of one region count in thread order
type Series struct {
	Regions int
	Points  []Point
}

// SummaryValues returns the Summary percentages in thread order
func (s Series) SummaryValues() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.SummaryPct
	}
	return out
}

// LightValues returns the Light percentages in thread order
func (s Series) LightValues() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.LightPct
	}
	return out
}

// ThreadLabels returns the thread counts as category labels
func (s Series) ThreadLabels() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = strconv.Itoa(p.Threads)
	}
	return out
}

// Calculator computes overhead points from a Source
type Calculator struct {
	config Config
	source Source
}

// NewCalculator validates config and binds it to source
func NewCalculator(config Config, source Source) (*Calculator, error) {
	if source == nil {
		return nil, fmt.Errorf("source is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Calculator{config: config, source: source}, nil
}

// Config returns the validated configuration
func (c *Calculator) Config() Config {
	return c.config
}

// Point computes the comparison for one (regions, threads) pair
func (c *Calculator) Point(regions, threads int) (Point, error) {
	off, err := c.source.FindOne(threads, regions, benchresults.ModeOff)
	if err != nil {
		return Point{}, err
	}
	summary, err := c.source.FindOne(threads, regions, benchresults.ModeSummary)
	if err != nil {
		return Point{}, err
	}
	light, err := c.source.FindOne(threads, regions, benchresults.ModeLight)
	if err != nil {
		return Point{}, err
	}

	p := Point{
		Regions:         regions,
		Threads:         threads,
		OffAdjusted:     AdjustedBaseline(off),
		SummaryAdjusted: AdjustedMode(summary),
		LightAdjusted:   AdjustedMode(light),
	}
	if p.OffAdjusted <= 0 {
		return Point{}, fmt.Errorf("%w: regions=%d threads=%d off=%g",
			ErrNonPositiveBaseline, regions, threads, p.OffAdjusted)
	}

	p.SummaryPct = Percent(p.SummaryAdjusted, p.OffAdjusted)
	p.LightPct = Percent(p.LightAdjusted, p.OffAdjusted)
	return p, nil
}

// Series computes the points for one region count across all thread counts
func (c *Calculator) Series(regions int) (Series, error) {
	s := Series{
		Regions: regions,
		Points:  make([]Point, 0, len(c.config.Threads)),
	}
	for _, t := range c.config.Threads {
		p, err := c.Point(regions, t)
		if err != nil {
			return Series{}, err
		}
		s.Points = append(s.Points, p)
	}
	return s, nil
}

// All computes one series per configured region count, in order
func (c *Calculator) All() ([]Series, error) {
	out := make([]Series, 0, len(c.config.Regions))
	for _, r := range c.config.Regions {
		s, err := c.Series(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// AdjustedBaseline is the pessimistic lower bound of a baseline measurement
func AdjustedBaseline(r benchresults.Record) float64 {
	return r.Score - r.Error
}

// AdjustedMode is the optimistic upper bound of an instrumented measurement
func AdjustedMode(r benchresults.Record) float64 {
	return r.Score + r.Error
}

// Percent returns how much value exceeds base, in percent of base
func Percent(value, base float64) float64 {
	return (value - base) / base * 100
}
