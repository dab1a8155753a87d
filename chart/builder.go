package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrClosed is returned by every Builder method called after Close
var ErrClosed = errors.New("chart builder is closed")

var (
	// SummaryColor is matplotlib "lightblue"
	SummaryColor = color.RGBA{R: 173, G: 216, B: 230, A: 255}
	// LightColor is matplotlib "orange"
	LightColor = color.RGBA{R: 255, G: 165, B: 0, A: 255}
)

// Options controls the rendered image
type Options struct {
	Width    vg.Length // Image width (default: 6.4in)
	Height   vg.Length // Image height (default: 4.8in)
	BarWidth vg.Length // Width of a single bar (default: 18pt)
}

// DefaultOptions returns a 6.4x4.8 inch image with 18pt bars
func DefaultOptions() Options {
	return Options{
		Width:    6.4 * vg.Inch,
		Height:   4.8 * vg.Inch,
		BarWidth: vg.Points(18),
	}
}

// Validate applies defaults for unset fields and rejects negative sizes
func (o *Options) Validate() error {
	if o.Width < 0 || o.Height < 0 || o.BarWidth < 0 {
		return fmt.Errorf("chart sizes must not be negative (width=%v height=%v bar=%v)", o.Width, o.Height, o.BarWidth)
	}

	def := DefaultOptions()
	if o.Width == 0 {
		o.Width = def.Width
	}
	if o.Height == 0 {
		o.Height = def.Height
	}
	if o.BarWidth == 0 {
		o.BarWidth = def.BarWidth
	}
	return nil
}

// Builder renders one grouped bar chart. It owns its plot exclusively and
// must be closed once the image has been saved.
type Builder struct {
	opts       Options
	plot       *plot.Plot
	bars       []*plotter.BarChart
	categories []string
	references []float64
	closed     bool
}

// New creates a builder with the dark theme applied
func New(opts Options) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chart options: %w", err)
	}

	p := plot.New()
	applyDarkTheme(p)
	p.Legend.Top = true

	return &Builder{
		opts: opts,
		plot: p,
	}, nil
}

// SetCategories labels the x positions, one label per bar group
func (b *Builder) SetCategories(labels ...string) error {
	if b.closed {
		return ErrClosed
	}
	if len(b.bars) > 0 && len(labels) != len(b.bars[0].Values) {
		return fmt.Errorf("got %d categories for series of %d values", len(labels), len(b.bars[0].Values))
	}
	b.categories = append([]string(nil), labels...)
	b.plot.NominalX(b.categories...)
	applyDarkTheme(b.plot)
	return nil
}

// AddSeries adds one bar per category. Series are drawn side by side in the
// order they were added.
func (b *Builder) AddSeries(name string, values []float64, c color.Color) error {
	if b.closed {
		return ErrClosed
	}
	if n := b.groupSize(); n >= 0 && len(values) != n {
		return fmt.Errorf("series %q has %d values, want %d", name, len(values), n)
	}

	bar, err := plotter.NewBarChart(plotter.Values(values), b.opts.BarWidth)
	if err != nil {
		return fmt.Errorf("failed to create bar chart for %q: %w", name, err)
	}
	bar.Color = c
	bar.LineStyle.Color = color.White
	bar.LineStyle.Width = vg.Points(0.75)

	b.bars = append(b.bars, bar)
	b.plot.Add(bar)
	b.plot.Legend.Add(name, bar)
	b.layoutBars()
	return nil
}

// AddReferenceLine draws a dashed horizontal line at y across all categories
// and forces y onto the y-axis ticks.
func (b *Builder) AddReferenceLine(y float64) error {
	if b.closed {
		return ErrClosed
	}

	n := b.groupSize()
	if n < 1 {
		n = 1
	}
	line, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: y},
		{X: float64(n) - 0.5, Y: y},
	})
	if err != nil {
		return fmt.Errorf("failed to create reference line: %w", err)
	}
	line.Color = color.White
	line.Width = vg.Points(1)
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}

	b.plot.Add(line)
	b.references = append(b.references, y)
	b.plot.Y.Tick.Marker = referenceTicker{
		base:   plot.DefaultTicks{},
		values: append([]float64(nil), b.references...),
	}
	return nil
}

// SetLabels sets the title and the axis labels
func (b *Builder) SetLabels(title, xLabel, yLabel string) error {
	if b.closed {
		return ErrClosed
	}
	b.plot.Title.Text = title
	b.plot.X.Label.Text = xLabel
	b.plot.Y.Label.Text = yLabel
	return nil
}

// WriteTo renders the chart in the given format ("png", "svg", "pdf", ...)
func (b *Builder) WriteTo(w io.Writer, format string) (int64, error) {
	if b.closed {
		return 0, ErrClosed
	}
	wt, err := b.plot.WriterTo(b.opts.Width, b.opts.Height, format)
	if err != nil {
		return 0, fmt.Errorf("failed to render %s: %w", format, err)
	}
	return wt.WriteTo(w)
}

// Save renders the chart to path. The format is taken from the extension.
func (b *Builder) Save(path string) error {
	if b.closed {
		return ErrClosed
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return fmt.Errorf("cannot infer image format from %q", path)
	}

	wt, err := b.plot.WriterTo(b.opts.Width, b.opts.Height, format)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", format, err)
	}
	if err := writeFile(path, wt); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

// Close releases the plot. Closing twice is a no-op.
func (b *Builder) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.plot = nil
	b.bars = nil
	return nil
}

// groupSize returns the number of categories, or -1 if nothing fixes it yet
func (b *Builder) groupSize() int {
	if len(b.categories) > 0 {
		return len(b.categories)
	}
	if len(b.bars) > 0 {
		return len(b.bars[0].Values)
	}
	return -1
}

// layoutBars centres each bar group on its category tick
func (b *Builder) layoutBars() {
	n := len(b.bars)
	for i, bar := range b.bars {
		bar.Offset = vg.Length(float64(i)-float64(n-1)/2) * b.opts.BarWidth
	}
}
