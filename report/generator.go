package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/neehar-mavuduru/nmt-overhead-report/benchresults"
	"github.com/neehar-mavuduru/nmt-overhead-report/chart"
	"github.com/neehar-mavuduru/nmt-overhead-report/overhead"
)

// Publisher uploads finished artifacts. *publish.Publisher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, paths []string) ([]string, error)
}

// Result describes what a run produced
type Result struct {
	Series    []overhead.Series
	Summaries []overhead.Summary
	Charts    []string // Chart paths, one per rendered region
	Artifacts []string // All written files in write order
	Published []string // Object names, when a publisher is set
}

// Generator turns a benchmark results table into overhead charts
type Generator struct {
	config    Config
	out       io.Writer
	publisher Publisher
}

// NewGenerator creates a generator that prints comparison lines to out
func NewGenerator(config Config, out io.Writer) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if out == nil {
		out = io.Discard
	}
	return &Generator{config: config, out: out}, nil
}

// SetPublisher uploads every artifact after rendering. nil disables publishing.
func (g *Generator) SetPublisher(p Publisher) {
	g.publisher = p
}

// Run loads the configured input and generates the report
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	dataset, err := benchresults.Load(g.config.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmark results: %w", err)
	}
	log.Printf("[INFO] Loaded %d benchmark records from %s", dataset.Len(), g.config.InputPath)

	return g.RunDataset(ctx, dataset)
}

// RunDataset generates the report from an already loaded dataset.
//
// Every comparison point is computed before anything is written, so a data
// integrity failure leaves no partial output behind. A chart that fails to
// render is skipped; the remaining regions still render and all render
// errors are returned together.
func (g *Generator) RunDataset(ctx context.Context, dataset overhead.Source) (*Result, error) {
	calc, err := overhead.NewCalculator(g.config.overheadConfig(), dataset)
	if err != nil {
		return nil, err
	}

	series, err := calc.All()
	if err != nil {
		return nil, fmt.Errorf("data integrity check failed: %w", err)
	}

	result := &Result{Series: series}
	for _, s := range series {
		result.Summaries = append(result.Summaries, overhead.Summarize(s, g.config.Reference))
	}

	for _, s := range series {
		for _, p := range s.Points {
			if _, err := fmt.Fprintln(g.out, p.Line()); err != nil {
				return nil, fmt.Errorf("failed to write comparison line: %w", err)
			}
		}
	}

	if err := os.MkdirAll(g.config.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var renderErrs []error
	for _, s := range series {
		if err := ctx.Err(); err != nil {
			return result, errors.Join(append(renderErrs, err)...)
		}

		path := filepath.Join(g.config.OutputDir, ChartFileName(s.Regions))
		if err := g.renderSeries(path, s); err != nil {
			log.Printf("[ERROR] Failed to render chart for %d regions: %v", s.Regions, err)
			renderErrs = append(renderErrs, fmt.Errorf("regions=%d: %w", s.Regions, err))
			continue
		}
		result.Charts = append(result.Charts, path)
		result.Artifacts = append(result.Artifacts, path)
	}

	if g.config.WriteMarkdown {
		path := filepath.Join(g.config.OutputDir, MarkdownFileName)
		if err := writeMarkdown(path, g.config, series, result.Summaries); err != nil {
			return result, fmt.Errorf("failed to write markdown report: %w", err)
		}
		result.Artifacts = append(result.Artifacts, path)
	}

	if g.config.WriteJSON {
		path := filepath.Join(g.config.OutputDir, JSONFileName)
		if err := writeJSON(path, g.config, series, result.Summaries); err != nil {
			return result, fmt.Errorf("failed to write json report: %w", err)
		}
		result.Artifacts = append(result.Artifacts, path)
	}

	if g.publisher != nil && len(result.Artifacts) > 0 {
		objects, err := g.publisher.Publish(ctx, result.Artifacts)
		result.Published = objects
		if err != nil {
			return result, errors.Join(append(renderErrs, fmt.Errorf("failed to publish artifacts: %w", err))...)
		}
	}

	return result, errors.Join(renderErrs...)
}

// ChartFileName names the chart of one region count, e.g. "100_plot.png"
func ChartFileName(regions int) string {
	return fmt.Sprintf("%d_plot.png", regions)
}

// ChartTitle is the title of the chart of one region count
func ChartTitle(regions int) string {
	return fmt.Sprintf("Comparison of overhead of\nSummary and Light mode\nwith NMT Off (Regions=%d per thread)", regions)
}

// renderSeries draws one region's chart on its own builder and releases it
func (g *Generator) renderSeries(path string, s overhead.Series) error {
	b, err := chart.New(g.config.Chart)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.SetCategories(s.ThreadLabels()...); err != nil {
		return err
	}
	if err := b.AddSeries("Summary", s.SummaryValues(), chart.SummaryColor); err != nil {
		return err
	}
	if err := b.AddSeries("Light", s.LightValues(), chart.LightColor); err != nil {
		return err
	}
	if err := b.AddReferenceLine(g.config.Reference); err != nil {
		return err
	}
	if err := b.SetLabels(ChartTitle(s.Regions), "Threads", "% over NMT Off"); err != nil {
		return err
	}
	return b.Save(path)
}
