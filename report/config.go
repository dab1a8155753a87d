package report

import (
	"fmt"

	"github.com/neehar-mavuduru/nmt-overhead-report/chart"
	"github.com/neehar-mavuduru/nmt-overhead-report/overhead"
)

const (
	DefaultInputPath = "BenchmarkResults.txt"
	MarkdownFileName = "REPORT.md"
	JSONFileName     = "report.json"
)

// Config holds the configuration for a report run
type Config struct {
	// Input
	InputPath string // Benchmark results table (default: BenchmarkResults.txt)

	// Iteration domains
	Regions   []int   // Region counts, one chart each (default: 100, 200, 400)
	Threads   []int   // Thread counts per chart (default: 2, 4, 8, 16)
	Reference float64 // Reference line in percent (default: 5)

	// Output
	OutputDir     string        // Directory for charts and summaries (default: ".")
	Chart         chart.Options // Image size and bar width
	WriteMarkdown bool          // Also write REPORT.md
	WriteJSON     bool          // Also write report.json
}

// DefaultConfig returns the configuration the NMT benchmark report has always used
func DefaultConfig() Config {
	oc := overhead.DefaultConfig()
	return Config{
		InputPath:     DefaultInputPath,
		Regions:       oc.Regions,
		Threads:       oc.Threads,
		Reference:     oc.Reference,
		OutputDir:     ".",
		Chart:         chart.DefaultOptions(),
		WriteMarkdown: false,
		WriteJSON:     false,
	}
}

// Validate checks if the configuration is valid and applies defaults where needed
func (c *Config) Validate() error {
	if c.InputPath == "" {
		c.InputPath = DefaultInputPath
	}

	if c.OutputDir == "" {
		c.OutputDir = "."
	}

	oc := c.overheadConfig()
	if err := oc.Validate(); err != nil {
		return fmt.Errorf("invalid comparison domains: %w", err)
	}
	c.Regions, c.Threads, c.Reference = oc.Regions, oc.Threads, oc.Reference

	return c.Chart.Validate()
}

func (c *Config) overheadConfig() overhead.Config {
	return overhead.Config{
		Regions:   c.Regions,
		Threads:   c.Threads,
		Reference: c.Reference,
	}
}
