package report

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/neehar-mavuduru/nmt-overhead-report/overhead"
)

// writeMarkdown writes a human readable summary. It carries no timestamp so
// that unchanged input reproduces the same file.
func writeMarkdown(path string, config Config, series []overhead.Series, summaries []overhead.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	fmt.Fprintln(w, "# NMT Overhead Report")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "**Input**: %s\n", config.InputPath)
	fmt.Fprintf(w, "**Regions**: %s\n", joinInts(config.Regions))
	fmt.Fprintf(w, "**Threads**: %s\n", joinInts(config.Threads))
	fmt.Fprintf(w, "**Reference**: %g%%\n", config.Reference)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Overhead is (mode score + error - (off score - error)) / (off score - error).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "---")
	fmt.Fprintln(w)

	// Executive summary
	fmt.Fprintln(w, "## Summary")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Regions | Summary mean | Summary max | Light mean | Light max | Over reference (S/L) |")
	fmt.Fprintln(w, "|---------|--------------|-------------|------------|-----------|----------------------|")
	for _, s := range summaries {
		fmt.Fprintf(w, "| %d | %.2f%% | %.2f%% | %.2f%% | %.2f%% | %d/%d |\n",
			s.Regions, s.Summary.Mean, s.Summary.Max, s.Light.Mean, s.Light.Max,
			s.Summary.OverReference, s.Light.OverReference)
	}
	fmt.Fprintln(w)

	// Per-region detail
	for _, s := range series {
		fmt.Fprintf(w, "## Regions = %d\n", s.Regions)
		fmt.Fprintln(w)
		fmt.Fprintf(w, "![%d regions](%s)\n", s.Regions, ChartFileName(s.Regions))
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Threads | Off (adj) | Summary (adj) | Light (adj) | Summary % | Light % |")
		fmt.Fprintln(w, "|---------|-----------|---------------|-------------|-----------|---------|")
		for _, p := range s.Points {
			fmt.Fprintf(w, "| %d | %.3f | %.3f | %.3f | %s%% | %s%% |\n",
				p.Threads, p.OffAdjusted, p.SummaryAdjusted, p.LightAdjusted,
				strings.TrimSpace(overhead.FormatPercent(p.SummaryPct)),
				strings.TrimSpace(overhead.FormatPercent(p.LightPct)))
		}
		fmt.Fprintln(w)
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
