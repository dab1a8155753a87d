package report

import (
	"fmt"
	"os"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/neehar-mavuduru/nmt-overhead-report/overhead"
)

// buildSummary assembles the machine readable report as a protobuf Struct
func buildSummary(config Config, series []overhead.Series, summaries []overhead.Summary) (*structpb.Struct, error) {
	regions := make([]any, 0, len(series))
	for i, s := range series {
		points := make([]any, 0, len(s.Points))
		for _, p := range s.Points {
			points = append(points, map[string]any{
				"threads":          p.Threads,
				"off_adjusted":     p.OffAdjusted,
				"summary_adjusted": p.SummaryAdjusted,
				"light_adjusted":   p.LightAdjusted,
				"summary_pct":      p.SummaryPct,
				"light_pct":        p.LightPct,
			})
		}

		entry := map[string]any{
			"regions": s.Regions,
			"chart":   ChartFileName(s.Regions),
			"points":  points,
		}
		if i < len(summaries) {
			entry["summary"] = modeSummary(summaries[i].Summary)
			entry["light"] = modeSummary(summaries[i].Light)
		}
		regions = append(regions, entry)
	}

	threads := make([]any, len(config.Threads))
	for i, t := range config.Threads {
		threads[i] = t
	}

	return structpb.NewStruct(map[string]any{
		"input":     config.InputPath,
		"reference": config.Reference,
		"threads":   threads,
		"regions":   regions,
	})
}

func modeSummary(ms overhead.ModeSummary) map[string]any {
	return map[string]any{
		"mean":           ms.Mean,
		"max":            ms.Max,
		"over_reference": ms.OverReference,
	}
}

// writeJSON encodes the report summary with protojson
func writeJSON(path string, config Config, series []overhead.Series, summaries []overhead.Summary) error {
	summary, err := buildSummary(config, series, summaries)
	if err != nil {
		return fmt.Errorf("failed to build summary: %w", err)
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	return os.WriteFile(path, append(data, '\n'), 0o644)
}
