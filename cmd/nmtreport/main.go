package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/neehar-mavuduru/nmt-overhead-report/publish"
	"github.com/neehar-mavuduru/nmt-overhead-report/report"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("[ERROR] Report generation failed: %v", err)
	}
}

func run() error {
	defaults := report.DefaultConfig()

	input := flag.String("input", defaults.InputPath, "Benchmark results table (plain, gzip or zstd)")
	outDir := flag.String("out", defaults.OutputDir, "Directory for charts and summaries")
	regions := flag.String("regions", joinInts(defaults.Regions), "Comma separated region counts, one chart each")
	threads := flag.String("threads", joinInts(defaults.Threads), "Comma separated thread counts, in chart order")
	reference := flag.Float64("reference", defaults.Reference, "Reference overhead line in percent")
	markdown := flag.Bool("markdown", false, "Also write REPORT.md")
	jsonOut := flag.Bool("json", false, "Also write report.json")
	bucket := flag.String("gcs-bucket", "", "Publish artifacts to this GCS bucket")
	prefix := flag.String("gcs-prefix", "nmt-reports", "Object prefix inside the GCS bucket")
	useGRPC := flag.Bool("gcs-grpc", false, "Use the gRPC storage API")
	retries := flag.Int("gcs-retries", 3, "Max upload retries per artifact")
	flag.Parse()

	config := defaults
	config.InputPath = *input
	config.OutputDir = *outDir
	config.Reference = *reference
	config.WriteMarkdown = *markdown
	config.WriteJSON = *jsonOut

	if *reference <= 0 {
		return fmt.Errorf("invalid -reference: must be positive, got %g", *reference)
	}

	var err error
	if config.Regions, err = parseInts(*regions); err != nil {
		return fmt.Errorf("invalid -regions: %w", err)
	}
	if config.Threads, err = parseInts(*threads); err != nil {
		return fmt.Errorf("invalid -threads: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	generator, err := report.NewGenerator(config, os.Stdout)
	if err != nil {
		return err
	}

	if *bucket != "" {
		pubConfig := publish.DefaultConfig(*bucket)
		pubConfig.ObjectPrefix = *prefix
		pubConfig.UseGRPC = *useGRPC
		pubConfig.MaxRetries = *retries

		publisher, err := publish.New(ctx, pubConfig)
		if err != nil {
			return fmt.Errorf("failed to create publisher: %w", err)
		}
		defer publisher.Close()
		generator.SetPublisher(publisher)
		log.Printf("[INFO] Publishing to gs://%s/%s/%s", *bucket, *prefix, publisher.RunID())
	}

	start := time.Now()
	result, err := generator.Run(ctx)
	if err != nil {
		return err
	}

	log.Printf("[INFO] Wrote %d artifacts to %s in %v", len(result.Artifacts), config.OutputDir, time.Since(start))
	for _, path := range result.Artifacts {
		log.Printf("[INFO]   - %s", path)
	}
	return nil
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
