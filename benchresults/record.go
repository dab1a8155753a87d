package benchresults

import (
	"strings"
)

// Mode is an NMT instrumentation level. Benchmark names carry it as a substring.
type Mode string

const (
	ModeOff     Mode = "Off"
	ModeSummary Mode = "Summary"
	ModeLight   Mode = "Light"
)

// Column headers the loader requires
const (
	ColumnThreads   = "(THREADS)"
	ColumnRegions   = "(REGIONS)"
	ColumnBenchmark = "Benchmark"
	ColumnScore     = "Score"
	ColumnError     = "Error"
)

var requiredColumns = []string{ColumnThreads, ColumnRegions, ColumnBenchmark, ColumnScore, ColumnError}

// Record is one row of a benchmark results table
type Record struct {
	Threads   int
	Regions   int
	Benchmark string
	Score     float64
	Error     float64 // Symmetric error margin around Score

	// Extra holds the raw values of non-required columns (Mode, Cnt, Units, ...)
	Extra map[string]string

	// Line is the 1-based source line, 0 for records built in code
	Line int
}

// HasMode reports whether the benchmark name contains the mode marker
func (r Record) HasMode(mode Mode) bool {
	return strings.Contains(r.Benchmark, string(mode))
}

// Dataset is an ordered, immutable collection of records
type Dataset struct {
	columns []string
	records []Record
}

// NewDataset copies records into a new Dataset
func NewDataset(records []Record) *Dataset {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Dataset{
		columns: append([]string(nil), requiredColumns...),
		records: cp,
	}
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.records)
}

// Columns returns the header columns in source order
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// Records returns a copy of all records in source order
func (d *Dataset) Records() []Record {
	cp := make([]Record, len(d.records))
	copy(cp, d.records)
	return cp
}

// Filter returns the records measured with the given thread and region counts
func (d *Dataset) Filter(threads, regions int) []Record {
	var out []Record
	for _, r := range d.records {
		if r.Threads == threads && r.Regions == regions {
			out = append(out, r)
		}
	}
	return out
}

// FindOne returns the single record for (threads, regions) whose name contains
// the mode marker. Zero or multiple matches return a *MatchError.
func (d *Dataset) FindOne(threads, regions int, mode Mode) (Record, error) {
	var (
		found Record
		count int
	)
	for _, r := range d.Filter(threads, regions) {
		if !r.HasMode(mode) {
			continue
		}
		found = r
		count++
	}

	if count != 1 {
		return Record{}, &MatchError{
			Threads: threads,
			Regions: regions,
			Mode:    mode,
			Count:   count,
		}
	}
	return found, nil
}
