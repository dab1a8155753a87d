package benchresults

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	// plusMinus separates score and error in JMH's human readable output
	plusMinus = "±"

	maxLineSize = 1024 * 1024 // 1MB
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Load reads a benchmark results table from path
func Load(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer file.Close()

	dataset, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return dataset, nil
}

// Parse reads a whitespace-delimited table whose first row is the header.
// Gzip and zstd compressed input is detected by magic number.
func Parse(r io.Reader) (*Dataset, error) {
	plain, closeFn, err := decompress(r)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	scanner := bufio.NewScanner(plain)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var (
		header  []string
		index   map[string]int
		records []Record
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if header == nil {
			header = fields
			index, err = indexColumns(header)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Err: err}
			}
			continue
		}

		record, err := parseRecord(header, index, fields)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Err: err}
		}
		record.Line = lineNo
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	if header == nil {
		return nil, ErrEmptyInput
	}

	return &Dataset{columns: header, records: records}, nil
}

func indexColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return index, nil
}

func parseRecord(header []string, index map[string]int, fields []string) (Record, error) {
	// JMH prints "Score ± Error" under the two column headers "Score Error"
	if len(fields) == len(header)+1 {
		for i, f := range fields {
			if f == plusMinus {
				fields = append(fields[:i:i], fields[i+1:]...)
				break
			}
		}
	}

	if len(fields) != len(header) {
		return Record{}, fmt.Errorf("expected %d fields, got %d", len(header), len(fields))
	}

	var (
		record Record
		err    error
	)

	record.Benchmark = fields[index[ColumnBenchmark]]

	if record.Threads, err = strconv.Atoi(fields[index[ColumnThreads]]); err != nil {
		return Record{}, fmt.Errorf("invalid %s value %q: %w", ColumnThreads, fields[index[ColumnThreads]], err)
	}
	if record.Regions, err = strconv.Atoi(fields[index[ColumnRegions]]); err != nil {
		return Record{}, fmt.Errorf("invalid %s value %q: %w", ColumnRegions, fields[index[ColumnRegions]], err)
	}
	if record.Score, err = strconv.ParseFloat(fields[index[ColumnScore]], 64); err != nil {
		return Record{}, fmt.Errorf("invalid %s value %q: %w", ColumnScore, fields[index[ColumnScore]], err)
	}
	if record.Error, err = strconv.ParseFloat(fields[index[ColumnError]], 64); err != nil {
		return Record{}, fmt.Errorf("invalid %s value %q: %w", ColumnError, fields[index[ColumnError]], err)
	}

	for i, name := range header {
		if isRequired(name) {
			continue
		}
		if record.Extra == nil {
			record.Extra = make(map[string]string)
		}
		record.Extra[name] = fields[i]
	}

	return record, nil
}

func isRequired(name string) bool {
	for _, c := range requiredColumns {
		if c == name {
			return true
		}
	}
	return false
}

// decompress wraps r with a gzip or zstd reader when the stream starts with
// the matching magic number
func decompress(r io.Reader) (io.Reader, func(), error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(len(zstdMagic))

	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return zr, func() { zr.Close() }, nil
	case bytes.HasPrefix(magic, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return zr, zr.Close, nil
	default:
		return br, func() {}, nil
	}
}
