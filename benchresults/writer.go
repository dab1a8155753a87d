package benchresults

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// WriteTable writes records in JMH's text result layout:
//
//	Benchmark  (REGIONS)  (THREADS)  Mode  Cnt  Score    Error  Units
//	X.NMTOff         100          2  avgt    5  12.345 ± 0.123  ms/op
//
// Mode, Cnt and Units come from Record.Extra and default to avgt, 5 and ms/op.
func WriteTable(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	tw := tabwriter.NewWriter(bw, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "%s\t%s\t%s\tMode\tCnt\t%s\t\t%s\tUnits\t\n",
		ColumnBenchmark, ColumnRegions, ColumnThreads, ColumnScore, ColumnError)

	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Benchmark, r.Regions, r.Threads,
			extraOr(r, "Mode", "avgt"),
			extraOr(r, "Cnt", "5"),
			strconv.FormatFloat(r.Score, 'f', 3, 64),
			plusMinus,
			strconv.FormatFloat(r.Error, 'f', 3, 64),
			extraOr(r, "Units", "ms/op"))
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	return bw.Flush()
}

func extraOr(r Record, key, def string) string {
	if v, ok := r.Extra[key]; ok && v != "" {
		return v
	}
	return def
}
