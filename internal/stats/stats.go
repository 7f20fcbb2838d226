// Package stats builds and prints the end-of-run timing report: per
// vertex call counts and CPU time, plus pool-wide totals, in the same
// shape as the scheduler's historical stdout report.
package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"
)

// VertexReport is one row of the stats report.
type VertexReport struct {
	Name       string  `json:"name"`
	NCalls     uint64  `json:"ncalls"`
	TotalTicks int64   `json:"total_ticks"`
	Percentage float64 `json:"percentage"`
}

// Report is the full end-of-run report: one row per vertex plus the
// pool-wide totals needed to judge utilization across threads.
type Report struct {
	Vertices   []VertexReport `json:"vertices"`
	NThreads   int            `json:"nthreads"`
	Elapsed    time.Duration  `json:"elapsed_ns"`
	TotalTicks int64          `json:"total_ticks"`
	PercentSum float64        `json:"percent_sum"`
	PerThread  float64        `json:"per_thread"`
}

// Build assembles a Report from per-vertex name/ncalls/ticks triples,
// the thread count the run used, and its wall-clock elapsed time. Each
// vertex's Percentage is measured against the run's own elapsed ticks,
// not against the sum of the rows themselves, so PercentSum/PerThread
// reflect actual parallel utilization (and can exceed 100% when
// multiple threads are concurrently busy) rather than being a
// mathematical identity.
func Build(rows []VertexReport, nthreads int, elapsed time.Duration) Report {
	elapsedTicks := elapsed.Nanoseconds()

	var total int64
	for _, r := range rows {
		total += r.TotalTicks
	}

	out := make([]VertexReport, len(rows))
	copy(out, rows)
	var percentSum float64
	for i := range out {
		if elapsedTicks > 0 {
			out[i].Percentage = 100 * float64(out[i].TotalTicks) / float64(elapsedTicks)
		}
		percentSum += out[i].Percentage
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	perThread := 0.0
	if nthreads > 0 {
		perThread = percentSum / float64(nthreads)
	}

	return Report{
		Vertices:   out,
		NThreads:   nthreads,
		Elapsed:    elapsed,
		TotalTicks: total,
		PercentSum: percentSum,
		PerThread:  perThread,
	}
}

// Fprint writes the report to w in the scheduler's historical stdout
// format: one line per vertex, then a pool-wide summary.
func Fprint(w io.Writer, r Report) {
	for _, v := range r.Vertices {
		fmt.Fprintf(w, "%-24s calls=%-8d cpu_ticks=%-12d pct=%6.2f%%\n",
			v.Name, v.NCalls, v.TotalTicks, v.Percentage)
	}
	fmt.Fprintf(w, "threads=%d elapsed=%s cpu_ticks=%d pct_total=%6.2f%% per_thread=%6.2f%%\n",
		r.NThreads, r.Elapsed, r.TotalTicks, r.PercentSum, r.PerThread)
}

// JSON encodes the report for telemetry sinks.
func (r Report) JSON() ([]byte, error) {
	return json.Marshal(r)
}
