// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// Result summarizes a benchmark run.
type Result struct {
	Duration           time.Duration
	TotalRequests      int64
	SuccessfulRequests int64
	// Throughput is successful requests per second.
	Throughput float64
	// Latency is the mean milliseconds per successful request.
	Latency float64
}

func newResult(duration time.Duration, total, successful int64, elapsed time.Duration) *Result {
	r := &Result{
		Duration:           duration,
		TotalRequests:      total,
		SuccessfulRequests: successful,
	}
	if duration > 0 {
		r.Throughput = float64(successful) / duration.Seconds()
	}
	if successful > 0 {
		r.Latency = float64(elapsed) / float64(time.Millisecond) / float64(successful)
	}

	return r
}

// Failures returns the number of requests that did not succeed.
func (r *Result) Failures() int64 {
	return r.TotalRequests - r.SuccessfulRequests
}

// Print writes the result as a table.
func (r *Result) Print(w io.Writer) error {
	table := uitable.New()
	table.Separator = " "
	table.AddRow(color.New(color.Bold).Sprint("producer"), "")
	table.AddRow("  duration:", fmt.Sprintf("%.2fs", r.Duration.Seconds()))
	table.AddRow("  total requests:", r.TotalRequests)
	table.AddRow("  successful requests:", r.SuccessfulRequests)
	failures := fmt.Sprint(r.Failures())
	if r.Failures() > 0 {
		failures = color.RedString(failures)
	}
	table.AddRow("  failures:", failures)
	table.AddRow("  throughput:", fmt.Sprintf("%.2f req/s", r.Throughput))
	table.AddRow("  latency:", fmt.Sprintf("%.2f ms/req", r.Latency))

	_, err := fmt.Fprintln(w, table.String())
	return err
}
