// Package microbench times small units of work and reports latency
// statistics to the console and to a text report next to the calling file.
package microbench

import (
	"context"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// Result summarizes one benchmark. All latencies are in milliseconds.
type Result struct {
	Name    string    `json:"name"`
	Timings []float64 `json:"timings"`

	Avg        float64 `json:"avg"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	P75        float64 `json:"p75"`
	P99        float64 `json:"p99"`
	P995       float64 `json:"p995"`
	IterPerSec float64 `json:"iter_per_sec"`
	StdDev     float64 `json:"std_dev"`

	// Valid is set when any invocation returned a truthy value. It is only
	// meaningful when Validity is true.
	Valid    bool `json:"valid"`
	Validity bool `json:"validity"`

	// CPU time consumed per measured iteration, as seen by the run's CPUClock.
	UserTime   time.Duration `json:"user_time"`
	SystemTime time.Duration `json:"system_time"`
}

// Run executes task according to opts and returns its statistics. The first
// error returned by the task aborts the run.
func Run(ctx context.Context, task Task, opts ...Option) (Result, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return Result{}, errors.Wrapf(err, "benchmark %q", task.Name)
	}
	if task.Fn == nil {
		return Result{}, errors.Wrapf(ErrInvalidOptions, "benchmark %q has no function", task.Name)
	}

	var valid bool
	for i := 0; i < o.Warmup; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, errors.Wrapf(err, "benchmark %q: warmup %d", task.Name, i)
		}
		v, err := resolve(ctx, task.Fn)
		if err != nil {
			return Result{}, errors.Wrapf(err, "benchmark %q: warmup %d", task.Name, i)
		}
		if o.TrackValidity && !valid {
			valid = Truthy(v)
		}
	}

	clock := o.CPUClock
	if clock == nil {
		clock = cpuTimes
	}
	startUser, startSys, cpuErr := clock()

	var total float64
	timings := make([]float64, o.Repeat)
	for i := 0; i < o.Repeat; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, errors.Wrapf(err, "benchmark %q: iteration %d", task.Name, i)
		}
		begin := time.Now()
		v, err := resolve(ctx, task.Fn)
		elapsed := time.Since(begin)
		if err != nil {
			return Result{}, errors.Wrapf(err, "benchmark %q: iteration %d", task.Name, i)
		}
		if o.TrackValidity && !valid {
			valid = Truthy(v)
		}

		timings[i] = float64(elapsed) / float64(time.Millisecond)
		total += timings[i]
		if o.Progress != nil {
			o.Progress(i+1, o.Repeat, total/float64(i+1))
		}
	}

	result := Summarize(task.Name, timings)
	result.Valid = valid
	result.Validity = o.TrackValidity

	if cpuErr == nil {
		if endUser, endSys, err := clock(); err == nil {
			result.UserTime = (endUser - startUser) / time.Duration(o.Repeat)
			result.SystemTime = (endSys - startSys) / time.Duration(o.Repeat)
		}
	}
	return result, nil
}

// Bench accumulates results for one program run and prints them as a table.
// A Bench is not safe for concurrent use.
type Bench struct {
	// Output receives the console copy of the table.
	Output io.Writer
	// Color enables ANSI styling of the console copy.
	Color bool
	// Report locates the persisted copy of the table.
	Report Report

	results []Result
}

// New returns a Bench whose report is keyed by the file that called New.
func New() *Bench {
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		file = os.Args[0]
	}
	return NewFor(file)
}

// NewFor returns a Bench whose report is keyed by file: the table is
// persisted to <dir of file>/bench/<file base name>.txt.
func NewFor(file string) *Bench {
	return &Bench{
		Output: color.Output,
		Color:  !color.NoColor,
		Report: ReportFor(file),
	}
}

// Bench runs fn under name and appends the result.
func (b *Bench) Bench(ctx context.Context, name string, fn Func, opts ...Option) error {
	result, err := Run(ctx, Task{Name: name, Fn: fn}, opts...)
	if err != nil {
		return err
	}
	b.results = append(b.results, result)
	return nil
}

// Results returns a copy of the accumulated results in run order.
func (b *Bench) Results() []Result {
	results := make([]Result, len(b.results))
	copy(results, b.results)
	return results
}

// Print writes the table to Output and to the report file.
func (b *Bench) Print() error {
	return b.Report.Write(b.Output, b.results, b.Color)
}
