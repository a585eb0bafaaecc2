package microbench

import (
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultWarmup is the number of discarded iterations run before measuring.
	DefaultWarmup = 0
	// DefaultRepeat is the number of measured iterations.
	DefaultRepeat = 50
)

// ErrInvalidOptions is the cause of every options validation failure.
var ErrInvalidOptions = errors.New("invalid benchmark options")

// ProgressFunc is called after each measured iteration with the number of
// completed iterations, the total, and the running average in milliseconds.
type ProgressFunc func(done, total int, avg float64)

// CPUClock reports cumulative user and system CPU time. Run samples it
// before and after the measured iterations.
type CPUClock func() (user, system time.Duration, err error)

// Options controls a single benchmark run.
type Options struct {
	Warmup        int
	Repeat        int
	TrackValidity bool
	Progress      ProgressFunc
	// CPUClock defaults to this process's own CPU time. Tasks that spend
	// their time in child processes need a clock that counts those.
	CPUClock CPUClock
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Warmup: DefaultWarmup,
		Repeat: DefaultRepeat,
	}
}

// WithWarmup sets the number of warm-up iterations.
func WithWarmup(n int) Option {
	return func(o *Options) { o.Warmup = n }
}

// WithRepeat sets the number of measured iterations.
func WithRepeat(n int) Option {
	return func(o *Options) { o.Repeat = n }
}

// WithValidity enables OR-accumulation of the truthiness of every result.
func WithValidity(track bool) Option {
	return func(o *Options) { o.TrackValidity = track }
}

// WithProgress installs a per-iteration progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Options) { o.Progress = fn }
}

// WithCPUClock sets the clock used for Result.UserTime and Result.SystemTime.
func WithCPUClock(clock CPUClock) Option {
	return func(o *Options) { o.CPUClock = clock }
}

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

func (o Options) validate() error {
	if o.Repeat < 1 {
		return errors.Wrapf(ErrInvalidOptions, "repeat must be at least 1, got %d", o.Repeat)
	}
	if o.Warmup < 0 {
		return errors.Wrapf(ErrInvalidOptions, "warmup must not be negative, got %d", o.Warmup)
	}
	return nil
}

func buildOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o, o.validate()
}
