package microbench

import "context"

// Func is a unit of work to be benchmarked. The returned value feeds the
// validity check and may be an Awaitable if the work completes later.
type Func func(ctx context.Context) (any, error)

// Task is a named unit of work.
type Task struct {
	Name string
	Fn   Func
}

// Awaitable is a result whose work is still in flight. The harness awaits it
// inside the same timing window as the call that produced it.
type Awaitable interface {
	Await(ctx context.Context) (any, error)
}

// Future is an Awaitable backed by a goroutine.
type Future struct {
	done  chan struct{}
	value any
	err   error
}

// Async starts fn on its own goroutine and returns a Future for its outcome.
func Async(ctx context.Context, fn Func) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Await blocks until the work finishes or ctx is done.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// resolve invokes fn and, when the value it returns is Awaitable, waits for
// it. Every task goes through here so sync and async work share one path.
func resolve(ctx context.Context, fn Func) (any, error) {
	v, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	for {
		a, ok := v.(Awaitable)
		if !ok {
			return v, nil
		}
		if v, err = a.Await(ctx); err != nil {
			return nil, err
		}
	}
}
